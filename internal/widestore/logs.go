package widestore

import (
	"context"
	"time"

	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"github.com/abhisek/learnlink/internal/store"
)

const (
	insertLogByUser = `INSERT INTO logs_by_user (email, action, action_date, user_id, name, role) VALUES (?, ?, ?, ?, ?, ?)`
	insertLogByRole = `INSERT INTO logs_by_role (role, email, action_date, name, action, user_id) VALUES (?, ?, ?, ?, ?, ?)`

	selectLogsByUser       = `SELECT email, action, action_date, user_id, name, role FROM logs_by_user WHERE email = ?`
	selectLogsByUserAction = `SELECT email, action, action_date, user_id, name, role FROM logs_by_user WHERE email = ? AND action = ?`
	selectLogsByRole       = `SELECT email, action, action_date, user_id, name, role FROM logs_by_role WHERE role = ?`
)

func (s *Store) AppendLogByUser(ctx context.Context, l store.SessionLog) error {
	return s.exec(ctx, "insert logs_by_user", insertLogByUser,
		l.Email, string(l.Action), l.ActionDate, gocql.UUID(l.UserID), l.Name, string(l.Role))
}

func (s *Store) AppendLogByRole(ctx context.Context, l store.SessionLog) error {
	return s.exec(ctx, "insert logs_by_role", insertLogByRole,
		string(l.Role), l.Email, l.ActionDate, l.Name, string(l.Action), gocql.UUID(l.UserID))
}

// logsByUserQuery picks the statement and values for an optional action
// filter.
func logsByUserQuery(email string, action store.Action) (string, []any) {
	if action == "" {
		return selectLogsByUser, []any{email}
	}
	return selectLogsByUserAction, []any{email, string(action)}
}

func (s *Store) LogsByUser(ctx context.Context, email string, action store.Action) ([]store.SessionLog, error) {
	stmt, values := logsByUserQuery(email, action)
	return s.scanLogs(ctx, "select logs_by_user", stmt, values...)
}

func (s *Store) LogsByRole(ctx context.Context, role store.Role) ([]store.SessionLog, error) {
	return s.scanLogs(ctx, "select logs_by_role", selectLogsByRole, string(role))
}

func (s *Store) scanLogs(ctx context.Context, op, stmt string, values ...any) ([]store.SessionLog, error) {
	scanner := s.session.Query(stmt, values...).WithContext(ctx).Iter().Scanner()

	var out []store.SessionLog
	for scanner.Next() {
		var (
			l            store.SessionLog
			action, role string
			date         time.Time
			userID       gocql.UUID
		)
		if err := scanner.Scan(&l.Email, &action, &date, &userID, &l.Name, &role); err != nil {
			_ = scanner.Err()
			return nil, mapError(op, err)
		}
		l.Action = store.Action(action)
		l.Role = store.Role(role)
		l.ActionDate = date
		l.UserID = uuid.UUID(userID)
		out = append(out, l)
	}
	if err := scanner.Err(); err != nil {
		return nil, mapError(op, err)
	}
	return out, nil
}
