package widestore

import (
	"context"

	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"github.com/abhisek/learnlink/internal/store"
)

const (
	insertStudentPortfolio = `INSERT INTO student_portfolio (email, status, course_title, name, grade, course_id, user_id) VALUES (?, ?, ?, ?, ?, ?, ?)`
	insertCourseActivity   = `INSERT INTO course_activity (course_title, status, email, name, grade, course_id, user_id) VALUES (?, ?, ?, ?, ?, ?, ?)`

	selectStudentPortfolio = `SELECT email, status, course_title, name, grade, course_id, user_id FROM student_portfolio WHERE email = ? AND status = ?`
	selectCourseActivity   = `SELECT email, status, course_title, name, grade, course_id, user_id FROM course_activity WHERE course_title = ? AND status = ?`
	countCourseActivity    = `SELECT COUNT(*) FROM course_activity WHERE course_title = ? AND status = ?`
)

func (s *Store) InsertPortfolioByStudent(ctx context.Context, p store.PortfolioRecord) error {
	return s.exec(ctx, "insert student_portfolio", insertStudentPortfolio,
		p.Email, string(p.Status), p.CourseTitle, p.Name, p.Grade, gocql.UUID(p.CourseID), gocql.UUID(p.UserID))
}

func (s *Store) InsertPortfolioByCourse(ctx context.Context, p store.PortfolioRecord) error {
	return s.exec(ctx, "insert course_activity", insertCourseActivity,
		p.CourseTitle, string(p.Status), p.Email, p.Name, p.Grade, gocql.UUID(p.CourseID), gocql.UUID(p.UserID))
}

func (s *Store) StudentPortfolio(ctx context.Context, email string, status store.Status) ([]store.PortfolioRecord, error) {
	return s.scanPortfolio(ctx, "select student_portfolio", selectStudentPortfolio, email, string(status))
}

func (s *Store) CourseActivity(ctx context.Context, courseTitle string, status store.Status) ([]store.PortfolioRecord, error) {
	return s.scanPortfolio(ctx, "select course_activity", selectCourseActivity, courseTitle, string(status))
}

func (s *Store) CountCourseActivity(ctx context.Context, courseTitle string, status store.Status) (int64, error) {
	var n int64
	err := s.session.Query(countCourseActivity, courseTitle, string(status)).WithContext(ctx).Scan(&n)
	if err != nil {
		return 0, mapError("count course_activity", err)
	}
	return n, nil
}

func (s *Store) scanPortfolio(ctx context.Context, op, stmt string, values ...any) ([]store.PortfolioRecord, error) {
	scanner := s.session.Query(stmt, values...).WithContext(ctx).Iter().Scanner()

	var out []store.PortfolioRecord
	for scanner.Next() {
		var (
			p                store.PortfolioRecord
			status           string
			grade            *float64
			courseID, userID gocql.UUID
		)
		if err := scanner.Scan(&p.Email, &status, &p.CourseTitle, &p.Name, &grade, &courseID, &userID); err != nil {
			_ = scanner.Err()
			return nil, mapError(op, err)
		}
		p.Status = store.Status(status)
		p.Grade = normalizeGrade(p.Status, grade)
		p.CourseID = uuid.UUID(courseID)
		p.UserID = uuid.UUID(userID)
		out = append(out, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, mapError(op, err)
	}
	return out, nil
}

// normalizeGrade treats the 0.0 written by older enrollments under active
// status as ungraded.
func normalizeGrade(status store.Status, grade *float64) *float64 {
	if grade == nil {
		return nil
	}
	if status == store.StatusActive && *grade == 0 {
		return nil
	}
	g := *grade
	return &g
}
