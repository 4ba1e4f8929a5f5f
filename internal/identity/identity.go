// Package identity authenticates users against the document store and
// records their sessions in the wide-column store.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/learnlink/internal/logger"
	"github.com/abhisek/learnlink/internal/store"
	"github.com/abhisek/learnlink/internal/validate"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

var errUserHasNoID = errors.New("user has no uuid")

// Users looks accounts up by email.
type Users interface {
	FindUserByEmail(ctx context.Context, email string) (*store.User, error)
}

// Service logs users in and out.
type Service struct {
	users   Users
	logs    store.SessionLogRepo
	journal store.OutcomeRepo
	log     *logger.Logger
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

func WithJournal(j store.OutcomeRepo) Option {
	return func(s *Service) { s.journal = j }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(users Users, logs store.SessionLogRepo, log *logger.Logger, opts ...Option) *Service {
	s := &Service{users: users, logs: logs, log: log, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoginResult is an authenticated user and the session-log outcome.
type LoginResult struct {
	User store.User
	store.WriteOutcome
}

// Login checks the credentials and records a log_in event in both session
// log views. Log writes are best-effort.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, validate.Required("email")
	}
	if password == "" {
		return nil, validate.Required("password")
	}

	u, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if u == nil || !CheckPassword(u.PasswordHash, password) {
		s.log.Info("login rejected", "email", email)
		return nil, ErrInvalidCredentials
	}

	out := s.record(ctx, *u, store.ActionLogIn)
	s.log.Info("login", "email", u.Email, "role", u.Role)
	return &LoginResult{User: *u, WriteOutcome: out}, nil
}

// Logout records a log_out event for user.
func (s *Service) Logout(ctx context.Context, user store.User) store.WriteOutcome {
	out := s.record(ctx, user, store.ActionLogOut)
	s.log.Info("logout", "email", user.Email)
	return out
}

func (s *Service) record(ctx context.Context, u store.User, action store.Action) store.WriteOutcome {
	out := store.WriteOutcome{
		Operation: string(action),
		Subject:   u.Email,
		Primary:   store.StepResult{Store: store.StoreDocuments, Step: "users"},
	}

	userID, err := uuid.Parse(u.UUID)
	if err != nil {
		out.Skip(store.StoreWide, "logs_by_user", errUserHasNoID)
		out.Skip(store.StoreWide, "logs_by_role", errUserHasNoID)
	} else {
		entry := store.SessionLog{
			Email:      u.Email,
			Action:     action,
			ActionDate: s.now().UTC(),
			UserID:     userID,
			Name:       u.Name,
			Role:       u.Role,
		}
		out.Mirror(store.StoreWide, "logs_by_user", s.logs.AppendLogByUser(ctx, entry))
		out.Mirror(store.StoreWide, "logs_by_role", s.logs.AppendLogByRole(ctx, entry))
	}

	for _, m := range out.Failed() {
		s.log.Warn("mirror write failed",
			"operation", out.Operation,
			"subject", out.Subject,
			"store", m.Store,
			"step", m.Step,
			"skipped", m.Skipped,
			"error", m.Err,
		)
	}
	if s.journal != nil {
		if err := s.journal.AppendOutcome(ctx, out); err != nil {
			s.log.Warn("journal append failed", "operation", out.Operation, "error", err)
		}
	}
	return out
}

// Session holds the logged-in user of the console.
type Session struct {
	mu   sync.RWMutex
	user *store.User
}

func (s *Session) Set(u store.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &u
}

// Current returns the logged-in user, or false when nobody is logged in.
func (s *Session) Current() (store.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return store.User{}, false
	}
	return *s.user, true
}

func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
}
