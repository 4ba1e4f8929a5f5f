// Package enrollment implements the enrollment and review transactions.
//
// Each transaction writes the document store first. That write is
// authoritative: its failure aborts the operation. Writes to the
// wide-column and graph stores follow as best-effort mirrors whose results
// are reported in a store.WriteOutcome and never roll back the primary.
package enrollment

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/learnlink/internal/logger"
	"github.com/abhisek/learnlink/internal/store"
)

var (
	ErrMissingIdentity = errors.New("user has no uuid; log in again")
	ErrCourseNotFound  = errors.New("course not found")
	ErrAlreadyEnrolled = errors.New("already enrolled in this course")
	ErrNotEnrolled     = errors.New("must be enrolled in the course to review it")
	ErrInvalidRating   = errors.New("rating must be a number between 1 and 10")

	errCourseHasNoID    = errors.New("course has no uuid")
	errGraphNodeMissing = errors.New("user or course node not found in graph")
)

// Documents is the subset of the document store the transactions use.
type Documents interface {
	FindCourseByTitle(ctx context.Context, title string) (*store.Course, error)
	InsertEnrollment(ctx context.Context, e store.Enrollment) error
	FindEnrollment(ctx context.Context, email, courseTitle string) (*store.Enrollment, error)
	InsertReview(ctx context.Context, r store.Review) error
}

// Portfolio is the subset of the wide-column store the enrollment mirror
// writes to.
type Portfolio interface {
	InsertPortfolioByStudent(ctx context.Context, p store.PortfolioRecord) error
	InsertPortfolioByCourse(ctx context.Context, p store.PortfolioRecord) error
}

// Service runs enrollment and review transactions.
type Service struct {
	docs    Documents
	wide    Portfolio
	graph   store.GraphWriter
	journal store.OutcomeRepo
	log     *logger.Logger
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithJournal records every outcome in the local journal.
func WithJournal(j store.OutcomeRepo) Option {
	return func(s *Service) { s.journal = j }
}

// WithClock overrides the time source used for enrollment dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a Service.
func NewService(docs Documents, wide Portfolio, graph store.GraphWriter, log *logger.Logger, opts ...Option) *Service {
	s := &Service{
		docs:  docs,
		wide:  wide,
		graph: graph,
		log:   log,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// resolveGraphPair looks up the user and course nodes. It returns empty
// UIDs when either is missing.
func (s *Service) resolveGraphPair(ctx context.Context, email, title string) (string, string, error) {
	userUID, err := s.graph.UIDByEmail(ctx, email)
	if err != nil {
		return "", "", err
	}
	courseUID, err := s.graph.UIDByTitle(ctx, title)
	if err != nil {
		return "", "", err
	}
	if userUID == "" || courseUID == "" {
		return "", "", nil
	}
	return userUID, courseUID, nil
}

// finish logs mirror failures and journals the outcome. Journal errors are
// logged, never returned.
func (s *Service) finish(ctx context.Context, out store.WriteOutcome) {
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
	if s.journal == nil {
		return
	}
	if err := s.journal.AppendOutcome(ctx, out); err != nil {
		s.log.Warn("journal append failed", "operation", out.Operation, "error", err)
	}
}
