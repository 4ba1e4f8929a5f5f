package enrollment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/abhisek/learnlink/internal/store"
	"github.com/abhisek/learnlink/internal/validate"
)

// EnrollResult is the outcome of a successful enrollment.
type EnrollResult struct {
	Enrollment store.Enrollment
	store.WriteOutcome
}

// Enroll enrolls user in the course titled courseTitle.
//
// The document store insert is authoritative and rejects duplicates with
// ErrAlreadyEnrolled. The two portfolio rows and the graph enrollment are
// then written best-effort; their results are in the returned outcome.
func (s *Service) Enroll(ctx context.Context, user store.User, courseTitle string) (*EnrollResult, error) {
	courseTitle = strings.TrimSpace(courseTitle)
	if courseTitle == "" {
		return nil, validate.Required("course_title")
	}
	userID, err := uuid.Parse(user.UUID)
	if err != nil {
		return nil, ErrMissingIdentity
	}

	course, err := s.docs.FindCourseByTitle(ctx, courseTitle)
	if err != nil {
		return nil, fmt.Errorf("find course: %w", err)
	}
	if course == nil {
		return nil, fmt.Errorf("%w: %q", ErrCourseNotFound, courseTitle)
	}

	enr := store.Enrollment{
		UserEmail:   user.Email,
		CourseTitle: course.Title,
		EnrollDate:  s.now().Format(store.DateLayout),
	}
	if err := s.docs.InsertEnrollment(ctx, enr); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrAlreadyEnrolled
		}
		return nil, fmt.Errorf("insert enrollment: %w", err)
	}

	out := store.WriteOutcome{
		Operation: "enroll",
		Subject:   user.Email + " -> " + course.Title,
		Primary:   store.StepResult{Store: store.StoreDocuments, Step: "enrollments"},
	}

	s.mirrorPortfolio(ctx, &out, user, userID, course)
	s.mirrorGraphEnrollment(ctx, &out, user.Email, course.Title, enr.EnrollDate)
	s.finish(ctx, out)

	return &EnrollResult{Enrollment: enr, WriteOutcome: out}, nil
}

func (s *Service) mirrorPortfolio(ctx context.Context, out *store.WriteOutcome, user store.User, userID uuid.UUID, course *store.Course) {
	courseID, err := uuid.Parse(course.UUID)
	if err != nil {
		out.Skip(store.StoreWide, "student_portfolio", errCourseHasNoID)
		out.Skip(store.StoreWide, "course_activity", errCourseHasNoID)
		return
	}

	rec := store.PortfolioRecord{
		Email:       user.Email,
		Name:        user.Name,
		Status:      store.StatusActive,
		CourseTitle: course.Title,
		CourseID:    courseID,
		UserID:      userID,
	}
	out.Mirror(store.StoreWide, "student_portfolio", s.wide.InsertPortfolioByStudent(ctx, rec))
	out.Mirror(store.StoreWide, "course_activity", s.wide.InsertPortfolioByCourse(ctx, rec))
}

func (s *Service) mirrorGraphEnrollment(ctx context.Context, out *store.WriteOutcome, email, title, date string) {
	userUID, courseUID, err := s.resolveGraphPair(ctx, email, title)
	if err != nil {
		out.Mirror(store.StoreGraph, "enrollment", fmt.Errorf("resolve nodes: %w", err))
		return
	}
	if userUID == "" {
		out.Skip(store.StoreGraph, "enrollment", errGraphNodeMissing)
		return
	}
	_, err = s.graph.InsertEnrollment(ctx, userUID, courseUID, date)
	out.Mirror(store.StoreGraph, "enrollment", err)
}
