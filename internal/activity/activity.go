// Package activity reads session logs and portfolio records from the
// wide-column store.
package activity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/learnlink/internal/store"
	"github.com/abhisek/learnlink/internal/validate"
)

var ErrNotCourseInstructor = errors.New("you do not teach this course")

// DefaultFailingBelow is the grade under which a completed course counts as
// failed.
const DefaultFailingBelow = 6.0

// Courses resolves course ownership for instructor views.
type Courses interface {
	FindCourseByTitle(ctx context.Context, title string) (*store.Course, error)
}

// Service answers activity queries.
type Service struct {
	wide         store.WideStore
	courses      Courses
	failingBelow float64
}

func NewService(wide store.WideStore, courses Courses, failingBelow float64) *Service {
	if failingBelow <= 0 {
		failingBelow = DefaultFailingBelow
	}
	return &Service{wide: wide, courses: courses, failingBelow: failingBelow}
}

// FailingBelow returns the configured failing-grade threshold.
func (s *Service) FailingBelow() float64 {
	return s.failingBelow
}

// LogsByRole lists the session events of every user with role.
func (s *Service) LogsByRole(ctx context.Context, role string) ([]store.SessionLog, error) {
	r := store.Role(strings.ToLower(strings.TrimSpace(role)))
	if r == "" {
		return nil, validate.Required("role")
	}
	if !r.Valid() {
		return nil, &validate.Error{Field: "role", Rule: "role"}
	}
	logs, err := s.wide.LogsByRole(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("read logs by role: %w", err)
	}
	return logs, nil
}

// ParseAction maps a filter to an action. Anything other than log_in or
// log_out selects every action.
func ParseAction(filter string) store.Action {
	switch a := store.Action(strings.ToLower(strings.TrimSpace(filter))); a {
	case store.ActionLogIn, store.ActionLogOut:
		return a
	}
	return ""
}

// LogsByUser lists the session events of email, optionally filtered by
// action.
func (s *Service) LogsByUser(ctx context.Context, email, filter string) ([]store.SessionLog, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, validate.Required("email")
	}
	logs, err := s.wide.LogsByUser(ctx, email, ParseAction(filter))
	if err != nil {
		return nil, fmt.Errorf("read logs by user: %w", err)
	}
	return logs, nil
}

func (s *Service) courseActivity(ctx context.Context, title string, status store.Status) ([]store.PortfolioRecord, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, validate.Required("course_title")
	}
	rows, err := s.wide.CourseActivity(ctx, title, status)
	if err != nil {
		return nil, fmt.Errorf("read course activity: %w", err)
	}
	return rows, nil
}

// CourseGrades lists the graded, completed records of a course.
func (s *Service) CourseGrades(ctx context.Context, title string) ([]store.PortfolioRecord, error) {
	return s.courseActivity(ctx, title, store.StatusCompleted)
}

// FailingStudents lists completed records graded below the threshold.
// Ungraded records never count as failing.
func (s *Service) FailingStudents(ctx context.Context, title string) ([]store.PortfolioRecord, error) {
	rows, err := s.courseActivity(ctx, title, store.StatusCompleted)
	if err != nil {
		return nil, err
	}
	var out []store.PortfolioRecord
	for _, r := range rows {
		if r.Graded() && *r.Grade < s.failingBelow {
			out = append(out, r)
		}
	}
	return out, nil
}

// CountActive counts students currently taking a course.
func (s *Service) CountActive(ctx context.Context, title string) (int64, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return 0, validate.Required("course_title")
	}
	n, err := s.wide.CountCourseActivity(ctx, title, store.StatusActive)
	if err != nil {
		return 0, fmt.Errorf("count course activity: %w", err)
	}
	return n, nil
}

// StudentGrades lists the student's completed courses.
func (s *Service) StudentGrades(ctx context.Context, email string) ([]store.PortfolioRecord, error) {
	rows, err := s.wide.StudentPortfolio(ctx, email, store.StatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("read portfolio: %w", err)
	}
	return rows, nil
}

// PendingCourses lists the student's active courses.
func (s *Service) PendingCourses(ctx context.Context, email string) ([]store.PortfolioRecord, error) {
	rows, err := s.wide.StudentPortfolio(ctx, email, store.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("read portfolio: %w", err)
	}
	return rows, nil
}

func (s *Service) ownCourse(ctx context.Context, instructor store.User, title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", validate.Required("course_title")
	}
	c, err := s.courses.FindCourseByTitle(ctx, title)
	if err != nil {
		return "", fmt.Errorf("find course: %w", err)
	}
	if c == nil || c.InstructorEmail != instructor.Email {
		return "", fmt.Errorf("%w: %q", ErrNotCourseInstructor, title)
	}
	return c.Title, nil
}

// InstructorCourseGrades is CourseGrades restricted to the instructor's own
// courses.
func (s *Service) InstructorCourseGrades(ctx context.Context, instructor store.User, title string) ([]store.PortfolioRecord, error) {
	title, err := s.ownCourse(ctx, instructor, title)
	if err != nil {
		return nil, err
	}
	return s.courseActivity(ctx, title, store.StatusCompleted)
}

// InstructorActiveStudents lists the active students of one of the
// instructor's courses.
func (s *Service) InstructorActiveStudents(ctx context.Context, instructor store.User, title string) ([]store.PortfolioRecord, error) {
	title, err := s.ownCourse(ctx, instructor, title)
	if err != nil {
		return nil, err
	}
	return s.courseActivity(ctx, title, store.StatusActive)
}
