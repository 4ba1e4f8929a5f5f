package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/learnlink/internal/store"
	"github.com/abhisek/learnlink/internal/validate"
)

// SearchUsers lists users with role, or every user when role is empty.
func (s *Service) SearchUsers(ctx context.Context, role string) ([]store.User, error) {
	r := store.Role(strings.ToLower(strings.TrimSpace(role)))
	if r != "" && !r.Valid() {
		return nil, &validate.Error{Field: "role", Rule: "role"}
	}
	users, err := s.docs.ListUsers(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// SearchLessons finds lessons whose title or URL contains term, ignoring
// case.
func (s *Service) SearchLessons(ctx context.Context, term string) ([]store.Lesson, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, validate.Required("term")
	}
	lessons, err := s.docs.SearchLessons(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("search lessons: %w", err)
	}
	return lessons, nil
}

func (s *Service) ReviewsByCourse(ctx context.Context, courseTitle string) ([]store.Review, error) {
	courseTitle = strings.TrimSpace(courseTitle)
	if courseTitle == "" {
		return nil, validate.Required("course_title")
	}
	reviews, err := s.docs.ReviewsByCourse(ctx, courseTitle)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

func (s *Service) ListCourses(ctx context.Context) ([]store.Course, error) {
	courses, err := s.docs.ListCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// Instructors lists accounts with the instructor role.
func (s *Service) Instructors(ctx context.Context) ([]store.User, error) {
	return s.SearchUsers(ctx, string(store.RoleInstructor))
}

// CoursesTaught lists the courses whose instructor is email.
func (s *Service) CoursesTaught(ctx context.Context, email string) ([]store.Course, error) {
	courses, err := s.docs.CoursesByInstructor(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("list taught courses: %w", err)
	}
	return courses, nil
}

// CountLessons counts the lessons of a course.
func (s *Service) CountLessons(ctx context.Context, courseTitle string) (int64, error) {
	courseTitle = strings.TrimSpace(courseTitle)
	if courseTitle == "" {
		return 0, validate.Required("course_title")
	}
	n, err := s.docs.CountLessons(ctx, courseTitle)
	if err != nil {
		return 0, fmt.Errorf("count lessons: %w", err)
	}
	return n, nil
}

// Cardex lists the student's enrollments.
func (s *Service) Cardex(ctx context.Context, email string) ([]store.Enrollment, error) {
	enrollments, err := s.docs.EnrollmentsByUser(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return enrollments, nil
}

// MyReviews lists the reviews written under the user's name.
func (s *Service) MyReviews(ctx context.Context, user store.User) ([]store.Review, error) {
	reviews, err := s.docs.ReviewsByUsername(ctx, user.Name)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}
