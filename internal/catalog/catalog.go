// Package catalog manages accounts, courses and lessons, and serves the
// document-store listings behind the role menus.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/abhisek/learnlink/internal/identity"
	"github.com/abhisek/learnlink/internal/logger"
	"github.com/abhisek/learnlink/internal/store"
	"github.com/abhisek/learnlink/internal/validate"
)

var (
	ErrEmailTaken          = errors.New("a user with this email already exists")
	ErrTitleTaken          = errors.New("a course with this title already exists")
	ErrInstructorNotFound  = errors.New("instructor not found")
	ErrCourseNotFound      = errors.New("course not found")
	ErrNotCourseInstructor = errors.New("you do not teach this course")
	ErrForbidden           = errors.New("not allowed for this role")
)

var errInstructorNodeMissing = errors.New("instructor node not found in graph")

// Service implements the catalog operations.
type Service struct {
	docs    store.DocumentStore
	graph   store.GraphWriter
	journal store.OutcomeRepo
	log     *logger.Logger
}

type Option func(*Service)

// WithJournal records registration and course outcomes in the journal.
func WithJournal(j store.OutcomeRepo) Option {
	return func(s *Service) { s.journal = j }
}

func NewService(docs store.DocumentStore, graph store.GraphWriter, log *logger.Logger, opts ...Option) *Service {
	s := &Service{docs: docs, graph: graph, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewUser is the input of RegisterUser.
type NewUser struct {
	Name     string `json:"name" validate:"notblank,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=4,max=72"`
	Role     string `json:"role" validate:"required,role"`
}

// UserResult is a registered user and the outcome of its mirrors.
type UserResult struct {
	User store.User
	store.WriteOutcome
}

// RegisterUser creates an account in the document store and mirrors it as
// a graph node. Students become User nodes, everyone else Instructor nodes.
func (s *Service) RegisterUser(ctx context.Context, in NewUser) (*UserResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Role = strings.ToLower(strings.TrimSpace(in.Role))
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	hash, err := identity.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := store.User{
		UUID:         uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         store.Role(in.Role),
	}
	if err := s.docs.InsertUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	out := store.WriteOutcome{
		Operation: "register_user",
		Subject:   u.Email,
		Primary:   store.StepResult{Store: store.StoreDocuments, Step: "users"},
	}
	_, err = s.graph.InsertPerson(ctx, u)
	out.Mirror(store.StoreGraph, "person", err)
	s.finish(ctx, out)

	return &UserResult{User: u, WriteOutcome: out}, nil
}

// NewCourse is the input of CreateCourse.
type NewCourse struct {
	Title           string `json:"title" validate:"notblank,max=200"`
	Category        string `json:"category" validate:"notblank,max=100"`
	InstructorEmail string `json:"instructor_email" validate:"required,email"`
}

// CourseResult is a created course and the outcome of its mirror.
type CourseResult struct {
	Course store.Course
	store.WriteOutcome
}

// CreateCourse adds a course taught by an existing instructor and mirrors
// it in the graph with a teaches edge from the instructor's node.
func (s *Service) CreateCourse(ctx context.Context, in NewCourse) (*CourseResult, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Category = strings.TrimSpace(in.Category)
	in.InstructorEmail = strings.TrimSpace(in.InstructorEmail)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	inst, err := s.docs.FindUserByEmail(ctx, in.InstructorEmail)
	if err != nil {
		return nil, fmt.Errorf("find instructor: %w", err)
	}
	if inst == nil || inst.Role != store.RoleInstructor {
		return nil, fmt.Errorf("%w: %s", ErrInstructorNotFound, in.InstructorEmail)
	}

	c := store.Course{
		UUID:            uuid.NewString(),
		Title:           in.Title,
		Category:        in.Category,
		InstructorEmail: inst.Email,
	}
	if err := s.docs.InsertCourse(ctx, c); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrTitleTaken
		}
		return nil, fmt.Errorf("insert course: %w", err)
	}

	out := store.WriteOutcome{
		Operation: "create_course",
		Subject:   c.Title,
		Primary:   store.StepResult{Store: store.StoreDocuments, Step: "courses"},
	}
	instUID, err := s.graph.UIDByEmail(ctx, inst.Email)
	switch {
	case err != nil:
		out.Mirror(store.StoreGraph, "course", fmt.Errorf("resolve instructor: %w", err))
	case instUID == "":
		out.Skip(store.StoreGraph, "course", errInstructorNodeMissing)
	default:
		_, err = s.graph.InsertCourse(ctx, c, instUID)
		out.Mirror(store.StoreGraph, "course", err)
	}
	s.finish(ctx, out)

	return &CourseResult{Course: c, WriteOutcome: out}, nil
}

// NewLesson is the input of AddLesson.
type NewLesson struct {
	CourseTitle string `json:"course_title" validate:"notblank"`
	Title       string `json:"title" validate:"notblank,max=200"`
	Description string `json:"description" validate:"max=2000"`
	URL         string `json:"url" validate:"required,url"`
}

// AddLesson adds a lesson to a course. Instructors may only add lessons to
// courses they teach; admins to any existing course.
func (s *Service) AddLesson(ctx context.Context, actor store.User, in NewLesson) (*store.Lesson, error) {
	in.CourseTitle = strings.TrimSpace(in.CourseTitle)
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.URL = strings.TrimSpace(in.URL)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	course, err := s.docs.FindCourseByTitle(ctx, in.CourseTitle)
	if err != nil {
		return nil, fmt.Errorf("find course: %w", err)
	}
	switch actor.Role {
	case store.RoleAdmin:
		if course == nil {
			return nil, fmt.Errorf("%w: %q", ErrCourseNotFound, in.CourseTitle)
		}
	case store.RoleInstructor:
		if course == nil || course.InstructorEmail != actor.Email {
			return nil, fmt.Errorf("%w: %q", ErrNotCourseInstructor, in.CourseTitle)
		}
	default:
		return nil, ErrForbidden
	}

	l := store.Lesson{
		Title:       in.Title,
		CourseTitle: course.Title,
		Description: in.Description,
		URL:         in.URL,
	}
	if err := s.docs.InsertLesson(ctx, l); err != nil {
		return nil, fmt.Errorf("insert lesson: %w", err)
	}
	s.log.Info("lesson added", "course", l.CourseTitle, "lesson", l.Title, "by", actor.Email)
	return &l, nil
}

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
