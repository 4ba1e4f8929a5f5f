// Package reports derives the relationship reports from graph traversals.
//
// The Engine fetches raw traversal results through store.GraphReader and
// hands them to pure derivation functions, which are usable on their own.
package reports

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/learnlink/internal/store"
)

var (
	ErrStudentNotFound    = errors.New("student not found in graph")
	ErrInstructorNotFound = errors.New("instructor not found in graph")
	ErrNoEnrollments      = errors.New("student has no enrollments yet")
)

// Engine runs reports against the graph store.
type Engine struct {
	graph store.GraphReader
}

// NewEngine creates an Engine.
func NewEngine(graph store.GraphReader) *Engine {
	return &Engine{graph: graph}
}

func (e *Engine) student(ctx context.Context, email string) (*store.GraphStudent, error) {
	s, err := e.graph.Student(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("query student: %w", err)
	}
	if s == nil {
		return nil, fmt.Errorf("%w: %s", ErrStudentNotFound, email)
	}
	return s, nil
}

// InstructorRoster lists the instructor's courses and enrolled students.
func (e *Engine) InstructorRoster(ctx context.Context, email string) (*InstructorRoster, error) {
	inst, err := e.graph.Instructor(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("query instructor: %w", err)
	}
	if inst == nil {
		return nil, fmt.Errorf("%w: %s", ErrInstructorNotFound, email)
	}
	r := Roster(*inst)
	return &r, nil
}

func (e *Engine) Popularity(ctx context.Context) ([]PopularityRow, error) {
	courses, err := e.graph.Courses(ctx)
	if err != nil {
		return nil, fmt.Errorf("query courses: %w", err)
	}
	return Popularity(courses), nil
}

func (e *Engine) Collaboration(ctx context.Context) ([]CollaborationRow, error) {
	instructors, err := e.graph.Instructors(ctx)
	if err != nil {
		return nil, fmt.Errorf("query instructors: %w", err)
	}
	return Collaboration(instructors), nil
}

// Recommend returns course suggestions for the student. It fails with
// ErrNoEnrollments when there is no history to derive preferences from.
func (e *Engine) Recommend(ctx context.Context, email string) ([]Recommendation, error) {
	s, err := e.student(ctx, email)
	if err != nil {
		return nil, err
	}
	if len(s.Enrollments) == 0 {
		return nil, ErrNoEnrollments
	}
	courses, err := e.graph.Courses(ctx)
	if err != nil {
		return nil, fmt.Errorf("query courses: %w", err)
	}
	return Recommend(*s, courses), nil
}

func (e *Engine) Influence(ctx context.Context) ([]InfluenceRow, error) {
	instructors, err := e.graph.Instructors(ctx)
	if err != nil {
		return nil, fmt.Errorf("query instructors: %w", err)
	}
	return Influence(instructors), nil
}

func (e *Engine) CrossConnections(ctx context.Context) ([]CrossConnectionRow, error) {
	students, err := e.graph.Students(ctx)
	if err != nil {
		return nil, fmt.Errorf("query students: %w", err)
	}
	return CrossConnections(students), nil
}

func (e *Engine) Affinity(ctx context.Context, email string) ([]AffinityRow, error) {
	s, err := e.student(ctx, email)
	if err != nil {
		return nil, err
	}
	return Affinity(*s), nil
}

func (e *Engine) NetworkPeers(ctx context.Context, email string) ([]store.GraphPerson, error) {
	network, err := e.graph.StudentNetwork(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("query network: %w", err)
	}
	if network == nil {
		return nil, fmt.Errorf("%w: %s", ErrStudentNotFound, email)
	}
	return NetworkPeers(*network), nil
}

func (e *Engine) PeerOverlap(ctx context.Context) ([]PeerOverlapRow, error) {
	students, err := e.graph.Students(ctx)
	if err != nil {
		return nil, fmt.Errorf("query students: %w", err)
	}
	return PeerOverlap(students), nil
}

func (e *Engine) ReviewAnalysis(ctx context.Context) (*ReviewAnalysis, error) {
	courses, err := e.graph.Courses(ctx)
	if err != nil {
		return nil, fmt.Errorf("query courses: %w", err)
	}
	instructors, err := e.graph.Instructors(ctx)
	if err != nil {
		return nil, fmt.Errorf("query instructors: %w", err)
	}
	a := AnalyzeReviews(courses, instructors)
	return &a, nil
}

func (e *Engine) History(ctx context.Context, email string) ([]HistoryRow, error) {
	s, err := e.student(ctx, email)
	if err != nil {
		return nil, err
	}
	return History(*s), nil
}

func (e *Engine) CategoryPerformance(ctx context.Context) ([]CategoryRating, error) {
	courses, err := e.graph.Courses(ctx)
	if err != nil {
		return nil, fmt.Errorf("query courses: %w", err)
	}
	return CategoryPerformance(courses), nil
}
