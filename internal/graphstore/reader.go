package graphstore

import (
	"context"

	"github.com/abhisek/learnlink/internal/store"
)

func first[T any](nodes []T, err error) (*T, error) {
	if err != nil || len(nodes) == 0 {
		return nil, err
	}
	return &nodes[0], nil
}

func (s *Store) Instructors(ctx context.Context) ([]store.GraphInstructor, error) {
	return query[store.GraphInstructor](ctx, s, "query instructors", queryInstructors, nil)
}

func (s *Store) Instructor(ctx context.Context, email string) (*store.GraphInstructor, error) {
	return first[store.GraphInstructor](query[store.GraphInstructor](ctx, s, "query instructor", queryInstructor, map[string]string{"$email": email}))
}

func (s *Store) Courses(ctx context.Context) ([]store.GraphCourse, error) {
	return query[store.GraphCourse](ctx, s, "query courses", queryCourses, nil)
}

func (s *Store) Students(ctx context.Context) ([]store.GraphStudent, error) {
	return query[store.GraphStudent](ctx, s, "query students", queryStudents, nil)
}

func (s *Store) Student(ctx context.Context, email string) (*store.GraphStudent, error) {
	return first[store.GraphStudent](query[store.GraphStudent](ctx, s, "query student", queryStudent, map[string]string{"$email": email}))
}

func (s *Store) StudentNetwork(ctx context.Context, email string) (*store.GraphStudent, error) {
	return first[store.GraphStudent](query[store.GraphStudent](ctx, s, "query student network", queryStudentNetwork, map[string]string{"$email": email}))
}
