package graphstore

import (
	"context"
	"strconv"

	"github.com/abhisek/learnlink/internal/store"
)

// Blank node labels used in mutations.
const (
	labelPerson     = "person"
	labelCourse     = "course"
	labelEnrollment = "enrollment"
	labelReview     = "review"
)

func (s *Store) uidOf(ctx context.Context, op, q string, vars map[string]string) (string, error) {
	nodes, err := query[store.GraphPerson](ctx, s, op, q, vars)
	if err != nil || len(nodes) == 0 {
		return "", err
	}
	return nodes[0].UID, nil
}

func (s *Store) UIDByEmail(ctx context.Context, email string) (string, error) {
	return s.uidOf(ctx, "uid by email", queryUIDByEmail, map[string]string{"$email": email})
}

func (s *Store) UIDByTitle(ctx context.Context, title string) (string, error) {
	return s.uidOf(ctx, "uid by title", queryUIDByTitle, map[string]string{"$title": title})
}

// nodeType maps a role to its graph node type.
func nodeType(role store.Role) string {
	if role == store.RoleStudent {
		return "User"
	}
	return "Instructor"
}

func personNQuads(u store.User) *nquads {
	q := &nquads{}
	p := "_:" + labelPerson
	q.Type(p, nodeType(u.Role))
	q.Literal(p, "name", u.Name)
	q.Literal(p, "email", u.Email)
	q.Literal(p, "role", string(u.Role))
	return q
}

func courseNQuads(c store.Course, instructorUID string) *nquads {
	q := &nquads{}
	n := "_:" + labelCourse
	q.Type(n, "Course")
	q.Literal(n, "title", c.Title)
	q.Literal(n, "category", c.Category)
	if instructorUID != "" {
		q.Edge(instructorUID, "teaches", n)
	}
	return q
}

func enrollmentNQuads(userUID, courseUID, enrollDate string) *nquads {
	q := &nquads{}
	n := "_:" + labelEnrollment
	q.Type(n, "Enrollment")
	q.Literal(n, "enroll_date", enrollDate)
	q.Literal(n, "status", string(store.StatusActive))
	q.Edge(n, "of_course", courseUID)
	q.Edge(userUID, "enrolled_in", n)
	return q
}

func reviewNQuads(in store.GraphReviewInput) *nquads {
	q := &nquads{}
	n := "_:" + labelReview
	q.Type(n, "Review")
	q.Literal(n, "comment", in.Comment)
	q.Literal(n, "rating", strconv.FormatFloat(in.Rating, 'f', -1, 64))
	q.Edge(n, "review_of", in.CourseUID)
	q.Edge(n, "reviewed_by", in.UserUID)
	return q
}

func (s *Store) InsertPerson(ctx context.Context, u store.User) (string, error) {
	return s.mutate(ctx, "insert person", personNQuads(u), labelPerson)
}

func (s *Store) InsertCourse(ctx context.Context, c store.Course, instructorUID string) (string, error) {
	return s.mutate(ctx, "insert course", courseNQuads(c, instructorUID), labelCourse)
}

func (s *Store) InsertEnrollment(ctx context.Context, userUID, courseUID, enrollDate string) (string, error) {
	return s.mutate(ctx, "insert enrollment", enrollmentNQuads(userUID, courseUID, enrollDate), labelEnrollment)
}

func (s *Store) InsertReview(ctx context.Context, in store.GraphReviewInput) (string, error) {
	return s.mutate(ctx, "insert review", reviewNQuads(in), labelReview)
}
