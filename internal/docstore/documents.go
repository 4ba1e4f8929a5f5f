package docstore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/abhisek/learnlink/internal/store"
)

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*store.User, error) {
	var u store.User
	found, err := s.findOne(ctx, colUsers, bson.M{"email": email}, &u)
	if err != nil || !found {
		return nil, err
	}
	return &u, nil
}

func (s *Store) ListUsers(ctx context.Context, role store.Role) ([]store.User, error) {
	return findAll[store.User](ctx, s, colUsers, roleFilter(role))
}

func (s *Store) InsertUser(ctx context.Context, u store.User) error {
	return s.insert(ctx, colUsers, u)
}

func (s *Store) ListCourses(ctx context.Context) ([]store.Course, error) {
	return findAll[store.Course](ctx, s, colCourses, bson.M{})
}

func (s *Store) CoursesByInstructor(ctx context.Context, email string) ([]store.Course, error) {
	return findAll[store.Course](ctx, s, colCourses, bson.M{"instructor_email": email})
}

func (s *Store) FindCourseByTitle(ctx context.Context, title string) (*store.Course, error) {
	var c store.Course
	found, err := s.findOne(ctx, colCourses, bson.M{"title": title}, &c)
	if err != nil || !found {
		return nil, err
	}
	return &c, nil
}

func (s *Store) InsertCourse(ctx context.Context, c store.Course) error {
	return s.insert(ctx, colCourses, c)
}

func (s *Store) InsertLesson(ctx context.Context, l store.Lesson) error {
	return s.insert(ctx, colLessons, l)
}

func (s *Store) SearchLessons(ctx context.Context, term string) ([]store.Lesson, error) {
	return findAll[store.Lesson](ctx, s, colLessons, lessonSearchFilter(term))
}

// CountLessons counts with an aggregation so the count runs server side.
func (s *Store) CountLessons(ctx context.Context, courseTitle string) (int64, error) {
	cur, err := s.db.Collection(colLessons).Aggregate(ctx, countLessonsPipeline(courseTitle))
	if err != nil {
		return 0, mapError("count lessons", err)
	}
	var rows []struct {
		Total int64 `bson:"total"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, mapError("count lessons", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

func (s *Store) InsertEnrollment(ctx context.Context, e store.Enrollment) error {
	return s.insert(ctx, colEnrollments, e)
}

func (s *Store) FindEnrollment(ctx context.Context, email, courseTitle string) (*store.Enrollment, error) {
	var e store.Enrollment
	found, err := s.findOne(ctx, colEnrollments, enrollmentFilter(email, courseTitle), &e)
	if err != nil || !found {
		return nil, err
	}
	return &e, nil
}

func (s *Store) EnrollmentsByUser(ctx context.Context, email string) ([]store.Enrollment, error) {
	return findAll[store.Enrollment](ctx, s, colEnrollments, bson.M{"user_email": email})
}

func (s *Store) InsertReview(ctx context.Context, r store.Review) error {
	return s.insert(ctx, colReviews, r)
}

func (s *Store) ReviewsByCourse(ctx context.Context, courseTitle string) ([]store.Review, error) {
	return findAll[store.Review](ctx, s, colReviews, bson.M{"course_title": courseTitle})
}

func (s *Store) ReviewsByUsername(ctx context.Context, username string) ([]store.Review, error) {
	return findAll[store.Review](ctx, s, colReviews, bson.M{"username": username})
}
