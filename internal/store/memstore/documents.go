package memstore

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/abhisek/learnlink/internal/store"
)

// Documents is an in-memory store.DocumentStore.
type Documents struct {
	Faults

	mu          sync.Mutex
	users       []store.User
	courses     []store.Course
	lessons     []store.Lesson
	enrollments []store.Enrollment
	reviews     []store.Review
}

var _ store.DocumentStore = (*Documents)(nil)

// NewDocuments returns an empty document store.
func NewDocuments() *Documents {
	return &Documents{}
}

func (d *Documents) FindUserByEmail(_ context.Context, email string) (*store.User, error) {
	if err := d.hit("FindUserByEmail"); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, u := range d.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (d *Documents) ListUsers(_ context.Context, role store.Role) ([]store.User, error) {
	if err := d.hit("ListUsers"); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []store.User
	for _, u := range d.users {
		if role == "" || u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (d *Documents) InsertUser(_ context.Context, u store.User) error {
	if err := d.hit("InsertUser"); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, existing := range d.users {
		if existing.Email == u.Email {
			return fmt.Errorf("user %s: %w", u.Email, store.ErrDuplicate)
		}
	}
	d.users = append(d.users, u)
	return nil
}

func (d *Documents) ListCourses(_ context.Context) ([]store.Course, error) {
	if err := d.hit("ListCourses"); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]store.Course(nil), d.courses...), nil
}

func (d *Documents) CoursesByInstructor(_ context.Context, email string) ([]store.Course, error) {
	if err := d.hit("CoursesByInstructor"); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []store.Course
	for _, c := range d.courses {
		if c.InstructorEmail == email {
			out = append(out, c)
		}
	}
	return out, nil
}

func (d *Documents) FindCourseByTitle(_ context.Context, title string) (*store.Course, error) {
	if err := d.hit("FindCourseByTitle"); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, c := range d.courses {
		if c.Title == title {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

func (d *Documents) InsertCourse(_ context.Context, c store.Course) error {
	if err := d.hit("InsertCourse"); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, existing := range d.courses {
		if existing.Title == c.Title {
			return fmt.Errorf("course %q: %w", c.Title, store.ErrDuplicate)
		}
	}
	d.courses = append(d.courses, c)
	return nil
}

func (d *Documents) InsertLesson(_ context.Context, l store.Lesson) error {
	if err := d.hit("InsertLesson"); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lessons = append(d.lessons, l)
	return nil
}

func (d *Documents) SearchLessons(_ context.Context, term string) ([]store.Lesson, error) {
	if err := d.hit("SearchLessons"); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	term = strings.ToLower(term)
	var out []store.Lesson
	for _, l := range d.lessons {
		if strings.Contains(strings.ToLower(l.Title), term) || strings.Contains(strings.ToLower(l.URL), term) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (d *Documents) CountLessons(_ context.Context, courseTitle string) (int64, error) {
	if err := d.hit("CountLessons"); err != nil {
		return 0, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	var n int64
	for _, l := range d.lessons {
		if l.CourseTitle == courseTitle {
			n++
		}
	}
	return n, nil
}

func (d *Documents) InsertEnrollment(_ context.Context, e store.Enrollment) error {
	if err := d.hit("InsertEnrollment"); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, existing := range d.enrollments {
		if existing.UserEmail == e.UserEmail && existing.CourseTitle == e.CourseTitle {
			return fmt.Errorf("enrollment %s/%q: %w", e.UserEmail, e.CourseTitle, store.ErrDuplicate)
		}
	}
	d.enrollments = append(d.enrollments, e)
	return nil
}

func (d *Documents) FindEnrollment(_ context.Context, email, courseTitle string) (*store.Enrollment, error) {
	if err := d.hit("FindEnrollment"); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, e := range d.enrollments {
		if e.UserEmail == email && e.CourseTitle == courseTitle {
			e := e
			return &e, nil
		}
	}
	return nil, nil
}

func (d *Documents) EnrollmentsByUser(_ context.Context, email string) ([]store.Enrollment, error) {
	if err := d.hit("EnrollmentsByUser"); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []store.Enrollment
	for _, e := range d.enrollments {
		if e.UserEmail == email {
			out = append(out, e)
		}
	}
	return out, nil
}

func (d *Documents) InsertReview(_ context.Context, r store.Review) error {
	if err := d.hit("InsertReview"); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reviews = append(d.reviews, r)
	return nil
}

func (d *Documents) ReviewsByCourse(_ context.Context, courseTitle string) ([]store.Review, error) {
	if err := d.hit("ReviewsByCourse"); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []store.Review
	for _, r := range d.reviews {
		if r.CourseTitle == courseTitle {
			out = append(out, r)
		}
	}
	return out, nil
}

func (d *Documents) ReviewsByUsername(_ context.Context, username string) ([]store.Review, error) {
	if err := d.hit("ReviewsByUsername"); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []store.Review
	for _, r := range d.reviews {
		if r.Username == username {
			out = append(out, r)
		}
	}
	return out, nil
}

func (d *Documents) Ping(_ context.Context) (string, error) {
	if err := d.hit("Ping"); err != nil {
		return "", err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return fmt.Sprintf("memory (%d users, %d courses)", len(d.users), len(d.courses)), nil
}

// Enrollments returns a copy of every stored enrollment.
func (d *Documents) Enrollments() []store.Enrollment {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]store.Enrollment(nil), d.enrollments...)
}

// Reviews returns a copy of every stored review.
func (d *Documents) Reviews() []store.Review {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]store.Review(nil), d.reviews...)
}
