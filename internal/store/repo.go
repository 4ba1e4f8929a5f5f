package store

import (
	"context"
)

// Lookups that find nothing return a nil pointer (or empty string UID) and
// a nil error. Errors are reserved for store failures.

// Pinger reports store reachability with a short human-readable detail.
type Pinger interface {
	Ping(ctx context.Context) (string, error)
}

// UserRepo manages user accounts.
type UserRepo interface {
	FindUserByEmail(ctx context.Context, email string) (*User, error)

	// ListUsers returns users with the given role, or all users when role
	// is empty.
	ListUsers(ctx context.Context, role Role) ([]User, error)

	// InsertUser returns ErrDuplicate when the email is taken.
	InsertUser(ctx context.Context, u User) error
}

// CourseRepo manages the course catalog.
type CourseRepo interface {
	ListCourses(ctx context.Context) ([]Course, error)
	CoursesByInstructor(ctx context.Context, email string) ([]Course, error)
	FindCourseByTitle(ctx context.Context, title string) (*Course, error)

	// InsertCourse returns ErrDuplicate when the title is taken.
	InsertCourse(ctx context.Context, c Course) error
}

// LessonRepo manages lessons.
type LessonRepo interface {
	InsertLesson(ctx context.Context, l Lesson) error

	// SearchLessons matches term case-insensitively against lesson title
	// or URL. The term is matched literally.
	SearchLessons(ctx context.Context, term string) ([]Lesson, error)

	CountLessons(ctx context.Context, courseTitle string) (int64, error)
}

// EnrollmentRepo manages authoritative enrollments.
type EnrollmentRepo interface {
	// InsertEnrollment returns ErrDuplicate when the user is already
	// enrolled in the course.
	InsertEnrollment(ctx context.Context, e Enrollment) error

	FindEnrollment(ctx context.Context, email, courseTitle string) (*Enrollment, error)
	EnrollmentsByUser(ctx context.Context, email string) ([]Enrollment, error)
}

// ReviewRepo manages course reviews.
type ReviewRepo interface {
	InsertReview(ctx context.Context, r Review) error
	ReviewsByCourse(ctx context.Context, courseTitle string) ([]Review, error)
	ReviewsByUsername(ctx context.Context, username string) ([]Review, error)
}

// DocumentStore is the authoritative store for users, courses, lessons,
// enrollments and reviews.
type DocumentStore interface {
	UserRepo
	CourseRepo
	LessonRepo
	EnrollmentRepo
	ReviewRepo
	Pinger
}

// SessionLogRepo appends and reads login/logout events.
type SessionLogRepo interface {
	AppendLogByUser(ctx context.Context, l SessionLog) error
	AppendLogByRole(ctx context.Context, l SessionLog) error

	// LogsByUser returns the user's events, newest first within an action.
	// An empty action returns every event.
	LogsByUser(ctx context.Context, email string, action Action) ([]SessionLog, error)

	// LogsByRole returns the role's events ordered by email.
	LogsByRole(ctx context.Context, role Role) ([]SessionLog, error)
}

// PortfolioRepo reads and writes the two portfolio views.
type PortfolioRepo interface {
	InsertPortfolioByStudent(ctx context.Context, p PortfolioRecord) error
	InsertPortfolioByCourse(ctx context.Context, p PortfolioRecord) error
	StudentPortfolio(ctx context.Context, email string, status Status) ([]PortfolioRecord, error)
	CourseActivity(ctx context.Context, courseTitle string, status Status) ([]PortfolioRecord, error)
	CountCourseActivity(ctx context.Context, courseTitle string, status Status) (int64, error)
}

// WideStore holds the denormalized, query-shaped views.
type WideStore interface {
	SessionLogRepo
	PortfolioRepo
	Pinger
}

// GraphWriter creates nodes and edges in the graph store. Insert methods
// return the UID of the created node.
type GraphWriter interface {
	UIDByEmail(ctx context.Context, email string) (string, error)
	UIDByTitle(ctx context.Context, title string) (string, error)
	InsertPerson(ctx context.Context, u User) (string, error)

	// InsertCourse creates the course node and, when instructorUID is not
	// empty, the instructor's teaches edge.
	InsertCourse(ctx context.Context, c Course, instructorUID string) (string, error)

	// InsertEnrollment creates an active Enrollment node linked to the
	// course and attaches it to the user with enrolled_in.
	InsertEnrollment(ctx context.Context, userUID, courseUID, enrollDate string) (string, error)

	InsertReview(ctx context.Context, in GraphReviewInput) (string, error)
}

// GraphReader runs the relationship queries behind the graph reports.
type GraphReader interface {
	// Instructors returns every instructor with taught courses, their
	// enrollment counts, enrolled students and reviews.
	Instructors(ctx context.Context) ([]GraphInstructor, error)
	Instructor(ctx context.Context, email string) (*GraphInstructor, error)

	// Courses returns every course with enrollment and review counts,
	// reviews and teachers.
	Courses(ctx context.Context) ([]GraphCourse, error)

	// Students returns every student with enrollments, each enrollment's
	// course and that course's teachers.
	Students(ctx context.Context) ([]GraphStudent, error)
	Student(ctx context.Context, email string) (*GraphStudent, error)

	// StudentNetwork expands student -> course -> instructor -> course ->
	// enrolled students.
	StudentNetwork(ctx context.Context, email string) (*GraphStudent, error)
}

// GraphStore is the relationship store used for reporting.
type GraphStore interface {
	GraphWriter
	GraphReader
	Pinger
}
