package store

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the second-resolution timestamp format used for enrollment
// dates in the document and graph stores.
const DateLayout = "2006-01-02T15:04:05"

// Store names used in write outcomes and health reports.
const (
	StoreDocuments = "mongodb"
	StoreWide      = "cassandra"
	StoreGraph     = "dgraph"
)

// Role is a user's access level.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleInstructor Role = "instructor"
	RoleStudent    Role = "student"
)

// Roles lists every known role in menu order.
var Roles = []Role{RoleAdmin, RoleInstructor, RoleStudent}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleInstructor, RoleStudent:
		return true
	}
	return false
}

// User is a person account in the document store. Email is unique.
type User struct {
	UUID         string `bson:"user_uuid,omitempty" json:"user_uuid,omitempty"`
	Name         string `bson:"name" json:"name"`
	Email        string `bson:"email" json:"email"`
	PasswordHash string `bson:"password" json:"-"`
	Role         Role   `bson:"role" json:"role"`
}

// Course is a catalog course. Title is unique and used as the join key
// across stores.
type Course struct {
	UUID            string `bson:"course_uuid,omitempty" json:"course_uuid,omitempty"`
	Title           string `bson:"title" json:"title"`
	Category        string `bson:"category" json:"category"`
	InstructorEmail string `bson:"instructor_email" json:"instructor_email"`
}

// Lesson belongs to a course by title.
type Lesson struct {
	Title       string `bson:"title" json:"title"`
	CourseTitle string `bson:"course_title" json:"course_title"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	URL         string `bson:"url,omitempty" json:"url,omitempty"`
}

// Enrollment is the authoritative enrollment record. The pair
// (UserEmail, CourseTitle) is unique.
type Enrollment struct {
	UserEmail   string `bson:"user_email" json:"user_email"`
	CourseTitle string `bson:"course_title" json:"course_title"`
	EnrollDate  string `bson:"enroll_date" json:"enroll_date"`
}

// Review is a student's rating and comment for a course.
type Review struct {
	CourseTitle string  `bson:"course_title" json:"course_title"`
	Username    string  `bson:"username" json:"username"`
	Comment     string  `bson:"comment" json:"comment"`
	Rating      float64 `bson:"rating" json:"rating"`
}

// Status is the progress state of a portfolio record.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// PortfolioRecord is one student/course row in the wide-column store. It is
// written twice: partitioned by student and partitioned by course.
type PortfolioRecord struct {
	Email       string
	Name        string
	Status      Status
	CourseTitle string
	// Grade is nil until the course has been graded.
	Grade    *float64
	CourseID uuid.UUID
	UserID   uuid.UUID
}

// Graded reports whether the record carries a grade.
func (p PortfolioRecord) Graded() bool {
	return p.Grade != nil
}

// Action is a session event kind.
type Action string

const (
	ActionLogIn  Action = "log_in"
	ActionLogOut Action = "log_out"
)

// SessionLog is a login or logout event. It is written twice: partitioned
// by user and partitioned by role.
type SessionLog struct {
	Email      string
	Action     Action
	ActionDate time.Time
	UserID     uuid.UUID
	Name       string
	Role       Role
}
