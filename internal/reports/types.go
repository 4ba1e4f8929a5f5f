package reports

import (
	"fmt"
	"strings"

	"github.com/abhisek/learnlink/internal/store"
)

// RosterCourse is one course of an instructor with its enrolled students.
type RosterCourse struct {
	Title    string
	Students []store.GraphPerson
}

// InstructorRoster lists an instructor's courses and students.
type InstructorRoster struct {
	Name    string
	Email   string
	Courses []RosterCourse
}

// PopularityRow counts enrollments and reviews of one course.
type PopularityRow struct {
	Title       string
	Enrollments int
	Reviews     int
}

// CollaborationRow is a pair of instructors sharing students or categories.
type CollaborationRow struct {
	InstructorA      string
	InstructorB      string
	SharedStudents   int
	SharedCategories []string
}

// Reason renders the pair's link, e.g. "2 Alumnos + Cat: Data, Web".
func (r CollaborationRow) Reason() string {
	var parts []string
	if r.SharedStudents > 0 {
		parts = append(parts, fmt.Sprintf("%d Alumnos", r.SharedStudents))
	}
	if len(r.SharedCategories) > 0 {
		parts = append(parts, "Cat: "+strings.Join(r.SharedCategories, ", "))
	}
	return strings.Join(parts, " + ")
}

// RecommendationReason says why a course was recommended.
type RecommendationReason string

const (
	ReasonSameCategory   RecommendationReason = "Misma Categoría"
	ReasonSameInstructor RecommendationReason = "Mismo Instructor"
)

// Recommendation is a course suggested to a student.
type Recommendation struct {
	UID      string
	Title    string
	Category string
	Reason   RecommendationReason
}

// InfluenceRow is an instructor's total enrolled-student count.
type InfluenceRow struct {
	Name     string
	Students int
}

// ConnectionKind distinguishes cross-connection rows.
type ConnectionKind string

const (
	ConnectionCategory   ConnectionKind = "Categoría"
	ConnectionInstructor ConnectionKind = "Instructor"
)

// CrossConnectionRow is a category or instructor a student took two or
// more courses in or with.
type CrossConnectionRow struct {
	Student string
	Kind    ConnectionKind
	Value   string
	Courses int
}

// AffinityRow is one bucket of a student's category histogram.
type AffinityRow struct {
	Category string
	Courses  int
}

// PeerOverlapRow is a pair of students sharing two or more courses.
type PeerOverlapRow struct {
	StudentA      string
	StudentB      string
	SharedCourses int
}

// RatingSummary is a mean rating and review count.
type RatingSummary struct {
	Name    string
	Average float64
	Count   int
}

// ReviewAnalysis holds per-course and per-instructor rating summaries.
type ReviewAnalysis struct {
	Courses     []RatingSummary
	Instructors []RatingSummary
}

// HistoryRow is one enrolled course with every instructor teaching it.
type HistoryRow struct {
	Course      string
	Instructors []string
}

// CategoryRating is the mean rating of all reviews in a category.
type CategoryRating struct {
	Category string
	Average  float64
	Reviews  int
}
