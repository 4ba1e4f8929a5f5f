package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Graph node shapes returned by GraphReader. Field names follow the JSON
// produced by the graph queries, where reverse edges are aliased to plain
// names (for example "enrollments" for ~of_course).

// GraphPerson is a User or Instructor node reduced to its identity fields.
type GraphPerson struct {
	UID   string `json:"uid"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Label renders the person as "name (email)".
func (p GraphPerson) Label() string {
	return fmt.Sprintf("%s (%s)", p.Name, p.Email)
}

// GraphInstructor is an Instructor node with the courses it teaches.
type GraphInstructor struct {
	UID     string        `json:"uid"`
	Name    string        `json:"name,omitempty"`
	Email   string        `json:"email,omitempty"`
	Teaches []GraphCourse `json:"teaches,omitempty"`
}

// GraphCourse is a Course node with optional reverse-edge expansions.
type GraphCourse struct {
	UID             string            `json:"uid"`
	Title           string            `json:"title,omitempty"`
	Category        string            `json:"category,omitempty"`
	Teachers        []GraphInstructor `json:"teachers,omitempty"`
	Enrollments     []GraphEnrollment `json:"enrollments,omitempty"`
	Reviews         []GraphReview     `json:"reviews,omitempty"`
	EnrollmentCount int               `json:"enrollment_count,omitempty"`
	ReviewCount     int               `json:"review_count,omitempty"`
}

// GraphEnrollment is an Enrollment node. Students holds the users reached
// through ~enrolled_in; Course holds the node reached through of_course.
type GraphEnrollment struct {
	UID        string        `json:"uid"`
	EnrollDate string        `json:"enroll_date,omitempty"`
	Status     string        `json:"status,omitempty"`
	Students   []GraphPerson `json:"students,omitempty"`
	Course     *GraphCourse  `json:"course,omitempty"`
}

// UnmarshalJSON accepts of_course as either a single node or a list, since
// older schemas declared the predicate as [uid].
func (e *GraphEnrollment) UnmarshalJSON(data []byte) error {
	type plain GraphEnrollment
	var raw struct {
		plain
		Course json.RawMessage `json:"course,omitempty"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*e = GraphEnrollment(raw.plain)
	e.Course = nil

	course := bytes.TrimSpace(raw.Course)
	if len(course) == 0 || bytes.Equal(course, []byte("null")) {
		return nil
	}
	if course[0] == '[' {
		var list []GraphCourse
		if err := json.Unmarshal(course, &list); err != nil {
			return fmt.Errorf("decode enrollment course list: %w", err)
		}
		if len(list) > 0 {
			e.Course = &list[0]
		}
		return nil
	}
	var c GraphCourse
	if err := json.Unmarshal(course, &c); err != nil {
		return fmt.Errorf("decode enrollment course: %w", err)
	}
	e.Course = &c
	return nil
}

// GraphStudent is a User node with its enrollments.
type GraphStudent struct {
	UID         string            `json:"uid"`
	Name        string            `json:"name,omitempty"`
	Email       string            `json:"email,omitempty"`
	Enrollments []GraphEnrollment `json:"enrollments,omitempty"`
}

// Person returns the identity part of the student.
func (s GraphStudent) Person() GraphPerson {
	return GraphPerson{UID: s.UID, Name: s.Name, Email: s.Email}
}

// GraphReview is a Review node.
type GraphReview struct {
	UID     string      `json:"uid"`
	Comment string      `json:"comment,omitempty"`
	Rating  GraphRating `json:"rating"`
}

// GraphRating decodes a rating stored either as a number or as a numeric
// string. Unparseable values decode as zero.
type GraphRating float64

func (r *GraphRating) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*r = 0
			return nil
		}
		*r = GraphRating(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*r = GraphRating(f)
	return nil
}

// GraphReviewInput describes a Review node to create.
type GraphReviewInput struct {
	UserUID   string
	CourseUID string
	Comment   string
	Rating    float64
}
