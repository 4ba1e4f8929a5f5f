package reports

import (
	"fmt"
	"sort"

	"github.com/abhisek/learnlink/internal/store"
)

// Mean returns the arithmetic mean of values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// FormatMean renders a mean with two decimals.
func FormatMean(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// Roster lists each taught course with its distinct enrolled students.
func Roster(inst store.GraphInstructor) InstructorRoster {
	r := InstructorRoster{Name: inst.Name, Email: inst.Email}
	for _, c := range inst.Teaches {
		rc := RosterCourse{Title: c.Title}
		seen := make(map[string]bool)
		for _, e := range c.Enrollments {
			for _, s := range e.Students {
				if seen[s.UID] {
					continue
				}
				seen[s.UID] = true
				rc.Students = append(rc.Students, s)
			}
		}
		r.Courses = append(r.Courses, rc)
	}
	return r
}

// Popularity reports per-course enrollment and review counts.
func Popularity(courses []store.GraphCourse) []PopularityRow {
	rows := make([]PopularityRow, 0, len(courses))
	for _, c := range courses {
		rows = append(rows, PopularityRow{
			Title:       c.Title,
			Enrollments: c.EnrollmentCount,
			Reviews:     c.ReviewCount,
		})
	}
	return rows
}

func studentSet(inst store.GraphInstructor) map[string]bool {
	set := make(map[string]bool)
	for _, c := range inst.Teaches {
		for _, e := range c.Enrollments {
			for _, s := range e.Students {
				set[s.UID] = true
			}
		}
	}
	return set
}

func categorySet(inst store.GraphInstructor) map[string]bool {
	set := make(map[string]bool)
	for _, c := range inst.Teaches {
		if c.Category != "" {
			set[c.Category] = true
		}
	}
	return set
}

// Collaboration pairs instructors that share enrolled students or taught
// categories. Pairs follow the instructors' order; shared categories are
// sorted.
func Collaboration(instructors []store.GraphInstructor) []CollaborationRow {
	students := make([]map[string]bool, len(instructors))
	categories := make([]map[string]bool, len(instructors))
	for i, inst := range instructors {
		students[i] = studentSet(inst)
		categories[i] = categorySet(inst)
	}

	var rows []CollaborationRow
	for i := 0; i < len(instructors); i++ {
		for j := i + 1; j < len(instructors); j++ {
			shared := 0
			for uid := range students[i] {
				if students[j][uid] {
					shared++
				}
			}
			var cats []string
			for c := range categories[i] {
				if categories[j][c] {
					cats = append(cats, c)
				}
			}
			if shared == 0 && len(cats) == 0 {
				continue
			}
			sort.Strings(cats)
			rows = append(rows, CollaborationRow{
				InstructorA:      instructors[i].Name,
				InstructorB:      instructors[j].Name,
				SharedStudents:   shared,
				SharedCategories: cats,
			})
		}
	}
	return rows
}

// Recommend suggests courses the student has not taken that share a
// category or an instructor with a taken course. Category matches come
// first and win when both apply; each title appears once.
func Recommend(student store.GraphStudent, courses []store.GraphCourse) []Recommendation {
	takenUIDs := make(map[string]bool)
	takenTitles := make(map[string]bool)
	favCategories := make(map[string]bool)
	favInstructors := make(map[string]bool)
	for _, e := range student.Enrollments {
		if e.Course == nil {
			continue
		}
		takenUIDs[e.Course.UID] = true
		takenTitles[e.Course.Title] = true
		if e.Course.Category != "" {
			favCategories[e.Course.Category] = true
		}
		for _, t := range e.Course.Teachers {
			favInstructors[t.UID] = true
		}
	}

	var recs []Recommendation
	seen := make(map[string]bool)
	candidate := func(c store.GraphCourse) bool {
		return !takenUIDs[c.UID] && !takenTitles[c.Title] && !seen[c.Title]
	}

	for _, c := range courses {
		if candidate(c) && favCategories[c.Category] {
			seen[c.Title] = true
			recs = append(recs, Recommendation{UID: c.UID, Title: c.Title, Category: c.Category, Reason: ReasonSameCategory})
		}
	}
	for _, c := range courses {
		if !candidate(c) {
			continue
		}
		for _, t := range c.Teachers {
			if favInstructors[t.UID] {
				seen[c.Title] = true
				recs = append(recs, Recommendation{UID: c.UID, Title: c.Title, Category: c.Category, Reason: ReasonSameInstructor})
				break
			}
		}
	}
	return recs
}

// Influence sums enrolled students across each instructor's courses,
// sorted descending. Equal totals keep store order.
func Influence(instructors []store.GraphInstructor) []InfluenceRow {
	rows := make([]InfluenceRow, 0, len(instructors))
	for _, inst := range instructors {
		total := 0
		for _, c := range inst.Teaches {
			n := c.EnrollmentCount
			if n == 0 {
				n = len(c.Enrollments)
			}
			total += n
		}
		rows = append(rows, InfluenceRow{Name: inst.Name, Students: total})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Students > rows[j].Students })
	return rows
}

// CrossConnections finds, per student, categories and instructors shared
// by two or more of their courses. Rows are sorted by student name.
func CrossConnections(students []store.GraphStudent) []CrossConnectionRow {
	var rows []CrossConnectionRow
	for _, s := range students {
		catCount := make(map[string]int)
		var catOrder []string
		instCount := make(map[string]int)
		instName := make(map[string]string)
		var instOrder []string

		for _, e := range s.Enrollments {
			if e.Course == nil {
				continue
			}
			if cat := e.Course.Category; cat != "" {
				if catCount[cat] == 0 {
					catOrder = append(catOrder, cat)
				}
				catCount[cat]++
			}
			for _, t := range e.Course.Teachers {
				if instCount[t.UID] == 0 {
					instOrder = append(instOrder, t.UID)
					instName[t.UID] = t.Name
				}
				instCount[t.UID]++
			}
		}

		for _, cat := range catOrder {
			if catCount[cat] > 1 {
				rows = append(rows, CrossConnectionRow{Student: s.Name, Kind: ConnectionCategory, Value: cat, Courses: catCount[cat]})
			}
		}
		for _, uid := range instOrder {
			if instCount[uid] > 1 {
				rows = append(rows, CrossConnectionRow{Student: s.Name, Kind: ConnectionInstructor, Value: instName[uid], Courses: instCount[uid]})
			}
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Student < rows[j].Student })
	return rows
}

// Affinity builds the student's category histogram in first-seen order,
// skipping courses without a category.
func Affinity(student store.GraphStudent) []AffinityRow {
	index := make(map[string]int)
	var rows []AffinityRow
	for _, e := range student.Enrollments {
		if e.Course == nil || e.Course.Category == "" {
			continue
		}
		cat := e.Course.Category
		if i, ok := index[cat]; ok {
			rows[i].Courses++
			continue
		}
		index[cat] = len(rows)
		rows = append(rows, AffinityRow{Category: cat, Courses: 1})
	}
	return rows
}

// NetworkPeers walks student -> courses -> instructors -> their courses ->
// enrolled students and returns the distinct peers, excluding the student.
func NetworkPeers(network store.GraphStudent) []store.GraphPerson {
	seen := map[string]bool{network.UID: true}
	var peers []store.GraphPerson
	for _, e := range network.Enrollments {
		if e.Course == nil {
			continue
		}
		for _, inst := range e.Course.Teachers {
			for _, c := range inst.Teaches {
				for _, ce := range c.Enrollments {
					for _, p := range ce.Students {
						if seen[p.UID] {
							continue
						}
						seen[p.UID] = true
						peers = append(peers, p)
					}
				}
			}
		}
	}
	return peers
}

// PeerOverlap pairs students that share at least two courses.
func PeerOverlap(students []store.GraphStudent) []PeerOverlapRow {
	sets := make([]map[string]bool, len(students))
	for i, s := range students {
		sets[i] = make(map[string]bool)
		for _, e := range s.Enrollments {
			if e.Course != nil {
				sets[i][e.Course.UID] = true
			}
		}
	}

	var rows []PeerOverlapRow
	for i := 0; i < len(students); i++ {
		for j := i + 1; j < len(students); j++ {
			shared := 0
			for uid := range sets[i] {
				if sets[j][uid] {
					shared++
				}
			}
			if shared >= 2 {
				rows = append(rows, PeerOverlapRow{
					StudentA:      students[i].Name,
					StudentB:      students[j].Name,
					SharedCourses: shared,
				})
			}
		}
	}
	return rows
}

func ratings(reviews []store.GraphReview) []float64 {
	out := make([]float64, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, float64(r.Rating))
	}
	return out
}

// AnalyzeReviews summarizes ratings per course and per instructor across
// all of the instructor's courses.
func AnalyzeReviews(courses []store.GraphCourse, instructors []store.GraphInstructor) ReviewAnalysis {
	var a ReviewAnalysis
	for _, c := range courses {
		values := ratings(c.Reviews)
		a.Courses = append(a.Courses, RatingSummary{Name: c.Title, Average: Mean(values), Count: len(values)})
	}
	for _, inst := range instructors {
		var values []float64
		for _, c := range inst.Teaches {
			values = append(values, ratings(c.Reviews)...)
		}
		a.Instructors = append(a.Instructors, RatingSummary{Name: inst.Name, Average: Mean(values), Count: len(values)})
	}
	return a
}

// History lists each enrolled course with the names of all its teachers.
func History(student store.GraphStudent) []HistoryRow {
	var rows []HistoryRow
	for _, e := range student.Enrollments {
		if e.Course == nil {
			continue
		}
		row := HistoryRow{Course: e.Course.Title}
		for _, t := range e.Course.Teachers {
			row.Instructors = append(row.Instructors, t.Name)
		}
		rows = append(rows, row)
	}
	return rows
}

// CategoryPerformance averages every review rating per category in
// first-seen order. Blank categories and categories without reviews are
// omitted.
func CategoryPerformance(courses []store.GraphCourse) []CategoryRating {
	values := make(map[string][]float64)
	var order []string
	for _, c := range courses {
		if c.Category == "" {
			continue
		}
		if _, ok := values[c.Category]; !ok {
			order = append(order, c.Category)
			values[c.Category] = nil
		}
		values[c.Category] = append(values[c.Category], ratings(c.Reviews)...)
	}

	var rows []CategoryRating
	for _, cat := range order {
		if len(values[cat]) == 0 {
			continue
		}
		rows = append(rows, CategoryRating{Category: cat, Average: Mean(values[cat]), Reviews: len(values[cat])})
	}
	return rows
}
