package reports

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/learnlink/internal/store"
	"github.com/abhisek/learnlink/internal/store/memstore"
)

type campus struct {
	graph *memstore.Graph
	uids  map[string]string
}

func (c *campus) person(t *testing.T, name, email string, role store.Role) {
	t.Helper()
	uid, err := c.graph.InsertPerson(context.Background(), store.User{Name: name, Email: email, Role: role})
	require.NoError(t, err)
	c.uids[email] = uid
}

func (c *campus) course(t *testing.T, title, category, instructorEmail string) {
	t.Helper()
	uid, err := c.graph.InsertCourse(context.Background(), store.Course{Title: title, Category: category}, c.uids[instructorEmail])
	require.NoError(t, err)
	c.uids[title] = uid
}

func (c *campus) enroll(t *testing.T, email, title string) {
	t.Helper()
	_, err := c.graph.InsertEnrollment(context.Background(), c.uids[email], c.uids[title], "2024-05-01T10:30:00")
	require.NoError(t, err)
}

func (c *campus) review(t *testing.T, email, title string, rating float64) {
	t.Helper()
	_, err := c.graph.InsertReview(context.Background(), store.GraphReviewInput{
		UserUID: c.uids[email], CourseUID: c.uids[title], Comment: "ok", Rating: rating,
	})
	require.NoError(t, err)
}

// newCampus builds two instructors, three students and four courses.
func newCampus(t *testing.T) *campus {
	c := &campus{graph: memstore.NewGraph(), uids: make(map[string]string)}
	c.person(t, "Ivy", "ivy@x.io", store.RoleInstructor)
	c.person(t, "Max", "max@x.io", store.RoleInstructor)
	c.person(t, "Alice", "alice@x.io", store.RoleStudent)
	c.person(t, "Bob", "bob@x.io", store.RoleStudent)
	c.person(t, "Carol", "carol@x.io", store.RoleStudent)

	c.course(t, "CS101", "Programming", "ivy@x.io")
	c.course(t, "CS201", "Programming", "ivy@x.io")
	c.course(t, "ART1", "Design", "max@x.io")
	c.course(t, "DB1", "Data", "max@x.io")

	c.enroll(t, "alice@x.io", "CS101")
	c.enroll(t, "alice@x.io", "ART1")
	c.enroll(t, "bob@x.io", "CS101")
	c.enroll(t, "bob@x.io", "ART1")
	c.enroll(t, "carol@x.io", "DB1")

	c.review(t, "alice@x.io", "CS101", 9)
	c.review(t, "bob@x.io", "CS101", 7)
	return c
}

func TestEngineCollaborationScenario(t *testing.T) {
	c := newCampus(t)
	rows, err := NewEngine(c.graph).Collaboration(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ivy", rows[0].InstructorA)
	assert.Equal(t, "Max", rows[0].InstructorB)
	assert.Equal(t, "2 Alumnos", rows[0].Reason())
}

func TestEngineRecommend(t *testing.T) {
	c := newCampus(t)
	e := NewEngine(c.graph)
	ctx := context.Background()

	recs, err := e.Recommend(ctx, "alice@x.io")
	require.NoError(t, err)
	var titles []string
	for _, r := range recs {
		titles = append(titles, r.Title)
	}
	assert.Equal(t, []string{"CS201", "DB1"}, titles)
	assert.Equal(t, ReasonSameCategory, recs[0].Reason)
	assert.Equal(t, ReasonSameInstructor, recs[1].Reason)

	c.person(t, "Dan", "dan@x.io", store.RoleStudent)
	_, err = e.Recommend(ctx, "dan@x.io")
	assert.ErrorIs(t, err, ErrNoEnrollments)

	_, err = e.Recommend(ctx, "ghost@x.io")
	assert.ErrorIs(t, err, ErrStudentNotFound)
}

func TestEngineRoster(t *testing.T) {
	c := newCampus(t)
	r, err := NewEngine(c.graph).InstructorRoster(context.Background(), "ivy@x.io")
	require.NoError(t, err)
	require.Len(t, r.Courses, 2)
	assert.Equal(t, "CS101", r.Courses[0].Title)
	assert.Len(t, r.Courses[0].Students, 2)
	assert.Empty(t, r.Courses[1].Students)

	_, err = NewEngine(c.graph).InstructorRoster(context.Background(), "alice@x.io")
	assert.ErrorIs(t, err, ErrInstructorNotFound)
}

func TestEnginePopularityAndReviews(t *testing.T) {
	c := newCampus(t)
	e := NewEngine(c.graph)
	ctx := context.Background()

	pop, err := e.Popularity(ctx)
	require.NoError(t, err)
	assert.Equal(t, PopularityRow{Title: "CS101", Enrollments: 2, Reviews: 2}, pop[0])
	assert.Equal(t, PopularityRow{Title: "CS201"}, pop[1])

	a, err := e.ReviewAnalysis(ctx)
	require.NoError(t, err)
	assert.Equal(t, "8.00", FormatMean(a.Courses[0].Average))
	assert.Equal(t, 0, a.Courses[1].Count)
	assert.Equal(t, "0.00", FormatMean(a.Courses[1].Average))
	assert.Equal(t, 2, a.Instructors[0].Count)
	assert.Equal(t, 0, a.Instructors[1].Count)

	cats, err := e.CategoryPerformance(ctx)
	require.NoError(t, err)
	assert.Equal(t, []CategoryRating{{Category: "Programming", Average: 8, Reviews: 2}}, cats)
}

func TestEngineStudentViews(t *testing.T) {
	c := newCampus(t)
	e := NewEngine(c.graph)
	ctx := context.Background()

	peers, err := e.NetworkPeers(ctx, "carol@x.io")
	require.NoError(t, err)
	var names []string
	for _, p := range peers {
		names = append(names, p.Name)
	}
	assert.ElementsMatch(t, []string{"Alice", "Bob"}, names)

	aff, err := e.Affinity(ctx, "alice@x.io")
	require.NoError(t, err)
	assert.Equal(t, []AffinityRow{{"Programming", 1}, {"Design", 1}}, aff)

	hist, err := e.History(ctx, "bob@x.io")
	require.NoError(t, err)
	assert.Equal(t, []HistoryRow{{Course: "CS101", Instructors: []string{"Ivy"}}, {Course: "ART1", Instructors: []string{"Max"}}}, hist)

	overlap, err := e.PeerOverlap(ctx)
	require.NoError(t, err)
	assert.Equal(t, []PeerOverlapRow{{StudentA: "Alice", StudentB: "Bob", SharedCourses: 2}}, overlap)

	inf, err := e.Influence(ctx)
	require.NoError(t, err)
	assert.Equal(t, []InfluenceRow{{Name: "Max", Students: 3}, {Name: "Ivy", Students: 2}}, inf)

	cross, err := e.CrossConnections(ctx)
	require.NoError(t, err)
	assert.Empty(t, cross)
}

func TestEngineWrapsGraphErrors(t *testing.T) {
	c := newCampus(t)
	boom := errors.New("graph down")
	c.graph.Fail("Courses", boom)
	_, err := NewEngine(c.graph).Popularity(context.Background())
	assert.ErrorIs(t, err, boom)
}
