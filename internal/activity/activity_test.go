package activity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/learnlink/internal/store"
	"github.com/abhisek/learnlink/internal/store/memstore"
	"github.com/abhisek/learnlink/internal/validate"
)

func grade(v float64) *float64 { return &v }

func seed(t *testing.T) (*Service, *memstore.Wide) {
	t.Helper()
	ctx := context.Background()
	docs := memstore.NewDocuments()
	wide := memstore.NewWide()
	require.NoError(t, docs.InsertCourse(ctx, store.Course{Title: "CS101", InstructorEmail: "bob@x.io"}))

	rows := []store.PortfolioRecord{
		{Email: "ana@x.io", Name: "Ana", CourseTitle: "CS101", Status: store.StatusCompleted, Grade: grade(9)},
		{Email: "ben@x.io", Name: "Ben", CourseTitle: "CS101", Status: store.StatusCompleted, Grade: grade(4.5)},
		{Email: "cy@x.io", Name: "Cy", CourseTitle: "CS101", Status: store.StatusCompleted},
		{Email: "dee@x.io", Name: "Dee", CourseTitle: "CS101", Status: store.StatusActive},
		{Email: "ana@x.io", Name: "Ana", CourseTitle: "DB1", Status: store.StatusActive},
	}
	for _, r := range rows {
		require.NoError(t, wide.InsertPortfolioByStudent(ctx, r))
		require.NoError(t, wide.InsertPortfolioByCourse(ctx, r))
	}

	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	logs := []store.SessionLog{
		{Email: "ana@x.io", Action: store.ActionLogIn, ActionDate: base, Role: store.RoleStudent},
		{Email: "ana@x.io", Action: store.ActionLogOut, ActionDate: base.Add(time.Hour), Role: store.RoleStudent},
		{Email: "bob@x.io", Action: store.ActionLogIn, ActionDate: base, Role: store.RoleInstructor},
	}
	for _, l := range logs {
		require.NoError(t, wide.AppendLogByUser(ctx, l))
		require.NoError(t, wide.AppendLogByRole(ctx, l))
	}
	return NewService(wide, docs, 0), wide
}

func emails(rows []store.PortfolioRecord) []string {
	var out []string
	for _, r := range rows {
		out = append(out, r.Email)
	}
	return out
}

func TestFailingStudentsIgnoresUngraded(t *testing.T) {
	svc, _ := seed(t)
	assert.Equal(t, DefaultFailingBelow, svc.FailingBelow())

	rows, err := svc.FailingStudents(context.Background(), "CS101")
	require.NoError(t, err)
	assert.Equal(t, []string{"ben@x.io"}, emails(rows))
}

func TestCourseGradesAndCount(t *testing.T) {
	svc, _ := seed(t)
	ctx := context.Background()

	rows, err := svc.CourseGrades(ctx, "CS101")
	require.NoError(t, err)
	assert.Equal(t, []string{"ana@x.io", "ben@x.io", "cy@x.io"}, emails(rows))

	n, err := svc.CountActive(ctx, "CS101")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = svc.CountActive(ctx, " ")
	assert.True(t, validate.IsValidation(err))
}

func TestStudentViews(t *testing.T) {
	svc, _ := seed(t)
	ctx := context.Background()

	done, err := svc.StudentGrades(ctx, "ana@x.io")
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, 9.0, *done[0].Grade)

	pending, err := svc.PendingCourses(ctx, "ana@x.io")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "DB1", pending[0].CourseTitle)
	assert.False(t, pending[0].Graded())
}

func TestLogs(t *testing.T) {
	svc, _ := seed(t)
	ctx := context.Background()

	all, err := svc.LogsByUser(ctx, "ana@x.io", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	ins, err := svc.LogsByUser(ctx, "ana@x.io", "LOG_IN")
	require.NoError(t, err)
	require.Len(t, ins, 1)
	assert.Equal(t, store.ActionLogIn, ins[0].Action)

	byRole, err := svc.LogsByRole(ctx, "instructor")
	require.NoError(t, err)
	require.Len(t, byRole, 1)
	assert.Equal(t, "bob@x.io", byRole[0].Email)

	_, err = svc.LogsByRole(ctx, "")
	assert.True(t, validate.IsValidation(err))
	_, err = svc.LogsByRole(ctx, "guest")
	assert.True(t, validate.IsValidation(err))
}

func TestParseAction(t *testing.T) {
	assert.Equal(t, store.ActionLogOut, ParseAction(" log_out "))
	assert.Equal(t, store.Action(""), ParseAction("todos"))
}

func TestInstructorViewsRequireOwnership(t *testing.T) {
	svc, wide := seed(t)
	ctx := context.Background()
	bob := store.User{Email: "bob@x.io", Role: store.RoleInstructor}

	active, err := svc.InstructorActiveStudents(ctx, bob, "CS101")
	require.NoError(t, err)
	assert.Equal(t, []string{"dee@x.io"}, emails(active))

	graded, err := svc.InstructorCourseGrades(ctx, bob, "CS101")
	require.NoError(t, err)
	assert.Len(t, graded, 3)

	calls := wide.TotalCalls()
	_, err = svc.InstructorCourseGrades(ctx, store.User{Email: "eve@x.io"}, "CS101")
	assert.ErrorIs(t, err, ErrNotCourseInstructor)
	_, err = svc.InstructorActiveStudents(ctx, bob, "Missing")
	assert.ErrorIs(t, err, ErrNotCourseInstructor)
	assert.Equal(t, calls, wide.TotalCalls())
}
