package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/learnlink/internal/identity"
	"github.com/abhisek/learnlink/internal/logger"
	"github.com/abhisek/learnlink/internal/store"
	"github.com/abhisek/learnlink/internal/store/memstore"
	"github.com/abhisek/learnlink/internal/validate"
)

type outcomes struct{ got []store.WriteOutcome }

func (o *outcomes) AppendOutcome(_ context.Context, out store.WriteOutcome) error {
	o.got = append(o.got, out)
	return nil
}

func (o *outcomes) QueryOutcomes(context.Context, store.QueryOpts) ([]store.OutcomeRecord, error) {
	return nil, nil
}

func (o *outcomes) GetOutcome(context.Context, int) (*store.OutcomeRecord, error) { return nil, nil }

func newService() (*Service, *memstore.Documents, *memstore.Graph, *outcomes) {
	docs := memstore.NewDocuments()
	graph := memstore.NewGraph()
	j := &outcomes{}
	return NewService(docs, graph, logger.NewNop(), WithJournal(j)), docs, graph, j
}

func TestRegisterUser(t *testing.T) {
	svc, docs, graph, j := newService()
	ctx := context.Background()

	res, err := svc.RegisterUser(ctx, NewUser{Name: " Bob ", Email: "bob@x.io", Password: "hunter2", Role: "Instructor"})
	require.NoError(t, err)
	assert.False(t, res.Partial())
	assert.NotEmpty(t, res.User.UUID)
	assert.Equal(t, store.RoleInstructor, res.User.Role)

	stored, err := docs.FindUserByEmail(ctx, "bob@x.io")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Bob", stored.Name)
	assert.NotEqual(t, "hunter2", stored.PasswordHash)
	assert.True(t, identity.CheckPassword(stored.PasswordHash, "hunter2"))

	assert.Equal(t, 1, graph.NodeCount("Instructor"))
	require.Len(t, j.got, 1)
	assert.Equal(t, "register_user", j.got[0].Operation)

	_, err = svc.RegisterUser(ctx, NewUser{Name: "Alice", Email: "alice@x.io", Password: "pw12", Role: "student"})
	require.NoError(t, err)
	assert.Equal(t, 1, graph.NodeCount("User"))
}

func TestRegisterUserRejects(t *testing.T) {
	svc, _, graph, _ := newService()
	ctx := context.Background()

	_, err := svc.RegisterUser(ctx, NewUser{Name: "Bob", Email: "not-an-email", Password: "pw12", Role: "student"})
	var ve *validate.Error
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "email", ve.Field)

	_, err = svc.RegisterUser(ctx, NewUser{Name: "Bob", Email: "bob@x.io", Password: "pw12", Role: "janitor"})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "role", ve.Field)

	_, err = svc.RegisterUser(ctx, NewUser{Name: "Bob", Email: "bob@x.io", Password: "pw12", Role: "student"})
	require.NoError(t, err)
	_, err = svc.RegisterUser(ctx, NewUser{Name: "Bobby", Email: "bob@x.io", Password: "pw12", Role: "student"})
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Equal(t, 1, graph.NodeCount("User"))
}

func TestRegisterUserGraphFailureIsPartial(t *testing.T) {
	svc, docs, graph, _ := newService()
	graph.Fail("InsertPerson", errors.New("dgraph down"))

	res, err := svc.RegisterUser(context.Background(), NewUser{Name: "Bob", Email: "bob@x.io", Password: "pw12", Role: "student"})
	require.NoError(t, err)
	assert.True(t, res.Partial())
	u, _ := docs.FindUserByEmail(context.Background(), "bob@x.io")
	assert.NotNil(t, u)
}

func seedInstructor(t *testing.T, svc *Service) store.User {
	t.Helper()
	res, err := svc.RegisterUser(context.Background(), NewUser{Name: "Bob", Email: "bob@x.io", Password: "pw12", Role: "instructor"})
	require.NoError(t, err)
	return res.User
}

func TestCreateCourse(t *testing.T) {
	svc, _, graph, _ := newService()
	ctx := context.Background()
	bob := seedInstructor(t, svc)

	res, err := svc.CreateCourse(ctx, NewCourse{Title: "CS101", Category: "Programming", InstructorEmail: bob.Email})
	require.NoError(t, err)
	assert.False(t, res.Partial())

	inst, err := graph.Instructor(ctx, bob.Email)
	require.NoError(t, err)
	require.Len(t, inst.Teaches, 1)
	assert.Equal(t, "CS101", inst.Teaches[0].Title)

	_, err = svc.CreateCourse(ctx, NewCourse{Title: "CS101", Category: "Programming", InstructorEmail: bob.Email})
	assert.ErrorIs(t, err, ErrTitleTaken)
}

func TestCreateCourseRequiresInstructor(t *testing.T) {
	svc, _, _, _ := newService()
	ctx := context.Background()
	_, err := svc.RegisterUser(ctx, NewUser{Name: "Alice", Email: "alice@x.io", Password: "pw12", Role: "student"})
	require.NoError(t, err)

	_, err = svc.CreateCourse(ctx, NewCourse{Title: "CS101", Category: "Programming", InstructorEmail: "alice@x.io"})
	assert.ErrorIs(t, err, ErrInstructorNotFound)
	_, err = svc.CreateCourse(ctx, NewCourse{Title: "CS101", Category: "Programming", InstructorEmail: "ghost@x.io"})
	assert.ErrorIs(t, err, ErrInstructorNotFound)
}

func TestCreateCourseSkipsGraphWithoutInstructorNode(t *testing.T) {
	svc, docs, graph, _ := newService()
	ctx := context.Background()
	require.NoError(t, docs.InsertUser(ctx, store.User{Email: "legacy@x.io", Name: "Legacy", Role: store.RoleInstructor}))

	res, err := svc.CreateCourse(ctx, NewCourse{Title: "Old", Category: "Misc", InstructorEmail: "legacy@x.io"})
	require.NoError(t, err)
	require.Len(t, res.Mirrors, 1)
	assert.True(t, res.Mirrors[0].Skipped)
	assert.Zero(t, graph.NodeCount("Course"))
}

func TestAddLessonOwnership(t *testing.T) {
	svc, _, _, _ := newService()
	ctx := context.Background()
	bob := seedInstructor(t, svc)
	_, err := svc.CreateCourse(ctx, NewCourse{Title: "CS101", Category: "Programming", InstructorEmail: bob.Email})
	require.NoError(t, err)

	lesson := NewLesson{CourseTitle: "CS101", Title: "Pointers", URL: "https://x.io/pointers"}
	_, err = svc.AddLesson(ctx, bob, lesson)
	require.NoError(t, err)

	other := store.User{Email: "eve@x.io", Role: store.RoleInstructor}
	_, err = svc.AddLesson(ctx, other, lesson)
	assert.ErrorIs(t, err, ErrNotCourseInstructor)

	admin := store.User{Email: "root@x.io", Role: store.RoleAdmin}
	_, err = svc.AddLesson(ctx, admin, lesson)
	require.NoError(t, err)
	_, err = svc.AddLesson(ctx, admin, NewLesson{CourseTitle: "Nope", Title: "x", URL: "https://x.io"})
	assert.ErrorIs(t, err, ErrCourseNotFound)

	_, err = svc.AddLesson(ctx, store.User{Role: store.RoleStudent}, lesson)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.AddLesson(ctx, bob, NewLesson{CourseTitle: "CS101", Title: "No URL"})
	assert.True(t, validate.IsValidation(err))

	n, err := svc.CountLessons(ctx, "CS101")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestQueries(t *testing.T) {
	svc, docs, _, _ := newService()
	ctx := context.Background()
	bob := seedInstructor(t, svc)
	_, err := svc.CreateCourse(ctx, NewCourse{Title: "CS101", Category: "Programming", InstructorEmail: bob.Email})
	require.NoError(t, err)
	require.NoError(t, docs.InsertEnrollment(ctx, store.Enrollment{UserEmail: "alice@x.io", CourseTitle: "CS101"}))
	require.NoError(t, docs.InsertReview(ctx, store.Review{CourseTitle: "CS101", Username: "Alice", Rating: 9}))

	users, err := svc.SearchUsers(ctx, "")
	require.NoError(t, err)
	assert.Len(t, users, 1)
	_, err = svc.SearchUsers(ctx, "wizard")
	assert.True(t, validate.IsValidation(err))

	taught, err := svc.CoursesTaught(ctx, bob.Email)
	require.NoError(t, err)
	assert.Len(t, taught, 1)

	cardex, err := svc.Cardex(ctx, "alice@x.io")
	require.NoError(t, err)
	assert.Len(t, cardex, 1)

	mine, err := svc.MyReviews(ctx, store.User{Name: "Alice"})
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	byCourse, err := svc.ReviewsByCourse(ctx, "CS101")
	require.NoError(t, err)
	assert.Len(t, byCourse, 1)

	_, err = svc.SearchLessons(ctx, "  ")
	assert.True(t, validate.IsValidation(err))
}
