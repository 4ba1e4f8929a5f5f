package identity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/learnlink/internal/logger"
	"github.com/abhisek/learnlink/internal/store"
	"github.com/abhisek/learnlink/internal/store/memstore"
	"github.com/abhisek/learnlink/internal/validate"
)

var fixedNow = time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)

func newService(t *testing.T) (*Service, *memstore.Documents, *memstore.Wide) {
	t.Helper()
	docs := memstore.NewDocuments()
	wide := memstore.NewWide()
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	require.NoError(t, docs.InsertUser(context.Background(), store.User{
		UUID: uuid.NewString(), Name: "Alice", Email: "alice@x.io", PasswordHash: hash, Role: store.RoleStudent,
	}))
	svc := NewService(docs, wide, logger.NewNop(), WithClock(func() time.Time { return fixedNow }))
	return svc, docs, wide
}

func TestCheckPasswordFormats(t *testing.T) {
	hash, err := HashPassword("pw")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "pw"))
	assert.False(t, CheckPassword(hash, "PW"))

	sum := sha256.Sum256([]byte("pw"))
	digest := hex.EncodeToString(sum[:])
	assert.True(t, CheckPassword(digest, "pw"))
	assert.False(t, CheckPassword(digest, "other"))

	assert.True(t, CheckPassword("plain-pw", "plain-pw"))
	assert.False(t, CheckPassword("plain-pw", "plain"))
	assert.False(t, CheckPassword("", ""))
}

func TestLoginWritesBothLogViews(t *testing.T) {
	svc, _, wide := newService(t)

	res, err := svc.Login(context.Background(), " alice@x.io ", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "Alice", res.User.Name)
	assert.False(t, res.Partial())

	require.Len(t, wide.UserLogs(), 1)
	require.Len(t, wide.RoleLogs(), 1)
	entry := wide.UserLogs()[0]
	assert.Equal(t, store.ActionLogIn, entry.Action)
	assert.Equal(t, store.RoleStudent, entry.Role)
	assert.True(t, entry.ActionDate.Equal(fixedNow))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _, wide := newService(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, "alice@x.io", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@x.io", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "", "s3cret")
	assert.True(t, validate.IsValidation(err))

	assert.Zero(t, wide.TotalCalls())
}

func TestLoginToleratesLogFailure(t *testing.T) {
	svc, _, wide := newService(t)
	wide.Fail("AppendLogByRole", errors.New("cassandra down"))

	res, err := svc.Login(context.Background(), "alice@x.io", "s3cret")
	require.NoError(t, err)
	assert.True(t, res.Partial())
	require.Len(t, res.Failed(), 1)
	assert.Equal(t, "logs_by_role", res.Failed()[0].Step)
	assert.Len(t, wide.UserLogs(), 1)
}

func TestLoginStoreFailure(t *testing.T) {
	svc, docs, _ := newService(t)
	boom := &store.UnavailableError{Store: store.StoreDocuments, Err: errors.New("refused")}
	docs.Fail("FindUserByEmail", boom)

	_, err := svc.Login(context.Background(), "alice@x.io", "s3cret")
	assert.True(t, store.IsUnavailable(err))
}

func TestLogoutSkipsUserWithoutID(t *testing.T) {
	svc, _, wide := newService(t)

	out := svc.Logout(context.Background(), store.User{Email: "legacy@x.io", Role: store.RoleAdmin})
	assert.True(t, out.Partial())
	for _, m := range out.Mirrors {
		assert.True(t, m.Skipped)
	}
	assert.Zero(t, wide.TotalCalls())

	out = svc.Logout(context.Background(), store.User{UUID: uuid.NewString(), Email: "a@x.io", Role: store.RoleAdmin})
	assert.False(t, out.Partial())
	logs, err := wide.LogsByRole(context.Background(), store.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, store.ActionLogOut, logs[0].Action)
}

func TestSession(t *testing.T) {
	var s Session
	_, ok := s.Current()
	assert.False(t, ok)

	s.Set(store.User{Email: "a@x.io"})
	u, ok := s.Current()
	assert.True(t, ok)
	assert.Equal(t, "a@x.io", u.Email)

	s.Clear()
	_, ok = s.Current()
	assert.False(t, ok)
}
