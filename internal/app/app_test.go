package app

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/learnlink/internal/catalog"
	"github.com/abhisek/learnlink/internal/identity"
	"github.com/abhisek/learnlink/internal/logger"
	"github.com/abhisek/learnlink/internal/menu"
	"github.com/abhisek/learnlink/internal/router"
	"github.com/abhisek/learnlink/internal/screens/home"
	"github.com/abhisek/learnlink/internal/store"
	"github.com/abhisek/learnlink/internal/store/memstore"
)

type harness struct {
	opts Options
	wide *memstore.Wide
	user store.User
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	docs, wide, graph := memstore.NewDocuments(), memstore.NewWide(), memstore.NewGraph()
	log := logger.NewNop()
	ctx := context.Background()

	_, err := catalog.NewService(docs, graph, log).RegisterUser(ctx, catalog.NewUser{
		Name: "Ana", Email: "ana@x.io", Password: "secret", Role: string(store.RoleStudent),
	})
	require.NoError(t, err)
	u, err := docs.FindUserByEmail(ctx, "ana@x.io")
	require.NoError(t, err)
	require.NotNil(t, u)

	return &harness{
		opts: Options{
			Identity: identity.NewService(docs, wide, log),
			Session:  &identity.Session{},
			Menu:     menu.Deps{Catalog: catalog.NewService(docs, graph, log)},
			Log:      log,
		},
		wide: wide,
		user: *u,
	}
}

func TestAppStartsAtLogin(t *testing.T) {
	h := newHarness(t)
	m := newAppModel(h.opts)
	assert.Equal(t, "Iniciar sesión", m.router.Active().Title())

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	view := next.(AppModel).View()
	assert.NotNil(t, view.Content)
}

func TestAppHeaderShowsAccount(t *testing.T) {
	h := newHarness(t)
	m := newAppModel(h.opts)
	assert.Empty(t, m.account())

	h.opts.Session.Set(h.user)
	assert.True(t, strings.HasPrefix(m.account(), "Ana (student)"))
}

func TestRoleMenuLogoutRecordsAndClears(t *testing.T) {
	h := newHarness(t)
	h.opts.Session.Set(h.user)

	s := roleMenu(h.opts, h.user)
	hs, ok := s.(*home.HomeScreen)
	require.True(t, ok)
	assert.Equal(t, "Menú de alumno", hs.Title())

	logout(h.opts, h.user)()
	_, loggedIn := h.opts.Session.Current()
	assert.False(t, loggedIn)

	logs := h.wide.UserLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, store.ActionLogOut, logs[0].Action)
}

func TestAppKeys(t *testing.T) {
	h := newHarness(t)
	m := newAppModel(h.opts)

	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.Nil(t, cmd, "esc at the root should not pop")

	m.router.Push(roleMenu(h.opts, h.user))
	_, cmd = m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
	assert.IsType(t, router.PopScreenMsg{}, cmd())
}
