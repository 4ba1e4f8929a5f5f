package login

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/learnlink/internal/identity"
	"github.com/abhisek/learnlink/internal/router"
	"github.com/abhisek/learnlink/internal/screen"
	"github.com/abhisek/learnlink/internal/store"
)

// stubScreen is a minimal screen implementation for testing.
type stubScreen struct{ user store.User }

func (s *stubScreen) Init() tea.Cmd                          { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                   { return "home" }
func (s *stubScreen) Title() string                          { return "Home" }

type fakeAuth struct {
	calls    int
	email    string
	password string
}

func (f *fakeAuth) Login(_ context.Context, email, password string) (*identity.LoginResult, error) {
	f.calls++
	f.email, f.password = email, password
	if email != "ana@x.io" || password != "secret" {
		return nil, identity.ErrInvalidCredentials
	}
	return &identity.LoginResult{User: store.User{Name: "Ana", Email: email, Role: store.RoleStudent}}, nil
}

func typeText(s screen.Screen, text string) screen.Screen {
	for _, r := range text {
		s, _ = s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	return s
}

func enter(s screen.Screen) (screen.Screen, tea.Cmd) {
	return s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
}

func TestLoginSuccessReplacesWithHome(t *testing.T) {
	auth := &fakeAuth{}
	session := &identity.Session{}
	var built *stubScreen
	s := New(auth, session, func(u store.User) screen.Screen {
		built = &stubScreen{user: u}
		return built
	})
	s.Init()

	var cur screen.Screen = s
	cur = typeText(cur, " ana@x.io ")
	cur, _ = enter(cur)
	if s.focus != focusPassword {
		t.Fatalf("focus = %d after enter on email, want password", s.focus)
	}
	cur = typeText(cur, "secret")
	cur, cmd := enter(cur)
	if cmd == nil {
		t.Fatal("expected login command")
	}

	_, cmd = cur.Update(cmd())
	if auth.email != "ana@x.io" {
		t.Errorf("email = %q, want trimmed address", auth.email)
	}
	if cmd == nil {
		t.Fatal("expected replace command after login")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	if msg.Screen != built || built.user.Email != "ana@x.io" {
		t.Error("home screen should be built for the logged-in user")
	}
	if u, ok := session.Current(); !ok || u.Role != store.RoleStudent {
		t.Errorf("session = %+v, %v", u, ok)
	}
}

func TestLoginFailureShowsMessageAndClearsPassword(t *testing.T) {
	auth := &fakeAuth{}
	s := New(auth, &identity.Session{}, func(store.User) screen.Screen { return &stubScreen{} })
	s.Init()

	var cur screen.Screen = s
	cur = typeText(cur, "ana@x.io")
	cur, _ = enter(cur)
	cur = typeText(cur, "wrong")
	cur, cmd := enter(cur)
	cur.Update(cmd())

	if s.password.Value() != "" {
		t.Error("password should be cleared after a failed login")
	}
	if !strings.Contains(s.View(100, 30), "Email o contraseña incorrectos") {
		t.Error("view should show the credentials error")
	}
}

func TestLoginIgnoresKeysWhilePending(t *testing.T) {
	auth := &fakeAuth{}
	s := New(auth, &identity.Session{}, func(store.User) screen.Screen { return &stubScreen{} })
	s.Init()
	s.setFocus(focusPassword)

	_, cmd := enter(s)
	if cmd == nil {
		t.Fatal("expected login command")
	}
	if _, again := enter(s); again != nil {
		t.Error("second submit while pending should be ignored")
	}
	if !strings.Contains(s.View(100, 30), "Verificando") {
		t.Error("view should show pending state")
	}
}

func TestLoginButtonSubmits(t *testing.T) {
	auth := &fakeAuth{}
	s := New(auth, &identity.Session{}, func(store.User) screen.Screen { return &stubScreen{} })
	s.Init()

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	if !s.button.Active {
		t.Fatal("button should be focused after two tabs")
	}
	_, cmd := enter(s)
	if cmd == nil {
		t.Fatal("button should submit on enter")
	}
	cmd()
	if auth.calls != 1 {
		t.Errorf("calls = %d, want 1", auth.calls)
	}
}

func TestRenderBannerCompact(t *testing.T) {
	if !strings.Contains(RenderBanner(40), bannerCompact) {
		t.Error("narrow terminals should get the compact banner")
	}
	if strings.Contains(RenderBanner(100), bannerCompact) {
		t.Error("wide terminals should get the full banner")
	}
}
