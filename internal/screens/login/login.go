package login

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnlink/internal/identity"
	"github.com/abhisek/learnlink/internal/menu"
	"github.com/abhisek/learnlink/internal/router"
	"github.com/abhisek/learnlink/internal/screen"
	"github.com/abhisek/learnlink/internal/store"
	"github.com/abhisek/learnlink/internal/ui/components"
	"github.com/abhisek/learnlink/internal/ui/layout"
	"github.com/abhisek/learnlink/internal/ui/theme"
)

const loginTimeout = 10 * time.Second

// Authenticator checks credentials.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*identity.LoginResult, error)
}

type loginResultMsg struct {
	Result *identity.LoginResult
	Err    error
}

const (
	focusEmail = iota
	focusPassword
	focusButton
)

// LoginScreen asks for email and password and replaces itself with the
// role menu once the user is authenticated.
type LoginScreen struct {
	auth    Authenticator
	session *identity.Session
	onLogin func(store.User) screen.Screen

	email    components.TextInput
	password components.TextInput
	button   components.Button
	focus    int
	pending  bool
	errMsg   string
}

var _ screen.Screen = (*LoginScreen)(nil)
var _ screen.KeyHintProvider = (*LoginScreen)(nil)

// New creates a LoginScreen. onLogin builds the screen shown after a
// successful login.
func New(auth Authenticator, session *identity.Session, onLogin func(store.User) screen.Screen) *LoginScreen {
	s := &LoginScreen{
		auth:     auth,
		session:  session,
		onLogin:  onLogin,
		email:    components.NewTextInput("Email", "usuario@learnlink.io", false, 254),
		password: components.NewTextInput("Contraseña", "", true, 128),
	}
	s.button = components.NewButton("Iniciar sesión", s.submit)
	return s
}

func (s *LoginScreen) Init() tea.Cmd {
	return s.email.Focus()
}

func (s *LoginScreen) Title() string {
	return "Iniciar sesión"
}

func (s *LoginScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Siguiente campo"},
		{Key: "Enter", Description: "Continuar"},
		{Key: "Ctrl+C", Description: "Salir"},
	}
}

func (s *LoginScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		s.pending = false
		if msg.Err != nil {
			s.errMsg = menu.Message(msg.Err)
			s.password.SetValue("")
			s.password.MarkInvalid()
			return s, s.setFocus(focusPassword)
		}
		user := msg.Result.User
		if s.session != nil {
			s.session.Set(user)
		}
		next := s.onLogin(user)
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }

	case tea.KeyPressMsg:
		if s.pending {
			return s, nil
		}
		switch msg.String() {
		case "tab", "down":
			return s, s.setFocus((s.focus + 1) % 3)
		case "shift+tab", "up":
			return s, s.setFocus((s.focus + 2) % 3)
		case "enter":
			switch s.focus {
			case focusEmail:
				return s, s.setFocus(focusPassword)
			case focusPassword:
				return s, s.submit()
			}
		}
	}

	var cmd tea.Cmd
	switch s.focus {
	case focusEmail:
		s.email, cmd = s.email.Update(msg)
	case focusPassword:
		s.password, cmd = s.password.Update(msg)
	case focusButton:
		s.button, cmd = s.button.Update(msg)
	}
	return s, cmd
}

func (s *LoginScreen) setFocus(f int) tea.Cmd {
	s.focus = f
	s.email.Blur()
	s.password.Blur()
	s.button.Active = f == focusButton
	switch f {
	case focusEmail:
		return s.email.Focus()
	case focusPassword:
		return s.password.Focus()
	}
	return nil
}

func (s *LoginScreen) submit() tea.Cmd {
	if s.pending {
		return nil
	}
	s.pending = true
	s.errMsg = ""
	email, password := strings.TrimSpace(s.email.Value()), s.password.Value()
	auth := s.auth
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loginTimeout)
		defer cancel()
		res, err := auth.Login(ctx, email, password)
		return loginResultMsg{Result: res, Err: err}
	}
}

func (s *LoginScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var form strings.Builder
	form.WriteString(s.email.View())
	form.WriteString("\n\n")
	form.WriteString(s.password.View())
	form.WriteString("\n\n")
	form.WriteString(s.button.View())

	status := ""
	switch {
	case s.pending:
		status = theme.Hint.Render("Verificando...")
	case s.errMsg != "":
		status = theme.ErrorText.Render(s.errMsg)
	}

	sections := []string{
		RenderBanner(width),
		"",
		theme.Subtitle.Render("Plataforma de cursos en línea"),
		"",
		components.Panel(form.String(), cw),
	}
	if status != "" {
		sections = append(sections, "", status)
	}
	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return components.Centered(content, width, height)
}
