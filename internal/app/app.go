package app

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnlink/internal/identity"
	"github.com/abhisek/learnlink/internal/logger"
	"github.com/abhisek/learnlink/internal/menu"
	"github.com/abhisek/learnlink/internal/router"
	"github.com/abhisek/learnlink/internal/screen"
	"github.com/abhisek/learnlink/internal/screens/home"
	"github.com/abhisek/learnlink/internal/screens/login"
	"github.com/abhisek/learnlink/internal/store"
	"github.com/abhisek/learnlink/internal/ui/layout"
)

const logoutTimeout = 10 * time.Second

// Options holds the services the console runs against.
type Options struct {
	Identity *identity.Service
	Session  *identity.Session
	Menu     menu.Deps
	Log      *logger.Logger
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	session *identity.Session
	width   int
	height  int
}

// newAppModel creates an AppModel that starts at the login screen.
func newAppModel(opts Options) AppModel {
	if opts.Session == nil {
		opts.Session = &identity.Session{}
	}
	if opts.Log == nil {
		opts.Log = logger.NewNop()
	}
	loginScreen := login.New(opts.Identity, opts.Session, func(u store.User) screen.Screen {
		return roleMenu(opts, u)
	})
	return AppModel{
		router:  router.New(loginScreen),
		session: opts.Session,
	}
}

var menuTitles = map[store.Role]string{
	store.RoleAdmin:      "Menú de administrador",
	store.RoleInstructor: "Menú de instructor",
	store.RoleStudent:    "Menú de alumno",
}

func roleMenu(opts Options, u store.User) screen.Screen {
	title, ok := menuTitles[u.Role]
	if !ok {
		title = "Menú"
	}
	greeting := fmt.Sprintf("Bienvenido, %s", u.Name)
	return home.New(title, greeting, menu.For(u, opts.Menu), func() tea.Cmd {
		return tea.Sequence(logout(opts, u), tea.Quit)
	})
}

func logout(opts Options, u store.User) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), logoutTimeout)
		defer cancel()
		out := opts.Identity.Logout(ctx, u)
		if out.Partial() {
			opts.Log.Warn("logout not fully recorded", "email", u.Email)
		}
		opts.Session.Clear()
		return nil
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) account() string {
	u, ok := m.session.Current()
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s (%s)  ", u.Name, u.Role)
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	var footerHints []layout.KeyHint
	if active != nil {
		title = active.Title()
		if p, ok := active.(screen.KeyHintProvider); ok {
			footerHints = p.KeyHints()
		}
	}
	if footerHints == nil {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Volver"},
			{Key: "Ctrl+C", Description: "Salir"},
		}
	}

	header := layout.RenderHeader(title, m.account(), m.width)
	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
