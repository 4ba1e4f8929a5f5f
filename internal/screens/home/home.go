// Package home renders a role menu and dispatches its actions.
package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnlink/internal/menu"
	"github.com/abhisek/learnlink/internal/router"
	"github.com/abhisek/learnlink/internal/screen"
	"github.com/abhisek/learnlink/internal/screens/form"
	"github.com/abhisek/learnlink/internal/screens/result"
	"github.com/abhisek/learnlink/internal/ui/components"
	"github.com/abhisek/learnlink/internal/ui/layout"
	"github.com/abhisek/learnlink/internal/ui/theme"
)

// HomeScreen lists the actions of a menu.
type HomeScreen struct {
	title    string
	greeting string
	actions  []menu.Action
	menu     components.Menu
	logout   func() tea.Cmd
	running  string
	errMsg   string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a HomeScreen. logout runs when a logout action is chosen.
func New(title, greeting string, actions []menu.Action, logout func() tea.Cmd) *HomeScreen {
	h := &HomeScreen{
		title:    title,
		greeting: greeting,
		actions:  actions,
		logout:   logout,
	}
	items := make([]components.MenuItem, len(actions))
	for i := range actions {
		a := actions[i]
		items[i] = components.MenuItem{Label: a.Label, Action: func() tea.Cmd { return h.open(a) }}
	}
	h.menu = components.NewMenu(items)
	return h
}

func (h *HomeScreen) open(a menu.Action) tea.Cmd {
	h.errMsg = ""
	switch {
	case a.Logout:
		if h.logout == nil {
			return tea.Quit
		}
		return h.logout()
	case len(a.Submenu) > 0:
		sub := New(a.Label, "", a.Submenu, h.logout)
		return func() tea.Msg { return router.PushScreenMsg{Screen: sub} }
	case len(a.Fields) > 0 || a.Hint != nil:
		f := form.New(a)
		return func() tea.Msg { return router.PushScreenMsg{Screen: f} }
	case a.Run != nil:
		if h.running != "" {
			return nil
		}
		h.running = a.ID
		return result.Run(a, menu.Input{})
	}
	return nil
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Title() string {
	return h.title
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navegar"},
		{Key: "Enter", Description: "Seleccionar"},
		{Key: "Ctrl+C", Description: "Salir"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case result.RunMsg:
		if msg.ActionID != h.running {
			return h, nil
		}
		h.running = ""
		if msg.Err != nil {
			h.errMsg = menu.Message(msg.Err)
			return h, nil
		}
		next := result.New(msg.Result)
		return h, func() tea.Msg { return router.PushScreenMsg{Screen: next} }

	case tea.KeyPressMsg:
		if h.running != "" {
			return h, nil
		}
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var sections []string
	if h.greeting != "" {
		sections = append(sections, theme.Title.Width(cw).Render(h.greeting), "")
	}
	sections = append(sections, components.Panel(strings.TrimRight(h.menu.View(), "\n"), cw))

	switch {
	case h.running != "":
		sections = append(sections, "", theme.Hint.Render("Consultando..."))
	case h.errMsg != "":
		sections = append(sections, "", theme.ErrorText.Width(cw).Render(h.errMsg))
	}

	return components.Centered(lipgloss.JoinVertical(lipgloss.Center, sections...), width, height)
}
