// Package result shows what a menu action returned and runs actions
// asynchronously on behalf of the menu and form screens.
package result

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnlink/internal/menu"
	"github.com/abhisek/learnlink/internal/router"
	"github.com/abhisek/learnlink/internal/screen"
	"github.com/abhisek/learnlink/internal/ui/components"
	"github.com/abhisek/learnlink/internal/ui/layout"
	"github.com/abhisek/learnlink/internal/ui/theme"
)

// RunTimeout bounds one action against the stores.
const RunTimeout = 30 * time.Second

// RunMsg carries the outcome of an action started with Run.
type RunMsg struct {
	ActionID string
	Result   *menu.Result
	Err      error
}

// Run executes the action off the UI loop.
func Run(action menu.Action, in menu.Input) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), RunTimeout)
		defer cancel()
		res, err := action.Run(ctx, in)
		return RunMsg{ActionID: action.ID, Result: res, Err: err}
	}
}

// ResultScreen displays the tables and messages of an action.
type ResultScreen struct {
	res    *menu.Result
	offset int
}

var _ screen.Screen = (*ResultScreen)(nil)
var _ screen.KeyHintProvider = (*ResultScreen)(nil)

// New creates a new ResultScreen.
func New(res *menu.Result) *ResultScreen {
	return &ResultScreen{res: res}
}

func (s *ResultScreen) Init() tea.Cmd {
	return nil
}

func (s *ResultScreen) Title() string {
	if s.res == nil || s.res.Title == "" {
		return "Resultado"
	}
	return s.res.Title
}

func (s *ResultScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Desplazar"},
		{Key: "Enter", Description: "Volver"},
		{Key: "Esc", Description: "Volver"},
	}
}

func (s *ResultScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "enter", "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.offset > 0 {
				s.offset--
			}
		case "down", "j":
			s.offset++
		case "home", "g":
			s.offset = 0
		}
	}
	return s, nil
}

func (s *ResultScreen) View(width, height int) string {
	if s.res == nil {
		return ""
	}
	tableWidth := width - 4

	var b strings.Builder
	for _, t := range s.res.Tables {
		if t.Title != "" {
			b.WriteString(theme.Selected.Render(t.Title))
			b.WriteString("\n")
		}
		b.WriteString(components.RenderTable(t.Headers, t.Rows, tableWidth))
		b.WriteString("\n\n")
	}
	for _, m := range s.res.Messages {
		b.WriteString(theme.SuccessText.Render(m))
		b.WriteString("\n")
	}
	for _, w := range s.res.Warnings {
		b.WriteString(theme.WarningText.Render(w))
		b.WriteString("\n")
	}

	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	if limit := max(0, len(lines)-height); s.offset > limit {
		s.offset = limit
	}
	lines = lines[s.offset:]
	if len(lines) > height && height > 0 {
		lines = lines[:height]
	}
	return lipgloss.NewStyle().Padding(0, 2).Render(strings.Join(lines, "\n"))
}
