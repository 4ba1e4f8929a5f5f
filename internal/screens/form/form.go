// Package form prompts for the fields of a menu action and runs it.
package form

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnlink/internal/menu"
	"github.com/abhisek/learnlink/internal/router"
	"github.com/abhisek/learnlink/internal/screen"
	"github.com/abhisek/learnlink/internal/screens/result"
	"github.com/abhisek/learnlink/internal/ui/components"
	"github.com/abhisek/learnlink/internal/ui/layout"
	"github.com/abhisek/learnlink/internal/ui/theme"
	"github.com/abhisek/learnlink/internal/validate"
)

const hintTimeout = 10 * time.Second

const missingRequired = "Completa los campos obligatorios."

type hintLoadedMsg struct {
	Table *menu.Table
	Err   error
}

// field is either a free-text input or a fixed choice.
type field struct {
	def    menu.Field
	input  components.TextInput
	choice components.Choice
}

func (f *field) isChoice() bool {
	return len(f.def.Choices) > 0
}

func (f *field) value() string {
	if f.isChoice() {
		return f.choice.Value()
	}
	return f.input.Value()
}

// FormScreen collects an action's input and replaces itself with the
// result once the action succeeds.
type FormScreen struct {
	action  menu.Action
	fields  []field
	button  components.Button
	focus   int
	hint    *menu.Table
	hintErr string
	pending bool
	errMsg  string
}

var _ screen.Screen = (*FormScreen)(nil)
var _ screen.KeyHintProvider = (*FormScreen)(nil)

// New creates a FormScreen for action.
func New(action menu.Action) *FormScreen {
	s := &FormScreen{action: action}
	for _, def := range action.Fields {
		f := field{def: def}
		if f.isChoice() {
			f.choice = components.NewChoice(def.Label, def.Choices)
		} else {
			f.input = components.NewTextInput(def.Label, def.Placeholder, def.Secret, 512)
			f.input.Optional = def.Optional
		}
		s.fields = append(s.fields, f)
	}
	s.button = components.NewButton("Aceptar", s.submit)
	return s
}

func (s *FormScreen) Init() tea.Cmd {
	cmds := []tea.Cmd{s.setFocus(0)}
	if hint := s.action.Hint; hint != nil {
		cmds = append(cmds, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), hintTimeout)
			defer cancel()
			t, err := hint(ctx)
			return hintLoadedMsg{Table: t, Err: err}
		})
	}
	return tea.Batch(cmds...)
}

func (s *FormScreen) Title() string {
	return s.action.Label
}

func (s *FormScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Siguiente"},
		{Key: "←→", Description: "Opción"},
		{Key: "Enter", Description: "Aceptar"},
		{Key: "Esc", Description: "Cancelar"},
	}
}

func (s *FormScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case hintLoadedMsg:
		if msg.Err != nil {
			s.hintErr = menu.Message(msg.Err)
		} else {
			s.hint = msg.Table
		}
		return s, nil

	case result.RunMsg:
		if msg.ActionID != s.action.ID {
			return s, nil
		}
		s.pending = false
		if msg.Err != nil {
			s.errMsg = menu.Message(msg.Err)
			s.markInvalid(msg.Err)
			return s, nil
		}
		next := result.New(msg.Result)
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }

	case tea.KeyPressMsg:
		if s.pending {
			return s, nil
		}
		switch msg.String() {
		case "tab", "down":
			return s, s.setFocus((s.focus + 1) % (len(s.fields) + 1))
		case "shift+tab", "up":
			return s, s.setFocus((s.focus + len(s.fields)) % (len(s.fields) + 1))
		case "enter":
			if s.focus < len(s.fields)-1 {
				return s, s.setFocus(s.focus + 1)
			}
			return s, s.submit()
		}
	}

	var cmd tea.Cmd
	if s.focus == len(s.fields) {
		s.button, cmd = s.button.Update(msg)
		return s, cmd
	}
	f := &s.fields[s.focus]
	if f.isChoice() {
		f.choice, cmd = f.choice.Update(msg)
	} else {
		f.input, cmd = f.input.Update(msg)
	}
	return s, cmd
}

func (s *FormScreen) setFocus(i int) tea.Cmd {
	s.focus = i
	var cmd tea.Cmd
	for j := range s.fields {
		f := &s.fields[j]
		if f.isChoice() {
			if j == i {
				f.choice.Focus()
			} else {
				f.choice.Blur()
			}
			continue
		}
		if j == i {
			cmd = f.input.Focus()
		} else {
			f.input.Blur()
		}
	}
	s.button.Active = i == len(s.fields)
	return cmd
}

// Input returns the current values by field key.
func (s *FormScreen) Input() menu.Input {
	in := make(menu.Input, len(s.fields))
	for i := range s.fields {
		in[s.fields[i].def.Key] = s.fields[i].value()
	}
	return in
}

func (s *FormScreen) submit() tea.Cmd {
	if s.pending || s.action.Run == nil {
		return nil
	}
	for i := range s.fields {
		f := &s.fields[i]
		if f.isChoice() || f.def.Optional || strings.TrimSpace(f.value()) != "" {
			continue
		}
		f.input.MarkInvalid()
		s.errMsg = missingRequired
		return s.setFocus(i)
	}
	s.pending = true
	s.errMsg = ""
	return result.Run(s.action, s.Input())
}

// markInvalid flags the field a validation error names.
func (s *FormScreen) markInvalid(err error) {
	var ve *validate.Error
	if !errors.As(err, &ve) {
		return
	}
	for i := range s.fields {
		if s.fields[i].def.Key == ve.Field && !s.fields[i].isChoice() {
			s.fields[i].input.MarkInvalid()
		}
	}
}

func (s *FormScreen) View(width, height int) string {
	var sections []string

	switch {
	case s.hint != nil && len(s.hint.Rows) > 0:
		if s.hint.Title != "" {
			sections = append(sections, theme.Selected.Render(s.hint.Title))
		}
		sections = append(sections, components.RenderTable(s.hint.Headers, s.hint.Rows, width-4), "")
	case s.hintErr != "":
		sections = append(sections, theme.WarningText.Render(s.hintErr), "")
	}

	var b strings.Builder
	for i := range s.fields {
		f := &s.fields[i]
		if f.isChoice() {
			label := theme.Hint.Render(f.def.Label + ":")
			if i == s.focus {
				label = theme.Body.Bold(true).Render(f.def.Label + ":")
			}
			b.WriteString(label + " " + f.choice.View())
		} else {
			b.WriteString(f.input.View())
		}
		b.WriteString("\n\n")
	}
	b.WriteString(s.button.View())
	sections = append(sections, components.Panel(b.String(), components.ContentWidth(width)))

	switch {
	case s.pending:
		sections = append(sections, "", theme.Hint.Render("Procesando..."))
	case s.errMsg != "":
		sections = append(sections, "", theme.ErrorText.Render(s.errMsg))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}
