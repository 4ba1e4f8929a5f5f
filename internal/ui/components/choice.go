package components

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnlink/internal/ui/theme"
)

// Choice is a horizontal single-option selector for fields with a fixed set
// of values.
type Choice struct {
	Label    string
	Options  []string
	Selected int
	focused  bool
}

// NewChoice creates a selector with the first option selected.
func NewChoice(label string, options []string) Choice {
	return Choice{Label: label, Options: options}
}

func (c *Choice) Focus() { c.focused = true }
func (c *Choice) Blur()  { c.focused = false }

// Update moves the selection with left/right.
func (c Choice) Update(msg tea.Msg) (Choice, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || !c.focused {
		return c, nil
	}
	switch kmsg.String() {
	case "left", "h":
		if c.Selected > 0 {
			c.Selected--
		}
	case "right", "l", "space":
		if c.Selected < len(c.Options)-1 {
			c.Selected++
		}
	}
	return c, nil
}

// Value returns the selected option.
func (c Choice) Value() string {
	if c.Selected < 0 || c.Selected >= len(c.Options) {
		return ""
	}
	return c.Options[c.Selected]
}

// View renders the options on one line.
func (c Choice) View() string {
	s := ""
	for i, opt := range c.Options {
		label := opt
		if label == "" {
			label = "todos"
		}
		switch {
		case i == c.Selected && c.focused:
			s += lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("[" + label + "]")
		case i == c.Selected:
			s += lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("[" + label + "]")
		default:
			s += lipgloss.NewStyle().Foreground(theme.TextDim).Render(" " + label + " ")
		}
		s += " "
	}
	return s
}
