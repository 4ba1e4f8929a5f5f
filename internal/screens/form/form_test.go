package form

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/learnlink/internal/menu"
	"github.com/abhisek/learnlink/internal/router"
	"github.com/abhisek/learnlink/internal/screen"
	"github.com/abhisek/learnlink/internal/screens/result"
	"github.com/abhisek/learnlink/internal/validate"
)

func typeText(s screen.Screen, text string) {
	for _, r := range text {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func enter(s screen.Screen) tea.Cmd {
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	return cmd
}

func testAction(got *menu.Input) menu.Action {
	return menu.Action{
		ID:    "register_user",
		Label: "Registrar nuevo usuario",
		Fields: []menu.Field{
			{Key: "name", Label: "Nombre"},
			{Key: "password", Label: "Contraseña", Secret: true},
			{Key: "role", Label: "Rol", Choices: []string{"student", "instructor", "admin"}},
			{Key: "note", Label: "Nota", Optional: true},
		},
		Hint: func(context.Context) (*menu.Table, error) {
			return &menu.Table{Headers: []string{"Rol"}, Rows: [][]string{{"instructor"}}}, nil
		},
		Run: func(_ context.Context, in menu.Input) (*menu.Result, error) {
			*got = in
			if in.Get("name") == "bad" {
				return nil, &validate.Error{Field: "name", Rule: "min"}
			}
			return &menu.Result{Title: "Registrar usuario", Messages: []string{"ok"}}, nil
		},
	}
}

func TestFormSubmitsInputAndReplacesWithResult(t *testing.T) {
	var got menu.Input
	s := New(testAction(&got))
	s.Init()

	typeText(s, "Ana")
	enter(s)
	typeText(s, "secret")
	enter(s)
	s.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	enter(s)
	cmd := enter(s)
	if cmd == nil {
		t.Fatal("expected run command on the last field")
	}

	msg, ok := cmd().(result.RunMsg)
	if !ok {
		t.Fatalf("expected RunMsg, got %T", cmd())
	}
	want := menu.Input{"name": "Ana", "password": "secret", "role": "instructor", "note": ""}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("input[%s] = %q, want %q", k, got[k], v)
		}
	}

	_, cmd = s.Update(msg)
	if cmd == nil {
		t.Fatal("expected replace command after success")
	}
	if _, ok := cmd().(router.ReplaceScreenMsg); !ok {
		t.Errorf("expected ReplaceScreenMsg, got %T", cmd())
	}
}

func TestFormRequiresMandatoryFields(t *testing.T) {
	var got menu.Input
	s := New(testAction(&got))
	s.Init()

	s.setFocus(len(s.fields))
	if cmd := enter(s); cmd != nil {
		if _, ran := cmd().(result.RunMsg); ran {
			t.Error("submit with empty required fields should not run the action")
		}
	}
	if s.pending {
		t.Error("form should not be pending after a rejected submit")
	}
	if got != nil {
		t.Errorf("action ran with %v", got)
	}
	if s.focus != 0 {
		t.Errorf("focus = %d, want first missing field", s.focus)
	}
	if !strings.Contains(s.View(100, 30), missingRequired) {
		t.Error("view should explain the missing fields")
	}
}

func TestFormShowsActionErrors(t *testing.T) {
	var got menu.Input
	s := New(testAction(&got))
	s.Init()

	typeText(s, "bad")
	s.setFocus(1)
	typeText(s, "pw")
	s.setFocus(len(s.fields))
	cmd := enter(s)
	if cmd == nil {
		t.Fatal("expected run command")
	}
	if _, again := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); again != nil {
		t.Error("enter while pending should be ignored")
	}

	_, next := s.Update(cmd())
	if next != nil {
		t.Error("failed action should stay on the form")
	}
	view := s.View(100, 30)
	if !strings.Contains(view, "Dato inválido") {
		t.Errorf("view should show the validation message, got:\n%s", view)
	}
	if !strings.Contains(view, "✗") {
		t.Error("invalid field should be marked")
	}
}

func TestFormLoadsHint(t *testing.T) {
	var got menu.Input
	s := New(testAction(&got))
	s.Update(hintLoadedMsg{Table: &menu.Table{Headers: []string{"Curso"}, Rows: [][]string{{"CS101"}}}})
	if !strings.Contains(s.View(100, 30), "CS101") {
		t.Error("hint table should render above the form")
	}
}

func TestFormIgnoresOtherActionResults(t *testing.T) {
	var got menu.Input
	s := New(testAction(&got))
	s.pending = true
	if _, cmd := s.Update(result.RunMsg{ActionID: "other"}); cmd != nil || !s.pending {
		t.Error("results of other actions should be ignored")
	}
}
