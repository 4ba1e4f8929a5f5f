package home

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/learnlink/internal/menu"
	"github.com/abhisek/learnlink/internal/router"
	"github.com/abhisek/learnlink/internal/screens/form"
	"github.com/abhisek/learnlink/internal/screens/result"
	"github.com/abhisek/learnlink/internal/store"
)

type logoutMsg struct{}

func testActions(runErr error) []menu.Action {
	return []menu.Action{
		{
			ID:    "cardex",
			Label: "Ver mi cardex",
			Run: func(context.Context, menu.Input) (*menu.Result, error) {
				if runErr != nil {
					return nil, runErr
				}
				return &menu.Result{Title: "Cardex", Messages: []string{"ok"}}, nil
			},
		},
		{
			ID:     "enroll",
			Label:  "Inscribirme a un curso",
			Fields: []menu.Field{{Key: "course_title", Label: "Nombre del curso"}},
			Run: func(context.Context, menu.Input) (*menu.Result, error) {
				return &menu.Result{}, nil
			},
		},
		{
			ID:    "graph_reports",
			Label: "Reportes de grafo",
			Submenu: []menu.Action{
				{ID: "popularity", Label: "Popularidad", Run: func(context.Context, menu.Input) (*menu.Result, error) {
					return &menu.Result{}, nil
				}},
			},
		},
		{ID: "logout", Label: "Salir", Logout: true},
	}
}

func newTestHome(runErr error) *HomeScreen {
	return New("Menú de alumno", "Hola, Ana", testActions(runErr), func() tea.Cmd {
		return func() tea.Msg { return logoutMsg{} }
	})
}

func down(h *HomeScreen, n int) {
	for i := 0; i < n; i++ {
		h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
}

func enter(h *HomeScreen) tea.Cmd {
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	return cmd
}

func TestHomeRunsActionWithoutFields(t *testing.T) {
	h := newTestHome(nil)
	cmd := enter(h)
	if cmd == nil {
		t.Fatal("expected run command")
	}
	msg := cmd()
	if _, ok := msg.(result.RunMsg); !ok {
		t.Fatalf("expected RunMsg, got %T", msg)
	}
	if enter(h) != nil {
		t.Error("menu should ignore keys while an action runs")
	}

	_, cmd = h.Update(msg)
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	if push.Screen.Title() != "Cardex" {
		t.Errorf("pushed %q, want result screen", push.Screen.Title())
	}
}

func TestHomeShowsRunErrors(t *testing.T) {
	h := newTestHome(&store.UnavailableError{Store: store.StoreGraph, Err: errors.New("down")})
	cmd := enter(h)
	if _, next := h.Update(cmd()); next != nil {
		t.Error("failed action should stay on the menu")
	}
	if !strings.Contains(h.View(100, 30), "No se pudo conectar") {
		t.Error("view should show the connection message")
	}
}

func TestHomePushesFormForFields(t *testing.T) {
	h := newTestHome(nil)
	down(h, 1)
	push, ok := enter(h)().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if _, ok := push.Screen.(*form.FormScreen); !ok {
		t.Errorf("pushed %T, want form", push.Screen)
	}
}

func TestHomePushesSubmenu(t *testing.T) {
	h := newTestHome(nil)
	down(h, 2)
	push, ok := enter(h)().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	sub, ok := push.Screen.(*HomeScreen)
	if !ok {
		t.Fatalf("pushed %T, want submenu", push.Screen)
	}
	if sub.Title() != "Reportes de grafo" || len(sub.actions) != 1 {
		t.Errorf("submenu = %q with %d actions", sub.Title(), len(sub.actions))
	}
	if !strings.Contains(sub.View(100, 30), "Popularidad") {
		t.Error("submenu should list its actions")
	}
}

func TestHomeLogout(t *testing.T) {
	h := newTestHome(nil)
	down(h, 3)
	cmd := enter(h)
	if cmd == nil {
		t.Fatal("expected logout command")
	}
	if _, ok := cmd().(logoutMsg); !ok {
		t.Errorf("expected logout callback, got %T", cmd())
	}
}

func TestHomeViewGreets(t *testing.T) {
	view := newTestHome(nil).View(100, 30)
	for _, want := range []string{"Hola, Ana", "1. Ver mi cardex", "4. Salir"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
