package cmd

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/learnlink/internal/menu"
	"github.com/abhisek/learnlink/internal/store"
)

func TestMirrorSummary(t *testing.T) {
	assert.Equal(t, "✓ 2/2 ok", mirrorSummary([]store.MirrorRecord{
		{Store: store.StoreWide, Step: "student_portfolio"},
		{Store: store.StoreGraph, Step: "enrollment"},
	}))
	assert.Equal(t, "✗ 1/2 ok", mirrorSummary([]store.MirrorRecord{
		{Store: store.StoreWide, Step: "student_portfolio"},
		{Store: store.StoreGraph, Step: "enrollment", Error: "unavailable"},
	}))
}

func TestFormatOutcome(t *testing.T) {
	out := formatOutcome(store.OutcomeRecord{
		ID:           7,
		Timestamp:    time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC),
		Operation:    "enroll",
		Subject:      "ana@x.io -> CS101",
		PrimaryStore: store.StoreDocuments,
		PrimaryStep:  "enrollments",
		Partial:      true,
		Mirrors: []store.MirrorRecord{
			{Store: store.StoreWide, Step: "student_portfolio"},
			{Store: store.StoreGraph, Step: "enrollment", Skipped: true, Error: "course not in graph"},
		},
	})
	assert.Contains(t, out, "Operation: enroll")
	assert.Contains(t, out, "Primary:   "+store.StoreDocuments+"/enrollments")
	assert.Contains(t, out, "✓ "+store.StoreWide+"/student_portfolio")
	assert.Contains(t, out, "- "+store.StoreGraph+"/enrollment skipped: course not in graph")
}

func TestReportNamesListEveryReport(t *testing.T) {
	names := reportNames()
	require.Len(t, names, len(menu.Reports(menu.Deps{}, nil)))

	var recommend string
	for _, n := range names {
		if strings.HasPrefix(n, "recommend ") {
			recommend = n
		}
	}
	assert.True(t, strings.HasSuffix(recommend, "--email"), recommend)

	_, ok := findReport(menu.Reports(menu.Deps{}, nil), "popularity")
	assert.True(t, ok)
	_, ok = findReport(menu.Reports(menu.Deps{}, nil), "nope")
	assert.False(t, ok)
}

func TestRenderResult(t *testing.T) {
	out := renderResult(&menu.Result{
		Tables:   []menu.Table{{Title: "Popularidad", Headers: []string{"Curso"}, Rows: [][]string{{"CS101"}}}},
		Messages: []string{"listo"},
		Warnings: []string{"Advertencia: x"},
	})
	assert.Contains(t, out, "Popularidad\n")
	assert.Contains(t, out, "CS101")
	assert.Contains(t, out, "listo\n")
	assert.Contains(t, out, "Advertencia: x\n")
}

func TestRootRegistersCommands(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"migrate", "ping", "report", "journal", "user", "version"} {
		assert.Contains(t, names, want)
	}
}
