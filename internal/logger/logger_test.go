package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizeKVsRedactsCredentials(t *testing.T) {
	got := sanitizeKVs([]interface{}{
		"email", "ana@x.io",
		"password", "hunter2",
		"password_hash", "$2a$10$abc",
		"store", "cassandra",
	})
	want := []interface{}{
		"email", "ana@x.io",
		"password", redacted,
		"password_hash", redacted,
		"store", "cassandra",
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("kv[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSanitizeKVsKeepsDanglingKey(t *testing.T) {
	got := sanitizeKVs([]interface{}{"step", "logs_by_user", "orphan"})
	if len(got) != 3 || got[2] != "orphan" {
		t.Errorf("unexpected result: %v", got)
	}
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "learnlink.log")
	l, err := New("prod", path)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	l.Warn("mirror write failed", "store", "dgraph", "password", "secret-value")
	l.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "mirror write failed") {
		t.Errorf("log missing message: %s", out)
	}
	if strings.Contains(out, "secret-value") {
		t.Errorf("log leaked password: %s", out)
	}
}

func TestNopDoesNotPanic(t *testing.T) {
	l := NewNop().With("component", "test")
	l.Debug("debug")
	l.Info("info")
	l.Error("error", "err", os.ErrNotExist)
}
