package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.OutcomeRepo() == nil {
		t.Fatal("expected non-nil outcome repo")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func enrollOutcome(subject string, mirrorErr error) WriteOutcome {
	o := WriteOutcome{
		Operation: "enroll",
		Subject:   subject,
		Primary:   StepResult{Store: StoreDocuments, Step: "enrollments"},
	}
	o.Mirror(StoreWide, "student_portfolio", mirrorErr)
	o.Mirror(StoreWide, "course_activity", nil)
	o.Skip(StoreGraph, "enrollment", errors.New("course node not found"))
	return o
}

func TestJournalAppendAndGet(t *testing.T) {
	s := openTestStore(t)
	repo := s.OutcomeRepo()
	ctx := context.Background()

	if err := repo.AppendOutcome(ctx, enrollOutcome("ana@x.io -> Go", errors.New("timeout"))); err != nil {
		t.Fatalf("append: %v", err)
	}

	recs, err := repo.QueryOutcomes(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 outcome, got %d", len(recs))
	}

	got, err := repo.GetOutcome(ctx, recs[0].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected outcome, got nil")
	}
	if got.Operation != "enroll" || got.Subject != "ana@x.io -> Go" {
		t.Errorf("unexpected outcome header: %+v", got)
	}
	if got.PrimaryStore != StoreDocuments || got.PrimaryStep != "enrollments" {
		t.Errorf("primary = %s/%s", got.PrimaryStore, got.PrimaryStep)
	}
	if !got.Partial {
		t.Error("expected outcome to be partial")
	}
	if len(got.Mirrors) != 3 {
		t.Fatalf("expected 3 mirrors, got %d", len(got.Mirrors))
	}
	if got.Mirrors[0].Error != "timeout" || got.Mirrors[0].OK() {
		t.Errorf("mirror 0 = %+v", got.Mirrors[0])
	}
	if !got.Mirrors[1].OK() {
		t.Errorf("mirror 1 should be ok: %+v", got.Mirrors[1])
	}
	if !got.Mirrors[2].Skipped {
		t.Errorf("mirror 2 should be skipped: %+v", got.Mirrors[2])
	}
	if time.Since(got.Timestamp) > time.Minute {
		t.Errorf("timestamp too old: %v", got.Timestamp)
	}
}

func TestJournalGetMissing(t *testing.T) {
	s := openTestStore(t)
	got, err := s.OutcomeRepo().GetOutcome(context.Background(), 999)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestJournalQueryFilters(t *testing.T) {
	s := openTestStore(t)
	repo := s.OutcomeRepo()
	ctx := context.Background()

	clean := WriteOutcome{
		Operation: "review",
		Subject:   "ana@x.io -> Go",
		Primary:   StepResult{Store: StoreDocuments, Step: "reviews"},
	}
	clean.Mirror(StoreGraph, "review", nil)

	for _, o := range []WriteOutcome{
		enrollOutcome("a", nil),
		clean,
		enrollOutcome("b", nil),
	} {
		if err := repo.AppendOutcome(ctx, o); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, err := repo.QueryOutcomes(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3, got %d", len(all))
	}
	if all[0].Subject != "b" {
		t.Errorf("expected newest first, got %q", all[0].Subject)
	}

	enrolls, err := repo.QueryOutcomes(ctx, QueryOpts{Operation: "enroll"})
	if err != nil {
		t.Fatalf("query enroll: %v", err)
	}
	if len(enrolls) != 2 {
		t.Errorf("expected 2 enroll outcomes, got %d", len(enrolls))
	}

	partial, err := repo.QueryOutcomes(ctx, QueryOpts{PartialOnly: true})
	if err != nil {
		t.Fatalf("query partial: %v", err)
	}
	if len(partial) != 2 {
		t.Errorf("expected 2 partial outcomes, got %d", len(partial))
	}

	limited, err := repo.QueryOutcomes(ctx, QueryOpts{Limit: 1})
	if err != nil {
		t.Fatalf("query limited: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("expected 1 outcome, got %d", len(limited))
	}
}

func TestWriteOutcomePartial(t *testing.T) {
	var o WriteOutcome
	if o.Partial() {
		t.Error("empty outcome should not be partial")
	}
	o.Mirror(StoreWide, "logs_by_user", nil)
	if o.Partial() {
		t.Error("all-ok outcome should not be partial")
	}
	o.Mirror(StoreWide, "logs_by_role", errors.New("down"))
	if !o.Partial() {
		t.Error("failed mirror should make outcome partial")
	}
	failed := o.Failed()
	if len(failed) != 1 || failed[0].Step != "logs_by_role" {
		t.Errorf("failed = %+v", failed)
	}
}

func TestUnavailableErrorUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("insert: %w", &UnavailableError{Store: StoreWide, Err: cause})
	if !IsUnavailable(err) {
		t.Error("expected IsUnavailable")
	}
	if !errors.Is(err, cause) {
		t.Error("expected cause to be reachable")
	}
	if IsUnavailable(ErrDuplicate) {
		t.Error("ErrDuplicate is not an availability error")
	}
}

func TestGraphEnrollmentCourseShapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"object", `{"uid":"0x1","course":{"uid":"0x2","title":"Go"}}`, "Go"},
		{"list", `{"uid":"0x1","course":[{"uid":"0x2","title":"Rust"}]}`, "Rust"},
		{"empty list", `{"uid":"0x1","course":[]}`, ""},
		{"missing", `{"uid":"0x1"}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e GraphEnrollment
			if err := json.Unmarshal([]byte(tt.input), &e); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if e.UID != "0x1" {
				t.Errorf("uid = %q", e.UID)
			}
			got := ""
			if e.Course != nil {
				got = e.Course.Title
			}
			if got != tt.want {
				t.Errorf("course title = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGraphRatingDecodesNumbersAndStrings(t *testing.T) {
	var reviews []GraphReview
	input := `[{"uid":"0x1","rating":8.5},{"uid":"0x2","rating":"7.0"},{"uid":"0x3","rating":"bad"},{"uid":"0x4"}]`
	if err := json.Unmarshal([]byte(input), &reviews); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := []float64{8.5, 7, 0, 0}
	for i, r := range reviews {
		if float64(r.Rating) != want[i] {
			t.Errorf("review %d rating = %v, want %v", i, r.Rating, want[i])
		}
	}
}

func TestRoleValid(t *testing.T) {
	for _, r := range Roles {
		if !r.Valid() {
			t.Errorf("%q should be valid", r)
		}
	}
	if Role("guest").Valid() {
		t.Error("guest should not be valid")
	}
}
