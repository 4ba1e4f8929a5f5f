package store

import (
	"context"
	"time"
)

// StepResult is the result of one write inside a multi-store operation.
// A skipped step carries the reason in Err.
type StepResult struct {
	Store   string
	Step    string
	Err     error
	Skipped bool
}

// OK reports whether the step was written.
func (r StepResult) OK() bool {
	return r.Err == nil && !r.Skipped
}

// WriteOutcome records the authoritative write of an operation and every
// best-effort mirror attempted after it. Mirror failures never turn into
// the operation's error.
type WriteOutcome struct {
	Operation string
	Subject   string
	Primary   StepResult
	Mirrors   []StepResult
}

// Mirror records a mirror write attempt.
func (o *WriteOutcome) Mirror(store, step string, err error) {
	o.Mirrors = append(o.Mirrors, StepResult{Store: store, Step: step, Err: err})
}

// Skip records a mirror write that was not attempted.
func (o *WriteOutcome) Skip(store, step string, reason error) {
	o.Mirrors = append(o.Mirrors, StepResult{Store: store, Step: step, Err: reason, Skipped: true})
}

// Partial reports whether any mirror was not written.
func (o WriteOutcome) Partial() bool {
	for _, m := range o.Mirrors {
		if !m.OK() {
			return true
		}
	}
	return false
}

// Failed returns the mirrors that were not written.
func (o WriteOutcome) Failed() []StepResult {
	var out []StepResult
	for _, m := range o.Mirrors {
		if !m.OK() {
			out = append(out, m)
		}
	}
	return out
}

// QueryOpts filters journal queries.
type QueryOpts struct {
	Limit       int    // max results (0 = unlimited)
	Operation   string // exact operation name, empty for all
	PartialOnly bool   // only outcomes with a failed or skipped mirror
	From        time.Time
}

// MirrorRecord is a journaled mirror step.
type MirrorRecord struct {
	Store   string `json:"store"`
	Step    string `json:"step"`
	Skipped bool   `json:"skipped,omitempty"`
	Error   string `json:"error,omitempty"`
}

// OK reports whether the mirror was written.
func (m MirrorRecord) OK() bool {
	return !m.Skipped && m.Error == ""
}

// OutcomeRecord is a journaled WriteOutcome.
type OutcomeRecord struct {
	ID           int
	Timestamp    time.Time
	Operation    string
	Subject      string
	PrimaryStore string
	PrimaryStep  string
	Partial      bool
	Mirrors      []MirrorRecord
}

// OutcomeRepo is the local journal of multi-store write outcomes.
type OutcomeRepo interface {
	AppendOutcome(ctx context.Context, o WriteOutcome) error

	// QueryOutcomes returns outcomes newest first.
	QueryOutcomes(ctx context.Context, opts QueryOpts) ([]OutcomeRecord, error)

	// GetOutcome returns nil when id does not exist.
	GetOutcome(ctx context.Context, id int) (*OutcomeRecord, error)
}
