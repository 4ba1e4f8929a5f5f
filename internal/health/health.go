// Package health pings the configured stores.
package health

import (
	"context"
	"time"

	"github.com/abhisek/learnlink/internal/store"
)

// Check names a store and how to reach it.
type Check struct {
	Name   string
	Pinger store.Pinger
}

// Status is the result of one check.
type Status struct {
	Store   string
	OK      bool
	Detail  string
	Err     error
	Elapsed time.Duration
}

// Run pings every check in order. A nil Pinger reports the store as not
// configured.
func Run(ctx context.Context, checks ...Check) []Status {
	out := make([]Status, 0, len(checks))
	for _, c := range checks {
		st := Status{Store: c.Name}
		if c.Pinger == nil {
			st.Detail = "not connected"
			out = append(out, st)
			continue
		}
		start := time.Now()
		detail, err := c.Pinger.Ping(ctx)
		st.Elapsed = time.Since(start)
		st.Detail = detail
		st.Err = err
		st.OK = err == nil
		out = append(out, st)
	}
	return out
}

// Unreachable is a Pinger for a store that could not be opened. Every ping
// reports err.
func Unreachable(err error) store.Pinger {
	return unreachable{err: err}
}

type unreachable struct{ err error }

func (u unreachable) Ping(context.Context) (string, error) {
	return "", u.err
}

// Healthy reports whether every status is OK.
func Healthy(statuses []Status) bool {
	for _, s := range statuses {
		if !s.OK {
			return false
		}
	}
	return true
}
