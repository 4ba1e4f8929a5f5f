// Package memstore provides in-memory implementations of the document,
// wide-column and graph store interfaces. They enforce the same unique
// constraints as the real stores and can be told to fail any operation.
package memstore

import "sync"

// Faults injects errors into named operations and counts calls. Operation
// names are the interface method names, e.g. "InsertEnrollment".
type Faults struct {
	mu    sync.Mutex
	errs  map[string]error
	calls map[string]int
}

// Fail makes every later call of op return err.
func (f *Faults) Fail(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errs == nil {
		f.errs = make(map[string]error)
	}
	f.errs[op] = err
}

// Clear removes the fault injected for op.
func (f *Faults) Clear(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.errs, op)
}

// Calls returns how many times op was invoked.
func (f *Faults) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// TotalCalls returns the number of invocations across all operations.
func (f *Faults) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *Faults) hit(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[op]++
	return f.errs[op]
}
