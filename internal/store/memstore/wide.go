package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/abhisek/learnlink/internal/store"
)

// Wide is an in-memory store.WideStore. Portfolio inserts upsert on the
// same keys as the Cassandra tables.
type Wide struct {
	Faults

	mu         sync.Mutex
	logsByUser []store.SessionLog
	logsByRole []store.SessionLog
	byStudent  []store.PortfolioRecord
	byCourse   []store.PortfolioRecord
}

var _ store.WideStore = (*Wide)(nil)

// NewWide returns an empty wide-column store.
func NewWide() *Wide {
	return &Wide{}
}

func (w *Wide) AppendLogByUser(_ context.Context, l store.SessionLog) error {
	if err := w.hit("AppendLogByUser"); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.logsByUser = append(w.logsByUser, l)
	return nil
}

func (w *Wide) AppendLogByRole(_ context.Context, l store.SessionLog) error {
	if err := w.hit("AppendLogByRole"); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.logsByRole = append(w.logsByRole, l)
	return nil
}

func (w *Wide) LogsByUser(_ context.Context, email string, action store.Action) ([]store.SessionLog, error) {
	if err := w.hit("LogsByUser"); err != nil {
		return nil, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []store.SessionLog
	for _, l := range w.logsByUser {
		if l.Email == email && (action == "" || l.Action == action) {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Action != out[j].Action {
			return out[i].Action < out[j].Action
		}
		return out[i].ActionDate.After(out[j].ActionDate)
	})
	return out, nil
}

func (w *Wide) LogsByRole(_ context.Context, role store.Role) ([]store.SessionLog, error) {
	if err := w.hit("LogsByRole"); err != nil {
		return nil, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []store.SessionLog
	for _, l := range w.logsByRole {
		if l.Role == role {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Email != out[j].Email {
			return out[i].Email < out[j].Email
		}
		return out[i].ActionDate.After(out[j].ActionDate)
	})
	return out, nil
}

func (w *Wide) InsertPortfolioByStudent(_ context.Context, p store.PortfolioRecord) error {
	if err := w.hit("InsertPortfolioByStudent"); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.byStudent = upsertPortfolio(w.byStudent, p)
	return nil
}

func (w *Wide) InsertPortfolioByCourse(_ context.Context, p store.PortfolioRecord) error {
	if err := w.hit("InsertPortfolioByCourse"); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.byCourse = upsertPortfolio(w.byCourse, p)
	return nil
}

func upsertPortfolio(rows []store.PortfolioRecord, p store.PortfolioRecord) []store.PortfolioRecord {
	for i, r := range rows {
		if r.Email == p.Email && r.Status == p.Status && r.CourseTitle == p.CourseTitle {
			rows[i] = p
			return rows
		}
	}
	return append(rows, p)
}

func (w *Wide) StudentPortfolio(_ context.Context, email string, status store.Status) ([]store.PortfolioRecord, error) {
	if err := w.hit("StudentPortfolio"); err != nil {
		return nil, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []store.PortfolioRecord
	for _, r := range w.byStudent {
		if r.Email == email && r.Status == status {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CourseTitle < out[j].CourseTitle })
	return out, nil
}

func (w *Wide) CourseActivity(_ context.Context, courseTitle string, status store.Status) ([]store.PortfolioRecord, error) {
	if err := w.hit("CourseActivity"); err != nil {
		return nil, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []store.PortfolioRecord
	for _, r := range w.byCourse {
		if r.CourseTitle == courseTitle && r.Status == status {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (w *Wide) CountCourseActivity(ctx context.Context, courseTitle string, status store.Status) (int64, error) {
	if err := w.hit("CountCourseActivity"); err != nil {
		return 0, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	var n int64
	for _, r := range w.byCourse {
		if r.CourseTitle == courseTitle && r.Status == status {
			n++
		}
	}
	return n, nil
}

func (w *Wide) Ping(_ context.Context) (string, error) {
	if err := w.hit("Ping"); err != nil {
		return "", err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return fmt.Sprintf("memory (%d portfolio rows)", len(w.byStudent)), nil
}

// StudentRows returns every row of the by-student view.
func (w *Wide) StudentRows() []store.PortfolioRecord {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]store.PortfolioRecord(nil), w.byStudent...)
}

// CourseRows returns every row of the by-course view.
func (w *Wide) CourseRows() []store.PortfolioRecord {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]store.PortfolioRecord(nil), w.byCourse...)
}

// UserLogs returns every row of the by-user session log view.
func (w *Wide) UserLogs() []store.SessionLog {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]store.SessionLog(nil), w.logsByUser...)
}

// RoleLogs returns every row of the by-role session log view.
func (w *Wide) RoleLogs() []store.SessionLog {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]store.SessionLog(nil), w.logsByRole...)
}
