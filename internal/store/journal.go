package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

const outcomesTable = "outcomes"

var outcomeColumns = []string{
	"id", "created_at", "operation", "subject",
	"primary_store", "primary_step", "partial", "mirrors",
}

// journal implements OutcomeRepo over the SQLite driver using ent's SQL
// builder.
type journal struct {
	mu  sync.Mutex
	drv *entsql.Driver
	now func() time.Time
}

func newJournal(drv *entsql.Driver) *journal {
	return &journal{drv: drv, now: time.Now}
}

func (j *journal) AppendOutcome(ctx context.Context, o WriteOutcome) error {
	mirrors := make([]MirrorRecord, 0, len(o.Mirrors))
	for _, m := range o.Mirrors {
		rec := MirrorRecord{Store: m.Store, Step: m.Step, Skipped: m.Skipped}
		if m.Err != nil {
			rec.Error = m.Err.Error()
		}
		mirrors = append(mirrors, rec)
	}
	raw, err := json.Marshal(mirrors)
	if err != nil {
		return fmt.Errorf("encode mirrors: %w", err)
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(outcomesTable).
		Columns("created_at", "operation", "subject", "primary_store", "primary_step", "partial", "mirrors").
		Values(j.now().UTC().UnixMilli(), o.Operation, o.Subject, o.Primary.Store, o.Primary.Step, o.Partial(), string(raw)).
		Query()

	j.mu.Lock()
	defer j.mu.Unlock()
	if _, err := j.drv.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("append outcome: %w", err)
	}
	return nil
}

func (j *journal) QueryOutcomes(ctx context.Context, opts QueryOpts) ([]OutcomeRecord, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(outcomeColumns...).
		From(entsql.Table(outcomesTable))
	if opts.Operation != "" {
		sel.Where(entsql.EQ("operation", opts.Operation))
	}
	if opts.PartialOnly {
		sel.Where(entsql.EQ("partial", true))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("created_at", opts.From.UTC().UnixMilli()))
	}
	sel.OrderBy(entsql.Desc("id"))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := j.drv.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	var out []OutcomeRecord
	for rows.Next() {
		rec, err := scanOutcome(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	return out, nil
}

func (j *journal) GetOutcome(ctx context.Context, id int) (*OutcomeRecord, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select(outcomeColumns...).
		From(entsql.Table(outcomesTable)).
		Where(entsql.EQ("id", id)).
		Query()

	rows, err := j.drv.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get outcome: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	rec, err := scanOutcome(rows)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func scanOutcome(rows *sql.Rows) (OutcomeRecord, error) {
	var (
		rec       OutcomeRecord
		createdAt int64
		mirrors   string
	)
	err := rows.Scan(&rec.ID, &createdAt, &rec.Operation, &rec.Subject,
		&rec.PrimaryStore, &rec.PrimaryStep, &rec.Partial, &mirrors)
	if err != nil {
		return OutcomeRecord{}, fmt.Errorf("scan outcome: %w", err)
	}
	rec.Timestamp = time.UnixMilli(createdAt).UTC()
	if err := json.Unmarshal([]byte(mirrors), &rec.Mirrors); err != nil {
		return OutcomeRecord{}, fmt.Errorf("decode mirrors of outcome %d: %w", rec.ID, err)
	}
	return rec, nil
}
