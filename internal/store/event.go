package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/01Taka/rooted/internal/stage"
)

// sequenceCounter hands out the monotonic sequence numbers of stage events.
// The counter lives in its own row so numbers are never reused, even after
// the events of a deleted target are gone.
//
// Next runs on the caller's transaction so a rolled back write also rolls
// back the numbers it took. The mutex serializes within the process; the
// RETURNING clause makes the increment atomic at the database level.
type sequenceCounter struct {
	mu sync.Mutex
}

// newSequenceCounter creates a counter and ensures the tracking table exists.
func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS event_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO event_sequence (id, next_val) VALUES (1, 1)`)
	if err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}

	return &sequenceCounter{}, nil
}

// Next atomically returns the next sequence number and increments the counter.
func (sc *sequenceCounter) Next(ctx context.Context, q dialect.ExecQuerier) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var rows entsql.Rows
	err := q.Query(ctx,
		`UPDATE event_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
		[]any{}, &rows)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return 0, fmt.Errorf("next sequence: %w", err)
		}
		return 0, fmt.Errorf("next sequence: counter row missing")
	}
	var seq int64
	if err := rows.Scan(&seq); err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

// StageEvent is a stored stage transition of one target.
type StageEvent struct {
	Seq      int64
	TargetID string
	stage.Transition
}

// appendStageEvents stores transitions for targetID in order.
func (sc *sequenceCounter) appendStageEvents(ctx context.Context, tx dialect.ExecQuerier, targetID string, transitions []stage.Transition) error {
	for _, tr := range transitions {
		seq, err := sc.Next(ctx, tx)
		if err != nil {
			return err
		}

		var from any
		if tr.From != nil {
			from = string(*tr.From)
		}
		query, args := entsql.Dialect(dialect.SQLite).
			Insert(stageEventsTable).
			Columns("seq", "target_id", "reason", "from_stage", "to_stage", "timestamp").
			Values(seq, targetID, string(tr.Reason), from, string(tr.To), formatTime(tr.Timestamp)).
			Query()
		if err := tx.Exec(ctx, query, args, nil); err != nil {
			return fmt.Errorf("insert stage event: %w", err)
		}
	}
	return nil
}

func scanStageEvent(rows *entsql.Rows) (StageEvent, error) {
	var (
		ev       StageEvent
		reason   string
		from     sql.NullString
		to       string
		rawStamp string
	)
	if err := rows.Scan(&ev.Seq, &ev.TargetID, &reason, &from, &to, &rawStamp); err != nil {
		return StageEvent{}, err
	}
	ts, err := parseTime(rawStamp)
	if err != nil {
		return StageEvent{}, fmt.Errorf("stage event %d: %w", ev.Seq, err)
	}

	ev.Reason = stage.Reason(reason)
	ev.To = stage.Stage(to)
	ev.Timestamp = ts
	if from.Valid {
		s := stage.Stage(from.String)
		ev.From = &s
	}
	return ev, nil
}

// stageEventsSelector builds the query behind TargetRepo.StageEvents.
func stageEventsSelector(targetID string, opts QueryOpts) *entsql.Selector {
	sel := entsql.Dialect(dialect.SQLite).
		Select("seq", "target_id", "reason", "from_stage", "to_stage", "timestamp").
		From(entsql.Table(stageEventsTable))

	preds := []*entsql.Predicate{}
	if targetID != "" {
		preds = append(preds, entsql.EQ("target_id", targetID))
	}
	if opts.After > 0 {
		preds = append(preds, entsql.GT("seq", opts.After))
	}
	if opts.Before > 0 {
		preds = append(preds, entsql.LT("seq", opts.Before))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("timestamp", formatTime(opts.From)))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE("timestamp", formatTime(opts.To)))
	}
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}

	sel.OrderBy("seq")
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	return sel
}
