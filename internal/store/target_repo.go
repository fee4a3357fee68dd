package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/01Taka/rooted/internal/stage"
	"github.com/01Taka/rooted/internal/target"
)

var targetColumns = []string{"id", "version", "updated_at", "data"}

type targetRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
	now func() time.Time
}

func (r *targetRepo) Create(ctx context.Context, t target.LearningTarget) (*Record, error) {
	if err := target.Validate(&t); err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}
	data, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("encode target %s: %w", t.ID, err)
	}
	now := r.now()

	err = r.withTx(ctx, func(tx dialect.Tx) error {
		if _, err := getRecord(ctx, tx, t.ID); err == nil {
			return fmt.Errorf("%w: %s", ErrExists, t.ID)
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}

		query, args := entsql.Dialect(dialect.SQLite).
			Insert(targetsTable).
			Columns("id", "title", "stage", "management_mode", "next_review_at", "version", "created_at", "updated_at", "data").
			Values(t.ID, t.Title, string(t.Stage()), string(t.Mode()), nextReviewColumn(&t), 1,
				formatTime(t.CreatedAt), formatTime(now), string(data)).
			Query()
		if err := tx.Exec(ctx, query, args, nil); err != nil {
			return fmt.Errorf("insert target: %w", err)
		}
		return r.seq.appendStageEvents(ctx, tx, t.ID, t.StageHistory)
	})
	if err != nil {
		return nil, err
	}
	return &Record{Target: t, Version: 1, UpdatedAt: now.UTC().Truncate(0)}, nil
}

func (r *targetRepo) Get(ctx context.Context, id string) (*Record, error) {
	return getRecord(ctx, r.drv, id)
}

func (r *targetRepo) List(ctx context.Context, opts ListOpts) ([]Record, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(targetColumns...).
		From(entsql.Table(targetsTable))

	preds := []*entsql.Predicate{}
	if opts.Stage != "" {
		preds = append(preds, entsql.EQ("stage", string(opts.Stage)))
	}
	if !opts.DueBefore.IsZero() {
		preds = append(preds,
			entsql.NotNull("next_review_at"),
			entsql.LTE("next_review_at", formatTime(opts.DueBefore)))
	}
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
	sel.OrderExpr(entsql.Expr("next_review_at IS NULL"))
	sel.OrderBy("next_review_at", "created_at", "id")
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("list targets: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(&rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list targets: %w", err)
	}
	return out, nil
}

func (r *targetRepo) Update(ctx context.Context, id string, fn UpdateFunc) (*Record, error) {
	cur, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := fn(cur.Target.Clone())
	if err != nil {
		return nil, err
	}
	if next.ID != id {
		return nil, fmt.Errorf("update %s: id changed to %q", id, next.ID)
	}
	if err := target.Validate(&next); err != nil {
		return nil, fmt.Errorf("update: %w", err)
	}
	added, err := appendedTransitions(&cur.Target, &next)
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", id, err)
	}
	data, err := json.Marshal(next)
	if err != nil {
		return nil, fmt.Errorf("encode target %s: %w", id, err)
	}
	now := r.now()

	err = r.withTx(ctx, func(tx dialect.Tx) error {
		query, args := entsql.Dialect(dialect.SQLite).
			Update(targetsTable).
			Set("title", next.Title).
			Set("stage", string(next.Stage())).
			Set("management_mode", string(next.Mode())).
			Set("next_review_at", nextReviewColumn(&next)).
			Set("version", cur.Version+1).
			Set("updated_at", formatTime(now)).
			Set("data", string(data)).
			Where(entsql.And(
				entsql.EQ("id", id),
				entsql.EQ("version", cur.Version),
			)).
			Query()

		var res entsql.Result
		if err := tx.Exec(ctx, query, args, &res); err != nil {
			return fmt.Errorf("update target: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("update target: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("%w: %s at version %d", ErrConflict, id, cur.Version)
		}
		return r.seq.appendStageEvents(ctx, tx, id, added)
	})
	if err != nil {
		return nil, err
	}
	return &Record{Target: next, Version: cur.Version + 1, UpdatedAt: now.UTC().Truncate(0)}, nil
}

func (r *targetRepo) Delete(ctx context.Context, id string) error {
	return r.withTx(ctx, func(tx dialect.Tx) error {
		query, args := entsql.Dialect(dialect.SQLite).
			Delete(stageEventsTable).
			Where(entsql.EQ("target_id", id)).
			Query()
		if err := tx.Exec(ctx, query, args, nil); err != nil {
			return fmt.Errorf("delete stage events: %w", err)
		}

		query, args = entsql.Dialect(dialect.SQLite).
			Delete(targetsTable).
			Where(entsql.EQ("id", id)).
			Query()
		var res entsql.Result
		if err := tx.Exec(ctx, query, args, &res); err != nil {
			return fmt.Errorf("delete target: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete target: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil
	})
}

func (r *targetRepo) StageEvents(ctx context.Context, targetID string, opts QueryOpts) ([]StageEvent, error) {
	query, args := stageEventsSelector(targetID, opts).Query()
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query stage events: %w", err)
	}
	defer rows.Close()

	var out []StageEvent
	for rows.Next() {
		ev, err := scanStageEvent(&rows)
		if err != nil {
			return nil, fmt.Errorf("scan stage event: %w", err)
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query stage events: %w", err)
	}
	return out, nil
}

// withTx runs fn in a transaction and commits when it returns nil.
func (r *targetRepo) withTx(ctx context.Context, fn func(dialect.Tx) error) error {
	tx, err := r.drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func getRecord(ctx context.Context, q dialect.ExecQuerier, id string) (*Record, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select(targetColumns...).
		From(entsql.Table(targetsTable)).
		Where(entsql.EQ("id", id)).
		Query()

	var rows entsql.Rows
	if err := q.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("get target %s: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("get target %s: %w", id, err)
		}
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return scanRecord(&rows)
}

func scanRecord(rows *entsql.Rows) (*Record, error) {
	var (
		id      string
		rec     Record
		updated string
		data    string
	)
	if err := rows.Scan(&id, &rec.Version, &updated, &data); err != nil {
		return nil, fmt.Errorf("scan target: %w", err)
	}
	ts, err := parseTime(updated)
	if err != nil {
		return nil, fmt.Errorf("target %s: updated_at: %w", id, err)
	}
	rec.UpdatedAt = ts
	if err := json.Unmarshal([]byte(data), &rec.Target); err != nil {
		return nil, fmt.Errorf("decode target %s: %w", id, err)
	}
	return &rec, nil
}

// nextReviewColumn is the value stored in next_review_at: the target's
// next review instant, or NULL outside the scheduled stages.
func nextReviewColumn(t *target.LearningTarget) any {
	if at, ok := t.NextReviewDate(); ok {
		return formatTime(at)
	}
	return nil
}

// appendedTransitions returns the stage transitions next adds on top of
// prev. Stored history may only grow.
func appendedTransitions(prev, next *target.LearningTarget) ([]stage.Transition, error) {
	n := len(prev.StageHistory)
	if len(next.StageHistory) < n || !slices.EqualFunc(prev.StageHistory, next.StageHistory[:n], sameTransition) {
		return nil, errors.New("stage history was rewritten")
	}
	return next.StageHistory[n:], nil
}

func sameTransition(a, b stage.Transition) bool {
	if a.Reason != b.Reason || a.To != b.To || !a.Timestamp.Equal(b.Timestamp) {
		return false
	}
	if a.From == nil || b.From == nil {
		return a.From == b.From
	}
	return *a.From == *b.From
}
