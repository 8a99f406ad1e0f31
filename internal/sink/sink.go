// Package sink persists generated rows. One Writer spans one transaction:
// the whole run commits together or not at all, so a failed batch never
// leaves a partial workspace behind. Inserts are chunked multi-row
// statements sized by the configured batch.
package sink

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"workseed/internal/errs"
)

type Writer struct {
	tx    *sql.Tx
	batch int
}

// Begin opens the run transaction. batchSize is rows per INSERT statement.
func Begin(ctx context.Context, db *sql.DB, batchSize int) (*Writer, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "begin run transaction", goerr.T(errs.TagPersistence))
	}
	return &Writer{tx: tx, batch: batchSize}, nil
}

// Commit finishes the run.
func (w *Writer) Commit() error {
	if err := w.tx.Commit(); err != nil {
		return goerr.Wrap(err, "commit run transaction", goerr.T(errs.TagPersistence))
	}
	return nil
}

// Rollback discards the run. Safe to call after Commit.
func (w *Writer) Rollback() error {
	if err := w.tx.Rollback(); err != nil && err != sql.ErrTxDone {
		return goerr.Wrap(err, "roll back run transaction", goerr.T(errs.TagPersistence))
	}
	return nil
}

// insert writes rows in chunks of the batch size. cols is the column list,
// args yields one row's values.
func (w *Writer) insert(ctx context.Context, table string, cols []string, n int, args func(i int) []any) error {
	if n == 0 {
		return nil
	}
	row := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ") + ")"
	head := "INSERT INTO " + table + " (" + strings.Join(cols, ", ") + ") VALUES "

	for off := 0; off < n; off += w.batch {
		end := off + w.batch
		if end > n {
			end = n
		}
		placeholders := make([]string, 0, end-off)
		vals := make([]any, 0, (end-off)*len(cols))
		for i := off; i < end; i++ {
			placeholders = append(placeholders, row)
			vals = append(vals, args(i)...)
		}
		if _, err := w.tx.ExecContext(ctx, head+strings.Join(placeholders, ", "), vals...); err != nil {
			return goerr.Wrap(err, "insert batch", goerr.T(errs.TagPersistence),
				goerr.V("table", table), goerr.V("offset", off), goerr.V("rows", end-off))
		}
	}
	return nil
}

func ts(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func tsp(t *time.Time) any {
	if t == nil {
		return nil
	}
	return ts(*t)
}

func strp(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func boolp(b *bool) any {
	if b == nil {
		return nil
	}
	return boolInt(*b)
}

func floatp(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}
