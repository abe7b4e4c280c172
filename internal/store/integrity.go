package store

import (
	"context"
	"fmt"
	"strings"
)

// FixIntegrity implements [Collection].
//
// It runs sqlite's quick_check and repairs what it safely can: cards
// whose note is gone are deleted, notes without any card are reported.
// Findings are data, not errors; repairs bump the modification counter.
func (c *collection) FixIntegrity(ctx context.Context) (string, bool, error) {
	if c.db == nil {
		return "", false, ErrCollectionClosed
	}

	var problems []string

	rows, err := c.db.QueryContext(ctx, `PRAGMA quick_check;`)
	if err != nil {
		return "", false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	for rows.Next() {
		var line string
		if err = rows.Scan(&line); err != nil {
			rows.Close()
			return "", false, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		if line != "ok" {
			problems = append(problems, line)
		}
	}
	if err = rows.Err(); err != nil {
		rows.Close()
		return "", false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	rows.Close()

	res, err := c.db.ExecContext(ctx, deleteOrphanCards)
	if err != nil {
		return "", false, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	orphans, err := res.RowsAffected()
	if err != nil {
		return "", false, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if orphans > 0 {
		problems = append(problems, fmt.Sprintf("deleted %d cards with missing note", orphans))

		// Deleting orphans changed the store; record it so the caller's
		// modification tracking sees the repair.
		tx, txErr := c.db.BeginTx(ctx, nil)
		if txErr != nil {
			return "", false, fmt.Errorf("%w: %w", ErrBeginningTransaction, txErr)
		}
		if txErr = bumpMod(ctx, tx); txErr != nil {
			tx.Rollback()
			return "", false, txErr
		}
		if txErr = tx.Commit(); txErr != nil {
			return "", false, fmt.Errorf("%w: %w", ErrCommitingTransaction, txErr)
		}
	}

	var cardless int64
	if err = c.db.QueryRowContext(ctx, countNotesWithoutCards).Scan(&cardless); err != nil {
		return "", false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if cardless > 0 {
		problems = append(problems, fmt.Sprintf("found %d notes with no cards", cardless))
	}

	return strings.Join(problems, "\n"), len(problems) == 0, nil
}
