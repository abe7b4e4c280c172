package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/MKhiriev/go-anki-bridge/internal/adapter"
	"github.com/MKhiriev/go-anki-bridge/internal/config"
	"github.com/MKhiriev/go-anki-bridge/internal/logger"
	"github.com/MKhiriev/go-anki-bridge/migrations"
)

// CollectionFileName is the database file name inside the base directory.
const CollectionFileName = "collection.anki2"

// collection is the SQLite-backed implementation of [Collection].
//
// db is nil while the handle is closed (after Close or CloseForFullSync);
// every operation checks for that state and returns ErrCollectionClosed.
type collection struct {
	path   string
	remote adapter.SyncServer
	logger *logger.Logger

	db *sql.DB
}

// Open opens (or creates, when cfg.Create is set) the collection store
// under cfg.BaseDir and brings its schema up to date.
//
// The returned handle is exclusively owned by the process: the store has
// no internal concurrency control and callers must serialize access.
func Open(ctx context.Context, cfg config.Collection, remote adapter.SyncServer, log *logger.Logger) (Collection, error) {
	path := filepath.Join(cfg.BaseDir, CollectionFileName)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if !cfg.Create {
			return nil, fmt.Errorf("%w: %s", ErrCollectionNotFound, path)
		}
		if err := os.MkdirAll(cfg.BaseDir, 0o755); err != nil {
			return nil, fmt.Errorf("create collection dir: %w", err)
		}
	}

	c := &collection{
		path:   path,
		remote: remote,
		logger: log,
	}

	if err := c.connect(ctx, true); err != nil {
		return nil, err
	}

	log.Info().Str("path", path).Msg("collection opened")
	return c, nil
}

// connect opens the database connection and, when migrate is true, runs
// the embedded schema migrations.
func (c *collection) connect(ctx context.Context, migrate bool) error {
	conn, err := sql.Open("sqlite3", c.path+"?_fk=1&_busy_timeout=5000")
	if err != nil {
		return fmt.Errorf("error opening connection to collection: %w", err)
	}

	// The store is single-writer; a second connection would only hide
	// serialization bugs behind sqlite's own locking.
	conn.SetMaxOpenConns(1)

	if err = conn.PingContext(ctx); err != nil {
		conn.Close()
		return fmt.Errorf("error connecting collection (ping): %w", err)
	}

	if migrate {
		if err = migrations.Migrate(conn); err != nil {
			conn.Close()
			return err
		}
	}

	c.db = conn
	return nil
}

// Path implements [Collection].
func (c *collection) Path() string {
	return c.path
}

// Mod implements [Collection].
func (c *collection) Mod(ctx context.Context) (int64, error) {
	if c.db == nil {
		return 0, ErrCollectionClosed
	}

	var mod int64
	err := c.db.QueryRowContext(ctx, selectMod).Scan(&mod)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return mod, nil
}

// Close implements [Collection]. It is a no-op on a closed handle.
func (c *collection) Close() error {
	if c.db == nil {
		return nil
	}

	err := c.db.Close()
	c.db = nil
	if err != nil {
		return fmt.Errorf("close collection: %w", err)
	}

	c.logger.Info().Str("path", c.path).Msg("collection closed")
	return nil
}

// CloseForFullSync implements [Collection].
func (c *collection) CloseForFullSync() error {
	if c.db == nil {
		return ErrCollectionClosed
	}

	err := c.db.Close()
	c.db = nil
	if err != nil {
		return fmt.Errorf("close collection for full sync: %w", err)
	}

	return nil
}

// Reopen implements [Collection]. It is a no-op on an open handle.
func (c *collection) Reopen(ctx context.Context, afterFullSync bool) error {
	if c.db != nil {
		return nil
	}

	// After a download the file is the remote's copy; re-verify the
	// schema the same way Open does.
	if err := c.connect(ctx, afterFullSync); err != nil {
		return fmt.Errorf("reopen collection: %w", err)
	}

	return nil
}

// nowMillis is the wall-clock source for the modification counter;
// swapped out in tests.
var nowMillis = func() int64 {
	return time.Now().UnixMilli()
}

// bumpMod advances the modification counter inside tx. The counter is
// wall-clock based but forced strictly upward so equal-millisecond
// mutations remain distinguishable.
func bumpMod(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, updateMod, nowMillis()); err != nil {
		return fmt.Errorf("%w: bump mod: %w", ErrExecutingStatement, err)
	}
	return nil
}

// mutate runs fn inside one transaction and bumps the modification
// counter exactly once if (and only if) fn reports that it changed
// something.
func (c *collection) mutate(ctx context.Context, fn func(tx *sql.Tx) (changed bool, err error)) error {
	if c.db == nil {
		return ErrCollectionClosed
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	changed, err := fn(tx)
	if err != nil {
		return err
	}

	if changed {
		if err = bumpMod(ctx, tx); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}
