// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/MKhiriev/go-anki-bridge/internal/logger"
	"github.com/MKhiriev/go-anki-bridge/models"
)

// colMeta is the col table's single row.
type colMeta struct {
	crt int64
	mod int64
	scm int64
	ver int64
	usn int64
	ls  int64
}

func (c *collection) readColMeta(ctx context.Context) (colMeta, error) {
	var m colMeta
	err := c.db.QueryRowContext(ctx, selectColMeta).
		Scan(&m.crt, &m.mod, &m.scm, &m.ver, &m.usn, &m.ls)
	if err != nil {
		return colMeta{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return m, nil
}

// SyncCollection implements [Collection].
//
// Classification:
//   - schema mismatch (scm) -> SyncFullRequired, nothing is transferred;
//   - both sides unchanged since the last agreed sync point (ls) ->
//     SyncNoChanges;
//   - otherwise one incremental exchange: pending local rows (usn = -1)
//     go out, server changes come back and are applied, then both sides'
//     sync point advances.
func (c *collection) SyncCollection(ctx context.Context, auth models.SyncAuth, wantMedia bool) (models.SyncStatus, error) {
	if c.db == nil {
		return models.SyncStatus{}, ErrCollectionClosed
	}
	log := logger.FromContext(ctx)

	local, err := c.readColMeta(ctx)
	if err != nil {
		return models.SyncStatus{}, err
	}

	remote, err := c.remote.Meta(ctx, auth, models.ClientMeta{
		Mod:       local.mod,
		SCM:       local.scm,
		USN:       local.usn,
		LastSync:  local.ls,
		WantMedia: wantMedia,
	})
	if err != nil {
		return models.SyncStatus{}, err
	}

	status := models.SyncStatus{
		NewEndpoint:    remote.NewEndpoint,
		ServerMessage:  remote.Message,
		ServerUSN:      remote.USN,
		ServerMediaUSN: remote.MediaUSN,
	}

	if remote.SCM != local.scm {
		status.Required = models.SyncFullRequired
		return status, nil
	}

	if local.mod == local.ls && remote.Mod == local.ls {
		status.Required = models.SyncNoChanges
		return status, nil
	}

	if err = c.exchangeChanges(ctx, auth, local, remote); err != nil {
		return models.SyncStatus{}, err
	}

	status.Required = models.SyncNormal
	log.Info().Int64("server_usn", remote.USN).Msg("incremental sync applied")
	return status, nil
}

// exchangeChanges performs the incremental half of a normal sync: push
// pending rows, apply the server's counter-changes, stamp everything
// with the new server sequence number and advance the sync point.
func (c *collection) exchangeChanges(ctx context.Context, auth models.SyncAuth, local colMeta, remote models.ServerMeta) error {
	pending, err := c.gatherPending(ctx)
	if err != nil {
		return err
	}

	serverChanges, err := c.remote.ApplyChanges(ctx, auth, pending)
	if err != nil {
		return err
	}

	newUSN := remote.USN + 1
	newLS := nowMillis()
	if local.mod > newLS {
		newLS = local.mod
	}
	if remote.Mod > newLS {
		newLS = remote.Mod
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if err = applyChangeSet(ctx, tx, serverChanges); err != nil {
		return err
	}

	for _, stmt := range []string{stampSyncedDecks, stampSyncedNotes, stampSyncedCards} {
		if _, err = tx.ExecContext(ctx, stmt, newUSN); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	if _, err = tx.ExecContext(ctx, updateColAfterSync, newLS, newUSN, newLS); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

// gatherPending collects every row still carrying the pending usn.
func (c *collection) gatherPending(ctx context.Context) (models.ChangeSet, error) {
	var changes models.ChangeSet

	rows, err := c.db.QueryContext(ctx, selectPendingDecks)
	if err != nil {
		return changes, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	for rows.Next() {
		var d models.Deck
		if err = rows.Scan(&d.ID, &d.Name, &d.Mod, &d.USN); err != nil {
			rows.Close()
			return changes, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		changes.Decks = append(changes.Decks, d)
	}
	if err = rows.Err(); err != nil {
		rows.Close()
		return changes, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	rows.Close()

	rows, err = c.db.QueryContext(ctx, selectPendingNotes)
	if err != nil {
		return changes, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	for rows.Next() {
		var n models.Note
		var flds, tags string
		if err = rows.Scan(&n.ID, &n.GUID, &n.DeckID, &flds, &tags, &n.Mod, &n.USN); err != nil {
			rows.Close()
			return changes, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		n.Fields = strings.Split(flds, fieldSeparator)
		n.Tags = splitTags(tags)
		changes.Notes = append(changes.Notes, n)
	}
	if err = rows.Err(); err != nil {
		rows.Close()
		return changes, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	rows.Close()

	rows, err = c.db.QueryContext(ctx, selectPendingCards)
	if err != nil {
		return changes, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	for rows.Next() {
		var card models.Card
		if err = rows.Scan(&card.ID, &card.NoteID, &card.DeckID, &card.Ord, &card.Due, &card.Mod, &card.USN); err != nil {
			rows.Close()
			return changes, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		changes.Cards = append(changes.Cards, card)
	}
	if err = rows.Err(); err != nil {
		rows.Close()
		return changes, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	rows.Close()

	return changes, nil
}

// applyChangeSet upserts server rows by ID, server values winning.
func applyChangeSet(ctx context.Context, tx *sql.Tx, changes models.ChangeSet) error {
	for _, d := range changes.Decks {
		if _, err := tx.ExecContext(ctx, upsertDeck, d.ID, d.Name, d.Mod, d.USN); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}
	for _, n := range changes.Notes {
		if _, err := tx.ExecContext(ctx, upsertNote,
			n.ID, n.GUID, n.DeckID,
			strings.Join(n.Fields, fieldSeparator),
			strings.Join(n.Tags, " "),
			n.Mod, n.USN,
		); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}
	for _, card := range changes.Cards {
		if _, err := tx.ExecContext(ctx, upsertCard,
			card.ID, card.NoteID, card.DeckID, card.Ord, card.Due, card.Mod, card.USN,
		); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}
	return nil
}

// FullUploadOrDownload implements [Collection]. The handle must already
// be closed for full sync; the caller reopens it afterwards.
func (c *collection) FullUploadOrDownload(ctx context.Context, auth models.SyncAuth, serverUSN int64, upload bool) error {
	if c.db != nil {
		return ErrCollectionOpen
	}

	if upload {
		payload, err := os.ReadFile(c.path)
		if err != nil {
			return fmt.Errorf("read collection for upload: %w", err)
		}
		return c.remote.Upload(ctx, auth, serverUSN, payload)
	}

	payload, err := c.remote.Download(ctx, auth, serverUSN)
	if err != nil {
		return err
	}

	// Write-then-rename so a failed download never corrupts the local
	// file.
	tmp := c.path + ".tmp"
	if err = os.WriteFile(tmp, payload, 0o600); err != nil {
		return fmt.Errorf("write downloaded collection: %w", err)
	}
	if err = os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("replace collection file: %w", err)
	}

	return nil
}
