// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/MKhiriev/go-anki-bridge/internal/logger"
	"github.com/MKhiriev/go-anki-bridge/models"
)

// fieldSeparator joins note field values into the flds column.
const fieldSeparator = "\x1f"

// DeckNames implements [Collection].
func (c *collection) DeckNames(ctx context.Context) ([]string, error) {
	if c.db == nil {
		return nil, ErrCollectionClosed
	}
	log := logger.FromContext(ctx)

	rows, err := c.db.QueryContext(ctx, selectDeckNames)
	if err != nil {
		log.Err(err).Str("func", "collection.DeckNames").Msg("failed to query deck names")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	names := make([]string, 0, 8)
	for rows.Next() {
		var name string
		if err = rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		names = append(names, name)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return names, nil
}

// DeckNamesAndIDs implements [Collection].
func (c *collection) DeckNamesAndIDs(ctx context.Context) (map[string]int64, error) {
	if c.db == nil {
		return nil, ErrCollectionClosed
	}

	rows, err := c.db.QueryContext(ctx, selectDeckNamesAndIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	decks := make(map[string]int64, 8)
	for rows.Next() {
		var id int64
		var name string
		if err = rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		decks[name] = id
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return decks, nil
}

// CreateDeck implements [Collection]. Creating a deck that already exists
// is not an error; the existing deck's ID is returned and the store is
// left untouched.
func (c *collection) CreateDeck(ctx context.Context, name string) (int64, error) {
	if c.db == nil {
		return 0, ErrCollectionClosed
	}
	log := logger.FromContext(ctx)

	var deckID int64
	err := c.mutate(ctx, func(tx *sql.Tx) (bool, error) {
		err := tx.QueryRowContext(ctx, selectDeckIDByName, name).Scan(&deckID)
		if err == nil {
			return false, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}

		res, err := tx.ExecContext(ctx, insertDeck, name, nowMillis(), pendingUSN)
		if err != nil {
			return false, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		deckID, err = res.LastInsertId()
		if err != nil {
			return false, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		return true, nil
	})
	if err != nil {
		log.Err(err).Str("func", "collection.CreateDeck").Str("deck", name).Msg("failed to create deck")
		return 0, err
	}

	return deckID, nil
}

// DeleteDecks implements [Collection]. Unknown names are skipped so the
// operation stays idempotent; notes and cards in deleted decks go with
// them.
func (c *collection) DeleteDecks(ctx context.Context, names []string) error {
	if c.db == nil {
		return ErrCollectionClosed
	}

	return c.mutate(ctx, func(tx *sql.Tx) (bool, error) {
		changed := false
		for _, name := range names {
			var deckID int64
			err := tx.QueryRowContext(ctx, selectDeckIDByName, name).Scan(&deckID)
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}
			if err != nil {
				return changed, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
			}

			if _, err = tx.ExecContext(ctx, deleteCardsByDeck, deckID); err != nil {
				return changed, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
			}
			if _, err = tx.ExecContext(ctx, deleteNotesByDeck, deckID); err != nil {
				return changed, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
			}
			if _, err = tx.ExecContext(ctx, deleteDeckByName, name); err != nil {
				return changed, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
			}
			changed = true
		}
		return changed, nil
	})
}

// AddNote implements [Collection]. Every note gets one card in its deck;
// the GUID makes the note identifiable across full syncs.
func (c *collection) AddNote(ctx context.Context, deckName string, fields []string, tags []string) (int64, error) {
	if c.db == nil {
		return 0, ErrCollectionClosed
	}
	log := logger.FromContext(ctx)

	var noteID int64
	err := c.mutate(ctx, func(tx *sql.Tx) (bool, error) {
		var deckID int64
		err := tx.QueryRowContext(ctx, selectDeckIDByName, deckName).Scan(&deckID)
		if errors.Is(err, sql.ErrNoRows) {
			return false, fmt.Errorf("%w: %s", ErrDeckNotFound, deckName)
		}
		if err != nil {
			return false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}

		now := nowMillis()
		res, err := tx.ExecContext(ctx, insertNote,
			uuid.NewString(),
			deckID,
			strings.Join(fields, fieldSeparator),
			strings.Join(tags, " "),
			now,
			pendingUSN,
		)
		if err != nil {
			return false, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		noteID, err = res.LastInsertId()
		if err != nil {
			return false, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}

		if _, err = tx.ExecContext(ctx, insertCard, noteID, deckID, 0, 0, now, pendingUSN); err != nil {
			return false, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		return true, nil
	})
	if err != nil {
		log.Err(err).Str("func", "collection.AddNote").Str("deck", deckName).Msg("failed to add note")
		return 0, err
	}

	return noteID, nil
}

// FindNotes implements [Collection]. The WHERE clause is assembled with
// squirrel because every part of [NoteQuery] is optional.
func (c *collection) FindNotes(ctx context.Context, query NoteQuery) ([]int64, error) {
	if c.db == nil {
		return nil, ErrCollectionClosed
	}
	log := logger.FromContext(ctx)

	builder := sq.Select("n.id").
		From("notes n").
		OrderBy("n.id")

	if query.Deck != "" {
		builder = builder.Join("decks d ON d.id = n.deck_id").Where(sq.Eq{"d.name": query.Deck})
	}
	if query.Tag != "" {
		builder = builder.Where(sq.Like{"' ' || n.tags || ' '": "% " + query.Tag + " %"})
	}
	if query.Contains != "" {
		builder = builder.Where(sq.Like{"n.flds": "%" + query.Contains + "%"})
	}

	sqlStr, args, err := builder.ToSql()
	if err != nil {
		log.Err(err).Str("func", "collection.FindNotes").Msg("failed to build query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := c.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	ids := make([]int64, 0, 32)
	for rows.Next() {
		var id int64
		if err = rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return ids, nil
}

// NotesInfo implements [Collection]. Unknown IDs are skipped rather
// than reported; callers get information for what exists.
func (c *collection) NotesInfo(ctx context.Context, noteIDs []int64) ([]models.NoteInfo, error) {
	if c.db == nil {
		return nil, ErrCollectionClosed
	}

	infos := make([]models.NoteInfo, 0, len(noteIDs))
	for _, id := range noteIDs {
		var info models.NoteInfo
		var flds, tags string

		err := c.db.QueryRowContext(ctx, selectNotesInfo, id).
			Scan(&info.NoteID, &info.GUID, &info.Deck, &flds, &tags, &info.Mod)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}

		info.Fields = strings.Split(flds, fieldSeparator)
		info.Tags = splitTags(tags)

		cardRows, err := c.db.QueryContext(ctx, selectCardIDsByNote, id)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
		for cardRows.Next() {
			var cardID int64
			if err = cardRows.Scan(&cardID); err != nil {
				cardRows.Close()
				return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
			}
			info.Cards = append(info.Cards, cardID)
		}
		if err = cardRows.Err(); err != nil {
			cardRows.Close()
			return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
		cardRows.Close()

		infos = append(infos, info)
	}

	return infos, nil
}

// UpdateNoteFields implements [Collection].
func (c *collection) UpdateNoteFields(ctx context.Context, noteID int64, fields []string) error {
	if c.db == nil {
		return ErrCollectionClosed
	}

	return c.mutate(ctx, func(tx *sql.Tx) (bool, error) {
		res, err := tx.ExecContext(ctx, updateNoteFields,
			strings.Join(fields, fieldSeparator), nowMillis(), pendingUSN, noteID)
		if err != nil {
			return false, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return false, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		if affected == 0 {
			return false, fmt.Errorf("%w: %d", ErrNoteNotFound, noteID)
		}
		return true, nil
	})
}

// DeleteNotes implements [Collection]. Unknown IDs are skipped.
func (c *collection) DeleteNotes(ctx context.Context, noteIDs []int64) error {
	if c.db == nil {
		return ErrCollectionClosed
	}

	return c.mutate(ctx, func(tx *sql.Tx) (bool, error) {
		changed := false
		for _, id := range noteIDs {
			if _, err := tx.ExecContext(ctx, deleteCardsByNote, id); err != nil {
				return changed, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
			}
			res, err := tx.ExecContext(ctx, deleteNoteByID, id)
			if err != nil {
				return changed, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
			}
			affected, err := res.RowsAffected()
			if err != nil {
				return changed, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
			}
			if affected > 0 {
				changed = true
			}
		}
		return changed, nil
	})
}

// DeckCounts implements [Collection].
func (c *collection) DeckCounts(ctx context.Context) ([]models.DeckCounts, error) {
	if c.db == nil {
		return nil, ErrCollectionClosed
	}

	rows, err := c.db.QueryContext(ctx, selectDeckCounts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	counts := make([]models.DeckCounts, 0, 8)
	for rows.Next() {
		var dc models.DeckCounts
		if err = rows.Scan(&dc.DeckID, &dc.Name, &dc.Cards, &dc.Notes); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		counts = append(counts, dc)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return counts, nil
}

func splitTags(tags string) []string {
	fields := strings.Fields(tags)
	if len(fields) == 0 {
		return nil
	}
	return fields
}
