// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixIntegrity_CleanCollection(t *testing.T) {
	col, _ := openTestCollection(t)

	problems, ok, err := col.FixIntegrity(context.Background())

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, problems)
}

func TestFixIntegrity_DeletesOrphanCards(t *testing.T) {
	col, _ := openTestCollection(t)
	ctx := context.Background()

	c := col.(*collection)
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO cards (note_id, deck_id, ord, due, mod, usn) VALUES (999999, 1, 0, 0, 0, -1);`)
	require.NoError(t, err)

	modBefore, err := col.Mod(ctx)
	require.NoError(t, err)

	problems, ok, err := col.FixIntegrity(ctx)

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, problems, "deleted 1 cards with missing note")

	modAfter, err := col.Mod(ctx)
	require.NoError(t, err)
	assert.Greater(t, modAfter, modBefore, "a repair is a modification")

	// A second run finds nothing left to repair.
	problems, ok, err = col.FixIntegrity(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, problems)
}

func TestFixIntegrity_ReportsNotesWithoutCards(t *testing.T) {
	col, _ := openTestCollection(t)
	ctx := context.Background()

	c := col.(*collection)
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO notes (guid, deck_id, flds, tags, mod, usn) VALUES ('lonely', 1, 'front', '', 0, -1);`)
	require.NoError(t, err)

	problems, ok, err := col.FixIntegrity(ctx)

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, problems, "found 1 notes with no cards")
}

func TestFixIntegrity_ClosedHandle(t *testing.T) {
	col, _ := openTestCollection(t)
	require.NoError(t, col.Close())

	_, _, err := col.FixIntegrity(context.Background())

	require.ErrorIs(t, err, ErrCollectionClosed)
}
