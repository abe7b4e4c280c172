// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/MKhiriev/go-anki-bridge/internal/logger"
	"github.com/MKhiriev/go-anki-bridge/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestActions(col *fakeCollection) *ActionService {
	coord := NewCoordinator(col, testSyncConfig(), logger.Nop())
	return NewActionService(col, coord, 6, logger.Nop())
}

func TestActionService_Known(t *testing.T) {
	s := newTestActions(newFakeCollection())

	assert.True(t, s.Known("version"))
	assert.True(t, s.Known("fullSync"))
	assert.False(t, s.Known("teleportDeck"))
}

func TestActionService_Version(t *testing.T) {
	s := newTestActions(newFakeCollection())

	resp := s.Do(context.Background(), models.Request{Action: "version"})

	require.Nil(t, resp.Error)
	assert.Equal(t, 6, resp.Result)
}

func TestActionService_CreateDeck_RequiresName(t *testing.T) {
	s := newTestActions(newFakeCollection())

	resp := s.Do(context.Background(), models.Request{
		Action: "createDeck",
		Params: json.RawMessage(`{}`),
	})

	require.NotNil(t, resp.Error)
	assert.Contains(t, *resp.Error, "deck name is required")
}

func TestActionService_AddNote_RequiresDeckAndFields(t *testing.T) {
	s := newTestActions(newFakeCollection())

	resp := s.Do(context.Background(), models.Request{
		Action: "addNote",
		Params: json.RawMessage(`{"note":{"deckName":"Default"}}`),
	})

	require.NotNil(t, resp.Error)
}

func TestActionService_AddNotes_PartialFailureYieldsNilSlots(t *testing.T) {
	s := newTestActions(newFakeCollection())

	resp := s.Do(context.Background(), models.Request{
		Action: "addNotes",
		Params: json.RawMessage(`{"notes":[
			{"deckName":"Default","fields":["q","a"]},
			{"deckName":"","fields":["q","a"]},
			{"deckName":"Default","fields":["x","y"]}
		]}`),
	})

	require.Nil(t, resp.Error)
	ids, ok := resp.Result.([]*int64)
	require.True(t, ok)
	require.Len(t, ids, 3)
	assert.NotNil(t, ids[0])
	assert.Nil(t, ids[1], "invalid note occupies its slot with nil")
	assert.NotNil(t, ids[2])
}

func TestActionService_FindNotes_MalformedParams(t *testing.T) {
	s := newTestActions(newFakeCollection())

	resp := s.Do(context.Background(), models.Request{
		Action: "findNotes",
		Params: json.RawMessage(`{"deck":42}`),
	})

	require.NotNil(t, resp.Error)
	assert.Contains(t, *resp.Error, "invalid params")
}

func TestActionService_UpdateNoteFields_RequiresID(t *testing.T) {
	s := newTestActions(newFakeCollection())

	resp := s.Do(context.Background(), models.Request{
		Action: "updateNoteFields",
		Params: json.RawMessage(`{"note":{"fields":["a","b"]}}`),
	})

	require.NotNil(t, resp.Error)
	assert.Contains(t, *resp.Error, "note id is required")
}

func TestActionService_MissingParamsFailOnValidationNotDecoding(t *testing.T) {
	s := newTestActions(newFakeCollection())

	resp := s.Do(context.Background(), models.Request{Action: "createDeck"})

	require.NotNil(t, resp.Error)
	assert.Contains(t, *resp.Error, "deck name is required")
}
