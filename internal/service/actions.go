// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/go-anki-bridge/internal/logger"
	"github.com/MKhiriev/go-anki-bridge/internal/store"
	"github.com/MKhiriev/go-anki-bridge/models"
)

// actionFunc executes one named API action. Implementations run while
// the serializer lock is held.
type actionFunc func(ctx context.Context, params json.RawMessage) (any, error)

// ActionService maps action names to their handlers and shapes results
// into the wire envelope. It never touches scheduling; the dispatch
// policy around it decides what a completed action triggers.
type ActionService struct {
	col        store.Collection
	coord      *Coordinator
	apiVersion int
	logger     *logger.Logger
	registry   map[string]actionFunc
}

// NewActionService constructs the action registry over col and coord.
func NewActionService(col store.Collection, coord *Coordinator, apiVersion int, log *logger.Logger) *ActionService {
	s := &ActionService{
		col:        col,
		coord:      coord,
		apiVersion: apiVersion,
		logger:     log,
	}

	s.registry = map[string]actionFunc{
		"version":          s.version,
		"deckNames":        s.deckNames,
		"deckNamesAndIds":  s.deckNamesAndIDs,
		"createDeck":       s.createDeck,
		"deleteDecks":      s.deleteDecks,
		"addNote":          s.addNote,
		"addNotes":         s.addNotes,
		"findNotes":        s.findNotes,
		"notesInfo":        s.notesInfo,
		"updateNoteFields": s.updateNoteFields,
		"deleteNotes":      s.deleteNotes,
		"getDeckStats":     s.deckCounts,
		"sync":             s.sync,
		"fullSync":         s.fullSync,
		"checkDatabase":    s.checkDatabase,
	}

	return s
}

// Known reports whether action is a registered action name.
func (s *ActionService) Known(action string) bool {
	_, ok := s.registry[action]
	return ok
}

// Do executes one request and captures the outcome in a response
// envelope. Errors become the envelope's error string; panics are the
// caller's problem (the HTTP layer recovers them).
func (s *ActionService) Do(ctx context.Context, req models.Request) models.Response {
	fn, ok := s.registry[req.Action]
	if !ok {
		return models.NewErrorResponse(fmt.Sprintf("unsupported action %q", req.Action))
	}

	result, err := fn(ctx, req.Params)
	if err != nil {
		s.logger.Error().Err(err).Str("action", req.Action).Msg("action failed")
		return models.NewErrorResponse(err.Error())
	}

	return models.Response{Result: result}
}

func (s *ActionService) version(_ context.Context, _ json.RawMessage) (any, error) {
	return s.apiVersion, nil
}

func (s *ActionService) deckNames(ctx context.Context, _ json.RawMessage) (any, error) {
	return s.col.DeckNames(ctx)
}

func (s *ActionService) deckNamesAndIDs(ctx context.Context, _ json.RawMessage) (any, error) {
	return s.col.DeckNamesAndIDs(ctx)
}

func (s *ActionService) createDeck(ctx context.Context, params json.RawMessage) (any, error) {
	var p struct {
		Deck string `json:"deck"`
	}
	if err := unmarshalParams(params, &p); err != nil {
		return nil, err
	}
	if p.Deck == "" {
		return nil, fmt.Errorf("createDeck: deck name is required")
	}
	return s.col.CreateDeck(ctx, p.Deck)
}

func (s *ActionService) deleteDecks(ctx context.Context, params json.RawMessage) (any, error) {
	var p struct {
		Decks []string `json:"decks"`
	}
	if err := unmarshalParams(params, &p); err != nil {
		return nil, err
	}
	return nil, s.col.DeleteDecks(ctx, p.Decks)
}

// noteParams is the wire shape of a single note for addNote/addNotes.
type noteParams struct {
	DeckName string   `json:"deckName"`
	Fields   []string `json:"fields"`
	Tags     []string `json:"tags"`
}

func (s *ActionService) addNote(ctx context.Context, params json.RawMessage) (any, error) {
	var p struct {
		Note noteParams `json:"note"`
	}
	if err := unmarshalParams(params, &p); err != nil {
		return nil, err
	}
	if p.Note.DeckName == "" || len(p.Note.Fields) == 0 {
		return nil, fmt.Errorf("addNote: deckName and fields are required")
	}
	return s.col.AddNote(ctx, p.Note.DeckName, p.Note.Fields, p.Note.Tags)
}

// addNotes adds each note independently; a failed note yields a nil slot
// instead of aborting the batch.
func (s *ActionService) addNotes(ctx context.Context, params json.RawMessage) (any, error) {
	var p struct {
		Notes []noteParams `json:"notes"`
	}
	if err := unmarshalParams(params, &p); err != nil {
		return nil, err
	}

	ids := make([]*int64, 0, len(p.Notes))
	for _, n := range p.Notes {
		if n.DeckName == "" || len(n.Fields) == 0 {
			ids = append(ids, nil)
			continue
		}
		id, err := s.col.AddNote(ctx, n.DeckName, n.Fields, n.Tags)
		if err != nil {
			s.logger.Warn().Err(err).Str("deck", n.DeckName).Msg("addNotes: note skipped")
			ids = append(ids, nil)
			continue
		}
		ids = append(ids, &id)
	}
	return ids, nil
}

func (s *ActionService) findNotes(ctx context.Context, params json.RawMessage) (any, error) {
	var p struct {
		Deck     string `json:"deck"`
		Tag      string `json:"tag"`
		Contains string `json:"contains"`
	}
	if err := unmarshalParams(params, &p); err != nil {
		return nil, err
	}
	ids, err := s.col.FindNotes(ctx, store.NoteQuery{Deck: p.Deck, Tag: p.Tag, Contains: p.Contains})
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []int64{}
	}
	return ids, nil
}

func (s *ActionService) notesInfo(ctx context.Context, params json.RawMessage) (any, error) {
	var p struct {
		Notes []int64 `json:"notes"`
	}
	if err := unmarshalParams(params, &p); err != nil {
		return nil, err
	}
	infos, err := s.col.NotesInfo(ctx, p.Notes)
	if err != nil {
		return nil, err
	}
	if infos == nil {
		infos = []models.NoteInfo{}
	}
	return infos, nil
}

func (s *ActionService) updateNoteFields(ctx context.Context, params json.RawMessage) (any, error) {
	var p struct {
		Note struct {
			ID     int64    `json:"id"`
			Fields []string `json:"fields"`
		} `json:"note"`
	}
	if err := unmarshalParams(params, &p); err != nil {
		return nil, err
	}
	if p.Note.ID == 0 {
		return nil, fmt.Errorf("updateNoteFields: note id is required")
	}
	return nil, s.col.UpdateNoteFields(ctx, p.Note.ID, p.Note.Fields)
}

func (s *ActionService) deleteNotes(ctx context.Context, params json.RawMessage) (any, error) {
	var p struct {
		Notes []int64 `json:"notes"`
	}
	if err := unmarshalParams(params, &p); err != nil {
		return nil, err
	}
	return nil, s.col.DeleteNotes(ctx, p.Notes)
}

func (s *ActionService) deckCounts(ctx context.Context, _ json.RawMessage) (any, error) {
	return s.col.DeckCounts(ctx)
}

func (s *ActionService) sync(ctx context.Context, _ json.RawMessage) (any, error) {
	return nil, s.coord.syncLocked(ctx)
}

func (s *ActionService) fullSync(ctx context.Context, params json.RawMessage) (any, error) {
	var p struct {
		Mode string `json:"mode"`
	}
	if err := unmarshalParams(params, &p); err != nil {
		return nil, err
	}
	return nil, s.coord.fullSyncLocked(ctx, p.Mode)
}

func (s *ActionService) checkDatabase(ctx context.Context, _ json.RawMessage) (any, error) {
	return s.coord.checkDatabaseLocked(ctx)
}

// unmarshalParams decodes the params object, treating absent params as
// an empty object so parameterless calls to parameterized actions fail
// on validation rather than on JSON decoding.
func unmarshalParams(params json.RawMessage, dst any) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, dst); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}
	return nil
}
