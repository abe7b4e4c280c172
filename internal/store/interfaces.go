package store

import (
	"context"

	"github.com/MKhiriev/go-anki-bridge/models"
)

// Collection is the single mutable handle to the local collection store.
//
// The store has no internal concurrency control: it supports exactly one
// writer and callers must serialize every method call, including reads of
// Mod, behind one lock. Mod values read outside that lock are meaningless.
//
// Only the sync coordinator may call CloseForFullSync and Reopen; the
// handle must always end a full-sync attempt open again.
type Collection interface {
	// Path returns the location of the collection database file.
	Path() string

	// Mod returns the modification counter: a monotonically increasing
	// value bumped by every content-altering operation. Comparing two
	// reads taken around an operation detects whether the operation
	// mutated the store; the values carry no other meaning.
	Mod(ctx context.Context) (int64, error)

	// Close closes the handle. Safe to call on an already-closed handle.
	Close() error

	// CloseForFullSync releases the database file so a full transfer can
	// replace or read it wholesale.
	CloseForFullSync() error

	// Reopen re-establishes the handle after CloseForFullSync. When
	// afterFullSync is true the on-disk file may have been replaced by
	// the remote copy and the schema is re-verified.
	Reopen(ctx context.Context, afterFullSync bool) error

	// SyncCollection performs one negotiation round trip and, when an
	// incremental exchange suffices, carries it out. It never transfers
	// the collection wholesale; a SyncFullRequired status tells the
	// caller to drive FullUploadOrDownload instead.
	SyncCollection(ctx context.Context, auth models.SyncAuth, wantMedia bool) (models.SyncStatus, error)

	// FullUploadOrDownload replaces the remote copy with the local file
	// (upload=true) or the local file with the remote copy. The handle
	// must be closed for full sync first.
	FullUploadOrDownload(ctx context.Context, auth models.SyncAuth, serverUSN int64, upload bool) error

	// FixIntegrity runs the integrity-repair routine. Findings are
	// returned as data (one per line) with ok=false, never as an error;
	// err is reserved for operational failures such as a closed handle.
	FixIntegrity(ctx context.Context) (problems string, ok bool, err error)

	// Content operations consumed by the dispatch layer.
	DeckNames(ctx context.Context) ([]string, error)
	DeckNamesAndIDs(ctx context.Context) (map[string]int64, error)
	CreateDeck(ctx context.Context, name string) (int64, error)
	DeleteDecks(ctx context.Context, names []string) error
	AddNote(ctx context.Context, deckName string, fields []string, tags []string) (int64, error)
	FindNotes(ctx context.Context, query NoteQuery) ([]int64, error)
	NotesInfo(ctx context.Context, noteIDs []int64) ([]models.NoteInfo, error)
	UpdateNoteFields(ctx context.Context, noteID int64, fields []string) error
	DeleteNotes(ctx context.Context, noteIDs []int64) error
	DeckCounts(ctx context.Context) ([]models.DeckCounts, error)
}

// NoteQuery narrows a FindNotes search. Zero-value fields are ignored.
type NoteQuery struct {
	// Deck restricts matches to notes in the named deck.
	Deck string
	// Tag restricts matches to notes carrying the tag.
	Tag string
	// Contains restricts matches to notes whose fields contain the
	// substring.
	Contains string
}
