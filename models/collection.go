package models

// Deck is a named container for cards.
type Deck struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Mod  int64  `json:"mod"`
	USN  int64  `json:"usn"`
}

// Note is one unit of user content. Fields holds the field values in
// order, Tags the space-separated tag list.
type Note struct {
	ID     int64    `json:"id"`
	GUID   string   `json:"guid"`
	DeckID int64    `json:"deckId"`
	Fields []string `json:"fields"`
	Tags   []string `json:"tags"`
	Mod    int64    `json:"mod"`
	USN    int64    `json:"usn"`
}

// Card is one reviewable side of a note.
type Card struct {
	ID     int64 `json:"id"`
	NoteID int64 `json:"noteId"`
	DeckID int64 `json:"deckId"`
	Ord    int   `json:"ord"`
	Due    int64 `json:"due"`
	Mod    int64 `json:"mod"`
	USN    int64 `json:"usn"`
}

// NoteInfo is the notesInfo action reply shape.
type NoteInfo struct {
	NoteID int64    `json:"noteId"`
	GUID   string   `json:"guid"`
	Deck   string   `json:"deck"`
	Fields []string `json:"fields"`
	Tags   []string `json:"tags"`
	Mod    int64    `json:"mod"`
	Cards  []int64  `json:"cards"`
}

// DeckCounts summarises a deck for stats-style actions.
type DeckCounts struct {
	DeckID int64  `json:"deckId"`
	Name   string `json:"name"`
	Cards  int64  `json:"cards"`
	Notes  int64  `json:"notes"`
}
