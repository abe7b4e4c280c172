// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// SyncRequired is the outcome class of one sync negotiation round trip.
type SyncRequired int

const (
	// SyncNoChanges means neither side changed since the last agreed
	// sync point; nothing to transfer.
	SyncNoChanges SyncRequired = iota

	// SyncNormal means an incremental exchange reconciled both sides.
	SyncNormal

	// SyncFullRequired means the histories diverged (schema mismatch)
	// and only a full upload or download can reconcile them.
	SyncFullRequired
)

// String returns the wire/log name of the outcome.
func (r SyncRequired) String() string {
	switch r {
	case SyncNoChanges:
		return "NO_CHANGES"
	case SyncNormal:
		return "NORMAL_SYNC"
	case SyncFullRequired:
		return "FULL_SYNC_REQUIRED"
	default:
		return "UNKNOWN"
	}
}

// SyncAuth is the immutable credential tuple used for every round trip
// to the remote sync endpoint. Endpoint may be superseded for the rest
// of the process lifetime when the server answers with a sticky
// redirect; callers hold the effective value, not this struct.
type SyncAuth struct {
	HostKey   string
	Endpoint  string
	IOTimeout time.Duration
}

// SyncStatus is the result of one negotiation.
//
// Only SyncFullRequired demands caller action beyond logging.
// NewEndpoint, when non-empty, replaces the effective endpoint for all
// subsequent negotiations; ServerMessage is informational only.
type SyncStatus struct {
	Required       SyncRequired `json:"required"`
	NewEndpoint    string       `json:"newEndpoint,omitempty"`
	ServerMessage  string       `json:"serverMessage,omitempty"`
	ServerUSN      int64        `json:"serverUsn"`
	ServerMediaUSN int64        `json:"serverMediaUsn"`
}

// CheckDatabaseResult is the structured outcome of the integrity-repair
// routine. Findings are data, never an error: Problems holds one entry
// per finding and OK reports whether the store is clean.
type CheckDatabaseResult struct {
	Problems []string `json:"problems"`
	OK       bool     `json:"ok"`
}

// ClientMeta is the local collection state sent with a negotiation
// request so the server can classify the round trip.
type ClientMeta struct {
	Mod       int64 `json:"mod"`
	SCM       int64 `json:"scm"`
	USN       int64 `json:"usn"`
	LastSync  int64 `json:"lastSync"`
	WantMedia bool  `json:"wantMedia"`
}

// ServerMeta is the server's half of the negotiation.
type ServerMeta struct {
	Mod         int64  `json:"mod"`
	SCM         int64  `json:"scm"`
	USN         int64  `json:"usn"`
	MediaUSN    int64  `json:"mediaUsn"`
	Message     string `json:"message,omitempty"`
	NewEndpoint string `json:"newEndpoint,omitempty"`
}

// ChangeSet is the payload of one incremental exchange: entities that
// changed on one side since the last sync point.
type ChangeSet struct {
	Decks []Deck `json:"decks,omitempty"`
	Notes []Note `json:"notes,omitempty"`
	Cards []Card `json:"cards,omitempty"`
}

// Empty reports whether the change set carries nothing.
func (c ChangeSet) Empty() bool {
	return len(c.Decks) == 0 && len(c.Notes) == 0 && len(c.Cards) == 0
}
