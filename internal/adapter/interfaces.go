// Package adapter implements the HTTP client for the remote sync
// endpoint. It hides the wire protocol behind the [SyncServer]
// interface so the collection store can negotiate and transfer data
// without knowing about HTTP.
package adapter

import (
	"context"

	"github.com/MKhiriev/go-anki-bridge/models"
)

// SyncServer is the remote counterpart of the local collection.
//
// Every call is one bounded network round trip: the timeout carried in
// [models.SyncAuth] limits the whole exchange. Implementations must
// honour auth.Endpoint as given; sticky redirects are the caller's
// concern.
type SyncServer interface {
	// Meta performs the negotiation round trip: it sends the local
	// collection state and returns the server's.
	Meta(ctx context.Context, auth models.SyncAuth, client models.ClientMeta) (models.ServerMeta, error)

	// ApplyChanges pushes local pending changes and returns the
	// server-side changes the client must apply in exchange.
	ApplyChanges(ctx context.Context, auth models.SyncAuth, changes models.ChangeSet) (models.ChangeSet, error)

	// Upload replaces the server's collection with payload.
	Upload(ctx context.Context, auth models.SyncAuth, serverUSN int64, payload []byte) error

	// Download fetches the server's collection wholesale.
	Download(ctx context.Context, auth models.SyncAuth, serverUSN int64) ([]byte, error)
}
