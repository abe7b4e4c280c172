package service

import (
	"errors"
	"fmt"
)

var (
	// ErrSyncKeyNotConfigured is returned at negotiation entry when no
	// sync credential is configured. A sync attempt without a key fails
	// fast and is never retried by the scheduler on its own.
	ErrSyncKeyNotConfigured = errors.New("sync: key not configured")

	// ErrFullSyncRequired is wrapped into the error returned by sync()
	// when the negotiation demands a full transfer: the caller must
	// explicitly invoke fullSync with a direction.
	ErrFullSyncRequired = errors.New("use fullSync")

	// ErrInvalidFullSyncMode rejects a fullSync mode outside
	// {"upload", "download"} before any store interaction.
	ErrInvalidFullSyncMode = errors.New(`full sync mode must be "upload" or "download"`)
)

// SyncError marks a network/protocol failure during negotiation or
// transfer. The background scheduler path logs and swallows it; explicit
// fullSync calls propagate it to the caller.
type SyncError struct {
	Op  string
	Err error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync %s: %v", e.Op, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// parseFullSyncMode validates the fullSync direction.
func parseFullSyncMode(mode string) (upload bool, err error) {
	switch mode {
	case "upload":
		return true, nil
	case "download":
		return false, nil
	default:
		return false, fmt.Errorf("%w, got %q", ErrInvalidFullSyncMode, mode)
	}
}
