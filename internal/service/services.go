package service

import (
	"github.com/MKhiriev/go-anki-bridge/internal/config"
	"github.com/MKhiriev/go-anki-bridge/internal/logger"
	"github.com/MKhiriev/go-anki-bridge/internal/store"
)

// Services aggregates the service layer consumed by the transport and
// worker layers.
type Services struct {
	Bridge *Bridge
}

// NewServices wires the service layer over an open collection.
func NewServices(col store.Collection, cfg *config.StructuredConfig, log *logger.Logger) *Services {
	return &Services{
		Bridge: NewBridge(col, cfg, log),
	}
}
