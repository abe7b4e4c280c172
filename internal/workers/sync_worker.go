package workers

import (
	"github.com/MKhiriev/go-anki-bridge/internal/logger"
	"github.com/MKhiriev/go-anki-bridge/internal/service"
)

// syncWorker arms the periodic background-sync cadence at startup. The
// scheduler owns the timers from there on; this worker only kicks it off.
type syncWorker struct {
	bridge *service.Bridge
	logger *logger.Logger
}

func (w *syncWorker) Run() {
	w.logger.Info().Msg("periodic sync armed")
	w.bridge.StartPeriodic()
}
