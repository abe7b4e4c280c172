package workers

import (
	"github.com/MKhiriev/go-anki-bridge/internal/logger"
	"github.com/MKhiriev/go-anki-bridge/internal/service"
)

type Workers struct {
	workers []Worker
}

// NewWorkers assembles the application's background workers.
func NewWorkers(services *service.Services, log *logger.Logger) *Workers {
	return &Workers{
		workers: []Worker{
			&syncWorker{bridge: services.Bridge, logger: log},
		},
	}
}

func (w *Workers) Run() {
	for _, worker := range w.workers {
		worker.Run()
	}
}
