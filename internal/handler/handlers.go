package handler

import (
	"github.com/MKhiriev/go-study-platform/internal/config"
	"github.com/MKhiriev/go-study-platform/internal/handler/grpc"
	"github.com/MKhiriev/go-study-platform/internal/handler/http"
	"github.com/MKhiriev/go-study-platform/internal/logger"
	"github.com/MKhiriev/go-study-platform/internal/metrics"
	"github.com/MKhiriev/go-study-platform/internal/service"
)

type Handlers struct {
	HTTP *http.Handler
	GRPC *grpc.Handler
}

// NewHandlers creates a transport handler for every configured server
// address. m may be nil.
func NewHandlers(services *service.Services, m *metrics.Metrics, cfg config.Server, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	handlers := &Handlers{}

	if cfg.HTTPAddress != "" {
		handlers.HTTP = http.NewHandler(services, m, logger)
	}
	if cfg.GRPCAddress != "" {
		var recorder metrics.Recorder
		if m != nil {
			recorder = m
		}
		handlers.GRPC = grpc.NewHandler(services, recorder, logger)
	}

	if handlers.HTTP == nil && handlers.GRPC == nil {
		return nil, errNoHandlersAreCreated
	}

	return handlers, nil
}
