package http

import (
	"net/http"

	"github.com/MKhiriev/go-study-platform/internal/logger"
	"github.com/MKhiriev/go-study-platform/internal/metrics"
	"github.com/MKhiriev/go-study-platform/internal/service"
	"github.com/MKhiriev/go-study-platform/internal/validators"
)

type Handler struct {
	services  *service.Services
	validator validators.Validator

	metrics        metrics.Recorder
	metricsHandler http.Handler

	logger *logger.Logger
}

// NewHandler creates the HTTP handler. A nil m disables the /metrics route
// and request metrics.
func NewHandler(services *service.Services, m *metrics.Metrics, logger *logger.Logger) *Handler {
	h := &Handler{
		services:  services,
		validator: validators.NewAccountValidator(),
		metrics:   metrics.Nop(),
		logger:    logger,
	}
	if m != nil {
		h.metrics = m
		h.metricsHandler = m.Handler()
	}

	logger.Info().Msg("http handler created")
	return h
}
