// Package grpc implements the gRPC transport layer of the study-platform
// server: the session service, the standard health service and the
// interceptors that apply bearer-token authentication and the role gate.
package grpc

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/MKhiriev/go-study-platform/internal/logger"
	"github.com/MKhiriev/go-study-platform/internal/metrics"
	"github.com/MKhiriev/go-study-platform/internal/service"
)

// Handler is the root gRPC transport handler.
//
// It stores references to the service layer and structured logger so that
// gRPC method handlers can delegate business logic and emit consistent logs.
// A handler instance is created once at startup and shared by the gRPC server.
type Handler struct {
	// services provides access to all application business operations.
	services *service.Services

	// metrics receives the role gate decisions.
	metrics metrics.Recorder

	// health reports the serving status of the session service.
	health *health.Server

	// logger is used for request-scoped and diagnostic log output.
	logger *logger.Logger
}

// NewHandler constructs a [Handler]. A nil recorder disables metrics.
func NewHandler(services *service.Services, recorder metrics.Recorder, logger *logger.Logger) *Handler {
	if recorder == nil {
		recorder = metrics.Nop()
	}

	logger.Debug().Msg("gRPC handler created")
	return &Handler{
		services: services,
		metrics:  recorder,
		health:   health.NewServer(),
		logger:   logger,
	}
}

// Register registers the session and health services on server and marks
// them as serving.
func (h *Handler) Register(server *grpc.Server) {
	server.RegisterService(&sessionServiceDesc, h)
	healthpb.RegisterHealthServer(server, h.health)

	h.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	h.health.SetServingStatus(sessionServiceName, healthpb.HealthCheckResponse_SERVING)
}

// ServerOptions returns the interceptor chain every server built for this
// handler must use.
func (h *Handler) ServerOptions() []grpc.ServerOption {
	return []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(h.unaryLogging, h.unaryAuth),
		grpc.ChainStreamInterceptor(h.streamAuth),
	}
}

// Shutdown reports every service as not serving, so health watchers learn
// about the stop before connections are drained.
func (h *Handler) Shutdown() {
	h.health.Shutdown()
}
