package grpc

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/MKhiriev/go-study-platform/internal/access"
	"github.com/MKhiriev/go-study-platform/internal/app"
	"github.com/MKhiriev/go-study-platform/internal/logger"
	"github.com/MKhiriev/go-study-platform/internal/utils"
	"github.com/MKhiriev/go-study-platform/models"
)

const (
	authorizationKey = "authorization"
	traceIDKey       = "x-trace-id"
)

// requiredRoles lists the role gated methods. Methods missing here need a
// valid token of any role.
var requiredRoles = map[string]models.Role{
	MethodListAccounts: models.RoleAdmin,
}

// isPublic reports whether fullMethod bypasses authentication.
func isPublic(fullMethod string) bool {
	return strings.HasPrefix(fullMethod, "/"+healthpb.Health_ServiceDesc.ServiceName+"/")
}

func (h *Handler) unaryAuth(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	ctx, err := h.authorize(ctx, info.FullMethod)
	if err != nil {
		return nil, err
	}
	return handler(ctx, req)
}

func (h *Handler) streamAuth(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
	ctx, err := h.authorize(ss.Context(), info.FullMethod)
	if err != nil {
		return err
	}
	return handler(srv, &authorizedStream{ServerStream: ss, ctx: ctx})
}

// authorize applies the same rules as the HTTP access middleware and role
// gate to the "authorization" metadata key. Role gated methods are checked
// against the stored account. The returned context carries the identity.
func (h *Handler) authorize(ctx context.Context, fullMethod string) (context.Context, error) {
	if isPublic(fullMethod) {
		return ctx, nil
	}

	var header string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(authorizationKey); len(values) > 0 {
			header = values[0]
		}
	}
	if header == "" {
		return nil, status.Error(codes.Unauthenticated, app.CodeUnauthenticated)
	}

	tokenString, err := utils.ParseBearerToken(header)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, app.CodeTokenMalformed)
	}

	token, err := h.services.AuthService.ParseToken(ctx, tokenString)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, tokenErrorReason(err))
	}

	identity := token.Identity()
	required := requiredRoles[fullMethod]
	if required != access.Public {
		identity, err = h.services.AuthService.CurrentIdentity(ctx, identity)
		if err != nil {
			return nil, statusFromServiceError(err)
		}
	}

	decision := access.Authorize(&identity, required)
	h.metrics.ObserveAccessDecision(decision.String())
	if decision != access.Allow {
		logger.FromContext(ctx).Info().
			Str("account_id", identity.AccountID).
			Str("method", fullMethod).
			Msg("access denied")
		return nil, status.Error(codes.PermissionDenied, app.CodeForbidden)
	}

	ctx = utils.WithIdentity(ctx, identity)
	if token.Claims.ExpiresAt != nil {
		ctx = utils.WithTokenExpiry(ctx, token.Claims.ExpiresAt.Time)
	}
	return ctx, nil
}

// unaryLogging attaches a request-scoped logger tagged with the caller's
// x-trace-id, or a fresh UUID, and logs every call with its status code.
func (h *Handler) unaryLogging(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	traceID := ""
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(traceIDKey); len(values) > 0 {
			traceID = values[0]
		}
	}
	if traceID == "" {
		traceID = uuid.NewString()
	}

	log := h.logger.WithTraceID(traceID)
	ctx = log.WithContext(ctx)

	start := time.Now()
	resp, err := handler(ctx, req)

	log.Info().
		Str("method", info.FullMethod).
		Str("code", status.Code(err).String()).
		Dur("duration", time.Since(start)).
		Send()

	return resp, err
}

func tokenErrorReason(err error) string {
	switch {
	case errors.Is(err, utils.ErrTokenExpired):
		return app.CodeTokenExpired
	case errors.Is(err, utils.ErrTokenInvalidSignature):
		return app.CodeTokenInvalidSignature
	default:
		return app.CodeTokenMalformed
	}
}

// authorizedStream overrides the context of a server stream.
type authorizedStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *authorizedStream) Context() context.Context {
	return s.ctx
}
