package grpc

import (
	"context"
	"errors"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/MKhiriev/go-study-platform/internal/app"
	"github.com/MKhiriev/go-study-platform/internal/service"
	"github.com/MKhiriev/go-study-platform/internal/utils"
	"github.com/MKhiriev/go-study-platform/models"
)

const sessionServiceName = "studyplatform.v1.SessionService"

// Full method names of the session service.
const (
	MethodVerify       = "/" + sessionServiceName + "/Verify"
	MethodListAccounts = "/" + sessionServiceName + "/ListAccounts"
)

// sessionServer is the server side of the session service. Messages are
// well-known protobuf types, so no generated code is needed.
type sessionServer interface {
	Verify(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	ListAccounts(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

var sessionServiceDesc = grpc.ServiceDesc{
	ServiceName: sessionServiceName,
	HandlerType: (*sessionServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Verify", Handler: verifyHandler},
		{MethodName: "ListAccounts", Handler: listAccountsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "studyplatform/v1/session.proto",
}

func verifyHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(sessionServer).Verify(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodVerify}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(sessionServer).Verify(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func listAccountsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(sessionServer).ListAccounts(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodListAccounts}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(sessionServer).ListAccounts(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// Verify returns the current summary of the account behind the token.
func (h *Handler) Verify(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	identity, ok := utils.GetIdentityFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, app.CodeUnauthenticated)
	}

	account, err := h.services.AuthService.VerifyIdentity(ctx, identity)
	if err != nil {
		return nil, statusFromServiceError(err)
	}

	expiresAt, _ := utils.GetTokenExpiryFromContext(ctx)
	fields := accountFields(account.Public())
	fields["expires_at"] = expiresAt.UTC().Format(time.RFC3339)

	return structpb.NewStruct(fields)
}

// ListAccounts returns a page of accounts. The request may carry the role,
// status, limit and offset fields.
func (h *Handler) ListAccounts(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()
	filter := models.AccountFilter{
		Role:   models.Role(fields["role"].GetStringValue()),
		Status: models.AccountStatus(fields["status"].GetStringValue()),
	}
	if limit := fields["limit"].GetNumberValue(); limit > 0 {
		filter.Limit = uint64(limit)
	}
	if offset := fields["offset"].GetNumberValue(); offset > 0 {
		filter.Offset = uint64(offset)
	}
	if (filter.Role != "" && !filter.Role.Valid()) || (filter.Status != "" && !filter.Status.Valid()) {
		return nil, status.Error(codes.InvalidArgument, app.CodeBadRequest)
	}

	accounts, err := h.services.AccountService.ListAccounts(ctx, filter)
	if err != nil {
		return nil, statusFromServiceError(err)
	}

	list := make([]any, 0, len(accounts))
	for _, account := range accounts {
		list = append(list, accountFields(account.Public()))
	}

	return structpb.NewStruct(map[string]any{
		"accounts": list,
		"length":   len(list),
	})
}

func accountFields(account models.PublicAccount) map[string]any {
	fields := map[string]any{
		"id":     account.ID,
		"name":   account.Name,
		"email":  account.Email,
		"role":   account.Role.String(),
		"status": account.Status.String(),
	}
	if account.LastActiveAt != nil {
		fields["last_active_at"] = account.LastActiveAt.UTC().Format(time.RFC3339)
	}
	return fields
}

func statusFromServiceError(err error) error {
	switch {
	case errors.Is(err, service.ErrAccountGone):
		return status.Error(codes.Unauthenticated, app.CodeUnauthenticated)
	case errors.Is(err, service.ErrInvalidDataProvided):
		return status.Error(codes.InvalidArgument, app.CodeBadRequest)
	default:
		return status.Error(codes.Internal, app.CodeInternal)
	}
}
