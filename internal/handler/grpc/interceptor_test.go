package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/MKhiriev/go-study-platform/internal/app"
	"github.com/MKhiriev/go-study-platform/internal/logger"
	"github.com/MKhiriev/go-study-platform/internal/mock"
	"github.com/MKhiriev/go-study-platform/internal/service"
	"github.com/MKhiriev/go-study-platform/internal/utils"
	"github.com/MKhiriev/go-study-platform/models"
)

const bufSize = 1024 * 1024

var expiry = time.Date(2026, 10, 20, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	auth    *mock.MockAuthService
	account *mock.MockAccountService
	handler *Handler
	conn    *grpc.ClientConn
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctrl := gomock.NewController(t)

	env := &testEnv{
		auth:    mock.NewMockAuthService(ctrl),
		account: mock.NewMockAccountService(ctrl),
	}
	env.handler = NewHandler(&service.Services{
		AuthService:    env.auth,
		AccountService: env.account,
	}, nil, logger.Nop())

	lis := bufconn.Listen(bufSize)
	srv := grpc.NewServer(env.handler.ServerOptions()...)
	env.handler.Register(srv)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	env.conn = conn

	return env
}

func tokenOf(identity models.Identity) models.Token {
	return models.Token{Claims: models.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: identity.AccountID, ExpiresAt: jwt.NewNumericDate(expiry)},
		Role:             identity.Role,
		Status:           identity.Status,
	}}
}

func withBearer(token string) context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), authorizationKey, "Bearer "+token)
}

func TestHealthIsPublic(t *testing.T) {
	env := newTestEnv(t)

	resp, err := healthpb.NewHealthClient(env.conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: sessionServiceName})

	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}

func TestHealthAfterShutdown(t *testing.T) {
	env := newTestEnv(t)
	env.handler.Shutdown()

	resp, err := healthpb.NewHealthClient(env.conn).Check(context.Background(), &healthpb.HealthCheckRequest{})

	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.GetStatus())
}

func TestVerify_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		ctx        context.Context
		parseErr   error
		wantReason string
	}{
		{name: "no metadata", ctx: context.Background(), wantReason: app.CodeUnauthenticated},
		{name: "wrong scheme", ctx: metadata.AppendToOutgoingContext(context.Background(), authorizationKey, "Basic abc"), wantReason: app.CodeTokenMalformed},
		{name: "expired", ctx: withBearer("a.b.c"), parseErr: utils.ErrTokenExpired, wantReason: app.CodeTokenExpired},
		{name: "bad signature", ctx: withBearer("a.b.c"), parseErr: utils.ErrTokenInvalidSignature, wantReason: app.CodeTokenInvalidSignature},
		{name: "malformed", ctx: withBearer("abc"), parseErr: utils.ErrTokenMalformed, wantReason: app.CodeTokenMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			if tt.parseErr != nil {
				env.auth.EXPECT().ParseToken(gomock.Any(), gomock.Any()).Return(models.Token{}, tt.parseErr)
			}

			err := env.conn.Invoke(tt.ctx, MethodVerify, &emptypb.Empty{}, &structpb.Struct{})

			st, ok := status.FromError(err)
			require.True(t, ok)
			assert.Equal(t, codes.Unauthenticated, st.Code())
			assert.Equal(t, tt.wantReason, st.Message())
		})
	}
}

func TestVerify_Success(t *testing.T) {
	env := newTestEnv(t)
	identity := models.Identity{AccountID: "acc-1", Role: models.RoleUser, Status: models.StatusInactive}

	env.auth.EXPECT().ParseToken(gomock.Any(), "good.token.sig").Return(tokenOf(identity), nil)
	env.auth.EXPECT().VerifyIdentity(gomock.Any(), identity).Return(models.Account{
		ID: "acc-1", Name: "Alice", Email: "alice@example.com", Role: models.RoleUser, Status: models.StatusInactive,
	}, nil)

	out := &structpb.Struct{}
	err := env.conn.Invoke(withBearer("good.token.sig"), MethodVerify, &emptypb.Empty{}, out)

	require.NoError(t, err)
	fields := out.GetFields()
	assert.Equal(t, "acc-1", fields["id"].GetStringValue())
	assert.Equal(t, "inactive", fields["status"].GetStringValue())
	assert.Equal(t, expiry.Format(time.RFC3339), fields["expires_at"].GetStringValue())
	assert.NotContains(t, fields, "secret_hash")
}

func TestVerify_AccountGone(t *testing.T) {
	env := newTestEnv(t)
	identity := models.Identity{AccountID: "acc-1", Role: models.RoleUser, Status: models.StatusActive}

	env.auth.EXPECT().ParseToken(gomock.Any(), gomock.Any()).Return(tokenOf(identity), nil)
	env.auth.EXPECT().VerifyIdentity(gomock.Any(), identity).Return(models.Account{}, service.ErrAccountGone)

	err := env.conn.Invoke(withBearer("t.o.k"), MethodVerify, &emptypb.Empty{}, &structpb.Struct{})

	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestListAccounts_RoleGate(t *testing.T) {
	tests := []struct {
		name     string
		identity models.Identity
		wantCode codes.Code
	}{
		{name: "user", identity: models.Identity{AccountID: "u", Role: models.RoleUser, Status: models.StatusActive}, wantCode: codes.PermissionDenied},
		{name: "inactive admin", identity: models.Identity{AccountID: "a", Role: models.RoleAdmin, Status: models.StatusInactive}, wantCode: codes.PermissionDenied},
		{name: "admin", identity: models.Identity{AccountID: "a", Role: models.RoleAdmin, Status: models.StatusActive}, wantCode: codes.OK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.auth.EXPECT().ParseToken(gomock.Any(), gomock.Any()).Return(tokenOf(tt.identity), nil)
			env.auth.EXPECT().CurrentIdentity(gomock.Any(), tt.identity).Return(tt.identity, nil)
			if tt.wantCode == codes.OK {
				env.account.EXPECT().
					ListAccounts(gomock.Any(), models.AccountFilter{Role: models.RoleUser, Limit: 5}).
					Return([]models.Account{{ID: "u", Role: models.RoleUser, Status: models.StatusActive}}, nil)
			}

			req, err := structpb.NewStruct(map[string]any{"role": "user", "limit": 5})
			require.NoError(t, err)
			out := &structpb.Struct{}

			err = env.conn.Invoke(withBearer("t.o.k"), MethodListAccounts, req, out)

			require.Equal(t, tt.wantCode, status.Code(err))
			if tt.wantCode == codes.PermissionDenied {
				assert.Equal(t, app.CodeForbidden, status.Convert(err).Message())
				return
			}
			assert.Equal(t, float64(1), out.GetFields()["length"].GetNumberValue())
		})
	}
}

func TestListAccounts_InvalidFilter(t *testing.T) {
	env := newTestEnv(t)
	admin := models.Identity{AccountID: "a", Role: models.RoleAdmin, Status: models.StatusActive}
	env.auth.EXPECT().ParseToken(gomock.Any(), gomock.Any()).Return(tokenOf(admin), nil)
	env.auth.EXPECT().CurrentIdentity(gomock.Any(), admin).Return(admin, nil)

	req, err := structpb.NewStruct(map[string]any{"role": "teacher"})
	require.NoError(t, err)

	err = env.conn.Invoke(withBearer("t.o.k"), MethodListAccounts, req, &structpb.Struct{})

	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestListAccounts_StaleClaims(t *testing.T) {
	admin := models.Identity{AccountID: "a", Role: models.RoleAdmin, Status: models.StatusActive}

	tests := []struct {
		name       string
		current    models.Identity
		currentErr error
		wantCode   codes.Code
	}{
		{name: "demoted", current: models.Identity{AccountID: "a", Role: models.RoleUser, Status: models.StatusActive}, wantCode: codes.PermissionDenied},
		{name: "deactivated", current: models.Identity{AccountID: "a", Role: models.RoleAdmin, Status: models.StatusInactive}, wantCode: codes.PermissionDenied},
		{name: "deleted", currentErr: service.ErrAccountGone, wantCode: codes.Unauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.auth.EXPECT().ParseToken(gomock.Any(), gomock.Any()).Return(tokenOf(admin), nil)
			env.auth.EXPECT().CurrentIdentity(gomock.Any(), admin).Return(tt.current, tt.currentErr)

			err := env.conn.Invoke(withBearer("t.o.k"), MethodListAccounts, &structpb.Struct{}, &structpb.Struct{})

			assert.Equal(t, tt.wantCode, status.Code(err))
		})
	}
}

type fakeServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (f *fakeServerStream) Context() context.Context {
	return f.ctx
}

func TestStreamAuth(t *testing.T) {
	t.Run("public stream bypasses", func(t *testing.T) {
		env := newTestEnv(t)
		called := false

		err := env.handler.streamAuth(nil, &fakeServerStream{ctx: context.Background()},
			&grpc.StreamServerInfo{FullMethod: healthpb.Health_Watch_FullMethodName},
			func(any, grpc.ServerStream) error { called = true; return nil })

		require.NoError(t, err)
		assert.True(t, called)
	})

	t.Run("protected stream needs a token", func(t *testing.T) {
		env := newTestEnv(t)

		err := env.handler.streamAuth(nil, &fakeServerStream{ctx: context.Background()},
			&grpc.StreamServerInfo{FullMethod: "/" + sessionServiceName + "/Watch"},
			func(any, grpc.ServerStream) error { t.Fatal("handler must not run"); return nil })

		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("identity reaches the stream context", func(t *testing.T) {
		env := newTestEnv(t)
		identity := models.Identity{AccountID: "u", Role: models.RoleUser, Status: models.StatusActive}
		env.auth.EXPECT().ParseToken(gomock.Any(), "t.o.k").Return(tokenOf(identity), nil)

		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(authorizationKey, "Bearer t.o.k"))
		err := env.handler.streamAuth(nil, &fakeServerStream{ctx: ctx},
			&grpc.StreamServerInfo{FullMethod: "/" + sessionServiceName + "/Watch"},
			func(_ any, ss grpc.ServerStream) error {
				got, ok := utils.GetIdentityFromContext(ss.Context())
				assert.True(t, ok)
				assert.Equal(t, identity, got)
				return nil
			})

		require.NoError(t, err)
	})
}
