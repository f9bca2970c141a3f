package service

import (
	"context"

	"github.com/MKhiriev/go-study-platform/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// AuthService registers accounts, checks credentials and issues and verifies
// session tokens.
type AuthService interface {
	// RegisterAccount creates a regular active account from the name, email
	// and plaintext secret of account.
	RegisterAccount(ctx context.Context, account models.Account) (models.Account, error)

	// Login checks the email and plaintext secret of account against the
	// credential store and returns the stored account.
	Login(ctx context.Context, account models.Account) (models.Account, error)

	// CreateToken issues a session token for an authenticated account.
	CreateToken(ctx context.Context, account models.Account) (models.Token, error)

	// ParseToken verifies a session token. It has no side effects.
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)

	// VerifyIdentity re-reads the account behind a verified token.
	VerifyIdentity(ctx context.Context, identity models.Identity) (models.Account, error)

	// CurrentIdentity returns the stored role and status of the account
	// behind identity, for role checks on every gated request.
	CurrentIdentity(ctx context.Context, identity models.Identity) (models.Identity, error)

	// EnsureAdmin makes sure an active administrator with the given
	// credentials exists.
	EnsureAdmin(ctx context.Context, email, secret string) (models.Account, error)
}

// AccountService serves profile reads and updates and the administrator
// account management operations.
type AccountService interface {
	GetAccount(ctx context.Context, id string) (models.Account, error)
	UpdateProfile(ctx context.Context, id, name string) (models.Account, error)
	ListAccounts(ctx context.Context, filter models.AccountFilter) ([]models.Account, error)
	ChangeRole(ctx context.Context, actor models.Identity, id string, role models.Role) (models.Account, error)
	ChangeStatus(ctx context.Context, actor models.Identity, id string, status models.AccountStatus) (models.Account, error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}
