package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-study-platform/internal/config"
	"github.com/MKhiriev/go-study-platform/internal/events"
	"github.com/MKhiriev/go-study-platform/internal/limiter"
	"github.com/MKhiriev/go-study-platform/internal/logger"
	"github.com/MKhiriev/go-study-platform/internal/metrics"
	"github.com/MKhiriev/go-study-platform/internal/store"
	"github.com/MKhiriev/go-study-platform/internal/utils"
	"github.com/MKhiriev/go-study-platform/models"
)

// authService is the concrete implementation of AuthService.
// It hashes secrets with bcrypt, throttles logins per email and signs
// session tokens with HMAC-SHA256.
type authService struct {
	// accountRepository is the credential store.
	accountRepository store.AccountRepository

	// loginLimiter throttles login attempts per normalized email.
	loginLimiter limiter.Limiter

	// publisher receives account lifecycle events.
	publisher events.Publisher

	metrics metrics.Recorder

	// tokenSignKey is the HMAC secret used to sign and verify tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued token.
	// Tokens whose issuer does not match this value are rejected.
	tokenIssuer string

	// tokenDuration controls how long a newly issued token remains valid.
	tokenDuration time.Duration

	bcryptCost int

	// dummyHash has bcryptCost and stands in for the hash of an unknown email.
	dummyHash string

	now    func() time.Time
	newID  func() string
	logger *logger.Logger
}

// AuthDependencies are the collaborators of the auth service other than the
// credential store.
type AuthDependencies struct {
	Limiter   limiter.Limiter
	Publisher events.Publisher
	Metrics   metrics.Recorder
}

// NewAuthService constructs a new AuthService wired to the given repository
// and populated with security parameters from cfg. Missing dependencies are
// replaced with no-op implementations.
//
// The returned service is safe for concurrent use; all state is read-only after
// construction.
func NewAuthService(accountRepository store.AccountRepository, deps AuthDependencies, cfg config.App, logger *logger.Logger) AuthService {
	if deps.Limiter == nil {
		deps.Limiter = limiter.NewNopLimiter()
	}
	if deps.Publisher == nil {
		deps.Publisher = events.NewNopPublisher()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.Nop()
	}

	dummyHash, err := utils.NewDummyHash(cfg.BcryptCost)
	if err != nil {
		logger.Err(err).Msg("dummy hash creation failed, unknown emails answer faster")
	}

	return &authService{
		accountRepository: accountRepository,
		loginLimiter:      deps.Limiter,
		publisher:         deps.Publisher,
		metrics:           deps.Metrics,
		tokenSignKey:      cfg.TokenSignKey,
		tokenIssuer:       cfg.TokenIssuer,
		tokenDuration:     cfg.TokenDuration,
		bcryptCost:        cfg.BcryptCost,
		dummyHash:         dummyHash,
		now:               time.Now,
		newID:             utils.NewID,
		logger:            logger,
	}
}

// RegisterAccount creates a new account with the user role.
//
// The email is normalized and the secret is hashed before persistence; the
// plaintext secret is dropped from the returned account.
//
// Returns the persisted account or:
//   - ErrInvalidDataProvided if name, email or secret is empty.
//   - store.ErrEmailAlreadyExists (wrapped) if the email is taken.
func (a *authService) RegisterAccount(ctx context.Context, account models.Account) (models.Account, error) {
	created, err := a.createAccount(ctx, account, models.RoleUser)
	if err != nil {
		a.metrics.ObserveRegistration(registrationResult(err))
		return models.Account{}, err
	}
	a.metrics.ObserveRegistration(metrics.ResultSuccess)

	a.publish(ctx, events.NewAccountEvent(events.AccountRegistered, created, ""))

	return created, nil
}

func (a *authService) createAccount(ctx context.Context, account models.Account, role models.Role) (models.Account, error) {
	log := logger.FromContext(ctx)

	account.Email = utils.NormalizeEmail(account.Email)
	if account.Name == "" || account.Email == "" || account.Secret == "" {
		log.Error().Str("email", account.Email).Msg("invalid account data provided")
		return models.Account{}, ErrInvalidDataProvided
	}

	hash, err := utils.HashSecret(account.Secret, a.bcryptCost)
	if err != nil {
		log.Err(err).Msg("secret hashing failed")
		return models.Account{}, fmt.Errorf("secret hashing failed: %w", err)
	}

	now := a.now().UTC()
	account.ID = a.newID()
	account.SecretHash = hash
	account.Secret = ""
	account.Role = role
	account.Status = models.StatusActive
	account.LastActiveAt = nil
	account.CreatedAt = now
	account.UpdatedAt = now

	created, err := a.accountRepository.CreateAccount(ctx, account)
	if err != nil {
		log.Err(err).Str("email", account.Email).Msg("account creation ended with error")
		return models.Account{}, fmt.Errorf("account creation ended with error: %w", err)
	}

	return created, nil
}

// Login authenticates an existing account.
//
// An unknown email and a wrong secret both yield ErrInvalidCredentials, and
// both cost one bcrypt comparison. A successful login refreshes LastActiveAt.
//
// Returns the stored account or:
//   - ErrInvalidDataProvided if email or secret is empty.
//   - a *TooManyAttemptsError if the email exhausted its login budget.
//   - ErrInvalidCredentials on any credential mismatch.
func (a *authService) Login(ctx context.Context, account models.Account) (models.Account, error) {
	log := logger.FromContext(ctx)

	email := utils.NormalizeEmail(account.Email)
	if email == "" || account.Secret == "" {
		log.Error().Msg("invalid login data provided")
		return models.Account{}, ErrInvalidDataProvided
	}

	res, err := a.loginLimiter.Allow(ctx, email)
	if err != nil {
		log.Warn().Err(err).Msg("login limiter is unavailable, allowing attempt")
	}
	if !res.Allowed {
		log.Info().Str("email", email).Dur("retry_after", res.RetryAfter).Msg("login attempt throttled")
		a.metrics.ObserveLogin(metrics.ResultRateLimited)
		return models.Account{}, &TooManyAttemptsError{RetryAfter: res.RetryAfter}
	}

	found, err := a.accountRepository.FindAccountByEmail(ctx, email)
	if errors.Is(err, store.ErrAccountNotFound) {
		_ = utils.CompareSecret(a.dummyHash, account.Secret)
		log.Info().Str("email", email).Msg("login for unknown email")
		a.metrics.ObserveLogin(metrics.ResultInvalidCredentials)
		return models.Account{}, ErrInvalidCredentials
	}
	if err != nil {
		log.Err(err).Msg("account search by email failed")
		a.metrics.ObserveLogin(metrics.ResultError)
		return models.Account{}, fmt.Errorf("account search by email failed: %w", err)
	}

	if err = utils.CompareSecret(found.SecretHash, account.Secret); err != nil {
		log.Info().Str("account_id", found.ID).Msg("wrong secret")
		a.metrics.ObserveLogin(metrics.ResultInvalidCredentials)
		return models.Account{}, ErrInvalidCredentials
	}

	a.touch(ctx, &found)
	a.metrics.ObserveLogin(metrics.ResultSuccess)

	return found, nil
}

// CreateToken issues a signed session token for the given account.
//
// The token carries the configured issuer, the account ID as subject and the
// account role and status, and expires after tokenDuration.
func (a *authService) CreateToken(ctx context.Context, account models.Account) (models.Token, error) {
	identity := models.Identity{AccountID: account.ID, Role: account.Role, Status: account.Status}

	token, err := utils.GenerateJWTToken(a.tokenIssuer, identity, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("account_id", account.ID).Msg("token creation failed")
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

// ParseToken verifies tokenString and returns the decoded token.
//
// Failures are one of utils.ErrTokenExpired, utils.ErrTokenInvalidSignature
// or utils.ErrTokenMalformed. An expired token reports ErrTokenExpired even
// when its signature is also invalid.
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	a.metrics.ObserveTokenVerification(verificationResult(err))
	if err != nil {
		return models.Token{}, err
	}

	return token, nil
}

// VerifyIdentity returns the current state of the account behind identity,
// refreshing its LastActiveAt. An account that disappeared since the token
// was issued yields ErrAccountGone.
func (a *authService) VerifyIdentity(ctx context.Context, identity models.Identity) (models.Account, error) {
	account, err := a.accountRepository.FindAccountByID(ctx, identity.AccountID)
	if errors.Is(err, store.ErrAccountNotFound) {
		return models.Account{}, ErrAccountGone
	}
	if err != nil {
		return models.Account{}, fmt.Errorf("account search by id failed: %w", err)
	}

	a.touch(ctx, &account)

	return account, nil
}

// CurrentIdentity returns the identity of the account behind identity as it
// is stored now. Unlike VerifyIdentity it does not touch LastActiveAt.
func (a *authService) CurrentIdentity(ctx context.Context, identity models.Identity) (models.Identity, error) {
	account, err := a.accountRepository.FindAccountByID(ctx, identity.AccountID)
	if errors.Is(err, store.ErrAccountNotFound) {
		return models.Identity{}, ErrAccountGone
	}
	if err != nil {
		return models.Identity{}, fmt.Errorf("account search by id failed: %w", err)
	}

	return models.Identity{AccountID: account.ID, Role: account.Role, Status: account.Status}, nil
}

// EnsureAdmin creates the administrator account, or promotes and activates
// an existing account with that email. The secret of an existing account is
// left untouched.
func (a *authService) EnsureAdmin(ctx context.Context, email, secret string) (models.Account, error) {
	log := logger.FromContext(ctx)

	email = utils.NormalizeEmail(email)
	found, err := a.accountRepository.FindAccountByEmail(ctx, email)
	if errors.Is(err, store.ErrAccountNotFound) {
		created, err := a.createAccount(ctx, models.Account{Name: "Administrator", Email: email, Secret: secret}, models.RoleAdmin)
		if err != nil {
			return models.Account{}, err
		}
		log.Info().Str("account_id", created.ID).Msg("administrator account created")
		a.publish(ctx, events.NewAccountEvent(events.AccountRegistered, created, ""))
		return created, nil
	}
	if err != nil {
		return models.Account{}, fmt.Errorf("account search by email failed: %w", err)
	}

	if found.Role != models.RoleAdmin {
		if found, err = a.accountRepository.UpdateRole(ctx, found.ID, models.RoleAdmin); err != nil {
			return models.Account{}, fmt.Errorf("administrator promotion failed: %w", err)
		}
		a.publish(ctx, events.NewAccountEvent(events.AccountRoleChanged, found, ""))
	}
	if found.Status != models.StatusActive {
		if found, err = a.accountRepository.UpdateStatus(ctx, found.ID, models.StatusActive); err != nil {
			return models.Account{}, fmt.Errorf("administrator activation failed: %w", err)
		}
		a.publish(ctx, events.NewAccountEvent(events.AccountStatusChanged, found, ""))
	}

	return found, nil
}

// touch records the activity on a best effort basis.
func (a *authService) touch(ctx context.Context, account *models.Account) {
	now := a.now().UTC()
	if err := a.accountRepository.TouchLastActive(ctx, account.ID, now); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("account_id", account.ID).Msg("last activity update failed")
		return
	}
	account.LastActiveAt = &now
}

func (a *authService) publish(ctx context.Context, event events.Event) {
	if err := a.publisher.Publish(ctx, event); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("event", string(event.Type)).Msg("account event was not published")
	}
}

func verificationResult(err error) string {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.Is(err, utils.ErrTokenExpired):
		return metrics.ResultExpired
	case errors.Is(err, utils.ErrTokenInvalidSignature):
		return metrics.ResultInvalidSignature
	default:
		return metrics.ResultMalformed
	}
}

func registrationResult(err error) string {
	switch {
	case errors.Is(err, store.ErrEmailAlreadyExists):
		return "conflict"
	case errors.Is(err, ErrInvalidDataProvided):
		return "invalid"
	default:
		return metrics.ResultError
	}
}
