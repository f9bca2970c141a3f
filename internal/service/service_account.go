package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-study-platform/internal/events"
	"github.com/MKhiriev/go-study-platform/internal/logger"
	"github.com/MKhiriev/go-study-platform/internal/store"
	"github.com/MKhiriev/go-study-platform/models"
)

type accountService struct {
	accountRepository store.AccountRepository
	publisher         events.Publisher
	logger            *logger.Logger
}

func NewAccountService(accountRepository store.AccountRepository, publisher events.Publisher, logger *logger.Logger) AccountService {
	if publisher == nil {
		publisher = events.NewNopPublisher()
	}

	return &accountService{
		accountRepository: accountRepository,
		publisher:         publisher,
		logger:            logger,
	}
}

func (s *accountService) GetAccount(ctx context.Context, id string) (models.Account, error) {
	account, err := s.accountRepository.FindAccountByID(ctx, id)
	if err != nil {
		return models.Account{}, fmt.Errorf("account search by id failed: %w", err)
	}
	return account, nil
}

func (s *accountService) UpdateProfile(ctx context.Context, id, name string) (models.Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Account{}, ErrInvalidDataProvided
	}

	account, err := s.accountRepository.UpdateProfile(ctx, id, name)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("account_id", id).Msg("profile update failed")
		return models.Account{}, fmt.Errorf("profile update failed: %w", err)
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, filter models.AccountFilter) ([]models.Account, error) {
	accounts, err := s.accountRepository.ListAccounts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("account listing failed: %w", err)
	}
	return accounts, nil
}

// ChangeRole sets the role of account id. Administrators cannot change
// their own role.
func (s *accountService) ChangeRole(ctx context.Context, actor models.Identity, id string, role models.Role) (models.Account, error) {
	if !role.Valid() {
		return models.Account{}, ErrInvalidDataProvided
	}
	if actor.AccountID == id {
		return models.Account{}, ErrSelfModification
	}

	account, err := s.accountRepository.UpdateRole(ctx, id, role)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("account_id", id).Msg("role change failed")
		return models.Account{}, fmt.Errorf("role change failed: %w", err)
	}

	logger.FromContext(ctx).Info().
		Str("account_id", id).
		Str("actor_id", actor.AccountID).
		Str("role", role.String()).
		Msg("role changed")
	s.publish(ctx, events.NewAccountEvent(events.AccountRoleChanged, account, actor.AccountID))

	return account, nil
}

// ChangeStatus activates or deactivates account id. Accounts are never
// deleted; deactivation is the only way to revoke access.
func (s *accountService) ChangeStatus(ctx context.Context, actor models.Identity, id string, status models.AccountStatus) (models.Account, error) {
	if !status.Valid() {
		return models.Account{}, ErrInvalidDataProvided
	}
	if actor.AccountID == id {
		return models.Account{}, ErrSelfModification
	}

	account, err := s.accountRepository.UpdateStatus(ctx, id, status)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("account_id", id).Msg("status change failed")
		return models.Account{}, fmt.Errorf("status change failed: %w", err)
	}

	logger.FromContext(ctx).Info().
		Str("account_id", id).
		Str("actor_id", actor.AccountID).
		Str("status", string(status)).
		Msg("status changed")
	s.publish(ctx, events.NewAccountEvent(events.AccountStatusChanged, account, actor.AccountID))

	return account, nil
}

func (s *accountService) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("event", string(event.Type)).Msg("account event was not published")
	}
}
