package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"

	"github.com/MKhiriev/go-study-platform/internal/logger"
	"github.com/MKhiriev/go-study-platform/models"
)

type accountRepository struct {
	*DB
	logger *logger.Logger
}

// NewAccountRepository returns the PostgreSQL implementation of [AccountRepository].
func NewAccountRepository(db *DB, logger *logger.Logger) AccountRepository {
	return &accountRepository{
		DB:     db,
		logger: logger,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *accountRepository) CreateAccount(ctx context.Context, account models.Account) (models.Account, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildCreateAccountQuery(account)
	if err != nil {
		log.Err(err).Str("func", "accountRepository.CreateAccount").Msg("error building query")
		return models.Account{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	row := r.DB.QueryRowContext(ctx, query, args...)
	created, err := scanAccount(row)
	if err != nil {
		if postgresError(err) == pgerrcode.UniqueViolation {
			log.Debug().Str("func", "accountRepository.CreateAccount").Msg("email is already taken")
			return models.Account{}, ErrEmailAlreadyExists
		}
		log.Err(err).Str("func", "accountRepository.CreateAccount").Msg("error inserting account")
		return models.Account{}, r.wrapError(err)
	}

	return created, nil
}

func (r *accountRepository) FindAccountByEmail(ctx context.Context, email string) (models.Account, error) {
	return r.findAccount(ctx, "accountRepository.FindAccountByEmail", sq.Eq{"email": email})
}

func (r *accountRepository) FindAccountByID(ctx context.Context, id string) (models.Account, error) {
	return r.findAccount(ctx, "accountRepository.FindAccountByID", sq.Eq{"id": id})
}

func (r *accountRepository) UpdateProfile(ctx context.Context, id, name string) (models.Account, error) {
	return r.updateAccount(ctx, "accountRepository.UpdateProfile", id, map[string]any{"name": name})
}

func (r *accountRepository) UpdateRole(ctx context.Context, id string, role models.Role) (models.Account, error) {
	return r.updateAccount(ctx, "accountRepository.UpdateRole", id, map[string]any{"role": role})
}

func (r *accountRepository) UpdateStatus(ctx context.Context, id string, status models.AccountStatus) (models.Account, error) {
	return r.updateAccount(ctx, "accountRepository.UpdateStatus", id, map[string]any{"status": status})
}

func (r *accountRepository) TouchLastActive(ctx context.Context, id string, at time.Time) error {
	log := logger.FromContext(ctx)

	query, args, err := buildTouchLastActiveQuery(id, at)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "accountRepository.TouchLastActive").Msg("error updating last activity")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, r.wrapError(err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrAccountNotFound
	}

	return nil
}

func (r *accountRepository) ListAccounts(ctx context.Context, filter models.AccountFilter) ([]models.Account, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListAccountsQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "accountRepository.ListAccounts").Msg("error listing accounts")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, r.wrapError(err))
	}
	defer rows.Close()

	accounts := make([]models.Account, 0)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			log.Err(err).Str("func", "accountRepository.ListAccounts").Msg("error scanning account")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		accounts = append(accounts, account)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, r.wrapError(err))
	}

	return accounts, nil
}

func (r *accountRepository) findAccount(ctx context.Context, fn string, where sq.Sqlizer) (models.Account, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildFindAccountQuery(where)
	if err != nil {
		return models.Account{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	account, err := scanAccount(r.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Account{}, ErrAccountNotFound
	}
	if err != nil {
		log.Err(err).Str("func", fn).Msg("error finding account")
		return models.Account{}, r.wrapError(err)
	}

	return account, nil
}

// updateAccount applies set to a single account and returns the updated row.
func (r *accountRepository) updateAccount(ctx context.Context, fn, id string, set map[string]any) (models.Account, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateAccountQuery(id, set)
	if err != nil {
		return models.Account{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	account, err := scanAccount(r.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Account{}, ErrAccountNotFound
	}
	if err != nil {
		log.Err(err).Str("func", fn).Msg("error updating account")
		return models.Account{}, r.wrapError(err)
	}

	return account, nil
}

// wrapError marks retryable driver failures with [ErrTransient].
func (r *accountRepository) wrapError(err error) error {
	if r.DB.classify(err) == Retryable {
		return fmt.Errorf("%w: %w", ErrTransient, err)
	}
	return fmt.Errorf("unexpected DB error: %w", err)
}

func scanAccount(row rowScanner) (models.Account, error) {
	var (
		account      models.Account
		lastActiveAt sql.NullTime
	)

	err := row.Scan(
		&account.ID,
		&account.Name,
		&account.Email,
		&account.SecretHash,
		&account.Role,
		&account.Status,
		&lastActiveAt,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return models.Account{}, err
	}

	if lastActiveAt.Valid {
		t := lastActiveAt.Time
		account.LastActiveAt = &t
	}

	return account, nil
}
