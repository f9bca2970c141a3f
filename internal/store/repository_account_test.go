package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-study-platform/internal/logger"
	"github.com/MKhiriev/go-study-platform/models"
)

func newTestAccountRepo(t *testing.T) (AccountRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db := &DB{
		DB:                 sqlDB,
		errorClassificator: NewPostgresErrorClassifier(),
		logger:             logger.Nop(),
	}

	return NewAccountRepository(db, logger.Nop()), mock
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func accountRows() *sqlmock.Rows {
	return sqlmock.NewRows(accountColumns)
}

func addAccountRow(rows *sqlmock.Rows, id, email string, role models.Role, status models.AccountStatus) *sqlmock.Rows {
	return rows.AddRow(id, "Ada", email, "$2a$10$hash", string(role), string(status), nil, testNow, testNow)
}

func TestCreateAccount_Success(t *testing.T) {
	repo, mock := newTestAccountRepo(t)

	account := models.Account{
		ID:         "acc-1",
		Name:       "Ada",
		Email:      "ada@example.com",
		SecretHash: "$2a$10$hash",
		Role:       models.RoleUser,
		Status:     models.StatusActive,
		CreatedAt:  testNow,
		UpdatedAt:  testNow,
	}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO accounts")).
		WithArgs("acc-1", "Ada", "ada@example.com", "$2a$10$hash", "user", "active", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(addAccountRow(accountRows(), "acc-1", "ada@example.com", models.RoleUser, models.StatusActive))

	created, err := repo.CreateAccount(context.Background(), account)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", created.ID)
	assert.Equal(t, models.RoleUser, created.Role)
	assert.Equal(t, models.StatusActive, created.Status)
	assert.Nil(t, created.LastActiveAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAccount_DuplicateEmail(t *testing.T) {
	repo, mock := newTestAccountRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO accounts")).
		WillReturnError(pgError(pgerrcode.UniqueViolation))

	_, err := repo.CreateAccount(context.Background(), models.Account{ID: "acc-1", Email: "ada@example.com"})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAccount_TransientError(t *testing.T) {
	repo, mock := newTestAccountRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO accounts")).
		WillReturnError(pgError(pgerrcode.ConnectionFailure))

	_, err := repo.CreateAccount(context.Background(), models.Account{ID: "acc-1"})
	assert.ErrorIs(t, err, ErrTransient)
}

func TestCreateAccount_UnexpectedError(t *testing.T) {
	repo, mock := newTestAccountRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO accounts")).
		WillReturnError(errors.New("boom"))

	_, err := repo.CreateAccount(context.Background(), models.Account{ID: "acc-1"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrTransient)
	assert.NotErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestFindAccountByEmail(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "found",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("FROM accounts WHERE email = $1")).
					WithArgs("ada@example.com").
					WillReturnRows(addAccountRow(accountRows(), "acc-1", "ada@example.com", models.RoleAdmin, models.StatusActive))
			},
		},
		{
			name: "not found",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("FROM accounts WHERE email = $1")).
					WithArgs("ada@example.com").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: ErrAccountNotFound,
		},
		{
			name: "deadlock is transient",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("FROM accounts WHERE email = $1")).
					WillReturnError(pgError(pgerrcode.DeadlockDetected))
			},
			wantErr: ErrTransient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newTestAccountRepo(t)
			tt.setup(mock)

			account, err := repo.FindAccountByEmail(context.Background(), "ada@example.com")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, models.RoleAdmin, account.Role)
			assert.Equal(t, "$2a$10$hash", account.SecretHash)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestFindAccountByID_LastActiveAt(t *testing.T) {
	repo, mock := newTestAccountRepo(t)

	lastActive := testNow.Add(-time.Hour)
	rows := accountRows().AddRow("acc-1", "Ada", "ada@example.com", "h", "user", "inactive", lastActive, testNow, testNow)
	mock.ExpectQuery(regexp.QuoteMeta("FROM accounts WHERE id = $1")).
		WithArgs("acc-1").
		WillReturnRows(rows)

	account, err := repo.FindAccountByID(context.Background(), "acc-1")
	require.NoError(t, err)
	require.NotNil(t, account.LastActiveAt)
	assert.True(t, account.LastActiveAt.Equal(lastActive))
	assert.Equal(t, models.StatusInactive, account.Status)
}

func TestUpdateRole(t *testing.T) {
	repo, mock := newTestAccountRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE accounts SET role = $1, updated_at = NOW() WHERE id = $2")).
		WithArgs("admin", "acc-1").
		WillReturnRows(addAccountRow(accountRows(), "acc-1", "ada@example.com", models.RoleAdmin, models.StatusActive))

	account, err := repo.UpdateRole(context.Background(), "acc-1", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, account.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_NotFound(t *testing.T) {
	repo, mock := newTestAccountRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE accounts SET status = $1")).
		WithArgs("inactive", "missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.UpdateStatus(context.Background(), "missing", models.StatusInactive)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestUpdateProfile(t *testing.T) {
	repo, mock := newTestAccountRepo(t)

	rows := accountRows().AddRow("acc-1", "Grace", "ada@example.com", "h", "user", "active", nil, testNow, testNow)
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE accounts SET name = $1")).
		WithArgs("Grace", "acc-1").
		WillReturnRows(rows)

	account, err := repo.UpdateProfile(context.Background(), "acc-1", "Grace")
	require.NoError(t, err)
	assert.Equal(t, "Grace", account.Name)
}

func TestTouchLastActive(t *testing.T) {
	t.Run("updated", func(t *testing.T) {
		repo, mock := newTestAccountRepo(t)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE accounts SET last_active_at = $1 WHERE id = $2")).
			WithArgs(testNow, "acc-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.TouchLastActive(context.Background(), "acc-1", testNow))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing account", func(t *testing.T) {
		repo, mock := newTestAccountRepo(t)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE accounts SET last_active_at")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.TouchLastActive(context.Background(), "acc-1", testNow), ErrAccountNotFound)
	})

	t.Run("exec error", func(t *testing.T) {
		repo, mock := newTestAccountRepo(t)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE accounts SET last_active_at")).
			WillReturnError(errors.New("boom"))

		assert.ErrorIs(t, repo.TouchLastActive(context.Background(), "acc-1", testNow), ErrExecutingStatement)
	})
}

func TestListAccounts(t *testing.T) {
	repo, mock := newTestAccountRepo(t)

	rows := accountRows()
	addAccountRow(rows, "acc-1", "a@example.com", models.RoleUser, models.StatusActive)
	addAccountRow(rows, "acc-2", "b@example.com", models.RoleUser, models.StatusActive)

	mock.ExpectQuery(regexp.QuoteMeta("FROM accounts WHERE role = $1 ORDER BY created_at ASC, id ASC LIMIT 50 OFFSET 0")).
		WithArgs("user").
		WillReturnRows(rows)

	accounts, err := repo.ListAccounts(context.Background(), models.AccountFilter{Role: models.RoleUser})
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "b@example.com", accounts[1].Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAccounts_ScanError(t *testing.T) {
	repo, mock := newTestAccountRepo(t)

	rows := sqlmock.NewRows([]string{"id"}).AddRow("acc-1")
	mock.ExpectQuery(regexp.QuoteMeta("FROM accounts")).WillReturnRows(rows)

	_, err := repo.ListAccounts(context.Background(), models.AccountFilter{})
	assert.ErrorIs(t, err, ErrScanningRows)
}
