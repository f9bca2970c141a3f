package store

import (
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-study-platform/models"
)

// defaultListLimit caps account listings when the caller does not set a limit.
const defaultListLimit uint64 = 50

// accountColumns is the column order every account query selects and scans.
var accountColumns = []string{
	"id", "name", "email", "secret_hash", "role", "status",
	"last_active_at", "created_at", "updated_at",
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func buildCreateAccountQuery(account models.Account) (string, []any, error) {
	return psql.Insert(account.TableName()).
		Columns("id", "name", "email", "secret_hash", "role", "status", "created_at", "updated_at").
		Values(account.ID, account.Name, account.Email, account.SecretHash,
			account.Role, account.Status, account.CreatedAt, account.UpdatedAt).
		Suffix("RETURNING " + columnList()).
		ToSql()
}

func buildFindAccountQuery(where sq.Sqlizer) (string, []any, error) {
	return psql.Select(accountColumns...).
		From(models.Account{}.TableName()).
		Where(where).
		ToSql()
}

func buildUpdateAccountQuery(id string, set map[string]any) (string, []any, error) {
	set["updated_at"] = sq.Expr("NOW()")
	return psql.Update(models.Account{}.TableName()).
		SetMap(set).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + columnList()).
		ToSql()
}

func buildTouchLastActiveQuery(id string, at any) (string, []any, error) {
	return psql.Update(models.Account{}.TableName()).
		Set("last_active_at", at).
		Where(sq.Eq{"id": id}).
		ToSql()
}

func buildListAccountsQuery(filter models.AccountFilter) (string, []any, error) {
	limit := filter.Limit
	if limit == 0 {
		limit = defaultListLimit
	}

	query := psql.Select(accountColumns...).
		From(models.Account{}.TableName()).
		OrderBy("created_at ASC", "id ASC").
		Limit(limit).
		Offset(filter.Offset)

	if filter.Role != "" {
		query = query.Where(sq.Eq{"role": filter.Role})
	}
	if filter.Status != "" {
		query = query.Where(sq.Eq{"status": filter.Status})
	}

	return query.ToSql()
}

func columnList() string {
	return strings.Join(accountColumns, ", ")
}
