package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-study-platform/models"
)

func TestBuildListAccountsQuery(t *testing.T) {
	tests := []struct {
		name     string
		filter   models.AccountFilter
		wantSQL  string
		wantArgs []any
	}{
		{
			name:    "no filter uses default page",
			filter:  models.AccountFilter{},
			wantSQL: "SELECT " + columnList() + " FROM accounts ORDER BY created_at ASC, id ASC LIMIT 50 OFFSET 0",
		},
		{
			name:     "role and status",
			filter:   models.AccountFilter{Role: models.RoleAdmin, Status: models.StatusInactive, Limit: 10, Offset: 20},
			wantSQL:  "SELECT " + columnList() + " FROM accounts WHERE role = $1 AND status = $2 ORDER BY created_at ASC, id ASC LIMIT 10 OFFSET 20",
			wantArgs: []any{models.RoleAdmin, models.StatusInactive},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := buildListAccountsQuery(tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, query)
			assert.Equal(t, len(tt.wantArgs), len(args))
			for i := range tt.wantArgs {
				assert.Equal(t, tt.wantArgs[i], args[i])
			}
		})
	}
}

func TestBuildUpdateAccountQuery(t *testing.T) {
	query, args, err := buildUpdateAccountQuery("acc-1", map[string]any{"status": models.StatusInactive})
	require.NoError(t, err)
	assert.Equal(t, "UPDATE accounts SET status = $1, updated_at = NOW() WHERE id = $2 RETURNING "+columnList(), query)
	assert.Equal(t, []any{models.StatusInactive, "acc-1"}, args)
}

func TestBuildCreateAccountQuery(t *testing.T) {
	query, args, err := buildCreateAccountQuery(models.Account{ID: "acc-1"})
	require.NoError(t, err)
	assert.Contains(t, query, "INSERT INTO accounts (id,name,email,secret_hash,role,status,created_at,updated_at) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)")
	assert.Contains(t, query, "RETURNING id, name")
	assert.Len(t, args, 8)
}
