package repository

import (
	"context"
	"testing"

	"cafelist/database"
	"cafelist/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminRepo_FindByUsername(t *testing.T) {
	db := setupSQLite(t)
	require.NoError(t, database.SeedAdmin(db, "root", "pw"))
	repo := NewAdminRepo(db)

	admin, err := repo.FindByUsername(context.Background(), "root")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, admin.Role)
	assert.NotEqual(t, "pw", admin.Password)

	_, err = repo.FindByUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrAdminNotFound)
}
