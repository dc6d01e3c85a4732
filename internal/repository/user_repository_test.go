package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/lodging-booking/internal/utils"
)

func TestUserRepoCreateAndLookup(t *testing.T) {
	repo := NewUserRepo(openTestDB(t))
	ctx := context.Background()

	id, err := repo.Create(ctx, " Ada ", "Ada@Example.com ", "correct horse", 4)
	require.NoError(t, err)

	u, err := repo.GetByEmail(ctx, "ADA@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, "Ada", u.Name)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.True(t, utils.VerifyPassword(u.PasswordHash, "correct horse"))
	assert.False(t, u.CreatedAt.IsZero())

	byID, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, u.Email, byID.Email)

	_, err = repo.Create(ctx, "Other", "ada@example.com", "x", 4)
	assert.ErrorIs(t, err, ErrEmailExists)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}
