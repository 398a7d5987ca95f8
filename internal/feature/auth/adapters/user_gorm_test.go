package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"inventory_backend/internal/feature/auth/domain/entity"
	"inventory_backend/internal/feature/auth/usecase"
)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")

	require.NoError(t, db.AutoMigrate(&entity.User{}), "failed to migrate table")
	return db
}

func TestUserGorm_Create(t *testing.T) {
	t.Run("successful user creation", func(t *testing.T) {
		repo := NewUserRepository(setupTestDB(t))

		user := &entity.User{Email: "test@example.com", Password: "hashed_password"}
		err := repo.Create(context.Background(), user)

		require.NoError(t, err)
		assert.NotZero(t, user.ID)
		assert.False(t, user.CreatedAt.IsZero())
	})

	t.Run("duplicate email returns ErrEmailAlreadyExists", func(t *testing.T) {
		repo := NewUserRepository(setupTestDB(t))
		ctx := context.Background()

		require.NoError(t, repo.Create(ctx, &entity.User{Email: "test@example.com", Password: "h1"}))
		err := repo.Create(ctx, &entity.User{Email: "test@example.com", Password: "h2"})

		assert.ErrorIs(t, err, usecase.ErrEmailAlreadyExists)
	})
}

func TestUserGorm_FindByEmail(t *testing.T) {
	t.Run("existing user is returned", func(t *testing.T) {
		repo := NewUserRepository(setupTestDB(t))
		ctx := context.Background()

		require.NoError(t, repo.Create(ctx, &entity.User{Email: "test@example.com", Password: "hashed"}))

		user, err := repo.FindByEmail(ctx, "test@example.com")

		require.NoError(t, err)
		assert.Equal(t, "test@example.com", user.Email)
		assert.Equal(t, "hashed", user.Password)
	})

	t.Run("missing user returns ErrUserNotFound", func(t *testing.T) {
		repo := NewUserRepository(setupTestDB(t))

		user, err := repo.FindByEmail(context.Background(), "nobody@example.com")

		assert.ErrorIs(t, err, usecase.ErrUserNotFound)
		assert.Nil(t, user)
	})
}
