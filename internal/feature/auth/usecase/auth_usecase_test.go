package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"inventory_backend/internal/feature/auth/domain/entity"
	"inventory_backend/internal/feature/auth/usecase"
)

// mockUserRepository はUserRepositoryインターフェースのモック実装です。
type mockUserRepository struct {
	CreateFunc      func(ctx context.Context, user *entity.User) error
	FindByEmailFunc func(ctx context.Context, email string) (*entity.User, error)
}

func (m *mockUserRepository) Create(ctx context.Context, user *entity.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, usecase.ErrUserNotFound
}

// mockTokenGenerator はTokenGeneratorインターフェースのモック実装です。
type mockTokenGenerator struct {
	GenerateTokenFunc func(userID uint, email string) (string, error)
}

func (m *mockTokenGenerator) GenerateToken(userID uint, email string) (string, error) {
	if m.GenerateTokenFunc != nil {
		return m.GenerateTokenFunc(userID, email)
	}
	return "signed-token", nil
}

func TestAuthUsecase_Signup(t *testing.T) {
	t.Parallel()

	t.Run("success: password is hashed before persisting", func(t *testing.T) {
		t.Parallel()

		var created *entity.User
		repo := &mockUserRepository{
			CreateFunc: func(ctx context.Context, user *entity.User) error {
				created = user
				return nil
			},
		}
		uc := usecase.NewAuthUsecase(repo, &mockTokenGenerator{})

		err := uc.Signup(context.Background(), "user@example.com", "password123")

		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, "user@example.com", created.Email)
		assert.NotEqual(t, "password123", created.Password, "plaintext must never be stored")
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("password123")))
	})

	t.Run("error: password too short", func(t *testing.T) {
		t.Parallel()

		uc := usecase.NewAuthUsecase(&mockUserRepository{}, &mockTokenGenerator{})

		err := uc.Signup(context.Background(), "user@example.com", "short")

		assert.ErrorContains(t, err, "at least 8 characters")
	})

	t.Run("error: duplicate email propagates", func(t *testing.T) {
		t.Parallel()

		repo := &mockUserRepository{
			CreateFunc: func(ctx context.Context, user *entity.User) error {
				return usecase.ErrEmailAlreadyExists
			},
		}
		uc := usecase.NewAuthUsecase(repo, &mockTokenGenerator{})

		err := uc.Signup(context.Background(), "user@example.com", "password123")

		assert.ErrorIs(t, err, usecase.ErrEmailAlreadyExists)
	})
}

func TestAuthUsecase_Login(t *testing.T) {
	t.Parallel()

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	require.NoError(t, err)

	existing := &entity.User{ID: 7, Email: "user@example.com", Password: string(hashed)}

	t.Run("success: returns signed token", func(t *testing.T) {
		t.Parallel()

		repo := &mockUserRepository{
			FindByEmailFunc: func(ctx context.Context, email string) (*entity.User, error) {
				return existing, nil
			},
		}
		gen := &mockTokenGenerator{
			GenerateTokenFunc: func(userID uint, email string) (string, error) {
				assert.Equal(t, uint(7), userID)
				assert.Equal(t, "user@example.com", email)
				return "signed-token", nil
			},
		}
		uc := usecase.NewAuthUsecase(repo, gen)

		token, err := uc.Login(context.Background(), "user@example.com", "password123")

		require.NoError(t, err)
		assert.Equal(t, "signed-token", token)
	})

	t.Run("error: wrong password", func(t *testing.T) {
		t.Parallel()

		repo := &mockUserRepository{
			FindByEmailFunc: func(ctx context.Context, email string) (*entity.User, error) {
				return existing, nil
			},
		}
		uc := usecase.NewAuthUsecase(repo, &mockTokenGenerator{})

		token, err := uc.Login(context.Background(), "user@example.com", "wrong-password")

		assert.ErrorIs(t, err, usecase.ErrInvalidCredentials)
		assert.Empty(t, token)
	})

	t.Run("error: unknown user maps to invalid credentials", func(t *testing.T) {
		t.Parallel()

		uc := usecase.NewAuthUsecase(&mockUserRepository{}, &mockTokenGenerator{})

		token, err := uc.Login(context.Background(), "nobody@example.com", "password123")

		assert.ErrorIs(t, err, usecase.ErrInvalidCredentials)
		assert.Empty(t, token)
	})

	t.Run("error: repository failure propagates", func(t *testing.T) {
		t.Parallel()

		dbErr := errors.New("database connection failed")
		repo := &mockUserRepository{
			FindByEmailFunc: func(ctx context.Context, email string) (*entity.User, error) {
				return nil, dbErr
			},
		}
		uc := usecase.NewAuthUsecase(repo, &mockTokenGenerator{})

		_, err := uc.Login(context.Background(), "user@example.com", "password123")

		assert.ErrorIs(t, err, dbErr)
	})
}
