package service

import (
	"context"
	"errors"
	"testing"

	"github.com/atinyakov/museum/internal/common"
	"github.com/atinyakov/museum/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type mockManagerRepo struct {
	FindByEmailFunc func(ctx context.Context, email string) (*models.Manager, error)
	CreateFunc      func(ctx context.Context, m *models.Manager) (*models.Manager, error)
}

func (m *mockManagerRepo) FindByEmail(ctx context.Context, email string) (*models.Manager, error) {
	return m.FindByEmailFunc(ctx, email)
}

func (m *mockManagerRepo) Create(ctx context.Context, mgr *models.Manager) (*models.Manager, error) {
	return m.CreateFunc(ctx, mgr)
}

func validManager() models.ManagerCreate {
	return models.ManagerCreate{
		Email:     "curator@museum.com",
		FirstName: "Ada",
		LastName:  "Curator",
		Password:  "s3cretpass",
	}
}

func notFound(context.Context, string) (*models.Manager, error) {
	return nil, common.ErrNotFound
}

func TestCredentialCreate_HashesPassword(t *testing.T) {
	var stored *models.Manager
	repo := &mockManagerRepo{
		FindByEmailFunc: notFound,
		CreateFunc: func(ctx context.Context, m *models.Manager) (*models.Manager, error) {
			stored = m
			out := *m
			out.ID = 1
			return &out, nil
		},
	}
	svc := NewCredentialServiceWithCost(repo, bcrypt.MinCost)

	got, err := svc.Create(context.Background(), validManager())
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)
	require.NotNil(t, stored)
	assert.NotEqual(t, "s3cretpass", stored.HashedPassword)
	assert.True(t, svc.Verify("s3cretpass", stored.HashedPassword))
	assert.False(t, svc.Verify("wrong", stored.HashedPassword))
}

func TestCredentialCreate_DuplicateEmail(t *testing.T) {
	repo := &mockManagerRepo{
		FindByEmailFunc: func(ctx context.Context, email string) (*models.Manager, error) {
			return &models.Manager{ID: 7, Email: email}, nil
		},
		CreateFunc: func(ctx context.Context, m *models.Manager) (*models.Manager, error) {
			t.Fatal("Create must not be called for a taken email")
			return nil, nil
		},
	}
	svc := NewCredentialServiceWithCost(repo, bcrypt.MinCost)

	_, err := svc.Create(context.Background(), validManager())
	assert.ErrorIs(t, err, common.ErrDuplicateEmail)
}

func TestCredentialCreate_DuplicateFromStore(t *testing.T) {
	repo := &mockManagerRepo{
		FindByEmailFunc: notFound,
		CreateFunc: func(ctx context.Context, m *models.Manager) (*models.Manager, error) {
			return nil, common.ErrDuplicateEmail
		},
	}
	svc := NewCredentialServiceWithCost(repo, bcrypt.MinCost)

	_, err := svc.Create(context.Background(), validManager())
	assert.ErrorIs(t, err, common.ErrDuplicateEmail)
}

func TestCredentialCreate_Validation(t *testing.T) {
	repo := &mockManagerRepo{}
	svc := NewCredentialServiceWithCost(repo, bcrypt.MinCost)

	tests := []struct {
		name   string
		mutate func(*models.ManagerCreate)
	}{
		{"bad email", func(m *models.ManagerCreate) { m.Email = "not-an-email" }},
		{"short password", func(m *models.ManagerCreate) { m.Password = "short" }},
		{"empty first name", func(m *models.ManagerCreate) { m.FirstName = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validManager()
			tt.mutate(&in)
			_, err := svc.Create(context.Background(), in)
			assert.ErrorIs(t, err, common.ErrValidation)
		})
	}
}

func TestCredentialCreate_LookupError(t *testing.T) {
	wantErr := errors.New("db error")
	repo := &mockManagerRepo{
		FindByEmailFunc: func(ctx context.Context, email string) (*models.Manager, error) {
			return nil, wantErr
		},
	}
	svc := NewCredentialServiceWithCost(repo, bcrypt.MinCost)

	_, err := svc.Create(context.Background(), validManager())
	assert.ErrorIs(t, err, wantErr)
}

func TestAuthenticate(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cretpass"), bcrypt.MinCost)
	require.NoError(t, err)
	manager := &models.Manager{ID: 3, Email: "curator@museum.com", HashedPassword: string(hash)}

	repo := &mockManagerRepo{
		FindByEmailFunc: func(ctx context.Context, email string) (*models.Manager, error) {
			if email == manager.Email {
				return manager, nil
			}
			return nil, common.ErrNotFound
		},
	}
	svc := NewCredentialServiceWithCost(repo, bcrypt.MinCost)

	got, err := svc.Authenticate(context.Background(), "curator@museum.com", "s3cretpass")
	require.NoError(t, err)
	assert.Equal(t, manager, got)

	_, err = svc.Authenticate(context.Background(), "curator@museum.com", "wrong-password")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	_, err = svc.Authenticate(context.Background(), "ghost@museum.com", "s3cretpass")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestAuthenticate_StoreError(t *testing.T) {
	wantErr := errors.New("connection refused")
	repo := &mockManagerRepo{
		FindByEmailFunc: func(ctx context.Context, email string) (*models.Manager, error) {
			return nil, wantErr
		},
	}
	svc := NewCredentialServiceWithCost(repo, bcrypt.MinCost)

	_, err := svc.Authenticate(context.Background(), "curator@museum.com", "s3cretpass")
	assert.ErrorIs(t, err, wantErr)
}
