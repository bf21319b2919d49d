// Package service holds the business rules of the catalog and of manager
// credentials, delegating persistence to repository interfaces.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/atinyakov/museum/internal/common"
	"github.com/atinyakov/museum/internal/models"
	"github.com/atinyakov/museum/internal/validate"
	"golang.org/x/crypto/bcrypt"
)

// ManagerRepository defines the persistence operations needed by CredentialService.
type ManagerRepository interface {
	// FindByEmail returns common.ErrNotFound when no manager uses email.
	FindByEmail(ctx context.Context, email string) (*models.Manager, error)
	// Create stores a manager whose password is already hashed.
	Create(ctx context.Context, m *models.Manager) (*models.Manager, error)
}

// CredentialService owns manager identities and their bcrypt password hashes.
type CredentialService struct {
	repo ManagerRepository
	cost int
	// dummyHash is compared against when the email is unknown, so a miss costs
	// as much as a wrong password.
	dummyHash []byte
}

// NewCredentialService creates a CredentialService hashing with bcrypt.DefaultCost.
func NewCredentialService(repo ManagerRepository) *CredentialService {
	return NewCredentialServiceWithCost(repo, bcrypt.DefaultCost)
}

// NewCredentialServiceWithCost creates a CredentialService with the given bcrypt cost.
func NewCredentialServiceWithCost(repo ManagerRepository, cost int) *CredentialService {
	dummy, _ := bcrypt.GenerateFromPassword([]byte("museum-dummy-password"), cost)
	return &CredentialService{repo: repo, cost: cost, dummyHash: dummy}
}

// FindByEmail returns the manager registered under email.
func (s *CredentialService) FindByEmail(ctx context.Context, email string) (*models.Manager, error) {
	return s.repo.FindByEmail(ctx, email)
}

// Create validates in, hashes the password and stores the manager.
// It fails with common.ErrDuplicateEmail when the email is taken.
func (s *CredentialService) Create(ctx context.Context, in models.ManagerCreate) (*models.Manager, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	_, err := s.repo.FindByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, common.ErrDuplicateEmail
	case !errors.Is(err, common.ErrNotFound):
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return s.repo.Create(ctx, &models.Manager{
		Email:          in.Email,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		HashedPassword: string(hash),
	})
}

// Verify reports whether password matches the stored bcrypt hash.
func (s *CredentialService) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Authenticate returns the manager for email when password matches, and
// common.ErrInvalidCredentials when the email is unknown or the password is wrong.
func (s *CredentialService) Authenticate(ctx context.Context, email, password string) (*models.Manager, error) {
	m, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, common.ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return nil, common.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !s.Verify(password, m.HashedPassword) {
		return nil, common.ErrInvalidCredentials
	}
	return m, nil
}
