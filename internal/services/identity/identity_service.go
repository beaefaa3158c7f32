package identity

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// IdentityService owns the accounts table: the self-hosted stand-in for
// a hosted auth provider. Session tokens themselves are minted by the
// authenticator; this service only answers account questions.
type IdentityService struct {
	repo *AccountRepo
}

func NewIdentityService(repo *AccountRepo) *IdentityService {
	return &IdentityService{repo: repo}
}

// SignUp creates an account with a bcrypt-hashed password.
func (s *IdentityService) SignUp(ctx context.Context, email, password string) (*Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, email, string(hash))
}

// Authenticate verifies an email/password pair. A wrong password and an
// unknown email both come back as ErrInvalidCredentials so callers leak
// nothing about which half was wrong.
func (s *IdentityService) Authenticate(ctx context.Context, email, password string) (*Account, error) {
	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return account, nil
}

func (s *IdentityService) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.repo.EmailExists(ctx, email)
}

func (s *IdentityService) GetByID(ctx context.Context, id string) (*Account, error) {
	return s.repo.GetByID(ctx, id)
}

// Delete removes the authentication record. Callers deleting a whole
// user must delete the profile row first; there is no compensation if
// this step fails afterwards.
func (s *IdentityService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
