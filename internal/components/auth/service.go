package auth

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"bookswap/internal/shared/apperr"
	"bookswap/internal/shared/token"
)

type (
	servicer interface {
		Signup(ctx context.Context, in SignupIn) (*User, error)
		Login(ctx context.Context, in LoginIn) (*LoginOut, error)
		Profile(ctx context.Context, userID uuid.UUID) (*User, error)
	}

	service struct {
		repo   repoer
		issuer *token.Issuer
	}
)

func NewService(repo repoer, issuer *token.Issuer) servicer {
	return &service{repo: repo, issuer: issuer}
}

func (s *service) Signup(ctx context.Context, in SignupIn) (*User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, apperr.Validation("name, email and password are required")
	}
	if !strings.Contains(in.Email, "@") {
		return nil, apperr.Validation("invalid email address")
	}
	if len(in.Password) < 6 {
		return nil, apperr.Validation("password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return s.repo.Create(ctx, in.Name, in.Email, string(hash))
}

// Login validates credentials and issues a bearer token. Unknown email and
// wrong password report the same error.
func (s *service) Login(ctx context.Context, in LoginIn) (*LoginOut, error) {
	user, err := s.repo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(in.Email)))
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, apperr.Auth("invalid email or password")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, apperr.Auth("invalid email or password")
	}

	signed, err := s.issuer.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	return &LoginOut{Token: signed, User: user}, nil
}

func (s *service) Profile(ctx context.Context, userID uuid.UUID) (*User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			// The token outlived its user
			return nil, apperr.Auth("invalid or expired session")
		}
		return nil, err
	}
	return user, nil
}
