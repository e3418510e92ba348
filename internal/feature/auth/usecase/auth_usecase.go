// Package usecase implements the business logic for the auth feature.
package usecase

import (
	"context"
	"errors"
	"fmt"

	"shop_backend/internal/feature/auth/domain/entity"
)

// dummyDigest is compared against when the email is unknown so that a missing
// user costs the same bcrypt work as a wrong password.
const dummyDigest = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// UserRepository abstracts the persistence layer for user entities.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type UserRepository interface {
	// Create persists a new user. It returns ErrEmailAlreadyExists on a duplicate email.
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail returns ErrUserNotFound when no user has the email.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID returns ErrUserNotFound when no user has the id.
	FindByID(ctx context.Context, id uint) (*entity.User, error)

	// UpdateFavorites replaces the favorites list. It returns ErrUserNotFound when the user is gone.
	UpdateFavorites(ctx context.Context, id uint, favorites []uint) error
}

// PasswordHasher computes and checks one-way password digests.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
}

// TokenIssuer signs bearer tokens for a user id.
type TokenIssuer interface {
	GenerateToken(userID uint) (string, error)
}

// authUsecase implements registration, login and favorites.
type authUsecase struct {
	users  UserRepository
	hasher PasswordHasher
	tokens TokenIssuer
}

// NewAuthUsecase creates a new authUsecase.
func NewAuthUsecase(users UserRepository, hasher PasswordHasher, tokens TokenIssuer) *authUsecase {
	return &authUsecase{
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

// Register creates a user with a hashed password and returns a token for it.
func (u *authUsecase) Register(ctx context.Context, username, email, password string) (string, error) {
	_, err := u.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return "", ErrEmailAlreadyExists
	case !errors.Is(err, ErrUserNotFound):
		return "", fmt.Errorf("failed to look up email: %w", err)
	}

	digest, err := u.hasher.Hash(password)
	if err != nil {
		return "", err
	}

	user := &entity.User{
		Username:  username,
		Email:     email,
		Password:  digest,
		Favorites: []uint{},
	}
	// The unique index still guards against a concurrent registration.
	if err := u.users.Create(ctx, user); err != nil {
		return "", err
	}

	return u.issue(user.ID)
}

// Login verifies the credentials and returns a fresh token.
// A bcrypt comparison runs even when the email is unknown.
func (u *authUsecase) Login(ctx context.Context, email, password string) (string, error) {
	user, err := u.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return "", fmt.Errorf("failed to look up email: %w", err)
	}

	digest := dummyDigest
	if err == nil {
		digest = user.Password
	}
	match := u.hasher.Verify(password, digest)

	if err != nil || !match {
		return "", ErrInvalidCredentials
	}

	return u.issue(user.ID)
}

// UpdateFavorites replaces the user's favorites and returns the stored list.
func (u *authUsecase) UpdateFavorites(ctx context.Context, userID uint, favorites []uint) ([]uint, error) {
	if favorites == nil {
		favorites = []uint{}
	}
	if err := u.users.UpdateFavorites(ctx, userID, favorites); err != nil {
		return nil, err
	}
	return favorites, nil
}

// Profile returns the user identified by userID.
func (u *authUsecase) Profile(ctx context.Context, userID uint) (*entity.User, error) {
	return u.users.FindByID(ctx, userID)
}

func (u *authUsecase) issue(userID uint) (string, error) {
	token, err := u.tokens.GenerateToken(userID)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}
