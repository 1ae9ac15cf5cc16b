package service

import (
	"errors"
	"fmt"

	"github.com/jmdelacruz/pharmacy-inventory/internal/models"
	"github.com/sirupsen/logrus"
)

// UserStore persists user records
type UserStore interface {
	CreateUser(user *models.User) error
	FindUserByUsername(username string) (*models.User, error)
	FindUserByID(id int64) (*models.User, error)
	UpdatePassword(id int64, passwordHash string) error
}

// PasswordHasher is the one-way credential hashing collaborator
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// TokenIssuer signs tokens carrying the authenticated identity
type TokenIssuer interface {
	Issue(user *models.User) (string, error)
}

// AuthService handles registration, login and password changes
type AuthService struct {
	users  UserStore
	hasher PasswordHasher
	tokens TokenIssuer
	log    *logrus.Logger
}

// NewAuthService initializes a new authentication service
func NewAuthService(users UserStore, hasher PasswordHasher, tokens TokenIssuer, log *logrus.Logger) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens, log: log}
}

// Register creates a new user with a hashed password
func (s *AuthService) Register(username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password required", models.ErrValidation)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
	}
	if err := s.users.CreateUser(user); err != nil {
		return nil, err
	}

	s.log.Infof("User registered: %s", user.Username)
	return user, nil
}

// Login authenticates a user and returns a signed token. Unknown usernames
// and wrong passwords produce the same error so callers cannot probe for
// existing accounts.
func (s *AuthService) Login(username, password string) (string, error) {
	if username == "" || password == "" {
		return "", fmt.Errorf("%w: username and password required", models.ErrValidation)
	}

	user, err := s.users.FindUserByUsername(username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return "", models.ErrInvalidCredentials
		}
		return "", err
	}

	if !s.hasher.Compare(user.PasswordHash, password) {
		return "", models.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("User logged in: %s", user.Username)
	return token, nil
}

// ChangePassword verifies the old password for the given user and replaces
// the stored hash. The caller supplies the identity of an already
// authenticated user.
func (s *AuthService) ChangePassword(userID int64, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return fmt.Errorf("%w: old and new password required", models.ErrValidation)
	}

	user, err := s.users.FindUserByID(userID)
	if err != nil {
		return err
	}

	if !s.hasher.Compare(user.PasswordHash, oldPassword) {
		return models.ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.users.UpdatePassword(userID, hash); err != nil {
		return err
	}

	s.log.Infof("Password changed for user %d", userID)
	return nil
}
