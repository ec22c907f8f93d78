package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Fi44er/storefront/internal/models"
	apperrors "github.com/Fi44er/storefront/pkg/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

func (s *Service) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, id, nil)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("User", nil)
	}
	return user, nil
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	return s.createUser(ctx, in, models.RoleUser)
}

// Login checks credentials; the identifier may be a username or an email.
func (s *Service) Login(ctx context.Context, identifier, password string) (*models.User, error) {
	user, err := s.repo.GetUserByLogin(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, apperrors.Unauthorized("invalid credentials", nil)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.Unauthorized("invalid credentials", nil)
	}
	return user, nil
}

// EnsureAdmin creates the admin account once; an existing user with the same
// email is left untouched.
func (s *Service) EnsureAdmin(ctx context.Context, username, email, password string) error {
	if username == "" || email == "" || password == "" {
		s.logger.Warn("Admin credentials not configured, skipping admin seed")
		return nil
	}

	existing, err := s.repo.GetUserByLogin(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		s.logger.Infof("👤 Admin user already exists: %s", existing.Username)
		return nil
	}

	admin, err := s.createUser(ctx, RegisterInput{Username: username, Email: email, Password: password}, models.RoleAdmin)
	if err != nil {
		return err
	}
	s.logger.Infof("👤 Admin user created: %s", admin.Username)
	return nil
}

func (s *Service) createUser(ctx context.Context, in RegisterInput, role models.UserRole) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Username == "" || in.Email == "" {
		return nil, apperrors.Validation("username and email are required", nil)
	}
	if len(in.Password) < 6 {
		return nil, apperrors.Validation("password must be at least 6 characters", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal("failed to hash password", err)
	}

	user := &models.User{
		Username:       in.Username,
		Email:          in.Email,
		PasswordHash:   string(hash),
		Role:           role,
		IsActive:       true,
		Balance:        decimal.Zero,
		OpeningBalance: decimal.Zero,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflict("username or email already exists")
		}
		return nil, err
	}
	return user, nil
}
