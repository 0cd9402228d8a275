package service

import (
	"context"
	"errors"

	"carloc-backend/internal/domain"
	"carloc-backend/internal/repository"
	"carloc-backend/internal/security"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type authService struct {
	userRepo     repository.UserRepository
	tokenManager security.TokenManager
}

func NewAuthService(userRepo repository.UserRepository, tokenManager security.TokenManager) AuthService {
	return &authService{userRepo: userRepo, tokenManager: tokenManager}
}

func (s *authService) Signup(ctx context.Context, name, email, phone, password string, role domain.UserRole, agencyID *int32) (*domain.User, string, string, error) {
	if name == "" || email == "" {
		return nil, "", "", domain.Validationf("name and email are required")
	}
	if len(password) < 8 {
		return nil, "", "", domain.Validationf("password must be at least 8 characters")
	}
	if role == "" {
		role = domain.UserRoleRenter
	}
	if role == domain.UserRoleAgency && agencyID == nil {
		return nil, "", "", domain.Validationf("agency accounts need an agency id")
	}

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, "", "", domain.Validationf("email %s is already registered", email)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, "", "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", err
	}

	user := &domain.User{
		ExternalID:   uuid.NewString(),
		Name:         name,
		Email:        email,
		PhoneNumber:  phone,
		PasswordHash: string(hash),
		Role:         role,
		AgencyID:     agencyID,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", "", err
	}

	access, refresh, err := s.issueTokensPair(user)
	if err != nil {
		return nil, "", "", err
	}
	return user, access, refresh, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, string, error) {
	if email == "" || password == "" {
		return "", "", domain.Validationf("email and password are required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return "", "", domain.ErrUnauthorized
	}
	if err != nil {
		return "", "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", "", domain.ErrUnauthorized
	}

	return s.issueTokensPair(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	claims, err := s.tokenManager.ValidateToken(refreshToken)
	if err != nil {
		return "", "", domain.ErrUnauthorized
	}
	if claims.Type != security.TokenTypeRefresh {
		return "", "", domain.ErrUnauthorized
	}

	user, err := s.userRepo.GetByExternalID(ctx, claims.ExternalID)
	if err != nil {
		return "", "", domain.ErrUnauthorized
	}

	return s.issueTokensPair(user)
}

// ResolveUser maps the identity provider's stable subject to the internal
// account, creating the row on first sight. The numeric id, not the external
// subject, is what reservations reference.
func (s *authService) ResolveUser(ctx context.Context, externalID, name, email string, role domain.UserRole) (*domain.User, error) {
	if externalID == "" {
		return nil, domain.Validationf("missing external user id")
	}

	user, err := s.userRepo.GetByExternalID(ctx, externalID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	if role == "" {
		role = domain.UserRoleRenter
	}
	user = &domain.User{
		ExternalID: externalID,
		Name:       name,
		Email:      email,
		Role:       role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) issueTokensPair(user *domain.User) (string, string, error) {
	access, err := s.tokenManager.GenerateAccessToken(user.ExternalID, user.Email, user.Role)
	if err != nil {
		return "", "", err
	}
	refresh, err := s.tokenManager.GenerateRefreshToken(user.ExternalID, user.Email)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}
