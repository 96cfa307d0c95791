package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mohitbhaijaan/adi-ki-site-sub000/internal/audit"
	"github.com/mohitbhaijaan/adi-ki-site-sub000/internal/domain"
	"github.com/mohitbhaijaan/adi-ki-site-sub000/internal/repository"
	"github.com/mohitbhaijaan/adi-ki-site-sub000/pkg/jwt"
	"github.com/mohitbhaijaan/adi-ki-site-sub000/pkg/log"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type authService struct {
	repo       repository.AdminRepository
	jwtManager *jwt.Manager
}

// NewAuthService creates the admin console auth service.
func NewAuthService(repo repository.AdminRepository, jwtManager *jwt.Manager) AuthService {
	return &authService{
		repo:       repo,
		jwtManager: jwtManager,
	}
}

// Login verifies credentials and issues a token pair.
func (s *authService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error) {
	l := log.Ctx(ctx)

	admin, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			audit.LogWithDetail(ctx, audit.ActionLoginFailed, "", req.Email, "login failed: unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		audit.LogWithDetail(ctx, audit.ActionLoginFailed, admin.ID, req.Email, "login failed: wrong password")
		return nil, ErrInvalidCredentials
	}

	accessToken, refreshToken, accessExp, refreshExp, err := s.jwtManager.GenerateTokenPair(admin.ID, admin.Email, admin.Username)
	if err != nil {
		l.Error().Err(err).Msg("failed to generate tokens")
		return nil, err
	}

	audit.Log(ctx, audit.ActionLogin, admin.ID, "admin logged in")

	return &domain.AuthResponse{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
		Username:         admin.Username,
		Email:            admin.Email,
	}, nil
}

// Refresh exchanges a valid refresh token for a new pair.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*domain.AuthResponse, error) {
	accessToken, newRefreshToken, accessExp, refreshExp, err := s.jwtManager.RefreshTokens(refreshToken)
	if err != nil {
		return nil, err
	}

	return &domain.AuthResponse{
		AccessToken:      accessToken,
		RefreshToken:     newRefreshToken,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// ValidateAccessToken checks a bearer token presented outside the Gin
// middleware path, e.g. on admin_join over WebSocket.
func (s *authService) ValidateAccessToken(token string) error {
	claims, err := s.jwtManager.ValidateToken(token)
	if err != nil {
		return err
	}
	if claims.Type != "access" {
		return jwt.ErrInvalidToken
	}
	return nil
}

// SeedAdmin creates the bootstrap admin account when none exists.
func (s *authService) SeedAdmin(ctx context.Context, email, username, password string) error {
	l := log.Ctx(ctx)

	if email == "" || password == "" {
		return nil
	}

	count, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &domain.AdminUserModel{
		ID:           uuid.New().String(),
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		return err
	}

	l.Info().Str(log.FieldUserID, admin.ID).Msg("bootstrap admin account created")
	return nil
}
