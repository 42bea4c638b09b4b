package service

import (
	"context"
	"crypto/subtle"
	"strings"

	"github.com/spec-kit/ticket-deflection/internal/auth"
	"github.com/spec-kit/ticket-deflection/internal/config"
	"github.com/spec-kit/ticket-deflection/internal/domain"
	apperrors "github.com/spec-kit/ticket-deflection/pkg/util/errorutil"
)

// AuthService authenticates the knowledge-base operator.
type AuthService struct {
	tokenMgr     *auth.TokenManager
	username     string
	passwordHash string
}

// NewAuthService builds the service from configuration.
func NewAuthService(cfg config.AuthConfig) *AuthService {
	return &AuthService{
		tokenMgr:     auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		username:     cfg.OperatorUsername,
		passwordHash: strings.TrimSpace(cfg.OperatorPasswordHash),
	}
}

// Enabled reports whether an operator account is configured.
func (s *AuthService) Enabled() bool {
	return s.passwordHash != ""
}

// LoginOperator checks credentials and issues a bearer token.
func (s *AuthService) LoginOperator(_ context.Context, username, password string) (*domain.Operator, domain.Token, error) {
	if !s.Enabled() {
		return nil, domain.Token{}, apperrors.NewForbidden("operator login disabled")
	}
	nameOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	if err := auth.ComparePassword(s.passwordHash, password); err != nil || !nameOK {
		return nil, domain.Token{}, apperrors.NewUnauthorized("invalid credentials")
	}
	token, err := s.tokenMgr.GenerateToken(s.username, domain.SubjectTypeOperator)
	if err != nil {
		return nil, domain.Token{}, apperrors.NewInternalError(err)
	}
	return &domain.Operator{Username: s.username}, token, nil
}

// TokenManager exposes the JWT manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// Username is the configured operator name.
func (s *AuthService) Username() string {
	return s.username
}
