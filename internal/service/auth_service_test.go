package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-deflection/internal/auth"
	"github.com/spec-kit/ticket-deflection/internal/config"
	"github.com/spec-kit/ticket-deflection/internal/domain"
	apperrors "github.com/spec-kit/ticket-deflection/pkg/util/errorutil"
)

func TestAuthService_LoginOperator(t *testing.T) {
	hash, err := auth.HashPassword("s3cret", 4)
	require.NoError(t, err)

	svc := NewAuthService(config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 5,
		OperatorUsername:      "operator",
		OperatorPasswordHash:  hash,
	})
	require.True(t, svc.Enabled())
	ctx := context.Background()

	operator, token, err := svc.LoginOperator(ctx, "operator", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "operator", operator.Username)
	assert.Equal(t, domain.SubjectTypeOperator, token.Subject)

	claims, err := svc.TokenManager().ParseToken(token.Value)
	require.NoError(t, err)
	assert.Equal(t, "operator", claims.Subject)
	assert.Equal(t, domain.SubjectTypeOperator, claims.SubjectType)

	_, _, err = svc.LoginOperator(ctx, "operator", "wrong")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))

	_, _, err = svc.LoginOperator(ctx, "admin", "s3cret")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
}

func TestAuthService_Disabled(t *testing.T) {
	svc := NewAuthService(config.AuthConfig{JWTSecret: "x", OperatorUsername: "operator"})
	assert.False(t, svc.Enabled())

	_, _, err := svc.LoginOperator(context.Background(), "operator", "anything")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))
}
