package errorutil

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-deflection/internal/domain"
	"github.com/spec-kit/ticket-deflection/internal/repository"
)

func TestToDomainError(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))
	assert.NoError(t, MapError(nil))

	notFound := ToDomainError(fmt.Errorf("get ticket: %w", repository.ErrNotFound))
	assert.Equal(t, CodeNotFound, notFound.Code)
	assert.Equal(t, http.StatusNotFound, notFound.HTTPStatus)

	assert.Equal(t, CodeNotFound, ToDomainError(sql.ErrNoRows).Code)
	assert.Equal(t, CodeNotFound, ToDomainError(fmt.Errorf("scan article: %w", pgx.ErrNoRows)).Code)

	invalid := ToDomainError(fmt.Errorf("parse: %w", domain.ErrInvalidCategory))
	assert.Equal(t, CodeInvalidCategory, invalid.Code)
	assert.Equal(t, http.StatusBadRequest, invalid.HTTPStatus)

	internal := ToDomainError(errors.New("boom"))
	assert.Equal(t, CodeInternal, internal.Code)
	assert.Equal(t, http.StatusInternalServerError, internal.HTTPStatus)
}

func TestPersistenceFailure(t *testing.T) {
	cause := errors.New("disk full")
	err := NewPersistenceFailure("update ticket", cause)

	require.ErrorIs(t, err, cause)
	assert.True(t, IsCode(err, CodePersistenceFailure))
	assert.False(t, IsCode(err, CodeNotFound))

	de := ToDomainError(fmt.Errorf("stage: %w", err))
	assert.Equal(t, http.StatusServiceUnavailable, de.HTTPStatus)
	assert.Equal(t, "update ticket", de.Details["operation"])
}

func TestInvalidCategoryWrapsSentinel(t *testing.T) {
	err := NewInvalidCategory("Billing")
	require.ErrorIs(t, err, domain.ErrInvalidCategory)
	assert.Contains(t, err.Error(), "Billing")
}

func TestPayload(t *testing.T) {
	body := NewNotFound("ticket", map[string]any{"id": "t-1"}).(*DomainError).Payload()
	assert.Equal(t, CodeNotFound, body["code"])
	assert.Equal(t, "ticket not found", body["message"])
	assert.Equal(t, map[string]any{"id": "t-1"}, body["details"])

	bare := NewInternalError(nil).(*DomainError).Payload()
	assert.NotContains(t, bare, "details")
}
