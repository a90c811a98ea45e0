package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infinite-experiment/flightdeck/internal/constants"
)

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("booking: %w", Conflict(constants.ErrCodeAlreadyBooked, constants.MsgAlreadyBooked, nil))

	assert.True(t, IsConflict(err))
	assert.False(t, IsNotFound(err))
	assert.True(t, HasCode(err, constants.ErrCodeAlreadyBooked))
	assert.Equal(t, KindServer, KindOf(errors.New("boom")))
	assert.False(t, IsValidation(nil))
}

func TestFromStoreLockTimeout(t *testing.T) {
	err := FromStore(fmt.Errorf("lock gates: %w", &pgconn.PgError{Code: "55P03"}), "", "")

	appErr, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, KindConflict, appErr.Kind)
	assert.Equal(t, constants.ErrCodeLockUnavailable, appErr.Code)
}

func TestFromStoreUniqueViolation(t *testing.T) {
	err := FromStore(&pgconn.PgError{Code: "23505"}, constants.ErrCodeAlreadyBooked, constants.MsgAlreadyBooked)
	assert.True(t, HasCode(err, constants.ErrCodeAlreadyBooked))

	// Without a unique code the violation is unexpected.
	err = FromStore(&pgconn.PgError{Code: "23505"}, "", "")
	assert.Equal(t, KindServer, KindOf(err))
}

func TestFromStorePassesAppErrorsThrough(t *testing.T) {
	original := NotFound("gate", 7)
	assert.Same(t, original, FromStore(original, "", ""))
	assert.Nil(t, FromStore(nil, "", ""))
}

func TestServerErrorKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Server(cause, constants.MsgServerError)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}
