package apperrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"infinite-experiment/flightdeck/internal/constants"
)

// Postgres SQLSTATE codes we translate.
const (
	pgUniqueViolation      = "23505"
	pgLockNotAvailable     = "55P03"
	pgDeadlockDetected     = "40P01"
	pgSerializationFailure = "40001"
)

// FromStore classifies a storage error. Lock timeouts, deadlocks and
// serialization failures become lock conflicts; unique violations become
// conflicts with uniqueCode. Anything else is a server error.
// Errors that already are *Error pass through unchanged.
func FromStore(err error, uniqueCode, uniqueMessage string) error {
	if err == nil {
		return nil
	}
	if _, ok := As(err); ok {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgLockNotAvailable, pgDeadlockDetected, pgSerializationFailure:
			return &Error{Kind: KindConflict, Code: constants.ErrCodeLockUnavailable, Message: constants.MsgLockUnavailable, Err: err}
		case pgUniqueViolation:
			if uniqueCode != "" {
				return &Error{Kind: KindConflict, Code: uniqueCode, Message: uniqueMessage, Err: err}
			}
		}
	}
	return Server(err, constants.MsgServerError)
}
