package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"adledger/internal/core/port"
)

// Postgres error codes that indicate the campaign row could not be taken
// for the read-modify-write: serialization_failure, deadlock_detected and
// lock_not_available.
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
)

// mapError translates row-lock contention into port.ErrConflict so callers
// can distinguish a retryable conflict from a persistence failure.
func mapError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable:
			return fmt.Errorf("%s: %w", pgErr.Message, port.ErrConflict)
		}
	}
	return err
}
