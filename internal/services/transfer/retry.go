package transfer

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error codes that mean the transaction lost a race, not that
// the request was wrong. The whole unit of work is safe to rerun.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
)

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable:
		return true
	}
	return false
}
