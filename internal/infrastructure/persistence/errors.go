package persistence

import (
	"strings"

	"github.com/openledger/backend/internal/domain/shared"
)

// classifyError maps storage failures to domain errors. SQLite reports lock
// contention through SQLITE_BUSY/SQLITE_LOCKED, which surface as "database
// is locked" errors; those are transient and worth retrying with backoff.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "database is locked") || strings.Contains(msg, "database table is locked") {
		return shared.ErrTransientStorage
	}
	if strings.Contains(msg, "UNIQUE constraint failed") {
		return shared.ErrAlreadyExists
	}
	return err
}
