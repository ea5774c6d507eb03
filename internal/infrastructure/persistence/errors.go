package persistence

import (
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// isUniqueViolation reports whether the error is a unique-constraint failure.
// Postgres reports these as SQLSTATE 23505; gorm's translated error covers
// other drivers in tests.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
