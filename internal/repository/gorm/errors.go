package gorm

import (
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"tg-miniapp-backend/internal/repository"
)

const pqUniqueViolation = "23505"

func convertError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repository.ErrNotFound
	default:
		return err
	}
}

// isDuplicatedRecordErr detects unique violations from either driver: pgx errors are translated by
// gorm (TranslateError), lib/pq errors arrive as *pq.Error.
func isDuplicatedRecordErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}
	return false
}
