package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
)

// notFound turns gorm's missing-row error into a typed not-found error and
// passes every other error through.
func notFound(err error, code, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.NotFoundErr(code, message)
	}
	return err
}

func lockFor(q *gorm.DB, forUpdate bool) *gorm.DB {
	if forUpdate {
		return q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q
}
