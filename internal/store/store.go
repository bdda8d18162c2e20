package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/taskforge-dev/taskforge/internal/services"
)

const uniqueViolation = "23505"

// Store is the GORM-backed implementation of the services persistence port.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Atomic(ctx context.Context, fn func(services.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// wrapErr translates driver errors into the service error kinds: missing rows
// wrap ErrNotFound, unique-index violations wrap ErrConflict, anything else
// passes through as an internal failure.
func wrapErr(err error, what string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, services.ErrNotFound)
	}

	var pgErr *pgconn.PgError

	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", what, services.ErrConflict)
	}

	return err
}
