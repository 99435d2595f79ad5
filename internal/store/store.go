package store

import (
	"context"

	"quiz-master-backend/internal/models"
)

// ResultStore keeps the outcome of finished games. Live sessions are never
// stored.
type ResultStore interface {
	// Save stores a finished game. Saving an id twice fails with ErrResultExists.
	Save(ctx context.Context, result *models.GameResult) error

	// List returns up to limit results, most recently finished first.
	List(ctx context.Context, limit int) ([]models.GameResult, error)

	// GetByCode returns the most recently finished game played under code.
	GetByCode(ctx context.Context, code string) (*models.GameResult, error)
}

var (
	ErrResultNotFound = &StoreError{Message: "result not found"}
	ErrResultExists   = &StoreError{Message: "result already exists"}
)

type StoreError struct {
	Message string
}

func (e *StoreError) Error() string {
	return e.Message
}
