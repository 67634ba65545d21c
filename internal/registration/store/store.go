// Package store persists participant records. Implementations are
// interface-driven so the admission flow stays testable and the backing
// store (in-memory, MongoDB, Postgres) can be swapped without rewiring
// business code.
package store

import (
	"context"

	"registrar/internal/registration/models"
)

// ParticipantStore is the persistence gateway consumed by the admission flow.
// Records are append-only: there is no update or delete.
type ParticipantStore interface {
	// Count returns the number of accepted registrations.
	Count(ctx context.Context) (int64, error)
	// FindByEmailOrUSN returns the first record matching either key, or
	// sentinel.ErrNotFound. Matching is literal against stored values;
	// normalization happens at the request boundary.
	FindByEmailOrUSN(ctx context.Context, email, usn string) (models.Participant, error)
	// Insert persists the record and returns it with its store-assigned ID.
	Insert(ctx context.Context, p models.Participant) (models.Participant, error)
	// ListAll returns every record in insertion order where the backend
	// supports it.
	ListAll(ctx context.Context) ([]models.Participant, error)
}
