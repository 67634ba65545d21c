package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"registrar/internal/registration/models"
	"registrar/pkg/sentinel"
)

// PostgresStore persists participants in PostgreSQL for deployments that
// already run one instead of MongoDB. Unique indexes on usn and email back
// up the admission flow's duplicate gate.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the participants table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS participants (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			usn TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			year TEXT NOT NULL,
			phone TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("ensure participants schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM participants`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count participants: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) FindByEmailOrUSN(ctx context.Context, email, usn string) (models.Participant, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, usn, email, year, phone
		FROM participants
		WHERE email = $1 OR usn = $2
		LIMIT 1
	`, email, usn)

	var p models.Participant
	err := row.Scan(&p.ID, &p.Name, &p.USN, &p.Email, &p.Year, &p.Phone)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Participant{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.Participant{}, fmt.Errorf("find participant: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) Insert(ctx context.Context, p models.Participant) (models.Participant, error) {
	p.ID = uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO participants (id, name, usn, email, year, phone, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, p.ID, p.Name, p.USN, p.Email, p.Year, p.Phone, time.Now().UTC())
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return models.Participant{}, sentinel.ErrConflict
		}
		return models.Participant{}, fmt.Errorf("insert participant: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) ListAll(ctx context.Context) ([]models.Participant, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, usn, email, year, phone
		FROM participants
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	defer rows.Close()

	var out []models.Participant
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.Name, &p.USN, &p.Email, &p.Year, &p.Phone); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate participants: %w", err)
	}
	return out, nil
}
