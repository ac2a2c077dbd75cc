package postgres

import (
	"context"
	"fmt"

	"ent-bot/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

type MaterialStore struct {
	pool *pgxpool.Pool
}

func NewMaterialStore(pool *pgxpool.Pool) *MaterialStore {
	return &MaterialStore{pool: pool}
}

func (s *MaterialStore) BySubject(ctx context.Context, subject, language string) ([]domain.Material, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, subject, topic, type, title, url, description, language
		FROM materials
		WHERE subject = $1 AND language = $2
		ORDER BY id`, subject, language)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	defer rows.Close()

	var out []domain.Material
	for rows.Next() {
		var m domain.Material
		if err := rows.Scan(&m.ID, &m.Subject, &m.Topic, &m.Type, &m.Title, &m.URL, &m.Description, &m.Language); err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *MaterialStore) InsertMaterials(ctx context.Context, materials []domain.Material) error {
	batch := &pgx.Batch{}
	for _, m := range materials {
		batch.Queue(`
			INSERT INTO materials (subject, topic, type, title, url, description, language)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			m.Subject, m.Topic, m.Type, m.Title, m.URL, m.Description, m.Language)
	}
	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()
	for range materials {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("insert material: %w", err)
		}
	}
	return nil
}
