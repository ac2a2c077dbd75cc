package memory

import (
	"context"

	"ent-bot/internal/domain"
)

// MaterialStore serves a fixed catalog.
type MaterialStore struct {
	materials []domain.Material
}

func NewMaterialStore(materials []domain.Material) *MaterialStore {
	return &MaterialStore{materials: materials}
}

func (s *MaterialStore) BySubject(_ context.Context, subject, language string) ([]domain.Material, error) {
	var out []domain.Material
	for _, m := range s.materials {
		if m.Subject == subject && m.Language == language {
			out = append(out, m)
		}
	}
	return out, nil
}
