package postgres

import (
	"context"
	"fmt"

	"ent-bot/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ScheduleStore persists committed schedule entries. An empty time_end is stored as NULL.
type ScheduleStore struct {
	pool *pgxpool.Pool
}

func NewScheduleStore(pool *pgxpool.Pool) *ScheduleStore {
	return &ScheduleStore{pool: pool}
}

func (s *ScheduleStore) Add(ctx context.Context, e domain.ScheduleEntry) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO schedule (day_of_week, time_start, time_end, subject, topic, teacher, classroom, description, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		e.DayOfWeek, e.TimeStart, e.TimeEnd, e.Subject, e.Topic, e.Teacher, e.Classroom, e.Description, e.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert schedule: %w", err)
	}
	return id, nil
}

func (s *ScheduleStore) List(ctx context.Context) ([]domain.ScheduleEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, day_of_week, time_start, COALESCE(time_end, ''), subject, topic, teacher, classroom, description, created_at
		FROM schedule
		ORDER BY day_of_week, time_start, id`)
	if err != nil {
		return nil, fmt.Errorf("list schedule: %w", err)
	}
	defer rows.Close()

	var entries []domain.ScheduleEntry
	for rows.Next() {
		var e domain.ScheduleEntry
		if err := rows.Scan(&e.ID, &e.DayOfWeek, &e.TimeStart, &e.TimeEnd, &e.Subject, &e.Topic, &e.Teacher, &e.Classroom, &e.Description, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *ScheduleStore) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM schedule WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete schedule: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
