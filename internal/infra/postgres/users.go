package postgres

import (
	"context"
	"errors"
	"fmt"

	"ent-bot/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const userColumns = `telegram_id, username, first_name, language, points, level, registration_date`

// UserStore keeps users in the users table; AddPoints recomputes the level in the same statement.
type UserStore struct {
	pool *pgxpool.Pool
}

func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

func (s *UserStore) Get(ctx context.Context, id int64) (domain.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE telegram_id = $1`, id)
	return scanUser(row)
}

func (s *UserStore) Upsert(ctx context.Context, u domain.User) (domain.User, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO users (telegram_id, username, first_name, language, points, level, registration_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (telegram_id) DO UPDATE SET
			username = EXCLUDED.username,
			first_name = EXCLUDED.first_name
		RETURNING `+userColumns,
		u.ID, u.Username, u.FirstName, u.Language, u.Points, domain.LevelFor(u.Points), u.RegisteredAt)
	return scanUser(row)
}

func (s *UserStore) SetLanguage(ctx context.Context, id int64, language string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET language = $2 WHERE telegram_id = $1`, id, language)
	if err != nil {
		return fmt.Errorf("set language: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (s *UserStore) AddPoints(ctx context.Context, id int64, amount int) (domain.User, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE users
		SET points = points + $2,
		    level = (points + $2) / $3 + 1
		WHERE telegram_id = $1
		RETURNING `+userColumns, id, amount, domain.PointsPerLevel)
	return scanUser(row)
}

func (s *UserStore) Top(ctx context.Context, limit int) ([]domain.User, error) {
	return s.query(ctx, `SELECT `+userColumns+` FROM users ORDER BY points DESC, registration_date ASC LIMIT $1`, limit)
}

func (s *UserStore) All(ctx context.Context) ([]domain.User, error) {
	return s.query(ctx, `SELECT `+userColumns+` FROM users ORDER BY telegram_id`)
}

func (s *UserStore) Stats(ctx context.Context) (domain.Stats, error) {
	st := domain.Stats{ByLanguage: make(map[string]int)}
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*), COUNT(*) FILTER (WHERE points > 0) FROM users`).
		Scan(&st.TotalUsers, &st.ActiveUsers)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("count users: %w", err)
	}

	rows, err := s.pool.Query(ctx, `SELECT language, COUNT(*) FROM users GROUP BY language`)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("language stats: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			lang  string
			count int
		)
		if err := rows.Scan(&lang, &count); err != nil {
			return domain.Stats{}, fmt.Errorf("scan language stats: %w", err)
		}
		st.ByLanguage[lang] = count
	}
	return st, rows.Err()
}

func (s *UserStore) query(ctx context.Context, sql string, args ...interface{}) ([]domain.User, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()
	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Username, &u.FirstName, &u.Language, &u.Points, &u.Level, &u.RegisteredAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}
