package postgres

import (
	"context"
	"fmt"

	"ent-bot/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// QuestionLoader loads question pools from the tests table.
type QuestionLoader struct {
	pool *pgxpool.Pool
}

func NewQuestionLoader(pool *pgxpool.Pool) *QuestionLoader {
	return &QuestionLoader{pool: pool}
}

func (l *QuestionLoader) LoadPool(ctx context.Context, subject, language string) ([]domain.Question, error) {
	rows, err := l.pool.Query(ctx, `
		SELECT id, subject, question, option_a, option_b, option_c, option_d, correct_answer, explanation, language
		FROM tests
		WHERE subject = $1 AND language = $2
		ORDER BY id`, subject, language)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	var pool []domain.Question
	for rows.Next() {
		var (
			q       domain.Question
			correct string
		)
		if err := rows.Scan(&q.ID, &q.Subject, &q.Text, &q.OptionA, &q.OptionB, &q.OptionC, &q.OptionD, &correct, &q.Explanation, &q.Language); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		c, ok := domain.ParseChoice(correct)
		if !ok {
			return nil, fmt.Errorf("question %d: %w", q.ID, domain.ErrInvalidChoice)
		}
		q.CorrectAnswer = c
		pool = append(pool, q)
	}
	return pool, rows.Err()
}

// InsertQuestions appends questions in one batch; ids are assigned by the database.
func (l *QuestionLoader) InsertQuestions(ctx context.Context, questions []domain.Question) error {
	batch := &pgx.Batch{}
	for _, q := range questions {
		batch.Queue(`
			INSERT INTO tests (subject, question, option_a, option_b, option_c, option_d, correct_answer, explanation, language)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			q.Subject, q.Text, q.OptionA, q.OptionB, q.OptionC, q.OptionD, string(q.CorrectAnswer), q.Explanation, q.Language)
	}
	results := l.pool.SendBatch(ctx, batch)
	defer results.Close()
	for range questions {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("insert question: %w", err)
		}
	}
	return nil
}

// Count reports how many questions are stored across all subjects.
func (l *QuestionLoader) Count(ctx context.Context) (int, error) {
	var n int
	if err := l.pool.QueryRow(ctx, `SELECT count(*) FROM tests`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
