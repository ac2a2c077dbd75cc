package app_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"ent-bot/internal/app"
	"ent-bot/internal/domain"
	"ent-bot/internal/infra/memory"
)

var errBoom = errors.New("boom")

type rendered struct {
	ChatID    int64
	MessageID int
	Text      string
	Keyboard  domain.Keyboard
	Edit      bool
}

// recordingMessenger keeps every rendered message. Sends to chats in fail return errBoom.
type recordingMessenger struct {
	mu     sync.Mutex
	nextID int
	out    []rendered
	fail   map[int64]bool
}

func newMessenger(failing ...int64) *recordingMessenger {
	m := &recordingMessenger{fail: make(map[int64]bool)}
	for _, id := range failing {
		m.fail[id] = true
	}
	return m
}

func (m *recordingMessenger) Send(_ context.Context, chatID int64, text string, kb domain.Keyboard) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail[chatID] {
		return 0, errBoom
	}
	m.nextID++
	m.out = append(m.out, rendered{ChatID: chatID, MessageID: m.nextID, Text: text, Keyboard: kb})
	return m.nextID, nil
}

func (m *recordingMessenger) Edit(_ context.Context, chatID int64, messageID int, text string, kb domain.Keyboard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail[chatID] {
		return errBoom
	}
	m.out = append(m.out, rendered{ChatID: chatID, MessageID: messageID, Text: text, Keyboard: kb, Edit: true})
	return nil
}

func (m *recordingMessenger) setFailing(chatID int64, v bool) {
	m.mu.Lock()
	m.fail[chatID] = v
	m.mu.Unlock()
}

func (m *recordingMessenger) last() rendered {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.out) == 0 {
		return rendered{}
	}
	return m.out[len(m.out)-1]
}

func (m *recordingMessenger) count(chatID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.out {
		if r.ChatID == chatID {
			n++
		}
	}
	return n
}

func (m *recordingMessenger) contains(fragment string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.out {
		if strings.Contains(r.Text, fragment) {
			return true
		}
	}
	return false
}

// flakyUsers fails AddPoints while broken is set.
type flakyUsers struct {
	*memory.UserStore
	mu     sync.Mutex
	broken bool
}

func (u *flakyUsers) setBroken(v bool) {
	u.mu.Lock()
	u.broken = v
	u.mu.Unlock()
}

func (u *flakyUsers) AddPoints(ctx context.Context, id int64, amount int) (domain.User, error) {
	u.mu.Lock()
	broken := u.broken
	u.mu.Unlock()
	if broken {
		return domain.User{}, errBoom
	}
	return u.UserStore.AddPoints(ctx, id, amount)
}

// failingRegistry rejects writes; reads see nothing.
type failingRegistry[T any] struct{}

func (failingRegistry[T]) Put(context.Context, int64, T) error { return errBoom }
func (failingRegistry[T]) Get(context.Context, int64) (T, bool, error) {
	var zero T
	return zero, false, nil
}
func (failingRegistry[T]) Remove(context.Context, int64) error { return errBoom }

// stuckRegistry keeps values but can never remove them.
type stuckRegistry[T any] struct {
	*memory.Registry[T]
}

func (stuckRegistry[T]) Remove(context.Context, int64) error { return errBoom }

// flakySchedule fails Add while broken is set.
type flakySchedule struct {
	*memory.ScheduleStore
	broken bool
}

func (s *flakySchedule) Add(ctx context.Context, e domain.ScheduleEntry) (int64, error) {
	if s.broken {
		return 0, errBoom
	}
	return s.ScheduleStore.Add(ctx, e)
}

func physicsQuestions(n int) []domain.Question {
	qs := make([]domain.Question, 0, n)
	for i := 0; i < n; i++ {
		qs = append(qs, domain.Question{
			ID:            int64(i + 1),
			Subject:       "physics",
			Language:      "ru",
			Text:          "Q" + string(rune('1'+i)),
			OptionA:       "a",
			OptionB:       "b",
			OptionC:       "c",
			OptionD:       "d",
			CorrectAnswer: domain.Choices[i%len(domain.Choices)],
		})
	}
	return qs
}

type quizFixture struct {
	svc       *app.QuizService
	users     *flakyUsers
	messenger *recordingMessenger
	sessions  *memory.Registry[app.QuizSession]
}

func newQuizFixture(questions []domain.Question, userIDs ...int64) *quizFixture {
	users := &flakyUsers{UserStore: memory.NewUserStore()}
	for _, id := range userIDs {
		_, _ = users.Upsert(context.Background(), domain.User{ID: id, Language: "ru", Level: 1, RegisteredAt: time.Now()})
	}
	messenger := newMessenger()
	sessions := memory.NewRegistry[app.QuizSession](time.Hour)
	svc := app.NewQuizService(
		sessions,
		memory.NewQuestionBank(memory.NewStaticLoader(questions), time.Minute),
		users, messenger,
		app.QuizConfig{MaxQuestions: 10, PointsPerAnswer: 10},
	)
	return &quizFixture{svc: svc, users: users, messenger: messenger, sessions: sessions}
}

// correct returns the right letter for the user's current question.
func (f *quizFixture) correct(userID int64) string {
	s, ok, _ := f.svc.ActiveSession(context.Background(), userID)
	if !ok {
		return "A"
	}
	q, _ := s.Current()
	return string(q.CorrectAnswer)
}

func (f *quizFixture) wrong(userID int64) string {
	c := f.correct(userID)
	if c == "A" {
		return "B"
	}
	return "A"
}
