package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ent-bot/internal/domain"
	"ent-bot/internal/i18n"
	"go.uber.org/zap"
)

// QuizConfig tunes quiz pacing and scoring.
type QuizConfig struct {
	MaxQuestions    int
	PointsPerAnswer int
	FeedbackPause   time.Duration
}

// QuizService drives users through quizzes, one active session per user.
type QuizService struct {
	sessions  Registry[QuizSession]
	questions QuestionBank
	users     UserStore
	messenger Messenger
	cfg       QuizConfig
	options
}

func NewQuizService(sessions Registry[QuizSession], questions QuestionBank, users UserStore, messenger Messenger, cfg QuizConfig, opts ...Option) *QuizService {
	if cfg.MaxQuestions <= 0 {
		cfg.MaxQuestions = 10
	}
	if cfg.PointsPerAnswer <= 0 {
		cfg.PointsPerAnswer = 10
	}
	return &QuizService{
		sessions:  sessions,
		questions: questions,
		users:     users,
		messenger: messenger,
		cfg:       cfg,
		options:   buildOptions(opts),
	}
}

// StartQuiz samples questions for subject and replaces any session the user already has.
func (s *QuizService) StartQuiz(ctx context.Context, userID int64, subject string, to Target) error {
	lang := i18n.Normalize(to.Language)
	questions, err := s.questions.FetchQuestions(ctx, subject, lang, s.cfg.MaxQuestions)
	if err != nil {
		notice(ctx, s.messenger, s.log, to, "store_unavailable")
		return unavailable("fetch questions", err)
	}
	if len(questions) == 0 {
		_, _ = Present(ctx, s.messenger, to, i18n.T(lang, "no_tests", i18n.Subject(lang, subject)), nil)
		return fmt.Errorf("%s/%s: %w", subject, lang, domain.ErrNoQuestionsAvailable)
	}

	previous, hadPrevious, err := s.sessions.Get(ctx, userID)
	if err != nil {
		notice(ctx, s.messenger, s.log, to, "store_unavailable")
		return unavailable("load session", err)
	}
	session := newQuizSession(userID, subject, lang, questions, s.now())
	if err := s.sessions.Put(ctx, userID, session); err != nil {
		notice(ctx, s.messenger, s.log, to, "store_unavailable")
		return unavailable("save session", err)
	}
	if _, err := Present(ctx, s.messenger, to, questionText(session), questionKeyboard(lang)); err != nil {
		if hadPrevious {
			s.restore(ctx, previous)
		} else {
			s.discard(ctx, userID)
		}
		return fmt.Errorf("send question: %w", err)
	}
	s.metrics.QuizStarted(subject)
	s.log.Info("quiz started",
		zap.Int64("user_id", userID),
		zap.String("subject", subject),
		zap.String("language", lang),
		zap.Int("questions", len(questions)),
	)
	return nil
}

// SubmitAnswer scores choice against the user's current question.
// If the answer cannot be stored or its feedback cannot be delivered, the session stays
// at the question the user last saw.
func (s *QuizService) SubmitAnswer(ctx context.Context, userID int64, choice string, to Target) error {
	session, ok, err := s.sessions.Get(ctx, userID)
	if err != nil {
		notice(ctx, s.messenger, s.log, to, "store_unavailable")
		return unavailable("load session", err)
	}
	if !ok {
		_, _ = Present(ctx, s.messenger, to, i18n.T(to.Language, "session_expired"), nil)
		return domain.ErrSessionExpired
	}
	c, valid := domain.ParseChoice(choice)
	if !valid {
		return fmt.Errorf("%q: %w", choice, domain.ErrInvalidChoice)
	}

	next, rec := session.apply(c)
	s.metrics.Answer(rec.WasCorrect)
	to.Language = next.Language

	if next.Finished() {
		return s.finish(ctx, session, next, to)
	}

	if err := s.sessions.Put(ctx, userID, next); err != nil {
		notice(ctx, s.messenger, s.log, to, "store_unavailable")
		return unavailable("save session", err)
	}

	feedback := i18n.T(next.Language, "correct_answer")
	if !rec.WasCorrect {
		feedback = i18n.T(next.Language, "wrong_answer", string(rec.Correct))
	}
	if _, err := Present(ctx, s.messenger, to, feedback, nil); err != nil {
		s.restore(ctx, session)
		return fmt.Errorf("send feedback: %w", err)
	}
	if err := s.pause(ctx); err != nil {
		s.restore(ctx, session)
		return err
	}
	if _, err := Present(ctx, s.messenger, to.Fresh(), questionText(next), questionKeyboard(next.Language)); err != nil {
		s.restore(ctx, session)
		return fmt.Errorf("send question: %w", err)
	}
	return nil
}

// finish removes the session before awarding points, so a finished quiz can never be scored twice.
// If the award fails, before is put back and the last answer can be resent.
func (s *QuizService) finish(ctx context.Context, before, session QuizSession, to Target) error {
	if err := s.sessions.Remove(ctx, session.UserID); err != nil {
		notice(ctx, s.messenger, s.log, to, "store_unavailable")
		return unavailable("remove finished session", err)
	}
	points := session.CorrectCount * s.cfg.PointsPerAnswer
	user, err := s.users.AddPoints(ctx, session.UserID, points)
	if err != nil {
		s.restore(ctx, before)
		if errors.Is(err, domain.ErrUserNotFound) {
			notice(ctx, s.messenger, s.log, to, "register_first")
			return fmt.Errorf("award points: %w", err)
		}
		notice(ctx, s.messenger, s.log, to, "store_unavailable")
		return unavailable("award points", err)
	}

	s.metrics.QuizFinished(session.Subject, points)
	s.log.Info("quiz finished",
		zap.Int64("user_id", session.UserID),
		zap.String("subject", session.Subject),
		zap.Int("correct", session.CorrectCount),
		zap.Int("total", session.Total()),
		zap.Int("points", points),
		zap.Int("level", user.Level),
	)

	text := i18n.T(session.Language, "test_result", session.CorrectCount, session.Total(), session.Percent(), points)
	if _, err := Present(ctx, s.messenger, to, text, MainMenuKeyboard(session.Language)); err != nil {
		return fmt.Errorf("send result: %w", err)
	}
	return nil
}

// AbandonQuiz drops the user's session without awarding anything.
func (s *QuizService) AbandonQuiz(ctx context.Context, userID int64, to Target) error {
	_, ok, err := s.sessions.Get(ctx, userID)
	if err != nil {
		notice(ctx, s.messenger, s.log, to, "store_unavailable")
		return unavailable("load session", err)
	}
	if !ok {
		_, _ = Present(ctx, s.messenger, to, i18n.T(to.Language, "session_expired"), nil)
		return domain.ErrSessionExpired
	}
	if err := s.sessions.Remove(ctx, userID); err != nil {
		notice(ctx, s.messenger, s.log, to, "store_unavailable")
		return unavailable("remove session", err)
	}
	s.metrics.QuizAbandoned()
	s.log.Info("quiz abandoned", zap.Int64("user_id", userID))

	_, err = Present(ctx, s.messenger, to, i18n.T(to.Language, "quiz_interrupted"), MainMenuKeyboard(to.Language))
	return err
}

// ActiveSession returns the user's in-progress session, if any.
func (s *QuizService) ActiveSession(ctx context.Context, userID int64) (QuizSession, bool, error) {
	session, ok, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return QuizSession{}, false, unavailable("load session", err)
	}
	return session, ok, nil
}

// restore puts session back after a failed step. It runs even if ctx was cancelled.
func (s *QuizService) restore(ctx context.Context, session QuizSession) {
	if err := s.sessions.Put(context.WithoutCancel(ctx), session.UserID, session); err != nil {
		s.log.Error("restore session", zap.Int64("user_id", session.UserID), zap.Error(err))
	}
}

func (s *QuizService) discard(ctx context.Context, userID int64) {
	if err := s.sessions.Remove(context.WithoutCancel(ctx), userID); err != nil {
		s.log.Error("discard undelivered session", zap.Int64("user_id", userID), zap.Error(err))
	}
}

func (s *QuizService) pause(ctx context.Context) error {
	if s.cfg.FeedbackPause <= 0 {
		return nil
	}
	timer := time.NewTimer(s.cfg.FeedbackPause)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
