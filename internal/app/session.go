package app

import (
	"time"

	"ent-bot/internal/domain"
)

// AnswerRecord is one line of a session's answer log.
type AnswerRecord struct {
	QuestionID int64         `json:"question_id"`
	Chosen     domain.Choice `json:"chosen"`
	Correct    domain.Choice `json:"correct_answer"`
	WasCorrect bool          `json:"was_correct"`
}

// QuizSession is one user's pass through a fixed list of questions.
// Invariant: 0 <= CorrectCount <= CurrentIndex <= len(Questions).
type QuizSession struct {
	UserID       int64             `json:"user_id"`
	Subject      string            `json:"subject"`
	Language     string            `json:"language"`
	Questions    []domain.Question `json:"questions"`
	CurrentIndex int               `json:"current_index"`
	CorrectCount int               `json:"correct_count"`
	Answers      []AnswerRecord    `json:"answers"`
	StartedAt    time.Time         `json:"started_at"`
}

func newQuizSession(userID int64, subject, language string, questions []domain.Question, now time.Time) QuizSession {
	return QuizSession{
		UserID:    userID,
		Subject:   subject,
		Language:  language,
		Questions: questions,
		Answers:   []AnswerRecord{},
		StartedAt: now,
	}
}

func (s QuizSession) Total() int { return len(s.Questions) }

// Finished reports whether every question has been answered.
func (s QuizSession) Finished() bool { return s.CurrentIndex >= len(s.Questions) }

// Current returns the question awaiting an answer.
func (s QuizSession) Current() (domain.Question, bool) {
	if s.Finished() {
		return domain.Question{}, false
	}
	return s.Questions[s.CurrentIndex], true
}

// Percent is the share of correct answers, truncated toward zero.
func (s QuizSession) Percent() int {
	if len(s.Questions) == 0 {
		return 0
	}
	return s.CorrectCount * 100 / len(s.Questions)
}

// apply scores choice against the current question and returns the advanced copy.
// The receiver is left untouched, so a failed save keeps the previous state.
func (s QuizSession) apply(choice domain.Choice) (QuizSession, AnswerRecord) {
	q, ok := s.Current()
	if !ok {
		return s, AnswerRecord{}
	}
	rec := AnswerRecord{
		QuestionID: q.ID,
		Chosen:     choice,
		Correct:    q.CorrectAnswer,
		WasCorrect: choice == q.CorrectAnswer,
	}

	next := s
	next.Answers = make([]AnswerRecord, len(s.Answers), len(s.Answers)+1)
	copy(next.Answers, s.Answers)
	next.Answers = append(next.Answers, rec)
	if rec.WasCorrect {
		next.CorrectCount++
	}
	next.CurrentIndex++
	return next, rec
}
