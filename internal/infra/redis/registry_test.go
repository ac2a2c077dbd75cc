package redis

import (
	"context"
	"testing"
	"time"

	"ent-bot/internal/app"
	"ent-bot/internal/domain"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRegistryRoundTripsQuizSession(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	reg := NewRegistry[app.QuizSession](newClient(mr), QuizSessionPrefix, time.Hour)

	session := app.QuizSession{
		UserID:       42,
		Subject:      "physics",
		Language:     "kz",
		Questions:    []domain.Question{{ID: 5, Subject: "physics", CorrectAnswer: domain.ChoiceA}},
		CurrentIndex: 1,
		CorrectCount: 1,
		Answers:      []app.AnswerRecord{{QuestionID: 5, Chosen: domain.ChoiceA, Correct: domain.ChoiceA, WasCorrect: true}},
	}
	if err := reg.Put(ctx, 42, session); err != nil {
		t.Fatalf("put: %v", err)
	}
	if !mr.Exists("ent:quiz:session:42") {
		t.Fatalf("expected redis key to be set")
	}

	got, ok, err := reg.Get(ctx, 42)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.CurrentIndex != 1 || got.CorrectCount != 1 || len(got.Answers) != 1 || got.Questions[0].ID != 5 {
		t.Fatalf("unexpected session %+v", got)
	}

	if err := reg.Remove(ctx, 42); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if mr.Exists("ent:quiz:session:42") {
		t.Fatalf("expected redis key to be removed")
	}
	if _, ok, _ := reg.Get(ctx, 42); ok {
		t.Fatalf("expected session gone")
	}
}

func TestRegistryExpires(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	reg := NewRegistry[app.Wizard](newClient(mr), ScheduleWizardPrefix, time.Minute)
	_ = reg.Put(ctx, 7, app.Wizard{Stage: app.AwaitingTopic})

	mr.FastForward(2 * time.Minute)
	if _, ok, _ := reg.Get(ctx, 7); ok {
		t.Fatalf("expected wizard expired")
	}
}

func TestRegistrySurfacesConnectionErrors(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	client := newClient(mr)
	mr.Close()

	reg := NewRegistry[app.Wizard](client, ScheduleWizardPrefix, time.Minute)
	if _, _, err := reg.Get(context.Background(), 1); err == nil {
		t.Fatalf("expected error from closed server")
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
