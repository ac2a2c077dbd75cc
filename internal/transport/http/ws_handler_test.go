package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ent-bot/internal/app"
	"ent-bot/internal/domain"
	"ent-bot/internal/infra/memory"
	"github.com/gorilla/websocket"
)

type wsFixture struct {
	server *httptest.Server
	users  *memory.UserStore
	quiz   *app.QuizService
}

func newWSFixture(t *testing.T) *wsFixture {
	t.Helper()
	users := memory.NewUserStore()
	hub := NewHub()
	quiz := app.NewQuizService(
		memory.NewRegistry[app.QuizSession](time.Hour),
		memory.NewQuestionBank(memory.NewStaticLoader(memory.SeedQuestions()), time.Minute),
		users, hub, app.QuizConfig{MaxQuestions: 10, PointsPerAnswer: 10},
	)
	userSvc := app.NewUserService(users, memory.NewMaterialStore(nil))
	wsHandler := NewWSHandler(quiz, userSvc, hub, nil)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return &wsFixture{server: server, users: users, quiz: quiz}
}

func (f *wsFixture) dial(t *testing.T, query string) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/ws?" + query
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

type frame struct {
	Type    string `json:"type"`
	Payload struct {
		MessageID int             `json:"messageId"`
		Text      string          `json:"text"`
		Buttons   domain.Keyboard `json:"buttons"`
		Message   string          `json:"message"`
	} `json:"payload"`
}

func readFrame(t *testing.T, conn *websocket.Conn, expect string) frame {
	t.Helper()
	var msg frame
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if expect != "" && msg.Type != expect {
		t.Fatalf("expected type %s, got %s (%+v)", expect, msg.Type, msg.Payload)
	}
	return msg
}

func TestWebSocketQuizFlow(t *testing.T) {
	f := newWSFixture(t)
	ctx := context.Background()
	if _, err := f.users.Upsert(ctx, domain.User{ID: 42, FirstName: "Aida", Language: "en", Level: 1}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	conn := f.dial(t, "userId=42")

	if err := conn.WriteJSON(map[string]any{"type": "start", "payload": map[string]any{"subject": "physics"}}); err != nil {
		t.Fatalf("write start: %v", err)
	}
	question := readFrame(t, conn, "message")
	if !strings.Contains(question.Payload.Text, "Question 1/1") || len(question.Payload.Buttons) == 0 {
		t.Fatalf("unexpected question frame: %+v", question.Payload)
	}

	session, ok, err := f.quiz.ActiveSession(ctx, 42)
	if err != nil || !ok {
		t.Fatalf("expected active session: ok=%v err=%v", ok, err)
	}
	q, _ := session.Current()
	if err := conn.WriteJSON(map[string]any{"type": "answer", "payload": map[string]any{"choice": string(q.CorrectAnswer)}}); err != nil {
		t.Fatalf("write answer: %v", err)
	}

	result := readFrame(t, conn, "edit")
	if result.Payload.MessageID != question.Payload.MessageID {
		t.Fatalf("result should replace message %d, got %d", question.Payload.MessageID, result.Payload.MessageID)
	}
	if !strings.Contains(result.Payload.Text, "1/1") || !strings.Contains(result.Payload.Text, "+10") {
		t.Fatalf("unexpected result: %q", result.Payload.Text)
	}
	if u, _ := f.users.Get(ctx, 42); u.Points != 10 {
		t.Fatalf("expected 10 points, got %d", u.Points)
	}
}

func TestWebSocketRequiresRegisteredUser(t *testing.T) {
	f := newWSFixture(t)
	conn := f.dial(t, "userId=7")

	msg := readFrame(t, conn, "error")
	if msg.Payload.Message != "register_first" {
		t.Fatalf("expected register_first, got %q", msg.Payload.Message)
	}
}

func TestWebSocketRejectsBadFrames(t *testing.T) {
	f := newWSFixture(t)
	if _, err := f.users.Upsert(context.Background(), domain.User{ID: 42, Language: "ru", Level: 1}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	conn := f.dial(t, "userId=42")

	_ = conn.WriteJSON(map[string]any{"type": "dance"})
	if msg := readFrame(t, conn, "error"); msg.Payload.Message != "unsupported message type" {
		t.Fatalf("unexpected error: %q", msg.Payload.Message)
	}

	_ = conn.WriteJSON(map[string]any{"type": "answer", "payload": map[string]any{"choice": "A"}})
	expired := readFrame(t, conn, "message")
	if !strings.Contains(expired.Payload.Text, "истекла") {
		t.Fatalf("expected expiry notice, got %q", expired.Payload.Text)
	}
	readFrame(t, conn, "error")
}

func TestWebSocketMissingUserID(t *testing.T) {
	f := newWSFixture(t)
	resp, err := http.Get(f.server.URL + "/ws")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestHubWithoutClient(t *testing.T) {
	hub := NewHub()
	if _, err := hub.Send(context.Background(), 1, "hi", nil); err != ErrNotConnected {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
}
