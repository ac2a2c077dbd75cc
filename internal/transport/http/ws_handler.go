package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"ent-bot/internal/app"
	"ent-bot/internal/domain"
	"ent-bot/internal/i18n"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WSHandler lets the web app take quizzes over a websocket.
// The quiz service it drives must render through the same Hub.
type WSHandler struct {
	quiz     *app.QuizService
	users    *app.UserService
	hub      *Hub
	log      *zap.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(quiz *app.QuizService, users *app.UserService, hub *Hub, log *zap.Logger) *WSHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &WSHandler{
		quiz:  quiz,
		users: users,
		hub:   hub,
		log:   log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type startPayload struct {
	Subject string `json:"subject"`
}

type answerPayload struct {
	Choice string `json:"choice"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

func errorFrame(msg string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: msg}}
}

// ServeWS upgrades the request and runs quiz commands for ?userId= until the socket closes.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.URL.Query().Get("userId"), 10, 64)
	if err != nil {
		http.Error(w, "missing or invalid userId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx := r.Context()
	user, err := h.users.Profile(ctx, userID)
	if err != nil {
		msg := "store_unavailable"
		if errors.Is(err, domain.ErrUserNotFound) {
			msg = "register_first"
		}
		_ = conn.WriteJSON(errorFrame(msg))
		return
	}
	lang := i18n.Normalize(user.Language)
	if q := r.URL.Query().Get("lang"); q != "" {
		lang = i18n.Normalize(q)
	}

	c := h.hub.attach(userID)
	defer h.hub.detach(userID, c)

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for {
			select {
			case msg := <-c.send:
				if err := conn.WriteJSON(msg); err != nil {
					h.log.Debug("ws write error", zap.Int64("user_id", userID), zap.Error(err))
					c.stop()
					return
				}
			case <-c.done:
				return
			}
		}
	}()
	h.log.Info("web client connected", zap.Int64("user_id", userID))

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		to := app.Target{ChatID: userID, Language: lang}

		switch inbound.Type {
		case "start":
			var payload startPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.Subject == "" {
				_ = c.push(ctx, errorFrame("invalid start payload"))
				continue
			}
			h.reply(c, "start", userID, h.quiz.StartQuiz(ctx, userID, payload.Subject, to))
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				_ = c.push(ctx, errorFrame("invalid answer payload"))
				continue
			}
			to.MessageID = c.last()
			h.reply(c, "answer", userID, h.quiz.SubmitAnswer(ctx, userID, payload.Choice, to))
		case "exit":
			to.MessageID = c.last()
			h.reply(c, "exit", userID, h.quiz.AbandonQuiz(ctx, userID, to))
		default:
			_ = c.push(ctx, errorFrame("unsupported message type"))
		}
	}

	c.stop()
	<-writerDone
	h.log.Info("web client disconnected", zap.Int64("user_id", userID))
}

// reply surfaces a failed operation as an error frame next to whatever the service rendered.
func (h *WSHandler) reply(c *client, op string, userID int64, err error) {
	if err == nil {
		return
	}
	h.log.Debug("ws "+op+" failed", zap.Int64("user_id", userID), zap.Error(err))
	select {
	case c.send <- errorFrame(err.Error()):
	case <-c.done:
	}
}
