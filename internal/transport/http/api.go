package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"ent-bot/internal/app"
	"ent-bot/internal/domain"
	"ent-bot/internal/i18n"
	"ent-bot/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// AdminHeader carries the Telegram id of the caller for admin endpoints.
const AdminHeader = "X-Telegram-User-Id"

type RouterConfig struct {
	Users     *app.UserService
	Schedule  *app.ScheduleService
	Questions app.QuestionBank
	Auth      app.Authorizer
	WS        *WSHandler
	Gatherer  prometheus.Gatherer
	Log       *zap.Logger
	Metrics   *metrics.Metrics
}

type apiHandler struct {
	users     *app.UserService
	schedule  *app.ScheduleService
	questions app.QuestionBank
	auth      app.Authorizer
	log       *zap.Logger
}

// NewRouter serves the web app: REST endpoints, the quiz websocket, health and metrics.
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}
	h := &apiHandler{
		users:     cfg.Users,
		schedule:  cfg.Schedule,
		questions: cfg.Questions,
		auth:      cfg.Auth,
		log:       cfg.Log,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(instrument(cfg.Log, cfg.Metrics))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	if cfg.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(cfg.Gatherer))
	}
	if cfg.WS != nil {
		r.Get("/ws", cfg.WS.ServeWS)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/leaderboard", h.leaderboard)
		r.Get("/users/{id}", h.user)
		r.Get("/tests/{subject}", h.tests)
		r.Get("/materials/{subject}", h.materials)
		r.Get("/schedule", h.listSchedule)
		r.Group(func(r chi.Router) {
			r.Use(h.adminOnly)
			r.Post("/schedule", h.createSchedule)
			r.Delete("/schedule/{id}", h.deleteSchedule)
		})
	})
	return r
}

// instrument logs each request and records it in the request metrics under its route pattern.
func instrument(log *zap.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			took := time.Since(start)
			m.ObserveRequest(r.Method, route, status, took)
			log.Debug("http request",
				zap.String("method", r.Method),
				zap.String("route", route),
				zap.Int("status", status),
				zap.Duration("took", took),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}

type adminKey struct{}

func (h *apiHandler) adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.Header.Get(AdminHeader), 10, 64)
		if err != nil || !h.auth.IsAdmin(id) {
			writeError(w, domain.ErrUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), adminKey{}, id)))
	})
}

func adminFrom(ctx context.Context) int64 {
	id, _ := ctx.Value(adminKey{}).(int64)
	return id
}

func (h *apiHandler) leaderboard(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	top, err := h.users.Leaderboard(r.Context(), limit)
	if err != nil {
		h.fail(w, "leaderboard", err)
		return
	}
	writeJSON(w, http.StatusOK, top)
}

func (h *apiHandler) user(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	u, err := h.users.Profile(r.Context(), id)
	if err != nil {
		h.fail(w, "profile", err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// questionView hides the answer key from web clients.
type questionView struct {
	ID      int64             `json:"id"`
	Text    string            `json:"question_text"`
	Options map[string]string `json:"options"`
}

func (h *apiHandler) tests(w http.ResponseWriter, r *http.Request) {
	subject := chi.URLParam(r, "subject")
	lang := i18n.Normalize(r.URL.Query().Get("language"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 10
	}
	questions, err := h.questions.FetchQuestions(r.Context(), subject, lang, limit)
	if err != nil {
		h.fail(w, "fetch questions", fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err))
		return
	}
	views := make([]questionView, 0, len(questions))
	for _, q := range questions {
		opts := make(map[string]string, len(domain.Choices))
		for _, c := range domain.Choices {
			opts[string(c)] = q.Option(c)
		}
		views = append(views, questionView{ID: q.ID, Text: q.Text, Options: opts})
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *apiHandler) materials(w http.ResponseWriter, r *http.Request) {
	list, err := h.users.Materials(r.Context(), chi.URLParam(r, "subject"), r.URL.Query().Get("language"))
	if err != nil {
		h.fail(w, "materials", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *apiHandler) listSchedule(w http.ResponseWriter, r *http.Request) {
	entries, err := h.schedule.ListSchedule(r.Context())
	if err != nil {
		h.fail(w, "list schedule", err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *apiHandler) createSchedule(w http.ResponseWriter, r *http.Request) {
	var entry domain.ScheduleEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	created, err := h.schedule.CreateEntry(r.Context(), adminFrom(r.Context()), entry)
	if err != nil {
		h.fail(w, "create schedule entry", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *apiHandler) deleteSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	if err := h.schedule.DeleteScheduleEntry(r.Context(), adminFrom(r.Context()), id); err != nil {
		h.fail(w, "delete schedule entry", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *apiHandler) fail(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, domain.ErrStoreUnavailable) {
		h.log.Error(op, zap.Error(err))
	}
	writeError(w, err)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrScheduleNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrRequiredField):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrStoreUnavailable):
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, errorPayload{Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
