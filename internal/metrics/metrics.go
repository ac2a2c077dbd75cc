package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the bot counters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	QuizzesStarted    *prometheus.CounterVec
	QuizzesFinished   *prometheus.CounterVec
	QuizzesAbandoned  prometheus.Counter
	Answers           *prometheus.CounterVec
	PointsAwarded     prometheus.Counter
	ScheduleCommitted prometheus.Counter
	Broadcasts        *prometheus.CounterVec
	Updates           *prometheus.CounterVec
	RequestCounter    *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		QuizzesStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ent_quizzes_started_total",
			Help: "Quizzes started, by subject",
		}, []string{"subject"}),
		QuizzesFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ent_quizzes_finished_total",
			Help: "Quizzes finished, by subject",
		}, []string{"subject"}),
		QuizzesAbandoned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ent_quizzes_abandoned_total",
			Help: "Quizzes exited before the last question",
		}),
		Answers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ent_answers_total",
			Help: "Submitted answers, by correctness",
		}, []string{"correct"}),
		PointsAwarded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ent_points_awarded_total",
			Help: "Points credited to users",
		}),
		ScheduleCommitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ent_schedule_entries_committed_total",
			Help: "Schedule entries created through the admin wizard",
		}),
		Broadcasts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ent_broadcast_deliveries_total",
			Help: "Broadcast deliveries, by outcome",
		}, []string{"outcome"}),
		Updates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ent_telegram_updates_total",
			Help: "Telegram updates handled, by kind",
		}, []string{"kind"}),
		RequestCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "endpoint", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		}, []string{"method", "endpoint"}),
	}
	reg.MustRegister(
		m.QuizzesStarted, m.QuizzesFinished, m.QuizzesAbandoned, m.Answers, m.PointsAwarded,
		m.ScheduleCommitted, m.Broadcasts, m.Updates, m.RequestCounter, m.RequestDuration,
	)
	return m
}

func (m *Metrics) QuizStarted(subject string) {
	if m == nil {
		return
	}
	m.QuizzesStarted.WithLabelValues(subject).Inc()
}

func (m *Metrics) QuizFinished(subject string, points int) {
	if m == nil {
		return
	}
	m.QuizzesFinished.WithLabelValues(subject).Inc()
	m.PointsAwarded.Add(float64(points))
}

func (m *Metrics) QuizAbandoned() {
	if m == nil {
		return
	}
	m.QuizzesAbandoned.Inc()
}

func (m *Metrics) Answer(correct bool) {
	if m == nil {
		return
	}
	m.Answers.WithLabelValues(strconv.FormatBool(correct)).Inc()
}

func (m *Metrics) EntryCommitted() {
	if m == nil {
		return
	}
	m.ScheduleCommitted.Inc()
}

func (m *Metrics) Delivery(ok bool) {
	if m == nil {
		return
	}
	outcome := "success"
	if !ok {
		outcome = "error"
	}
	m.Broadcasts.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Update(kind string) {
	if m == nil {
		return
	}
	m.Updates.WithLabelValues(kind).Inc()
}

// ObserveRequest records one HTTP request against its route pattern.
func (m *Metrics) ObserveRequest(method, route string, status int, took time.Duration) {
	if m == nil {
		return
	}
	m.RequestCounter.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(took.Seconds())
}

// Handler exposes the collectors registered on g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
