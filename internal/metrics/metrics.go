package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry - отдельный реестр приложения
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "crm",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crm",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "crm",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "route"},
	)

	tasksCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "crm",
			Subsystem: "tasks",
			Name:      "created_total",
			Help:      "Total number of created tasks.",
		},
	)

	statusTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crm",
			Subsystem: "tasks",
			Name:      "status_transitions_total",
			Help:      "Total number of task status changes by target status.",
		},
		[]string{"status"},
	)

	timeEntries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crm",
			Subsystem: "time_entries",
			Name:      "events_total",
			Help:      "Time tracking starts and stops.",
		},
		[]string{"event"},
	)

	appointmentsCaptured = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crm",
			Subsystem: "appointments",
			Name:      "captured_total",
			Help:      "Captured scheduler events by destination collection.",
		},
		[]string{"collection"},
	)

	settingsRefreshes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crm",
			Subsystem: "settings",
			Name:      "refreshes_total",
			Help:      "Task settings snapshot refreshes.",
		},
		[]string{"success"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		tasksCreated,
		statusTransitions,
		timeEntries,
		appointmentsCaptured,
		settingsRefreshes,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func InFlightInc() { httpInFlight.Inc() }
func InFlightDec() { httpInFlight.Dec() }

func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func TaskCreated() {
	tasksCreated.Inc()
}

func StatusTransition(status string) {
	statusTransitions.WithLabelValues(status).Inc()
}

func TimeEntryStarted() {
	timeEntries.WithLabelValues("start").Inc()
}

func TimeEntryStopped() {
	timeEntries.WithLabelValues("stop").Inc()
}

func AppointmentCaptured(collection string) {
	appointmentsCaptured.WithLabelValues(collection).Inc()
}

func SettingsRefreshed(success bool) {
	settingsRefreshes.WithLabelValues(strconv.FormatBool(success)).Inc()
}
