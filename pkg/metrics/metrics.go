package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор Prometheus метрик сервиса
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueriesTotal  *prometheus.CounterVec
	dbQueryDuration *prometheus.HistogramVec
	dbPoolOpen      *prometheus.GaugeVec
	dbPoolInUse     *prometheus.GaugeVec
	dbPoolIdle      *prometheus.GaugeVec

	remindersScheduled    *prometheus.CounterVec
	remindersCancelled    *prometheus.CounterVec
	remindersSent         *prometheus.CounterVec
	remindersFailed       *prometheus.CounterVec
	dispatchCycleDuration *prometheus.HistogramVec
}

// New создает и регистрирует метрики сервиса
func New(serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		httpRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),

		httpRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		dbQueriesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_queries_total",
			Help:        "Total number of database queries",
			ConstLabels: constLabels,
		}, []string{"service", "operation", "status"}),

		dbQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"service", "operation"}),

		dbPoolOpen: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_pool_open_connections",
			Help:        "Number of open connections in the pool",
			ConstLabels: constLabels,
		}, []string{"service"}),

		dbPoolInUse: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_pool_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: constLabels,
		}, []string{"service"}),

		dbPoolIdle: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_pool_idle_connections",
			Help:        "Number of idle connections in the pool",
			ConstLabels: constLabels,
		}, []string{"service"}),

		remindersScheduled: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "reminders_scheduled_total",
			Help:        "Total number of reminders scheduled or rescheduled",
			ConstLabels: constLabels,
		}, []string{"service"}),

		remindersCancelled: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "reminders_cancelled_total",
			Help:        "Total number of reminders removed before dispatch",
			ConstLabels: constLabels,
		}, []string{"service"}),

		remindersSent: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "reminders_sent_total",
			Help:        "Total number of reminder messages delivered",
			ConstLabels: constLabels,
		}, []string{"service"}),

		remindersFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "reminders_failed_total",
			Help:        "Total number of reminder delivery failures",
			ConstLabels: constLabels,
		}, []string{"service"}),

		dispatchCycleDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "reminder_dispatch_cycle_duration_seconds",
			Help:        "Duration of a single reminder dispatch cycle",
			ConstLabels: constLabels,
			Buckets:     []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 30},
		}, []string{"service"}),
	}
}

// ObserveHTTPRequest записывает метрики HTTP запроса
func (m *Metrics) ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveDBQuery записывает метрики запроса к БД
func (m *Metrics) ObserveDBQuery(service, operation string, duration time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.dbQueriesTotal.WithLabelValues(service, operation, status).Inc()
	m.dbQueryDuration.WithLabelValues(service, operation).Observe(duration.Seconds())
}

// SetDBPoolStats записывает состояние connection pool
func (m *Metrics) SetDBPoolStats(service string, open, inUse, idle int) {
	m.dbPoolOpen.WithLabelValues(service).Set(float64(open))
	m.dbPoolInUse.WithLabelValues(service).Set(float64(inUse))
	m.dbPoolIdle.WithLabelValues(service).Set(float64(idle))
}

// IncReminderScheduled увеличивает счётчик запланированных напоминаний
func (m *Metrics) IncReminderScheduled(service string) {
	m.remindersScheduled.WithLabelValues(service).Inc()
}

// IncReminderCancelled увеличивает счётчик снятых напоминаний
func (m *Metrics) IncReminderCancelled(service string) {
	m.remindersCancelled.WithLabelValues(service).Inc()
}

// IncReminderSent увеличивает счётчик доставленных напоминаний
func (m *Metrics) IncReminderSent(service string) {
	m.remindersSent.WithLabelValues(service).Inc()
}

// IncReminderFailed увеличивает счётчик ошибок доставки
func (m *Metrics) IncReminderFailed(service string) {
	m.remindersFailed.WithLabelValues(service).Inc()
}

// ObserveDispatchCycle записывает длительность цикла диспетчера
func (m *Metrics) ObserveDispatchCycle(service string, duration time.Duration) {
	m.dispatchCycleDuration.WithLabelValues(service).Observe(duration.Seconds())
}
