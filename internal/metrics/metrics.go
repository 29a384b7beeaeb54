package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Calculations счетчик запросов расчета
	Calculations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "calculations_total",
			Help: "Общее количество запросов расчета",
		},
		[]string{"endpoint", "status"},
	)

	// CalculationErrors счетчик ошибок расчетов
	CalculationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "calculation_errors_total",
			Help: "Количество ошибок расчетов",
		},
		[]string{"endpoint", "error_type"},
	)

	// PersistenceFailures счетчик ошибок сохранения истории
	PersistenceFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "persistence_failures_total",
			Help: "Ошибки сохранения истории расчетов",
		},
		[]string{"op"},
	)

	// RequestDuration длительность HTTP-запросов
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Длительность обработки HTTP-запросов",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "code"},
	)

	// RetentionPruned счетчик удаленных по сроку хранения записей
	RetentionPruned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "history_pruned_total",
			Help: "Записи истории, удаленные по сроку хранения",
		},
	)
)
