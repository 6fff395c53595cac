package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MetricQuestionCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trilytx",
		Subsystem: "chatbot",
		Name:      "questions_total",
		Help:      "Number of questions answered, by final status",
	}, []string{"status", "follow_up"})

	MetricAttemptCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trilytx",
		Subsystem: "chatbot",
		Name:      "attempts_total",
		Help:      "Number of SQL generation attempts, by outcome",
	}, []string{"outcome"})

	MetricQuestionLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "trilytx",
		Subsystem: "chatbot",
		Name:      "question_duration_seconds",
		Help:      "Time to answer a question, from reception to summary",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 80, 160},
	}, []string{"status"})

	MetricWarehouseBytesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "trilytx",
		Subsystem: "warehouse",
		Name:      "bytes_processed_total",
		Help:      "Bytes processed by warehouse queries issued by the chatbot",
	})
)

// Attempt outcomes
const (
	AttemptOutcomeRows      = "rows"
	AttemptOutcomeZeroRows  = "zero_rows"
	AttemptOutcomeLlmError  = "llm_error"
	AttemptOutcomeQueryFail = "query_error"
	AttemptOutcomeBlocked   = "blocked"
)
