package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	opStatusSuccess = "success"
	opStatusError   = "error"
)

var (
	taskOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskmaster_task_operations_total",
			Help: "Task store operations by outcome.",
		},
		[]string{"operation", "status"},
	)

	authOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskmaster_auth_operations_total",
			Help: "Auth provider operations by outcome.",
		},
		[]string{"operation", "status"},
	)
)

func observe(vec *prometheus.CounterVec, operation string, err error) {
	status := opStatusSuccess
	if err != nil {
		status = opStatusError
	}
	vec.WithLabelValues(operation, status).Inc()
}
