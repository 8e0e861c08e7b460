package manager

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	addTaskCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasktracker_tasks_added_total",
			Help: "Total number of Add operations",
		},
		[]string{"status"},
	)

	removeTaskCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasktracker_tasks_removed_total",
			Help: "Total number of Remove operations",
		},
		[]string{"status"},
	)

	completeTaskCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasktracker_tasks_completed_total",
			Help: "Total number of Complete operations",
		},
		[]string{"status"},
	)

	clearCompletedCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasktracker_completed_cleared_total",
			Help: "Total number of Clear operations on the completed list",
		},
		[]string{"status"},
	)

	sortCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasktracker_tasks_sorted_total",
			Help: "Total number of sort operations",
		},
		[]string{"field", "status"},
	)

	taskDescLength = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tasktracker_task_desc_length_bytes",
			Help:    "Length distribution of task descriptions",
			Buckets: []float64{50, 100, 500, 1000},
		},
	)

	addTaskDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tasktracker_add_task_duration_seconds",
			Help:    "Duration of Add operation in seconds, including persistence",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
