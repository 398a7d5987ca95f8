// Package metrics defines Prometheus collectors for the scan pipeline.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// SourcesProcessedTotal counts processed sources by outcome
	// (ok, acquisition_error, detection_error, invalid_detection, invalid_metadata).
	SourcesProcessedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "inventory",
		Subsystem: "scan",
		Name:      "sources_processed_total",
		Help:      "Total number of image sources processed by the scan pipeline, labeled by result.",
	}, []string{"result"})

	// DetectionsTotal counts raw detections returned by the detector for
	// successfully processed sources.
	DetectionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "inventory",
		Subsystem: "scan",
		Name:      "detections_total",
		Help:      "Total number of raw detections aggregated into reports.",
	})

	// SourceDurationSeconds is the end-to-end time to process one source
	// (acquire + detect + aggregate + build).
	SourceDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "inventory",
		Subsystem: "scan",
		Name:      "source_duration_seconds",
		Help:      "End-to-end time to process a single image source.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
	})
)

// Register registers all collectors with reg, or the default registerer when
// reg is nil. Safe to call more than once.
func Register(reg prometheus.Registerer) {
	once.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		reg.MustRegister(
			SourcesProcessedTotal,
			DetectionsTotal,
			SourceDurationSeconds,
		)
	})
}
