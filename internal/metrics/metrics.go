package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/planbiir/gpxalyzer/internal/analysis"
	"github.com/planbiir/gpxalyzer/internal/track"
)

type Metrics struct {
	SegmentsAnalyzed *prometheus.CounterVec
	PointsAnnotated  prometheus.Counter
	ParseErrors      prometheus.Counter
	RequestSeconds   *prometheus.HistogramVec
	InFlight         prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		SegmentsAnalyzed: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "gpxalyzer_segments_analyzed_total",
			Help: "Total number of analyzed track segments by outcome class.",
		}, []string{"class"}),
		PointsAnnotated: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "gpxalyzer_points_annotated_total",
			Help: "Total number of track points that received a speed value.",
		}),
		ParseErrors: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "gpxalyzer_parse_errors_total",
			Help: "Total number of uploads rejected as malformed GPX.",
		}),
		RequestSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gpxalyzer_request_duration_seconds",
			Help:    "Duration of analysis requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"status"}),
		InFlight: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "gpxalyzer_requests_in_flight",
			Help: "Current number of analysis requests being processed.",
		}),
	}
}

// ObserveResults counts segment outcomes. A successfully annotated segment
// contributes Points-window annotated points.
func (m *Metrics) ObserveResults(window int, results []analysis.Result) {
	for _, res := range results {
		class := track.Classify(res.Err)
		m.SegmentsAnalyzed.WithLabelValues(class.String()).Inc()
		if class == track.ClassNone && res.Points > window {
			m.PointsAnnotated.Add(float64(res.Points - window))
		}
	}
}
