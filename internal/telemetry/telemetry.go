// Package telemetry provides OpenTelemetry instrumentation for the matcher
// service. It exports Prometheus metrics and provides tracing capabilities.
package telemetry

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "matcher"

// Metrics holds all matcher Prometheus metrics.
type Metrics struct {
	// Quality gate metrics
	TranscriptsValidated *prometheus.CounterVec // labeled by verdict: accepted / rejected_short / rejected_no_signal / rejected_empty
	QualityScore         prometheus.Histogram
	StoreMismatches      prometheus.Counter

	// Matching metrics
	MentionsMatched   prometheus.Counter
	MentionsUnmatched *prometheus.CounterVec // labeled by reason
	ManualReviewFlags prometheus.Counter
	MatchDuration     prometheus.Histogram
	MatchConfidence   prometheus.Histogram

	// Bulk path metrics
	VideosSwept      prometheus.Counter
	VideosSkipped    prometheus.Counter
	CandidatesYield  prometheus.Histogram
	IndexEntries     prometheus.Gauge
	IndexKeywords    prometheus.Gauge
	DedupCacheHits   prometheus.Counter
	SweepActiveWorkers prometheus.Gauge
}

// Provider wraps telemetry providers.
type Provider struct {
	Tracer  trace.Tracer
	Metrics *Metrics
}

// NewProvider initializes telemetry with Prometheus metrics.
func NewProvider() *Provider {
	return &Provider{
		Tracer:  otel.Tracer(serviceName),
		Metrics: initMetrics(),
	}
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func (p *Provider) Handler() http.Handler {
	return promhttp.Handler()
}

func initMetrics() *Metrics {
	m := &Metrics{}
	initQualityMetrics(m)
	initMatchingMetrics(m)
	initBulkMetrics(m)
	return m
}

func initQualityMetrics(m *Metrics) {
	m.TranscriptsValidated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "matcher_transcripts_validated_total",
		Help: "Total transcripts validated by the quality gate, by verdict",
	}, []string{"verdict"})

	m.QualityScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "matcher_transcript_quality_score",
		Help:    "Distribution of transcript quality scores",
		Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
	})

	m.StoreMismatches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "matcher_store_mismatch_warnings_total",
		Help: "Transcripts that mention a different store than hinted",
	})
}

func initMatchingMetrics(m *Metrics) {
	m.MentionsMatched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "matcher_mentions_matched_total",
		Help: "Mentions resolved to a catalog entry",
	})

	m.MentionsUnmatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "matcher_mentions_unmatched_total",
		Help: "Mentions that produced no match, by reason",
	}, []string{"reason"})

	m.ManualReviewFlags = promauto.NewCounter(prometheus.CounterOpts{
		Name: "matcher_manual_review_flags_total",
		Help: "Accepted matches flagged for human confirmation",
	})

	m.MatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "matcher_match_duration_seconds",
		Help:    "Time to resolve one mention against a snapshot",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
	})

	m.MatchConfidence = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "matcher_match_confidence",
		Help:    "Distribution of accepted match confidence",
		Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
	})
}

func initBulkMetrics(m *Metrics) {
	m.VideosSwept = promauto.NewCounter(prometheus.CounterOpts{
		Name: "matcher_videos_swept_total",
		Help: "Videos matched against the full catalog",
	})

	m.VideosSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "matcher_videos_skipped_total",
		Help: "Videos skipped because they already had persisted matches",
	})

	m.CandidatesYield = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "matcher_video_candidates",
		Help:    "Catalog candidates yielded per swept video",
		Buckets: []float64{0, 1, 2, 3, 5, 8, 10},
	})

	m.IndexEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "matcher_index_entries",
		Help: "Entries in the active catalog index",
	})

	m.IndexKeywords = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "matcher_index_keywords",
		Help: "Distinct keywords in the active catalog index",
	})

	m.DedupCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "matcher_dedup_cache_hits_total",
		Help: "Mentions short-circuited by the per-batch dedup cache",
	})

	m.SweepActiveWorkers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "matcher_sweep_active_workers",
		Help: "Currently active sweep worker goroutines",
	})
}

// RecordValidation records a quality gate verdict and score.
func (p *Provider) RecordValidation(ctx context.Context, verdict string, score float64, mismatch bool) {
	p.Metrics.TranscriptsValidated.WithLabelValues(verdict).Inc()
	p.Metrics.QualityScore.Observe(score)
	if mismatch {
		p.Metrics.StoreMismatches.Inc()
	}
}

// RecordMatch records the outcome of one mention resolution.
func (p *Provider) RecordMatch(ctx context.Context, accepted bool, reason string, confidence float64, needsReview bool, duration time.Duration) {
	p.Metrics.MatchDuration.Observe(duration.Seconds())
	if !accepted {
		p.Metrics.MentionsUnmatched.WithLabelValues(reason).Inc()
		return
	}
	p.Metrics.MentionsMatched.Inc()
	p.Metrics.MatchConfidence.Observe(confidence)
	if needsReview {
		p.Metrics.ManualReviewFlags.Inc()
	}
}

// StartMatchSpan starts a tracing span for one mention resolution.
func (p *Provider) StartMatchSpan(ctx context.Context, videoID, mention string) (context.Context, trace.Span) {
	return p.Tracer.Start(ctx, "matcher.match",
		trace.WithAttributes(
			attribute.String("video_id", videoID),
			attribute.String("mention", mention),
		),
	)
}

// RecordIndexBuild records the size of a freshly built catalog index.
func (p *Provider) RecordIndexBuild(entries, keywords int) {
	p.Metrics.IndexEntries.Set(float64(entries))
	p.Metrics.IndexKeywords.Set(float64(keywords))
}
