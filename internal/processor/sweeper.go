// Package processor runs the two batch paths over a catalog snapshot: the
// bulk video sweep (whole catalog against each video) and parallel
// resolution of mention batches.
package processor

import (
	"context"
	"sync"
	"time"

	"github.com/storelens/matcher/internal/catalog"
	"github.com/storelens/matcher/internal/domain"
	"github.com/storelens/matcher/internal/matching"
	"github.com/storelens/matcher/internal/telemetry"
)

const defaultConcurrency = 10

// Logger defines the logging interface.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// VideoResult holds the bulk-path candidates for one video.
type VideoResult struct {
	VideoID string
	Matches []catalog.VideoMatch
	Skipped bool
}

// MentionResult pairs a mention with its resolution outcome.
type MentionResult struct {
	Mention domain.Mention
	Outcome domain.Outcome
}

// Sweeper fans batches out over a worker pool. Each job is independent, so
// parallelism is limited only by the configured concurrency and the rate
// limiter.
type Sweeper struct {
	concurrency int
	limiter     *RateLimiter
	telemetry   *telemetry.Provider
	logger      Logger
}

// NewSweeper creates a sweeper. telemetry may be nil.
func NewSweeper(concurrency int, limiter *RateLimiter, tp *telemetry.Provider, logger Logger) *Sweeper {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Sweeper{
		concurrency: concurrency,
		limiter:     limiter,
		telemetry:   tp,
		logger:      logger,
	}
}

// SweepVideos matches every video against the snapshot's catalog index.
// Videos flagged as already having persisted matches are skipped. Results
// are returned in input order.
func (s *Sweeper) SweepVideos(ctx context.Context, videos []domain.VideoText, snap *catalog.Snapshot) ([]VideoResult, error) {
	results := make([]VideoResult, len(videos))
	start := time.Now()

	err := s.run(ctx, len(videos), func(ctx context.Context, i int) error {
		video := videos[i]
		results[i].VideoID = video.VideoID

		if video.HasMatches {
			results[i].Skipped = true
			if s.telemetry != nil {
				s.telemetry.Metrics.VideosSkipped.Inc()
			}
			return nil
		}
		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return err
			}
		}

		combined := video.Title + " " + video.Transcript
		results[i].Matches = snap.Index().MatchVideo(combined, video.Title)

		if s.telemetry != nil {
			s.telemetry.Metrics.VideosSwept.Inc()
			s.telemetry.Metrics.CandidatesYield.Observe(float64(len(results[i].Matches)))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("video sweep complete",
			"videos", len(videos),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
	return results, nil
}

// MatchMentions resolves a batch of mentions through a shared deduplicator,
// so identical (video, mention) pairs inside the batch short-circuit.
// Results are returned in input order.
func (s *Sweeper) MatchMentions(ctx context.Context, mentions []domain.Mention, dedup *matching.Deduplicator, snap *catalog.Snapshot) ([]MentionResult, error) {
	results := make([]MentionResult, len(mentions))
	start := time.Now()

	err := s.run(ctx, len(mentions), func(ctx context.Context, i int) error {
		m := mentions[i]
		matchStart := time.Now()

		outcome := dedup.Match(m, snap)

		results[i] = MentionResult{Mention: m, Outcome: outcome}
		if s.telemetry != nil {
			reason := outcome.Reason
			confidence := 0.0
			needsReview := false
			if outcome.Accepted {
				confidence = outcome.Result.Confidence
				needsReview = outcome.Result.NeedsManualReview
			}
			s.telemetry.RecordMatch(ctx, outcome.Accepted, reason, confidence, needsReview, time.Since(matchStart))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	accepted := 0
	for i := range results {
		if results[i].Outcome.Accepted {
			accepted++
		}
	}
	if s.telemetry != nil {
		if hits := len(mentions) - dedup.Size(); hits > 0 {
			s.telemetry.Metrics.DedupCacheHits.Add(float64(hits))
		}
	}
	if s.logger != nil {
		s.logger.Info("mention batch complete",
			"mentions", len(mentions),
			"accepted", accepted,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
	return results, nil
}

// run executes n jobs on the worker pool, stopping at the first error or
// context cancellation.
func (s *Sweeper) run(ctx context.Context, n int, job func(ctx context.Context, i int) error) error {
	if n == 0 {
		return nil
	}

	jobs := make(chan int, n)
	errs := make(chan error, n)

	var wg sync.WaitGroup
	for w := 0; w < s.concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.telemetry != nil {
				s.telemetry.Metrics.SweepActiveWorkers.Inc()
				defer s.telemetry.Metrics.SweepActiveWorkers.Dec()
			}
			for i := range jobs {
				select {
				case <-ctx.Done():
					errs <- ctx.Err()
					return
				default:
				}
				if err := job(ctx, i); err != nil {
					errs <- err
					return
				}
			}
		}()
	}

	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
