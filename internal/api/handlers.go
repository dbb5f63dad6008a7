// Package api exposes the matching core over HTTP for the scraping and
// extraction collaborators.
package api

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/storelens/matcher/internal/catalog"
	"github.com/storelens/matcher/internal/database"
	"github.com/storelens/matcher/internal/domain"
	"github.com/storelens/matcher/internal/matching"
	"github.com/storelens/matcher/internal/processor"
	"github.com/storelens/matcher/internal/quality"
	"github.com/storelens/matcher/internal/telemetry"
)

// Logger defines the logging interface.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// Handler handles HTTP requests for the matcher API. It owns the active
// catalog snapshot and swaps it atomically on reload, so in-flight matches
// always finish against the snapshot they started with.
type Handler struct {
	gate        *quality.Gate
	engine      *matching.Engine
	sweeper     *processor.Sweeper
	catalogRepo *database.CatalogRepository
	matchRepo   *database.MatchRepository
	telemetry   *telemetry.Provider
	logger      Logger

	store       string
	indexConfig catalog.IndexConfig

	mu   sync.RWMutex
	snap *catalog.Snapshot
}

// NewHandler creates a new API handler with an initial snapshot.
func NewHandler(
	gate *quality.Gate,
	engine *matching.Engine,
	sweeper *processor.Sweeper,
	catalogRepo *database.CatalogRepository,
	matchRepo *database.MatchRepository,
	tp *telemetry.Provider,
	logger Logger,
	store string,
	indexConfig catalog.IndexConfig,
	snap *catalog.Snapshot,
) *Handler {
	return &Handler{
		gate:        gate,
		engine:      engine,
		sweeper:     sweeper,
		catalogRepo: catalogRepo,
		matchRepo:   matchRepo,
		telemetry:   tp,
		logger:      logger,
		store:       store,
		indexConfig: indexConfig,
		snap:        snap,
	}
}

func (h *Handler) snapshot() *catalog.Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snap
}

// ValidateRequest is a transcript validation request.
type ValidateRequest struct {
	Transcript string `json:"transcript" binding:"required"`
	Store      string `json:"store"`
}

// Validate handles POST /api/v1/validate.
func (h *Handler) Validate(c *gin.Context) {
	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	store := req.Store
	if store == "" {
		store = h.store
	}
	report := h.gate.Validate(req.Transcript, store)

	if h.telemetry != nil {
		h.telemetry.RecordValidation(c.Request.Context(), validationVerdict(report), report.QualityScore, report.StoreMismatchWarning)
	}
	c.JSON(http.StatusOK, report)
}

// MatchRequest is a single-mention match request.
type MatchRequest struct {
	Mention domain.Mention `json:"mention" binding:"required"`
	Persist bool           `json:"persist"`
}

// MatchResponse wraps a match outcome.
type MatchResponse struct {
	Outcome domain.Outcome `json:"outcome"`
}

// Match handles POST /api/v1/match.
func (h *Handler) Match(c *gin.Context) {
	var req MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, span := h.startMatchSpan(c.Request.Context(), req.Mention)
	defer span()

	start := time.Now()
	outcome := h.engine.Match(req.Mention, h.snapshot())

	if h.telemetry != nil {
		confidence, needsReview := 0.0, false
		if outcome.Accepted {
			confidence = outcome.Result.Confidence
			needsReview = outcome.Result.NeedsManualReview
		}
		h.telemetry.RecordMatch(ctx, outcome.Accepted, outcome.Reason, confidence, needsReview, time.Since(start))
	}

	if req.Persist {
		if err := h.matchRepo.SaveOutcome(ctx, req.Mention.VideoID, req.Mention.RawName, outcome); err != nil {
			h.logger.Error("persist outcome failed",
				"video_id", req.Mention.VideoID,
				"mention", req.Mention.RawName,
				"error", err,
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, MatchResponse{Outcome: outcome})
}

// BatchMatchRequest is a mention batch request.
type BatchMatchRequest struct {
	Mentions []domain.Mention `json:"mentions" binding:"required,min=1,max=500"`
	Persist  bool             `json:"persist"`
}

// BatchMatchResponse summarizes a mention batch.
type BatchMatchResponse struct {
	Results  []processor.MentionResult `json:"results"`
	Total    int                       `json:"total"`
	Accepted int                       `json:"accepted"`
}

// MatchBatch handles POST /api/v1/match/batch.
func (h *Handler) MatchBatch(c *gin.Context) {
	var req BatchMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snap := h.snapshot()
	dedup := matching.NewDeduplicator(h.engine)
	results, err := h.sweeper.MatchMentions(c.Request.Context(), req.Mentions, dedup, snap)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	accepted := 0
	for i := range results {
		if results[i].Outcome.Accepted {
			accepted++
		}
		if req.Persist {
			m := results[i].Mention
			if err := h.matchRepo.SaveOutcome(c.Request.Context(), m.VideoID, m.RawName, results[i].Outcome); err != nil {
				h.logger.Error("persist outcome failed", "video_id", m.VideoID, "mention", m.RawName, "error", err)
			}
		}
	}

	c.JSON(http.StatusOK, BatchMatchResponse{
		Results:  results,
		Total:    len(results),
		Accepted: accepted,
	})
}

// SweepRequest is a bulk video sweep request.
type SweepRequest struct {
	Videos  []domain.VideoText `json:"videos" binding:"required,min=1,max=200"`
	Persist bool               `json:"persist"`
}

// SweepResponse summarizes a sweep run.
type SweepResponse struct {
	Results []processor.VideoResult `json:"results"`
	Total   int                     `json:"total"`
	Skipped int                     `json:"skipped"`
}

// SweepVideos handles POST /api/v1/videos/sweep.
func (h *Handler) SweepVideos(c *gin.Context) {
	var req SweepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results, err := h.sweeper.SweepVideos(c.Request.Context(), req.Videos, h.snapshot())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	skipped := 0
	for i := range results {
		if results[i].Skipped {
			skipped++
			continue
		}
		if req.Persist && len(results[i].Matches) > 0 {
			if err := h.matchRepo.SaveVideoMatches(c.Request.Context(), results[i].VideoID, results[i].Matches); err != nil {
				h.logger.Error("persist sweep matches failed", "video_id", results[i].VideoID, "error", err)
			}
		}
	}

	c.JSON(http.StatusOK, SweepResponse{
		Results: results,
		Total:   len(results),
		Skipped: skipped,
	})
}

// ReloadCatalog handles POST /api/v1/catalog/reload. It loads a fresh
// snapshot from the database and swaps it in atomically.
func (h *Handler) ReloadCatalog(c *gin.Context) {
	entries, err := h.catalogRepo.LoadSnapshot(c.Request.Context(), h.store)
	if err != nil {
		h.logger.Error("catalog reload failed", "store", h.store, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	snap := catalog.NewSnapshot(entries, h.indexConfig, h.logger)

	h.mu.Lock()
	h.snap = snap
	h.mu.Unlock()

	if h.telemetry != nil {
		h.telemetry.RecordIndexBuild(snap.Index().EntryCount(), snap.Index().KeywordCount())
	}
	h.logger.Info("catalog reloaded",
		"store", h.store,
		"entries", snap.Len(),
		"indexed", snap.Index().EntryCount(),
	)
	c.JSON(http.StatusOK, gin.H{
		"entries": snap.Len(),
		"indexed": snap.Index().EntryCount(),
	})
}

// CatalogStats handles GET /api/v1/catalog/stats.
func (h *Handler) CatalogStats(c *gin.Context) {
	snap := h.snapshot()
	pending, err := h.matchRepo.PendingReviewCount(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"store":          h.store,
		"entries":        snap.Len(),
		"indexed":        snap.Index().EntryCount(),
		"keywords":       snap.Index().KeywordCount(),
		"pending_review": pending,
	})
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ReadyCheck handles GET /ready. The service is ready once a snapshot with
// at least one indexed entry is loaded.
func (h *Handler) ReadyCheck(c *gin.Context) {
	if h.snapshot().Index().EntryCount() == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "no catalog loaded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func (h *Handler) startMatchSpan(ctx context.Context, m domain.Mention) (context.Context, func()) {
	if h.telemetry == nil {
		return ctx, func() {}
	}
	ctx, span := h.telemetry.StartMatchSpan(ctx, m.VideoID, m.RawName)
	return ctx, func() { span.End() }
}

func validationVerdict(report *quality.Report) string {
	if report.IsValid {
		return "accepted"
	}
	switch {
	case report.RejectionReason == quality.ReasonEmpty:
		return "rejected_empty"
	case report.RejectionReason == quality.ReasonNoSignal:
		return "rejected_no_signal"
	case strings.HasPrefix(report.RejectionReason, quality.ReasonTooShortPrefix):
		return "rejected_short"
	default:
		return "rejected"
	}
}
