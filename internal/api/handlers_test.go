package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/storelens/matcher/internal/catalog"
	"github.com/storelens/matcher/internal/domain"
	"github.com/storelens/matcher/internal/matching"
	"github.com/storelens/matcher/internal/processor"
	"github.com/storelens/matcher/internal/quality"
)

// mockLogger implements Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (m *mockLogger) Info(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Warn(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {}

func intPtr(v int) *int { return &v }

// setupTestHandler creates a handler over an in-memory snapshot with
// persistence and telemetry disabled.
func setupTestHandler(entries []domain.CatalogEntry) *Handler {
	logger := &mockLogger{}
	indexConfig := catalog.IndexConfig{}
	snap := catalog.NewSnapshot(entries, indexConfig, logger)

	gate := quality.NewGate(logger)
	engine := matching.NewEngine(logger, matching.Config{})
	sweeper := processor.NewSweeper(2, nil, nil, logger)

	return NewHandler(gate, engine, sweeper, nil, nil, nil, logger, "daiso", indexConfig, snap)
}

func setupTestRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", h.HealthCheck)
	router.GET("/ready", h.ReadyCheck)
	router.POST("/api/v1/validate", h.Validate)
	router.POST("/api/v1/match", h.Match)
	router.POST("/api/v1/match/batch", h.MatchBatch)
	router.POST("/api/v1/videos/sweep", h.SweepVideos)
	return router
}

func testCatalog() []domain.CatalogEntry {
	return []domain.CatalogEntry{
		{Code: "100001", Name: "스테인레스 배수구망", Price: 2000, Category: "주방용품"},
		{Code: "100002", Name: "실리콘 수세미", Price: 1000, Category: "주방용품"},
	}
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandler_Validate(t *testing.T) {
	router := setupTestRouter(setupTestHandler(testCatalog()))

	transcript := strings.Repeat("일상 이야기 ", 50) + "추천 제품 2,000원 다이소"
	w := postJSON(t, router, "/api/v1/validate", ValidateRequest{Transcript: transcript})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var report quality.Report
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !report.IsValid {
		t.Errorf("expected valid transcript, rejected with %q", report.RejectionReason)
	}
	if report.QualityScore <= 0 {
		t.Errorf("expected positive quality score, got %f", report.QualityScore)
	}
}

func TestHandler_Validate_MissingTranscript(t *testing.T) {
	router := setupTestRouter(setupTestHandler(testCatalog()))

	w := postJSON(t, router, "/api/v1/validate", map[string]string{"store": "daiso"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing transcript, got %d", w.Code)
	}
}

func TestHandler_Match(t *testing.T) {
	router := setupTestRouter(setupTestHandler(testCatalog()))

	w := postJSON(t, router, "/api/v1/match", MatchRequest{
		Mention: domain.Mention{
			VideoID: "vid-1",
			RawName: "스텐 배수구망",
			Price:   intPtr(2000),
		},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp MatchResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !resp.Outcome.Accepted {
		t.Fatalf("expected match, rejected with %q", resp.Outcome.Reason)
	}
	if resp.Outcome.Result.CatalogCode != "100001" {
		t.Errorf("expected code 100001, got %s", resp.Outcome.Result.CatalogCode)
	}
}

func TestHandler_Match_Rejection(t *testing.T) {
	router := setupTestRouter(setupTestHandler(testCatalog()))

	w := postJSON(t, router, "/api/v1/match", MatchRequest{
		Mention: domain.Mention{VideoID: "vid-1", RawName: "노트북 충전기"},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp MatchResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Outcome.Accepted {
		t.Error("expected rejection")
	}
	if resp.Outcome.Reason == "" {
		t.Error("expected rejection reason")
	}
}

func TestHandler_MatchBatch(t *testing.T) {
	router := setupTestRouter(setupTestHandler(testCatalog()))

	w := postJSON(t, router, "/api/v1/match/batch", BatchMatchRequest{
		Mentions: []domain.Mention{
			{VideoID: "vid-1", RawName: "실리콘 수세미", Price: intPtr(1000)},
			{VideoID: "vid-1", RawName: "노트북 충전기"},
		},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp BatchMatchResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("expected 2 results, got %d", resp.Total)
	}
	if resp.Accepted != 1 {
		t.Errorf("expected 1 accepted, got %d", resp.Accepted)
	}
}

func TestHandler_MatchBatch_EmptyRejected(t *testing.T) {
	router := setupTestRouter(setupTestHandler(testCatalog()))

	w := postJSON(t, router, "/api/v1/match/batch", map[string]interface{}{
		"mentions": []domain.Mention{},
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty batch, got %d", w.Code)
	}
}

func TestHandler_SweepVideos(t *testing.T) {
	router := setupTestRouter(setupTestHandler(testCatalog()))

	w := postJSON(t, router, "/api/v1/videos/sweep", SweepRequest{
		Videos: []domain.VideoText{
			{
				VideoID:    "vid-1",
				Title:      "다이소 배수구망 꿀템",
				Transcript: "배수구망 후기 입니다",
			},
			{
				VideoID:    "vid-2",
				Title:      "정리 영상",
				Transcript: "이미 처리된 영상",
				HasMatches: true,
			},
		},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp SweepResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("expected 2 results, got %d", resp.Total)
	}
	if resp.Skipped != 1 {
		t.Errorf("expected 1 skipped, got %d", resp.Skipped)
	}
	if len(resp.Results[0].Matches) != 1 || resp.Results[0].Matches[0].Entry.Code != "100001" {
		t.Errorf("expected vid-1 to match 100001, got %+v", resp.Results[0].Matches)
	}
}

func TestHandler_HealthAndReady(t *testing.T) {
	h := setupTestHandler(testCatalog())
	router := setupTestRouter(h)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 from /health, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 from /ready, got %d", w.Code)
	}

	empty := setupTestRouter(setupTestHandler(nil))
	w = httptest.NewRecorder()
	empty.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 from /ready with empty catalog, got %d", w.Code)
	}
}
