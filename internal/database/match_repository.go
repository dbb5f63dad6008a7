package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/storelens/matcher/internal/catalog"
	"github.com/storelens/matcher/internal/domain"
)

// MatchRepository stores match outcomes per (video, mention) pair. The
// is_approved flag is owned by the human review flow, never set here.
type MatchRepository struct {
	db *sqlx.DB
}

// NewMatchRepository creates a new match repository.
func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// matchRow is the persisted shape of a match outcome.
type matchRow struct {
	VideoID           string  `db:"video_id"`
	MentionName       string  `db:"mention_name"`
	OfficialCode      string  `db:"official_code"`
	OfficialName      string  `db:"official_name"`
	OfficialPrice     int     `db:"official_price"`
	Score             float64 `db:"score"`
	NameScore         float64 `db:"name_score"`
	PriceScore        float64 `db:"price_score"`
	CategoryScore     float64 `db:"category_score"`
	Confidence        float64 `db:"confidence"`
	NeedsManualReview bool    `db:"needs_manual_review"`
	MatchSource       string  `db:"match_source"`
	IsMatched         bool    `db:"is_matched"`
	IsApproved        bool    `db:"is_approved"`
}

// SaveOutcome upserts the outcome for a (video, mention) pair. Rejected
// outcomes are stored too, with is_matched false, so the sweep can skip
// already-processed pairs.
func (r *MatchRepository) SaveOutcome(ctx context.Context, videoID, mentionName string, outcome domain.Outcome) error {
	row := matchRow{
		VideoID:     videoID,
		MentionName: mentionName,
		IsMatched:   outcome.Accepted,
	}
	if outcome.Accepted {
		res := outcome.Result
		row.OfficialCode = res.CatalogCode
		row.OfficialName = res.OfficialName
		row.OfficialPrice = res.OfficialPrice
		row.Score = res.Score
		row.NameScore = res.NameScore
		row.PriceScore = res.PriceScore
		row.CategoryScore = res.CategoryScore
		row.Confidence = res.Confidence
		row.NeedsManualReview = res.NeedsManualReview
		row.MatchSource = res.MatchSource
	}

	// Upsert keeps is_approved untouched on conflict; approval survives
	// re-matching runs.
	query := r.db.Rebind(`
		INSERT INTO video_products
			(video_id, mention_name, official_code, official_name, official_price,
			 score, name_score, price_score, category_score, confidence,
			 needs_manual_review, match_source, is_matched)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (video_id, mention_name) DO UPDATE SET
			official_code = EXCLUDED.official_code,
			official_name = EXCLUDED.official_name,
			official_price = EXCLUDED.official_price,
			score = EXCLUDED.score,
			name_score = EXCLUDED.name_score,
			price_score = EXCLUDED.price_score,
			category_score = EXCLUDED.category_score,
			confidence = EXCLUDED.confidence,
			needs_manual_review = EXCLUDED.needs_manual_review,
			match_source = EXCLUDED.match_source,
			is_matched = EXCLUDED.is_matched
	`)
	if _, err := r.db.ExecContext(ctx, query,
		row.VideoID, row.MentionName, row.OfficialCode, row.OfficialName, row.OfficialPrice,
		row.Score, row.NameScore, row.PriceScore, row.CategoryScore, row.Confidence,
		row.NeedsManualReview, row.MatchSource, row.IsMatched,
	); err != nil {
		return fmt.Errorf("save outcome for %s/%s: %w", videoID, mentionName, err)
	}
	return nil
}

// SaveVideoMatches persists bulk-path candidates for a video. The bulk
// path is intentionally permissive, so every row is flagged for manual
// review; approval promotes it to ground truth.
func (r *MatchRepository) SaveVideoMatches(ctx context.Context, videoID string, matches []catalog.VideoMatch) error {
	for i := range matches {
		m := &matches[i]
		outcome := domain.Accept(&domain.MatchResult{
			CatalogCode:       m.Entry.Code,
			OfficialName:      m.Entry.Name,
			OfficialPrice:     m.Entry.Price,
			Score:             m.Score,
			NameScore:         m.Score,
			NeedsManualReview: true,
			MatchSource:       domain.MatchSourceCatalogIndex,
		})
		if err := r.SaveOutcome(ctx, videoID, m.Entry.Name, outcome); err != nil {
			return err
		}
	}
	return nil
}

// HasMatches reports whether a video already has any persisted match, so
// the bulk sweep can skip it.
func (r *MatchRepository) HasMatches(ctx context.Context, videoID string) (bool, error) {
	var n int
	query := r.db.Rebind(`SELECT COUNT(*) FROM video_products WHERE video_id = ? AND is_matched`)
	if err := r.db.GetContext(ctx, &n, query, videoID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check matches for %s: %w", videoID, err)
	}
	return n > 0, nil
}

// PendingReviewCount returns how many accepted matches still need manual
// confirmation.
func (r *MatchRepository) PendingReviewCount(ctx context.Context) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM video_products WHERE is_matched AND needs_manual_review AND NOT is_approved`
	if err := r.db.GetContext(ctx, &n, query); err != nil {
		return 0, fmt.Errorf("count pending review: %w", err)
	}
	return n, nil
}
