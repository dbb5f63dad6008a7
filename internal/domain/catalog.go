package domain

// CatalogEntry represents a canonical, store-published product record.
// Entries are owned and refreshed by the external ingestion collaborator;
// the matching core treats a catalog as a read-only snapshot.
type CatalogEntry struct {
	Code        string  `db:"code"         json:"code"` // Unique, stable identifier within a snapshot
	Name        string  `db:"name"         json:"name"`
	Price       int     `db:"price"        json:"price"` // Currency minor units dropped (e.g. won)
	Category    string  `db:"category"     json:"category"`
	ImageURL    string  `db:"image_url"    json:"image_url"`
	ProductURL  string  `db:"product_url"  json:"product_url"`
	Popularity  int     `db:"popularity"   json:"popularity"` // Order/view count, 0 when unknown
	IsFeatured  bool    `db:"is_featured"  json:"is_featured"`
	Rating      float64 `db:"rating"       json:"rating"`
	ReviewCount int     `db:"review_count" json:"review_count"`
}

// VideoText is the input to the bulk matching path: one video's title and
// transcript, plus a flag the persistence layer sets when the video already
// has persisted matches (so re-matching is skipped).
type VideoText struct {
	VideoID    string `json:"video_id"`
	Title      string `json:"title"`
	Transcript string `json:"transcript"`
	HasMatches bool   `json:"has_matches"`
}

// MatchSource constants indicate where a match came from.
const (
	// MatchSourceCatalogIndex marks matches produced by the local keyword index.
	MatchSourceCatalogIndex = "catalog_index"
	// MatchSourceLiveLookup is reserved for the external fallback collaborator
	// that resolves mentions against the live store site.
	MatchSourceLiveLookup = "live_lookup"
)
