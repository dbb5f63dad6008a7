package catalog

import "github.com/storelens/matcher/internal/domain"

// Snapshot is a caller-owned, read-only view of a catalog plus its derived
// keyword index. Rebuilding a snapshot is an explicit, separate step owned
// by the ingestion collaborator; it must not race in-flight matches, so
// callers swap whole snapshots rather than mutating one.
type Snapshot struct {
	entries []domain.CatalogEntry
	index   *Index
}

// NewSnapshot copies the entries and builds their index.
func NewSnapshot(entries []domain.CatalogEntry, config IndexConfig, logger Logger) *Snapshot {
	copied := make([]domain.CatalogEntry, len(entries))
	copy(copied, entries)
	return &Snapshot{
		entries: copied,
		index:   BuildIndex(copied, config, logger),
	}
}

// Entries returns the snapshot's entries in catalog order. Callers must
// treat the slice as read-only.
func (s *Snapshot) Entries() []domain.CatalogEntry { return s.entries }

// Index returns the snapshot's keyword index.
func (s *Snapshot) Index() *Index { return s.index }

// Len returns the total number of entries, indexed or not.
func (s *Snapshot) Len() int { return len(s.entries) }
