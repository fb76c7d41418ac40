package page

import (
	"sync"
	"time"

	"github.com/wulab/labsite/internal/model"
)

// Documents is a consistent copy of both document slots.
type Documents struct {
	// Site is nil until the configuration document has loaded.
	Site *model.SiteConfig

	// SiteErr is the error of the last configuration read, if any.
	SiteErr error

	// Publications is never nil. It is empty before the first read, after a
	// failed read and for an empty document alike.
	Publications []model.Publication

	// PublicationsErr is the error of the last publications read, if any.
	PublicationsErr error

	// Version increases with every slot write.
	Version uint64

	// UpdatedAt is the time of the last slot write.
	UpdatedAt time.Time
}

// Ready reports whether the configuration document has loaded.
func (d Documents) Ready() bool {
	return d.Site != nil
}

// Store keeps the two document slots.
// Each slot is written independently, so a slow or failing read of one
// document never holds back the other.
type Store struct {
	mu   sync.RWMutex
	docs Documents
	now  func() time.Time
}

// NewStore creates an empty Store: no configuration and no publications.
func NewStore() *Store {
	return &Store{
		docs: Documents{Publications: []model.Publication{}},
		now:  time.Now,
	}
}

// SetSite records the result of a configuration read.
// On error the slot keeps its previous value, which is nil until the first
// successful read.
func (s *Store) SetSite(cfg *model.SiteConfig, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs.SiteErr = err
	if err == nil && cfg != nil {
		s.docs.Site = cfg
	}
	s.touch()
}

// SetPublications records the result of a publications read.
// The fetched list replaces the previous one; on error the list becomes empty.
func (s *Store) SetPublications(pubs []model.Publication, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs.PublicationsErr = err
	if err != nil || pubs == nil {
		pubs = []model.Publication{}
	}
	s.docs.Publications = pubs
	s.touch()
}

func (s *Store) touch() {
	s.docs.Version++
	s.docs.UpdatedAt = s.now()
}

// Snapshot returns a copy of both slots.
func (s *Store) Snapshot() Documents {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := s.docs
	docs.Publications = append([]model.Publication(nil), s.docs.Publications...)
	if docs.Publications == nil {
		docs.Publications = []model.Publication{}
	}
	return docs
}
