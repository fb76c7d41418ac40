package model

import "time"

// Snapshot is a stored copy of the publications document.
// Snapshots are written by the sync command and read by the history command.
type Snapshot struct {
	// ID is the database row id. Zero for snapshots not yet saved.
	ID int64 `json:"id"`

	// TakenAt is when the document was fetched.
	TakenAt time.Time `json:"taken_at"`

	// Source describes where the records came from, e.g. the ORCID iD.
	Source string `json:"source"`

	// Hash is the content hash of the encoded records.
	// Two snapshots with the same hash hold the same document.
	Hash string `json:"hash"`

	// Publications are the records in document order.
	Publications []Publication `json:"publications"`
}

// PublicationDiff describes how the publications changed between two snapshots.
type PublicationDiff struct {
	OldID      int64     `json:"old_id"`
	NewID      int64     `json:"new_id"`
	OldTakenAt time.Time `json:"old_taken_at"`
	NewTakenAt time.Time `json:"new_taken_at"`

	// Added are records present in the new snapshot only, in new document order.
	Added []Publication `json:"added"`

	// Removed are records present in the old snapshot only, in old document order.
	Removed []Publication `json:"removed"`

	// Unchanged counts records present in both.
	Unchanged int `json:"unchanged"`
}

// ComparePublications computes the difference between two snapshots.
// Records are matched by Publication.Key.
func ComparePublications(oldSnap, newSnap *Snapshot) *PublicationDiff {
	diff := &PublicationDiff{
		OldID:      oldSnap.ID,
		NewID:      newSnap.ID,
		OldTakenAt: oldSnap.TakenAt,
		NewTakenAt: newSnap.TakenAt,
		Added:      make([]Publication, 0),
		Removed:    make([]Publication, 0),
	}

	oldKeys := make(map[string]struct{}, len(oldSnap.Publications))
	for _, p := range oldSnap.Publications {
		oldKeys[p.Key()] = struct{}{}
	}
	newKeys := make(map[string]struct{}, len(newSnap.Publications))
	for _, p := range newSnap.Publications {
		newKeys[p.Key()] = struct{}{}
	}

	for _, p := range newSnap.Publications {
		if _, ok := oldKeys[p.Key()]; ok {
			diff.Unchanged++
			continue
		}
		diff.Added = append(diff.Added, p)
	}
	for _, p := range oldSnap.Publications {
		if _, ok := newKeys[p.Key()]; !ok {
			diff.Removed = append(diff.Removed, p)
		}
	}

	return diff
}

// HasChanges reports whether any record was added or removed.
func (d *PublicationDiff) HasChanges() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0
}
