package store

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/concave-dev/thinkmap/internal/feedback"
	"github.com/concave-dev/thinkmap/internal/mindmap"
)

func mapKey(owner, id string) string { return "map:" + owner + ":" + id }
func feedbackPrefix(mapID string) string {
	return "feedback:" + mapID + ":"
}

// CreateMap stores a new empty map owned by owner.
func (s *Store) CreateMap(owner, title string) (*mindmap.Map, error) {
	now := time.Now().UTC()
	m := mindmap.New(uuid.NewString(), title)
	m.Owner = owner
	m.Version = 1
	m.CreatedAt = now
	m.UpdatedAt = now

	if err := s.db.Update(func(txn *badger.Txn) error {
		return setJSON(txn, mapKey(owner, m.ID), m)
	}); err != nil {
		return nil, err
	}
	return m, nil
}

// GetMap returns one of owner's maps.
func (s *Store) GetMap(owner, id string) (*mindmap.Map, error) {
	var m mindmap.Map
	if err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, mapKey(owner, id), &m)
	}); err != nil {
		return nil, err
	}
	return &m, nil
}

// ListMaps returns owner's maps, most recently updated first.
func (s *Store) ListMaps(owner string) ([]*mindmap.Map, error) {
	var maps []*mindmap.Map
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		maps, err = scanJSON[*mindmap.Map](txn, "map:"+owner+":")
		return err
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(maps, func(a, b *mindmap.Map) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
	return maps, nil
}

// UpdateMap replaces the title, essay, nodes and edges of an existing map
// and bumps its version. Identity fields are kept from the stored copy.
// A nonzero m.Version must equal the stored version, otherwise the update
// fails with ErrVersionConflict; zero overwrites unconditionally.
func (s *Store) UpdateMap(owner string, m *mindmap.Map) (*mindmap.Map, error) {
	var updated mindmap.Map
	err := s.db.Update(func(txn *badger.Txn) error {
		if err := getJSON(txn, mapKey(owner, m.ID), &updated); err != nil {
			return err
		}
		if m.Version != 0 && m.Version != updated.Version {
			return fmt.Errorf("%w: saving version %d over version %d", ErrVersionConflict, m.Version, updated.Version)
		}
		updated.Title = m.Title
		updated.Essay = m.Essay
		updated.Nodes = slices.Clone(m.Nodes)
		updated.Edges = slices.Clone(m.Edges)
		updated.Version++
		updated.UpdatedAt = time.Now().UTC()
		return setJSON(txn, mapKey(owner, m.ID), &updated)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteMap removes a map and its feedback history.
func (s *Store) DeleteMap(owner, id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(mapKey(owner, id))); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := txn.Delete([]byte(mapKey(owner, id))); err != nil {
			return err
		}
		return deletePrefix(txn, feedbackPrefix(id))
	})
}

// AddFeedback appends fb to its map's history.
func (s *Store) AddFeedback(fb *feedback.Feedback) error {
	if fb.MapID == "" {
		return fmt.Errorf("feedback has no map id")
	}
	key := fmt.Sprintf("%s%020d:%s", feedbackPrefix(fb.MapID), fb.CreatedAt.UnixNano(), fb.ID)
	return s.db.Update(func(txn *badger.Txn) error {
		return setJSON(txn, key, fb)
	})
}

// ListFeedback returns a map's feedback, oldest first.
func (s *Store) ListFeedback(mapID string) ([]*feedback.Feedback, error) {
	if strings.Contains(mapID, ":") {
		return nil, ErrNotFound
	}
	var out []*feedback.Feedback
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		out, err = scanJSON[*feedback.Feedback](txn, feedbackPrefix(mapID))
		return err
	})
	return out, err
}
