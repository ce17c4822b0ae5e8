// Package session runs an authoring session against one mind map: edits are
// applied to a local copy, recorded as operations and fed to a Batcher that
// saves the map and asks thinkmapd for feedback.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/concave-dev/thinkmap/internal/batching"
	"github.com/concave-dev/thinkmap/internal/feedback"
	"github.com/concave-dev/thinkmap/internal/logging"
	"github.com/concave-dev/thinkmap/internal/mindmap"
)

// MapService is the remote side of a session.
type MapService interface {
	SaveMap(ctx context.Context, m *mindmap.Map) (*mindmap.Map, error)
	RequestFeedback(ctx context.Context, mapID string, req feedback.Request) (*feedback.Feedback, error)
}

// Session is safe for concurrent use. The Batcher calls SaveState and
// RequestFeedback from its drain goroutine.
type Session struct {
	svc     MapService
	batcher *batching.Batcher

	mu sync.Mutex
	m  *mindmap.Map
}

// New starts a session on m. opts are passed to the Batcher.
func New(m *mindmap.Map, svc MapService, config *batching.Config, opts ...batching.Option) *Session {
	s := &Session{
		svc: svc,
		m:   m.Clone(),
	}
	s.batcher = batching.NewBatcher(s, s, config, opts...)
	return s
}

// Apply performs op on the local map and queues it for feedback. Previous
// values are filled in for relabels and essay edits, and connect operations
// carry the resulting edge list.
func (s *Session) Apply(op mindmap.Operation) error {
	s.mu.Lock()
	switch op.Action {
	case mindmap.ActionEditNode:
		if n, ok := s.m.Node(op.NodeID); ok {
			op.Previous = n.Label
		}
	case mindmap.ActionEditEssay:
		op.Previous = s.m.Essay
	}

	if err := s.m.Apply(op); err != nil {
		s.mu.Unlock()
		return err
	}
	if op.Action == mindmap.ActionConnect {
		op.Snapshot = s.m.EdgesSnapshot()
	}
	s.mu.Unlock()

	return s.batcher.AddOperation(op)
}

// SaveState implements batching.StateSaver. A non-nil edges snapshot
// replaces the local edge list in the saved copy, keeping only snapshot
// edges the local map still has. Edges removed after the snapshot, by a
// disconnect or by deleting one of their nodes, are not saved.
func (s *Session) SaveState(ctx context.Context, edges []mindmap.Edge) error {
	s.mu.Lock()
	doc := s.m.Clone()
	s.mu.Unlock()

	if edges != nil {
		kept := make([]mindmap.Edge, 0, len(edges))
		for _, e := range edges {
			if doc.HasEdge(e.Source, e.Target) {
				kept = append(kept, e)
			}
		}
		doc.Edges = kept
	}

	saved, err := s.svc.SaveMap(ctx, doc)
	if err != nil {
		return fmt.Errorf("save map %s: %w", logging.FormatMapID(doc.ID), err)
	}

	s.mu.Lock()
	s.m.Version = saved.Version
	s.m.UpdatedAt = saved.UpdatedAt
	s.mu.Unlock()
	return nil
}

// RequestFeedback implements batching.FeedbackRequester.
func (s *Session) RequestFeedback(ctx context.Context, req feedback.Request) (*feedback.Feedback, error) {
	return s.svc.RequestFeedback(ctx, s.MapID(), req)
}

// MapID returns the id of the map being edited.
func (s *Session) MapID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.ID
}

// Map returns a copy of the local map.
func (s *Session) Map() *mindmap.Map {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Clone()
}

// Flush sends queued operations now.
func (s *Session) Flush() bool {
	return s.batcher.Flush(batching.FlushManual)
}

// Pending returns the number of queued operations.
func (s *Session) Pending() int {
	return s.batcher.Pending()
}

// Entries returns the feedback entries produced so far.
func (s *Session) Entries() []batching.Entry {
	return s.batcher.Entries()
}

// Wait blocks until in-flight flushes finish.
func (s *Session) Wait() {
	s.batcher.Wait()
}

// Close flushes remaining operations and waits for them.
func (s *Session) Close() {
	s.batcher.Close()
}
