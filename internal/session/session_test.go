package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/concave-dev/thinkmap/internal/batching"
	"github.com/concave-dev/thinkmap/internal/feedback"
	"github.com/concave-dev/thinkmap/internal/mindmap"
)

type fakeService struct {
	mu        sync.Mutex
	saved     []*mindmap.Map
	requests  []feedback.Request
	mapIDs    []string
	saveErr   error
	saveCalls int

	// firstSaveDelay slows down only the first SaveMap call.
	firstSaveDelay time.Duration
}

func (f *fakeService) SaveMap(_ context.Context, m *mindmap.Map) (*mindmap.Map, error) {
	f.mu.Lock()
	f.saveCalls++
	slow := f.saveCalls == 1 && f.firstSaveDelay > 0
	f.mu.Unlock()
	if slow {
		time.Sleep(f.firstSaveDelay)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	f.saved = append(f.saved, m)
	out := m.Clone()
	out.Version = m.Version + 1
	return out, nil
}

func (f *fakeService) RequestFeedback(_ context.Context, mapID string, req feedback.Request) (*feedback.Feedback, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	f.mapIDs = append(f.mapIDs, mapID)
	return &feedback.Feedback{ID: "fb", MapID: mapID, Text: "ok"}, nil
}

func newSession(t *testing.T, svc *fakeService) *Session {
	t.Helper()
	m := mindmap.New("map-1", "Session test")
	m.Version = 3
	return New(m, svc, batching.DefaultConfig())
}

func run(t *testing.T, s *Session, lines ...string) {
	t.Helper()
	for _, line := range lines {
		cmd, err := ParseCommand(line)
		if err != nil {
			t.Fatalf("ParseCommand(%q) error: %v", line, err)
		}
		if cmd.Kind != CommandEdit {
			t.Fatalf("ParseCommand(%q) kind = %v, want edit", line, cmd.Kind)
		}
		if err := s.Apply(cmd.Op); err != nil {
			t.Fatalf("Apply(%q) error: %v", line, err)
		}
	}
}

func TestSessionSavesConnectSnapshot(t *testing.T) {
	svc := &fakeService{}
	s := newSession(t, svc)

	run(t, s, "add a Alpha", "add b Beta", "connect a b", "add c Gamma")
	if s.Pending() != 4 {
		t.Fatalf("pending = %d, want 4", s.Pending())
	}
	s.Flush()
	s.Wait()

	if len(svc.saved) != 1 {
		t.Fatalf("saves = %d, want 1", len(svc.saved))
	}
	saved := svc.saved[0]
	if len(saved.Nodes) != 3 || len(saved.Edges) != 1 {
		t.Errorf("saved map nodes=%d edges=%d", len(saved.Nodes), len(saved.Edges))
	}
	if s.Map().Version != 4 {
		t.Errorf("local version = %d, want server version 4", s.Map().Version)
	}
	if svc.mapIDs[0] != "map-1" || len(svc.requests[0].Operations) != 4 {
		t.Errorf("feedback request = %+v for %s", svc.requests[0], svc.mapIDs[0])
	}
	for _, op := range svc.requests[0].Operations {
		if op.Snapshot != nil {
			t.Error("snapshot leaked to feedback request")
		}
	}
}

func TestSnapshotDropsEdgesOfDeletedNodes(t *testing.T) {
	svc := &fakeService{}
	s := newSession(t, svc)

	run(t, s, "add a A", "add b B", "connect a b", "rm b")
	s.Flush()
	s.Wait()

	if got := svc.saved[0].Edges; len(got) != 0 {
		t.Errorf("saved edges = %v, want none after node deletion", got)
	}
}

func TestSessionRecordsPreviousValues(t *testing.T) {
	svc := &fakeService{}
	s := newSession(t, svc)

	run(t, s, "add a Draft", "label a Final title", "essay First paragraph.", "essay Second try.")
	s.Flush()
	s.Wait()

	ops := svc.requests[0].Operations
	if ops[1].Previous != "Draft" || ops[1].Label != "Final title" {
		t.Errorf("relabel op = %+v", ops[1])
	}
	if ops[3].Previous != "First paragraph." {
		t.Errorf("essay op previous = %q", ops[3].Previous)
	}
}

func TestApplyRejectsInvalidEdits(t *testing.T) {
	s := newSession(t, &fakeService{})

	err := s.Apply(mindmap.Operation{Action: mindmap.ActionConnect, Source: "x", Target: "y"})
	if !errors.Is(err, mindmap.ErrNodeNotFound) {
		t.Errorf("Apply() error = %v, want ErrNodeNotFound", err)
	}
	if s.Pending() != 0 {
		t.Error("rejected edit was queued")
	}
}

func TestFifthEditFlushes(t *testing.T) {
	svc := &fakeService{}
	s := newSession(t, svc)

	run(t, s, "add a A", "add b B", "add c C", "add d D", "add e E")
	s.Wait()

	if len(svc.requests) != 1 {
		t.Errorf("requests = %d, want 1 after five edits", len(svc.requests))
	}
	entries := s.Entries()
	if len(entries) != 1 || entries[0].Status != batching.StatusSuccess {
		t.Errorf("entries = %+v", entries)
	}
}

func TestSaveFailureStillProducesFeedback(t *testing.T) {
	svc := &fakeService{saveErr: errors.New("offline")}
	s := newSession(t, svc)

	run(t, s, "add a A")
	s.Close()

	if len(svc.requests) != 1 {
		t.Errorf("feedback requests = %d, want 1", len(svc.requests))
	}
}

func TestSlowSaveIsNotOverwrittenByLaterBatch(t *testing.T) {
	svc := &fakeService{firstSaveDelay: 100 * time.Millisecond}
	s := newSession(t, svc)

	run(t, s, "add a A", "add b B", "add c C", "add d D", "add e E")
	run(t, s, "add f F", "add g G", "add h H", "add i I", "add j J")
	s.Wait()

	if len(svc.saved) != 2 {
		t.Fatalf("saves = %d, want 2", len(svc.saved))
	}
	last := svc.saved[len(svc.saved)-1]
	if len(last.Nodes) != 10 {
		t.Errorf("last stored map has %d nodes, want all 10", len(last.Nodes))
	}
	if last.Version != 4 {
		t.Errorf("second save sent version %d, want 4 from the first save", last.Version)
	}
	if s.Map().Version != 5 {
		t.Errorf("local version = %d, want 5", s.Map().Version)
	}
}

func TestSnapshotOmitsEdgesRemovedLater(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  []mindmap.Edge
	}{
		{
			name:  "connect then disconnect",
			lines: []string{"add a A", "add b B", "connect a b", "disconnect a b"},
			want:  []mindmap.Edge{},
		},
		{
			name:  "disconnect one of two",
			lines: []string{"add a A", "add b B", "add c C", "connect a b", "connect b c", "disconnect a b"},
			want:  []mindmap.Edge{{Source: "b", Target: "c"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{}
			cfg := batching.DefaultConfig()
			cfg.MaxOperations = 10 // keep every line in one batch
			s := New(mindmap.New("map-1", "Snapshot test"), svc, cfg)

			run(t, s, tt.lines...)
			if s.Pending() != len(tt.lines) {
				t.Fatalf("pending = %d, want %d in one batch", s.Pending(), len(tt.lines))
			}
			s.Flush()
			s.Wait()

			if len(svc.saved) == 0 {
				t.Fatal("nothing saved")
			}
			got := svc.saved[len(svc.saved)-1].Edges
			if len(got) != len(tt.want) {
				t.Fatalf("saved edges = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("saved edges = %v, want %v", got, tt.want)
				}
			}
			if local := s.Map().Edges; len(local) != len(got) {
				t.Errorf("local edges %v differ from saved %v", local, got)
			}
		})
	}
}
