package batching

import (
	"strings"
	"testing"
	"time"

	"github.com/concave-dev/thinkmap/internal/mindmap"
)

func TestSummarize(t *testing.T) {
	batch := []Operation{
		{Action: mindmap.ActionAddNode, NodeID: "a", Label: "Intro"},
		{Action: mindmap.ActionConnect, Source: "a", Target: "b"},
		{Action: "rename_map", Label: "ignored"},
		{Action: mindmap.ActionEditNode, NodeID: "a", Previous: "Intro", Label: "Opening"},
	}

	got := Summarize(batch)
	lines := strings.Split(got, "\n")

	if lines[0] != "4 changes" {
		t.Errorf("count line = %q, want %q", lines[0], "4 changes")
	}
	if len(lines) != 4 {
		t.Fatalf("expected 3 descriptions (unknown skipped), got %q", got)
	}
	if !strings.Contains(got, `relabelled node a from "Intro" to "Opening"`) {
		t.Errorf("summary missing relabel description: %q", got)
	}
	if strings.Contains(got, "ignored") {
		t.Errorf("unknown action leaked into summary: %q", got)
	}
}

func TestSummarizeSingle(t *testing.T) {
	got := Summarize([]Operation{{Action: mindmap.ActionEditEssay, Label: "abc"}})
	if got != "1 change\n- edited the essay (3 characters)" {
		t.Errorf("Summarize() = %q", got)
	}
}

func TestLastSnapshot(t *testing.T) {
	if LastSnapshot(nil) != nil {
		t.Error("nil batch should have no snapshot")
	}
	batch := []Operation{
		{Action: mindmap.ActionConnect, Snapshot: []mindmap.Edge{{Source: "1", Target: "2"}}},
		{Action: mindmap.ActionDisconnect, Snapshot: []mindmap.Edge{}},
	}
	if got := LastSnapshot(batch); len(got) != 1 {
		t.Errorf("LastSnapshot() = %v, want the connect snapshot", got)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", *DefaultConfig(), false},
		{"zero max", Config{MaxOperations: 0, IdleWindowMs: 1000}, true},
		{"zero idle", Config{MaxOperations: 5, IdleWindowMs: 0}, true},
		{"huge idle", Config{MaxOperations: 5, IdleWindowMs: 4000000}, true},
		{"negative timeout", Config{MaxOperations: 5, IdleWindowMs: 1000, RequestTimeoutMs: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
	if DefaultConfig().GetIdleWindow() != time.Minute {
		t.Error("default idle window should be one minute")
	}
}

func TestDescribeEssayCountsCharacters(t *testing.T) {
	got, _ := Describe(Operation{Action: mindmap.ActionEditEssay, Label: "Größe – naïve"})
	if got != "edited the essay (13 characters)" {
		t.Errorf("Describe() = %q", got)
	}
}
