package batching

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/concave-dev/thinkmap/internal/feedback"
	"github.com/concave-dev/thinkmap/internal/mindmap"
)

// Status is the display state of an Entry.
type Status string

const (
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Entry is the display record of one flushed batch.
type Entry struct {
	ID          string              `json:"id"`
	Message     string              `json:"message"`
	Description string              `json:"description"`
	Status      Status              `json:"status"`
	Reason      FlushReason         `json:"reason"`
	Operations  []mindmap.Operation `json:"operations"`
	Feedback    *feedback.Feedback  `json:"feedback,omitempty"`
	Error       string              `json:"error,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// entryLog is the batcher's read model. Listeners run outside the lock.
type entryLog struct {
	mu       sync.Mutex
	entries  []Entry
	now      func() time.Time
	onUpdate func(Entry)
}

func newEntryID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (l *entryLog) start(reason FlushReason, summary string, ops []mindmap.Operation) Entry {
	now := l.now()
	e := Entry{
		ID:          newEntryID(),
		Message:     fmt.Sprintf("Requesting feedback on %s", countLabel(len(ops))),
		Description: summary,
		Status:      StatusLoading,
		Reason:      reason,
		Operations:  ops,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	l.mu.Lock()
	l.entries = append(l.entries, e)
	l.mu.Unlock()

	l.notify(e)
	return e
}

func (l *entryLog) succeed(id string, fb *feedback.Feedback) {
	l.update(id, func(e *Entry) {
		e.Status = StatusSuccess
		e.Feedback = fb
		e.Message = fb.Text
	})
}

func (l *entryLog) fail(id string, err error) {
	l.update(id, func(e *Entry) {
		e.Status = StatusError
		e.Error = err.Error()
		e.Message = "Feedback request failed"
	})
}

func (l *entryLog) update(id string, mutate func(*Entry)) {
	l.mu.Lock()
	i := slices.IndexFunc(l.entries, func(e Entry) bool { return e.ID == id })
	if i < 0 {
		l.mu.Unlock()
		return
	}
	mutate(&l.entries[i])
	l.entries[i].UpdatedAt = l.now()
	e := l.entries[i]
	l.mu.Unlock()

	l.notify(e)
}

func (l *entryLog) notify(e Entry) {
	if l.onUpdate != nil {
		l.onUpdate(e)
	}
}

func (l *entryLog) list() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.entries)
}

func countLabel(n int) string {
	if n == 1 {
		return "1 change"
	}
	return fmt.Sprintf("%d changes", n)
}
