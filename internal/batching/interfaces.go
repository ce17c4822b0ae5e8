package batching

import (
	"context"
	"time"

	"github.com/concave-dev/thinkmap/internal/feedback"
	"github.com/concave-dev/thinkmap/internal/mindmap"
)

// StateSaver persists the map before feedback is requested. A nil edges
// slice means "save the current state"; a non-nil slice replaces the stored
// edge list with that snapshot.
type StateSaver interface {
	SaveState(ctx context.Context, edges []mindmap.Edge) error
}

// FeedbackRequester sends one batch to the feedback service.
type FeedbackRequester interface {
	RequestFeedback(ctx context.Context, req feedback.Request) (*feedback.Feedback, error)
}

// Clock abstracts time so the idle window can be driven by tests.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a pending AfterFunc call.
type Timer interface {
	Stop() bool
}

type realClock struct{}

// RealClock returns a Clock backed by the time package.
func RealClock() Clock { return realClock{} }

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
