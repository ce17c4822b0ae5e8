// Package batching collects mind map edits and turns them into feedback
// requests.
//
// DEBOUNCED BATCHING:
// Operations accumulate in a queue. The queue is flushed when it reaches
// MaxOperations, or when no new operation has arrived for IdleWindow. Every
// enqueue re-arms the idle timer, so a steady stream of edits below the size
// threshold keeps postponing the flush.
//
// FLUSH PIPELINE:
// A flush atomically takes the queue and hands the batch to a single drain
// goroutine. Batches are processed one at a time in flush order: save the map
// (using the edge snapshot of the latest connect operation if there is one),
// request feedback for the cleaned batch, and record the outcome as an Entry.
// A later batch's save therefore never lands before an earlier one's.
// Batches are never requeued; failures become error entries.
package batching

import (
	"context"
	"errors"
	"sync"

	"github.com/concave-dev/thinkmap/internal/feedback"
	"github.com/concave-dev/thinkmap/internal/logging"
	"github.com/concave-dev/thinkmap/internal/metrics"
	"github.com/concave-dev/thinkmap/internal/mindmap"
)

// Operation is the unit queued by the Batcher.
type Operation = mindmap.Operation

// FlushReason records what triggered a flush.
type FlushReason string

const (
	FlushAccumulated FlushReason = "accumulated"
	FlushIdleTimeout FlushReason = "idle_timeout"
	FlushManual      FlushReason = "manual"
)

// ErrClosed is returned by AddOperation after Close.
var ErrClosed = errors.New("batcher is closed")

// flushJob is a batch waiting for the drain goroutine.
type flushJob struct {
	batch  []Operation
	reason FlushReason
}

// Option customises a Batcher.
type Option func(*Batcher)

// WithClock replaces the real clock, mainly for tests.
func WithClock(c Clock) Option {
	return func(b *Batcher) { b.clock = c }
}

// WithOnUpdate registers a listener called after every entry change. It is
// called from the drain goroutine and must not call back into the Batcher while
// holding its own locks.
func WithOnUpdate(fn func(Entry)) Option {
	return func(b *Batcher) { b.entries.onUpdate = fn }
}

// Batcher is the debounced operation queue. It is safe for concurrent use.
type Batcher struct {
	saver     StateSaver
	requester FeedbackRequester
	config    *Config
	clock     Clock
	entries   *entryLog

	mu       sync.Mutex
	queue    []Operation
	timer    Timer
	timerSeq uint64 // bumped whenever the pending timer is replaced or cancelled
	closed   bool
	flushed  []flushJob
	draining bool

	wg sync.WaitGroup
}

// NewBatcher creates a Batcher. A nil config uses DefaultConfig.
func NewBatcher(saver StateSaver, requester FeedbackRequester, config *Config, opts ...Option) *Batcher {
	if config == nil {
		config = DefaultConfig()
	}
	b := &Batcher{
		saver:     saver,
		requester: requester,
		config:    config,
		clock:     RealClock(),
		entries:   &entryLog{},
	}
	for _, opt := range opts {
		opt(b)
	}
	b.entries.now = b.clock.Now
	return b
}

// AddOperation enqueues op. It flushes immediately when the queue reaches
// MaxOperations and otherwise re-arms the idle timer.
func (b *Batcher) AddOperation(op Operation) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}
	if op.At.IsZero() {
		op.At = b.clock.Now()
	}

	b.queue = append(b.queue, op)
	logging.Debug("Batcher: Queued %s (queue: %d/%d)", op.Action, len(b.queue), b.config.MaxOperations)

	if len(b.queue) >= b.config.MaxOperations {
		b.flushLocked(FlushAccumulated)
		return nil
	}

	b.armTimerLocked()
	return nil
}

// Flush flushes the queue now. It reports false when the queue was empty.
func (b *Batcher) Flush(reason FlushReason) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.flushLocked(reason)
}

// Pending returns the number of queued operations.
func (b *Batcher) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queue)
}

// Entries returns a copy of the display entries in creation order.
func (b *Batcher) Entries() []Entry {
	return b.entries.list()
}

// Wait blocks until every in-flight flush has finished.
func (b *Batcher) Wait() {
	b.wg.Wait()
}

// Close flushes whatever is queued, rejects further operations and waits for
// in-flight flushes.
func (b *Batcher) Close() {
	b.mu.Lock()
	if !b.closed {
		b.closed = true
		b.flushLocked(FlushManual)
		b.cancelTimerLocked()
	}
	b.mu.Unlock()

	b.wg.Wait()
}

func (b *Batcher) armTimerLocked() {
	b.cancelTimerLocked()
	seq := b.timerSeq
	b.timer = b.clock.AfterFunc(b.config.GetIdleWindow(), func() {
		b.onIdle(seq)
	})
}

func (b *Batcher) cancelTimerLocked() {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.timerSeq++
}

// onIdle runs on the timer goroutine. A firing whose generation no longer
// matches was cancelled after it had already been scheduled to run.
func (b *Batcher) onIdle(seq uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if seq != b.timerSeq {
		return
	}
	b.timer = nil
	b.flushLocked(FlushIdleTimeout)
}

func (b *Batcher) flushLocked(reason FlushReason) bool {
	if len(b.queue) == 0 {
		return false
	}

	batch := b.queue
	b.queue = nil
	b.cancelTimerLocked()

	logging.Info("Batcher: Flushing %d operation(s) (%s)", len(batch), reason)
	metrics.BatchFlushTotal.WithLabelValues(string(reason)).Inc()
	metrics.BatchSize.Observe(float64(len(batch)))

	b.wg.Add(1)
	b.flushed = append(b.flushed, flushJob{batch: batch, reason: reason})
	if !b.draining {
		b.draining = true
		go b.drain()
	}
	return true
}

// drain processes flushed batches in order until none are left.
func (b *Batcher) drain() {
	for {
		b.mu.Lock()
		if len(b.flushed) == 0 {
			b.draining = false
			b.mu.Unlock()
			return
		}
		job := b.flushed[0]
		b.flushed = b.flushed[1:]
		b.mu.Unlock()

		b.process(job.batch, job.reason)
	}
}

// process saves, requests feedback and records the outcome for one batch.
func (b *Batcher) process(batch []Operation, reason FlushReason) {
	defer b.wg.Done()

	ctx := context.Background()
	if timeout := b.config.GetRequestTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	summary := Summarize(batch)
	snapshot := LastSnapshot(batch)
	cleaned := CleanBatch(batch)

	entry := b.entries.start(reason, summary, cleaned)

	// Save failures are logged and feedback is still requested.
	if err := b.saver.SaveState(ctx, snapshot); err != nil {
		logging.Warn("Batcher: Failed to save map before feedback: %v", err)
	}

	fb, err := b.requester.RequestFeedback(ctx, feedback.Request{
		Operations: cleaned,
		Summary:    summary,
	})
	metrics.FeedbackTotal.WithLabelValues(metrics.ResultLabel(err)).Inc()
	if err != nil {
		logging.Error("Batcher: Feedback request failed: %v", err)
		b.entries.fail(entry.ID, err)
		return
	}

	logging.Debug("Batcher: Feedback %s received for entry %s", logging.TruncateID(fb.ID), logging.FormatEntryID(entry.ID))
	b.entries.succeed(entry.ID, fb)
}
