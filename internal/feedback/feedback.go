// Package feedback defines the feedback exchanged between the authoring
// client and thinkmapd, and the generators that produce it.
//
// A Request carries the cleaned operations of one flushed batch plus a
// human-readable summary. thinkmapd answers with a Feedback that is stored
// in the map's history.
package feedback

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/concave-dev/thinkmap/internal/mindmap"
)

// ErrEmptyRequest is returned when a request carries no operations.
var ErrEmptyRequest = errors.New("feedback request has no operations")

// Request asks for feedback on a batch of edits.
type Request struct {
	Operations []mindmap.Operation `json:"operations" validate:"required,min=1,dive"`
	Summary    string              `json:"summary"`
}

// Feedback is the reviewer's response to one Request.
type Feedback struct {
	ID             string    `json:"id"`
	MapID          string    `json:"map_id"`
	Text           string    `json:"text"`
	Summary        string    `json:"summary"`
	OperationCount int       `json:"operation_count"`
	Generator      string    `json:"generator"`
	CreatedAt      time.Time `json:"created_at"`
}

// Generator produces review text for a map after a batch of edits.
type Generator interface {
	Name() string
	Generate(ctx context.Context, m *mindmap.Map, req Request) (string, error)
}

// Produce runs gen and wraps its text in a Feedback record.
func Produce(ctx context.Context, gen Generator, m *mindmap.Map, req Request) (*Feedback, error) {
	if len(req.Operations) == 0 {
		return nil, ErrEmptyRequest
	}

	text, err := gen.Generate(ctx, m, req)
	if err != nil {
		return nil, err
	}

	return &Feedback{
		ID:             uuid.NewString(),
		MapID:          m.ID,
		Text:           text,
		Summary:        req.Summary,
		OperationCount: len(req.Operations),
		Generator:      gen.Name(),
		CreatedAt:      time.Now().UTC(),
	}, nil
}
