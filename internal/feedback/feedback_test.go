package feedback

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"

	"github.com/concave-dev/thinkmap/internal/mindmap"
)

func testMap(t *testing.T) *mindmap.Map {
	t.Helper()
	m := mindmap.New("map-1", "Renewable energy")
	for _, n := range []mindmap.Node{{ID: "thesis", Label: "solar"}, {ID: "cost", Label: "cost"}, {ID: "storage", Label: "storage"}} {
		if err := m.AddNode(n.ID, n.Label); err != nil {
			t.Fatal(err)
		}
	}
	if err := m.Connect("thesis", "cost"); err != nil {
		t.Fatal(err)
	}
	m.Essay = "Solar power keeps getting cheaper. Its cost curve is the story."
	return m
}

func oneOp() Request {
	return Request{
		Operations: []mindmap.Operation{{Action: mindmap.ActionAddNode, NodeID: "storage", Label: "storage"}},
		Summary:    "1 change: added node \"storage\"",
	}
}

func TestRuleGenerator(t *testing.T) {
	text, err := RuleGenerator{}.Generate(context.Background(), testMap(t), oneOp())
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	for _, want := range []string{"Reviewed 1 change(s)", "Unconnected ideas: storage", "does not mention: storage"} {
		if !strings.Contains(text, want) {
			t.Errorf("feedback missing %q:\n%s", want, text)
		}
	}
}

func TestRuleGeneratorEmptyMap(t *testing.T) {
	text, _ := RuleGenerator{}.Generate(context.Background(), mindmap.New("m", "t"), oneOp())
	if !strings.Contains(text, "map is empty") {
		t.Errorf("unexpected feedback: %s", text)
	}
}

func TestProduce(t *testing.T) {
	fb, err := Produce(context.Background(), RuleGenerator{}, testMap(t), oneOp())
	if err != nil {
		t.Fatalf("Produce() error: %v", err)
	}
	if fb.ID == "" || fb.MapID != "map-1" || fb.OperationCount != 1 || fb.Generator != "rules" {
		t.Errorf("unexpected feedback record: %+v", fb)
	}

	if _, err := Produce(context.Background(), RuleGenerator{}, testMap(t), Request{}); !errors.Is(err, ErrEmptyRequest) {
		t.Errorf("Produce(empty) error = %v, want ErrEmptyRequest", err)
	}
}

type fakeChat struct {
	req  openai.ChatCompletionRequest
	resp openai.ChatCompletionResponse
	err  error
}

func (f *fakeChat) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.req = req
	return f.resp, f.err
}

func TestOpenAIGenerator(t *testing.T) {
	chat := &fakeChat{resp: openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: "  Link storage to cost.  "}}},
	}}
	gen := NewOpenAIGenerator(chat, "")

	text, err := gen.Generate(context.Background(), testMap(t), oneOp())
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if text != "Link storage to cost." {
		t.Errorf("text = %q", text)
	}
	if chat.req.Model != DefaultOpenAIModel {
		t.Errorf("model = %q", chat.req.Model)
	}
	if len(chat.req.Messages) != 2 || !strings.Contains(chat.req.Messages[1].Content, "thesis -> cost") {
		t.Errorf("prompt missing connections: %+v", chat.req.Messages)
	}
	if gen.Name() != "openai:"+DefaultOpenAIModel {
		t.Errorf("Name() = %q", gen.Name())
	}
}

func TestOpenAIGeneratorErrors(t *testing.T) {
	gen := NewOpenAIGenerator(&fakeChat{err: errors.New("boom")}, "gpt-test")
	if _, err := gen.Generate(context.Background(), testMap(t), oneOp()); err == nil {
		t.Error("expected API error")
	}

	gen = NewOpenAIGenerator(&fakeChat{}, "gpt-test")
	if _, err := gen.Generate(context.Background(), testMap(t), oneOp()); err == nil {
		t.Error("expected error for no choices")
	}
}
