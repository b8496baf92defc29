package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

type stubChatModel struct {
	reply *schema.Message
	err   error
	seen  []*schema.Message
}

func (s *stubChatModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	s.seen = input
	return s.reply, s.err
}

func TestEinoGenerator_SendsPromptAsSingleUserMessage(t *testing.T) {
	cm := &stubChatModel{reply: schema.AssistantMessage("<html>ok</html>", nil)}
	gen := newEinoGenerator(cm, "ep-123")

	got, err := gen.Generate(context.Background(), "the prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "<html>ok</html>" {
		t.Errorf("got %q", got)
	}
	if len(cm.seen) != 1 || cm.seen[0].Role != schema.User || cm.seen[0].Content != "the prompt" {
		t.Errorf("unexpected input messages: %+v", cm.seen)
	}
	if gen.Model() != "ep-123" {
		t.Errorf("model: got %q", gen.Model())
	}
}

func TestEinoGenerator_WrapsModelError(t *testing.T) {
	cause := errors.New("connection reset")
	gen := newEinoGenerator(&stubChatModel{err: cause}, "ep-123")

	_, err := gen.Generate(context.Background(), "p")
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause in chain, got: %v", err)
	}
}

func TestEinoGenerator_EmptyContent(t *testing.T) {
	gen := newEinoGenerator(&stubChatModel{reply: schema.AssistantMessage("", nil)}, "ep-123")

	_, err := gen.Generate(context.Background(), "p")
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got: %v", err)
	}
}
