package chatmodel

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/llm"
)

// fakeChatModel 记录收到的消息与温度
type fakeChatModel struct {
	messages    []*schema.Message
	temperature float32
	resp        string
	err         error
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.messages = input
	if o := model.GetCommonOptions(nil, opts...); o.Temperature != nil {
		f.temperature = *o.Temperature
	}
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.resp, nil), nil
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not implemented")
}

func (f *fakeChatModel) BindTools(tools []*schema.ToolInfo) error {
	return nil
}

func TestGenerate(t *testing.T) {
	cm := &fakeChatModel{resp: `{"案號": "C13A07469"}`}
	c := NewFromChatModel("gpt-4o-mini", cm)

	got, err := c.Generate(context.Background(), &llm.Request{Prompt: "提取", Temperature: 0.5, JSON: true})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got != `{"案號": "C13A07469"}` {
		t.Errorf("Generate() = %q", got)
	}
	if len(cm.messages) != 2 || cm.messages[0].Role != schema.System || cm.messages[1].Content != "提取" {
		t.Errorf("messages = %+v", cm.messages)
	}
	if cm.temperature != 0.5 {
		t.Errorf("temperature = %v, want 0.5", cm.temperature)
	}
	if c.Name() != "openai/gpt-4o-mini" {
		t.Errorf("Name() = %q", c.Name())
	}
}

func TestGenerateWithoutSystem(t *testing.T) {
	cm := &fakeChatModel{resp: "ok"}
	c := NewFromChatModel("m", cm)
	if _, err := c.Generate(context.Background(), &llm.Request{Prompt: "hi"}); err != nil {
		t.Fatal(err)
	}
	if len(cm.messages) != 1 || cm.messages[0].Role != schema.User {
		t.Errorf("messages = %+v, want a single user message", cm.messages)
	}
}

func TestGenerateWrapsError(t *testing.T) {
	c := NewFromChatModel("m", &fakeChatModel{err: errors.New("429 Too Many Requests")})
	_, err := c.Generate(context.Background(), &llm.Request{Prompt: "hi"})
	if !errors.Is(err, llm.ErrExternalService) {
		t.Errorf("Generate() error = %v, want ErrExternalService", err)
	}
}
