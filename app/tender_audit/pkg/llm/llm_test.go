package llm

import (
	"context"
	"testing"

	"golang.org/x/time/rate"
)

type countingGenerator struct{ calls int }

func (g *countingGenerator) Generate(ctx context.Context, req *Request) (string, error) {
	g.calls++
	return "ok", nil
}

func (g *countingGenerator) Name() string { return "fake/model" }

func TestCleanJSON(t *testing.T) {
	tests := map[string]string{
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```{\"a\":1}```":         `{"a":1}`,
		"  {\"a\":1}  ":           `{"a":1}`,
	}
	for in, want := range tests {
		if got := CleanJSON(in); got != want {
			t.Errorf("CleanJSON(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestOuterObject(t *testing.T) {
	if got := OuterObject(`以下是結果：{"a":{"b":1}} 謝謝`); got != `{"a":{"b":1}}` {
		t.Errorf("OuterObject() = %q", got)
	}
	if got := OuterObject("no json } here {"); got != "" {
		t.Errorf("OuterObject() = %q, want empty", got)
	}
}

func TestLimited(t *testing.T) {
	inner := &countingGenerator{}
	l := NewLimited(inner, rate.NewLimiter(rate.Inf, 1))
	for i := 0; i < 3; i++ {
		if _, err := l.Generate(context.Background(), &Request{}); err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
	}
	if inner.calls != 3 {
		t.Errorf("calls = %d, want 3", inner.calls)
	}
	if l.Name() != "fake/model" {
		t.Errorf("Name() = %q", l.Name())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	blocked := NewLimited(inner, rate.NewLimiter(rate.Limit(0.001), 1))
	if _, err := blocked.Generate(ctx, &Request{}); err == nil {
		t.Error("Generate() with cancelled context expected error")
	}
}

func TestNewLimiter(t *testing.T) {
	if NewLimiter(0, 5) != nil {
		t.Error("NewLimiter(0) should disable limiting")
	}
	if l := NewLimiter(60, 0); l == nil || l.Burst() != 1 {
		t.Errorf("NewLimiter(60, 0) = %v", l)
	}
}
