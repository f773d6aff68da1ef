package extract

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/config"
	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/llm"
	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/model"
)

// mockGenerator 返回预设回应并记录提示词
type mockGenerator struct {
	resp    string
	err     error
	prompts []string
	delay   time.Duration
}

func (m *mockGenerator) Generate(ctx context.Context, req *llm.Request) (string, error) {
	m.prompts = append(m.prompts, req.Prompt)
	if m.delay > 0 {
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", llm.ErrExternalService, ctx.Err())
		case <-time.After(m.delay):
		}
	}
	return m.resp, m.err
}

func (m *mockGenerator) Name() string { return "mock/model" }

func TestDelegatedStandalone(t *testing.T) {
	gen := &mockGenerator{resp: "```json\n{\"案號\":\"C13A07469\",\"適用條約\":\"否\",\"押標金\":50000,\"案名\":\"未載明\"}\n```"}
	a, trace, err := NewDelegated(gen).Announcement(context.Background(), announcementText)
	if err != nil {
		t.Fatalf("Announcement() error = %v", err)
	}
	if trace.Strategy != StrategyDelegated {
		t.Errorf("Strategy = %q", trace.Strategy)
	}
	if a.CaseNumber.Value != "C13A07469" || a.Treaty != model.FlagNo || a.BidBond.Value != 50000 {
		t.Errorf("fields = %+v", a)
	}
	if a.CaseName.Known {
		t.Errorf("未載明 should be unknown, got %+v", a.CaseName)
	}
	if len(gen.prompts) != 1 || !strings.Contains(gen.prompts[0], `"適用條約"`) {
		t.Errorf("prompt should embed the field schema")
	}
}

func TestDelegatedCrossCheck(t *testing.T) {
	// LLM 读错案号，且漏掉了条约字段
	gen := &mockGenerator{resp: `{"案號":"C13A07468","案名":"辦公桌椅一批"}`}
	d := NewDelegated(gen, WithFallback(NewDeterministic()))
	a, trace, err := d.Announcement(context.Background(), announcementText)
	if err != nil {
		t.Fatalf("Announcement() error = %v", err)
	}
	if trace.Strategy != StrategyCrossChecked {
		t.Errorf("Strategy = %q", trace.Strategy)
	}
	if a.CaseNumber.Value != "C13A07469" {
		t.Errorf("CaseNumber = %q, want deterministic value", a.CaseNumber.Value)
	}
	if a.Treaty != model.FlagNo {
		t.Errorf("Treaty = %s, want deterministic value", a.Treaty.Label())
	}
	if len(trace.Notes) != 1 || trace.Notes[0].Field != "案號" || trace.Notes[0].Document != model.DocAnnouncement {
		t.Errorf("Notes = %+v, want one disagreement on 案號", trace.Notes)
	}
}

func TestDelegatedFillsDeterministicGaps(t *testing.T) {
	gen := &mockGenerator{resp: `{"第6點訂底價":"已勾選","案號":"X100A"}`}
	d := NewDelegated(gen, WithFallback(NewDeterministic()))
	f, trace, err := d.Instructions(context.Background(), "沒有任何勾選符號的文字")
	if err != nil {
		t.Fatalf("Instructions() error = %v", err)
	}
	if f.ReservePrice != model.CheckboxChecked || f.CaseNumber.Value != "X100A" {
		t.Errorf("fields = %+v", f)
	}
	if len(trace.Notes) != 0 {
		t.Errorf("Notes = %+v, want none", trace.Notes)
	}
}

func TestDelegatedNestedValuesAreUnknown(t *testing.T) {
	gen := &mockGenerator{resp: `{"案號":{"value":"X"},"案名":["辦公桌椅"],"押標金":{"amount":50000},"適用條約":"否"}`}
	a, _, err := NewDelegated(gen).Announcement(context.Background(), "x")
	if err != nil {
		t.Fatalf("Announcement() error = %v", err)
	}
	if a.CaseNumber.Known || a.CaseName.Known {
		t.Errorf("nested values should stay unknown, got 案號 %+v 案名 %+v", a.CaseNumber, a.CaseName)
	}
	if a.BidBond.Known {
		t.Errorf("BidBond = %+v, want unknown", a.BidBond)
	}
	if a.Treaty != model.FlagNo {
		t.Errorf("Treaty = %s, scalar fields should still parse", a.Treaty.Label())
	}
}

func TestDelegatedOuterObjectRetry(t *testing.T) {
	gen := &mockGenerator{resp: `好的，以下是結果：{"案號":"C13A07469"} 希望有幫助`}
	a, _, err := NewDelegated(gen).Announcement(context.Background(), "x")
	if err != nil {
		t.Fatalf("Announcement() error = %v", err)
	}
	if a.CaseNumber.Value != "C13A07469" {
		t.Errorf("CaseNumber = %+v", a.CaseNumber)
	}
}

func TestDelegatedFallback(t *testing.T) {
	tests := []struct {
		name string
		gen  *mockGenerator
	}{
		{"service error", &mockGenerator{err: fmt.Errorf("%w: connection refused", llm.ErrExternalService)}},
		{"unparsable", &mockGenerator{resp: "抱歉，我無法處理"}},
		{"timeout", &mockGenerator{resp: `{}`, delay: time.Second}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDelegated(tt.gen, WithFallback(NewDeterministic()), WithTimeout(20*time.Millisecond))
			a, trace, err := d.Announcement(context.Background(), announcementText)
			if err != nil {
				t.Fatalf("Announcement() error = %v", err)
			}
			if trace.Strategy != StrategyFallback {
				t.Errorf("Strategy = %q", trace.Strategy)
			}
			if a.CaseNumber.Value != "C13A07469" {
				t.Errorf("fallback should use deterministic fields, got %+v", a.CaseNumber)
			}
			if len(trace.Notes) != 1 || trace.Notes[0].Field != "*" {
				t.Errorf("Notes = %+v", trace.Notes)
			}
		})
	}
}

func TestDelegatedWithoutFallbackIsUnknown(t *testing.T) {
	gen := &mockGenerator{err: llm.ErrExternalService}
	f, trace, err := NewDelegated(gen).Instructions(context.Background(), instructionsText)
	if err != nil {
		t.Fatalf("Instructions() error = %v", err)
	}
	if trace.Strategy != StrategyNone {
		t.Errorf("Strategy = %q", trace.Strategy)
	}
	if got := len(f.UnknownFields()); got != len(model.Clauses)+3 {
		t.Errorf("unknown fields = %d, want all", got)
	}
}

func TestDelegatedCallerCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	gen := &mockGenerator{resp: `{}`, delay: time.Second}
	if _, _, err := NewDelegated(gen, WithFallback(NewDeterministic())).Announcement(ctx, "x"); err == nil {
		t.Error("Announcement() with cancelled context expected error")
	}
}

func TestDelegatedTruncatesPrompt(t *testing.T) {
	gen := &mockGenerator{resp: `{}`}
	long := strings.Repeat("標", 5000)
	NewDelegated(gen, WithMaxChars(100)).Announcement(context.Background(), long)
	if n := strings.Count(gen.prompts[0], "標"); n > 150 {
		t.Errorf("prompt carries %d body characters, want about 100", n)
	}
}

func TestNew(t *testing.T) {
	cfg := config.Default()
	cfg.Extract.Strategy = "deterministic"
	if _, ok := New(cfg, &mockGenerator{}).(*Deterministic); !ok {
		t.Error("deterministic strategy should return *Deterministic")
	}
	cfg.Extract.Strategy = "delegated"
	if _, ok := New(cfg, nil).(*Deterministic); !ok {
		t.Error("delegated strategy without generator should fall back to *Deterministic")
	}
	if _, ok := New(cfg, &mockGenerator{}).(*Delegated); !ok {
		t.Error("delegated strategy should return *Delegated")
	}
}

func TestParsers(t *testing.T) {
	if parseFlag("是") != model.FlagYes || parseFlag("否") != model.FlagNo || parseFlag("未載明") != model.FlagUnknown {
		t.Error("parseFlag")
	}
	if parseCheckbox("未勾選") != model.CheckboxUnchecked || parseCheckbox("已勾選") != model.CheckboxChecked || parseCheckbox("?") != model.CheckboxUnknown {
		t.Error("parseCheckbox")
	}
	if parseForeign("不可參與投標") != model.ForeignDisallowed || parseForeign("得參與採購") != model.ForeignAllowed {
		t.Error("parseForeign")
	}
	if parseOpening("一次投標分段開標") != model.OpeningTwoStage || parseOpening("不分段開標") != model.OpeningSingleStage {
		t.Error("parseOpening")
	}
	if parseFuture("未保留") != model.FutureNone || parseFuture("保留") != model.FutureReserved {
		t.Error("parseFuture")
	}
	if parseObjectClass("財物類 買受，定製") != model.ObjectCustomMade || parseObjectClass("勞務類") != model.ObjectServices {
		t.Error("parseObjectClass")
	}
	quals := []struct {
		raw  string
		want model.Qualification
	}{
		{"合法設立登記之廠商", model.QualificationLegalRegistration},
		{"營業項目代碼:F108031", model.QualificationBusinessScope},
		{"合法設立登記之廠商，營業項目代碼:F108031", model.QualificationBusinessScope},
		{"未載明", model.QualificationUnknown},
		{"須具備ISO認證", model.QualificationOther},
	}
	for _, q := range quals {
		if got := parseQualification(q.raw); got != q.want {
			t.Errorf("parseQualification(%q) = %v, want %v", q.raw, got, q.want)
		}
	}
}
