package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/llm"
	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/logger"
	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/model"
)

// errUnparsable LLM 回应无法解析为 JSON 物件
var errUnparsable = errors.New("unparsable llm response")

// Delegated 把提取交给 LLM，并以规则提取结果交叉核对。
// LLM 失败时退回规则提取；未设置规则提取时字段全部为未知。
type Delegated struct {
	gen         llm.Generator
	fallback    *Deterministic
	maxChars    int
	temperature float64
	timeout     time.Duration
}

var _ Extractor = (*Delegated)(nil)

// DelegatedOption 可选配置
type DelegatedOption func(*Delegated)

// WithFallback 设置交叉核对与失败退回使用的规则提取器
func WithFallback(d *Deterministic) DelegatedOption {
	return func(x *Delegated) { x.fallback = d }
}

// WithMaxChars 设置送入 LLM 的正文字数上限
func WithMaxChars(n int) DelegatedOption {
	return func(x *Delegated) { x.maxChars = n }
}

// WithTemperature 设置生成温度
func WithTemperature(t float64) DelegatedOption {
	return func(x *Delegated) { x.temperature = t }
}

// WithTimeout 设置单次调用的超时，超时后按失败处理
func WithTimeout(d time.Duration) DelegatedOption {
	return func(x *Delegated) { x.timeout = d }
}

// NewDelegated 创建 LLM 提取器
func NewDelegated(gen llm.Generator, opts ...DelegatedOption) *Delegated {
	d := &Delegated{
		gen:         gen,
		maxChars:    3000,
		temperature: 0.1,
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

func (d *Delegated) Announcement(ctx context.Context, text string) (*model.AnnouncementFields, *Trace, error) {
	return run(ctx, d, model.DocAnnouncement, announcementFields, announcementPrompt(truncate(text, d.maxChars)),
		func() *model.AnnouncementFields { return d.fallback.announcement(text) })
}

func (d *Delegated) Instructions(ctx context.Context, text string) (*model.InstructionFields, *Trace, error) {
	return run(ctx, d, model.DocInstructions, instructionFields, instructionsPrompt(truncate(text, d.maxChars)),
		func() *model.InstructionFields { return d.fallback.instructions(text) })
}

func run[T any](ctx context.Context, d *Delegated, doc model.Document, fields []field[T], prompt string, det func() *T) (*T, *Trace, error) {
	gen, err := ask(ctx, d, fields, prompt)
	if err != nil {
		// 调用方取消时不再退回
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		logger.Log.Warnf("%s 的 LLM 提取失败，改用規則提取: %v", doc, err)
		note := model.DegradedField{Document: doc, Field: "*", Reason: "LLM 提取失敗: " + err.Error()}
		if d.fallback == nil {
			var empty T
			return &empty, &Trace{Strategy: StrategyNone, Notes: []model.DegradedField{note}}, nil
		}
		return det(), &Trace{Strategy: StrategyFallback, Notes: []model.DegradedField{note}}, nil
	}
	if d.fallback == nil {
		return gen, &Trace{Strategy: StrategyDelegated}, nil
	}
	merged, notes := merge(fields, doc, det(), gen)
	return merged, &Trace{Strategy: StrategyCrossChecked, Notes: notes}, nil
}

// ask 调用 LLM 并解码；先严格解析，失败后截取最外层物件再试一次
func ask[T any](ctx context.Context, d *Delegated, fields []field[T], prompt string) (*T, error) {
	callCtx := ctx
	if d.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	resp, err := d.gen.Generate(callCtx, &llm.Request{
		Prompt:      prompt,
		Temperature: d.temperature,
		JSON:        true,
	})
	if err != nil {
		return nil, err
	}

	values, err := decodeObject(llm.CleanJSON(resp))
	if err != nil {
		values, err = decodeObject(llm.OuterObject(resp))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errUnparsable, err)
		}
	}

	var out T
	for _, f := range fields {
		if v, ok := values[f.key]; ok {
			f.set(&out, stringify(v))
		}
	}
	return &out, nil
}

func decodeObject(s string) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, errors.New("not a json object")
	}
	if dec.More() {
		return nil, errors.New("trailing data after json object")
	}
	return m, nil
}

// stringify 把 JSON 值转为字段解析函数接受的字符串
func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		if x {
			return "是"
		}
		return "否"
	case nil, map[string]any, []any:
		// 嵌套对象或数组不是字段值，按未知处理
		return ""
	default:
		return fmt.Sprint(x)
	}
}

// Name 返回底层模型名称
func (d *Delegated) Name() string {
	return d.gen.Name()
}
