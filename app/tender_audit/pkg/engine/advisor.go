package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/llm"
	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/model"
)

const (
	maxAdvice     = 5
	adviceRetries = 2
)

// 429 时的退避基数
var adviceBackoff = 2 * time.Second

const advicePrompt = `你是政府採購法規審核專家。以下是一份招標文件審核中未通過或有疑慮的檢核項目：

%s
請依影響程度排序，提出最多 %d 項建議優先處理的修正事項，每項一句話。
請務必嚴格按照以下 JSON 格式返回，不要包含任何 markdown 標記：
{"建議優先處理": ["建議1", "建議2"]}`

// Advisor 请 LLM 针对不通过与警告项给出处理顺序，结果只附在报告上，不影响任何检核结论
type Advisor struct {
	gen         llm.Generator
	temperature float64
}

func NewAdvisor(gen llm.Generator, temperature float64) *Advisor {
	return &Advisor{gen: gen, temperature: temperature}
}

type adviceResponse struct {
	Priorities []string `json:"建議優先處理"`
}

// Advise 没有不通过或警告项时返回 nil
func (a *Advisor) Advise(ctx context.Context, r *model.AuditReport) (*model.Advice, error) {
	var sb strings.Builder
	for _, c := range r.Checks {
		if c.Status != model.StatusFail && c.Status != model.StatusWarning {
			continue
		}
		fmt.Fprintf(&sb, "- 項次%d %s（%s，風險%s）：%s\n", c.ID, c.Label, c.Status.Label(), c.Risk.Label(), c.Explanation)
	}
	if sb.Len() == 0 {
		return nil, nil
	}

	req := &llm.Request{
		System:      "你是一个 JSON 生成器。请只输出 JSON 字符串。",
		Prompt:      fmt.Sprintf(advicePrompt, sb.String(), maxAdvice),
		Temperature: a.temperature,
		JSON:        true,
	}

	var lastErr error
	for i := 0; i <= adviceRetries; i++ {
		resp, err := a.gen.Generate(ctx, req)
		if err != nil {
			if isRateLimited(err) && i < adviceRetries {
				lastErr = err
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(adviceBackoff * time.Duration(1<<i)):
				}
				continue
			}
			return nil, err
		}

		priorities, err := parseAdvice(resp)
		if err != nil {
			return nil, err
		}
		if len(priorities) == 0 {
			return nil, nil
		}
		return &model.Advice{Priorities: priorities, Model: a.gen.Name()}, nil
	}
	return nil, fmt.Errorf("failed after retries: %w", lastErr)
}

func isRateLimited(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "too many requests")
}

var errEmptyAdvice = errors.New("advice response has no JSON object")

// parseAdvice 先解析整段输出，失败再取最外层 {...}
func parseAdvice(resp string) ([]string, error) {
	var out adviceResponse
	if err := json.Unmarshal([]byte(llm.CleanJSON(resp)), &out); err != nil {
		obj := llm.OuterObject(resp)
		if obj == "" {
			return nil, errEmptyAdvice
		}
		if err := json.Unmarshal([]byte(obj), &out); err != nil {
			return nil, fmt.Errorf("json unmarshal: %w", err)
		}
	}

	priorities := make([]string, 0, len(out.Priorities))
	for _, p := range out.Priorities {
		if p = strings.TrimSpace(p); p != "" {
			priorities = append(priorities, p)
		}
		if len(priorities) == maxAdvice {
			break
		}
	}
	return priorities, nil
}
