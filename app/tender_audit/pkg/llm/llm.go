package llm

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/time/rate"
)

// ErrExternalService 文本生成服务不可用或返回异常
var ErrExternalService = errors.New("external service error")

// Generator 定义通用的文本生成接口
type Generator interface {
	Generate(ctx context.Context, req *Request) (string, error)
	// Name 返回 provider/model 标识，写入报告
	Name() string
}

// Request 通用生成请求
type Request struct {
	System      string
	Prompt      string
	Temperature float64
	JSON        bool // 要求服务端以 JSON 格式输出
}

// Limited 为 Generator 加上共享的限流器，批量审核时所有 worker 共用同一个实例
type Limited struct {
	next    Generator
	limiter *rate.Limiter
}

// NewLimited 包装 Generator；limiter 为 nil 时不限流
func NewLimited(next Generator, limiter *rate.Limiter) *Limited {
	return &Limited{next: next, limiter: limiter}
}

var _ Generator = (*Limited)(nil)

// Generate 等待令牌后转发请求
func (l *Limited) Generate(ctx context.Context, req *Request) (string, error) {
	if l.limiter != nil {
		if err := l.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}
	return l.next.Generate(ctx, req)
}

// Name 返回被包装的 Generator 名称
func (l *Limited) Name() string {
	return l.next.Name()
}

// NewLimiter 按每分钟请求数与突发数创建限流器，rpm 为 0 时不限流
func NewLimiter(rpm, burst int) *rate.Limiter {
	if rpm <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(float64(rpm)/60.0), burst)
}

// CleanJSON 去掉模型输出外层的 markdown 代码块标记
func CleanJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// OuterObject 返回第一个 '{' 到最后一个 '}' 之间的子串，找不到时返回空串
func OuterObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}
