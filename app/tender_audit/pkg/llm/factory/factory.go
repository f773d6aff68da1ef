package factory

import (
	"context"
	"fmt"
	"time"

	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/chatmodel"
	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/config"
	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/llm"
	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/ollama"
)

// NewGenerator 根据配置创建文本生成实例。provider 为空时表示不使用 LLM，返回 nil。
func NewGenerator(ctx context.Context, cfg *config.Config) (llm.Generator, error) {
	timeout := time.Duration(cfg.LLM.Timeout) * time.Second

	var gen llm.Generator
	switch cfg.LLM.Provider {
	case "", "none":
		return nil, nil

	case "ollama":
		if cfg.LLM.Model == "" {
			return nil, fmt.Errorf("ollama model is missing")
		}
		gen = ollama.NewClient(cfg.LLM.BaseURL, cfg.LLM.Model, timeout)

	case "openai":
		if cfg.LLM.BaseURL == "" || cfg.LLM.Model == "" {
			return nil, fmt.Errorf("openai base url or model is missing")
		}
		c, err := chatmodel.NewClient(ctx, chatmodel.Config{
			BaseURL: cfg.LLM.BaseURL,
			APIKey:  cfg.LLM.APIKey,
			Model:   cfg.LLM.Model,
			Timeout: timeout,
		})
		if err != nil {
			return nil, err
		}
		gen = c

	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.LLM.Provider)
	}

	limiter := llm.NewLimiter(cfg.Concurrency.RPM, cfg.Concurrency.QPS)
	return llm.NewLimited(gen, limiter), nil
}
