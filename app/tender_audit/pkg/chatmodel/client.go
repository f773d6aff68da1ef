package chatmodel

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/llm"
)

// Client 基于 eino ChatModel 的 OpenAI 兼容客户端
type Client struct {
	model string
	cm    model.ChatModel
}

// Config OpenAI 兼容服务配置
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// NewClient 初始化 ChatModel
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}
	return &Client{model: cfg.Model, cm: cm}, nil
}

// NewFromChatModel 使用已有的 ChatModel，便于测试替换
func NewFromChatModel(name string, cm model.ChatModel) *Client {
	return &Client{model: name, cm: cm}
}

var _ llm.Generator = (*Client)(nil)

// Generate 以 system + user 两条消息调用 ChatModel
func (c *Client) Generate(ctx context.Context, req *llm.Request) (string, error) {
	system := req.System
	if system == "" && req.JSON {
		system = "你是一個 JSON 生成器。請只輸出 JSON 字串。"
	}

	var messages []*schema.Message
	if system != "" {
		messages = append(messages, schema.SystemMessage(system))
	}
	messages = append(messages, schema.UserMessage(req.Prompt))

	resp, err := c.cm.Generate(ctx, messages, model.WithTemperature(float32(req.Temperature)))
	if err != nil {
		return "", fmt.Errorf("%w: %w", llm.ErrExternalService, err)
	}
	return resp.Content, nil
}

// Name 返回 provider/model 标识
func (c *Client) Name() string {
	return "openai/" + c.model
}
