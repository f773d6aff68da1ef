package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/llm"
)

// DefaultBaseURL 本机 Ollama 服务地址
const DefaultBaseURL = "http://localhost:11434"

// Client Ollama /api/generate 客户端
type Client struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewClient 创建一个新的 Ollama 客户端，timeout 为 0 时使用 60 秒
func NewClient(baseURL, model string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   model,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Ensure Client implements llm.Generator
var _ llm.Generator = (*Client)(nil)

// GenerateRequest /api/generate 请求体
type GenerateRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	System      string  `json:"system,omitempty"`
	Stream      bool    `json:"stream"`
	Temperature float64 `json:"temperature"`
	Format      string  `json:"format,omitempty"`
}

// GenerateResponse /api/generate 非流式响应
type GenerateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Generate 发送一次非流式生成请求，不做重试
func (c *Client) Generate(ctx context.Context, req *llm.Request) (string, error) {
	body := GenerateRequest{
		Model:       c.model,
		Prompt:      req.Prompt,
		System:      req.System,
		Stream:      false,
		Temperature: req.Temperature,
	}
	if req.JSON {
		body.Format = "json"
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request failed: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request failed: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: request failed: %w", llm.ErrExternalService, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return "", fmt.Errorf("%w: ollama api error (status %d): %s", llm.ErrExternalService, res.StatusCode, string(msg))
	}

	var genResp GenerateResponse
	if err := json.NewDecoder(res.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("%w: decode response failed: %w", llm.ErrExternalService, err)
	}
	return genResp.Response, nil
}

// Name 返回 provider/model 标识
func (c *Client) Name() string {
	return "ollama/" + c.model
}
