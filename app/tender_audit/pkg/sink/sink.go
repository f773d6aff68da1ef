package sink

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/config"
)

// Sink 保存渲染好的报告文件
type Sink interface {
	// Put 写入 key 对应的内容，返回可供人查找的位置
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// New 根据配置创建 Sink，type 为 none 时返回 nil
func New(ctx context.Context, cfg config.SinkConfig) (Sink, error) {
	switch cfg.Type {
	case "none":
		return nil, nil
	case "", "local":
		return NewLocal(cfg.Dir), nil
	case "s3":
		s, err := NewS3(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown sink type: %s", cfg.Type)
	}
}

// Key 组合报告文件名：<案号>/<run>.<ext>
func Key(caseID, runID, ext string) string {
	caseID = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, strings.TrimSpace(caseID))
	if caseID == "" {
		caseID = "unknown"
	}
	return path.Join(caseID, runID+ext)
}
