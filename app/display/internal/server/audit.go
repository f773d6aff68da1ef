package server

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/tender_audit/app/display/internal/conf"
	"github.com/iWorld-y/tender_audit/app/display/internal/data"
	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/config"
	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/engine"
	taLogger "github.com/iWorld-y/tender_audit/app/tender_audit/pkg/logger"
	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/sink"
)

// NewAuditEngine 初始化 tender_audit 引擎，报告写入与展示服务相同的数据库
func NewAuditEngine(c *conf.Audit, d *data.Data, logger log.Logger) (*engine.Engine, func(), error) {
	helper := log.NewHelper(logger)
	cfg := toConfig(c)
	if err := cfg.Prepare(); err != nil {
		return nil, nil, err
	}

	if err := taLogger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		helper.Errorf("Failed to init tender_audit logger: %v", err)
		_ = taLogger.InitLogger("info", "") // 降级处理
	}

	ctx := context.Background()
	out, err := sink.New(ctx, cfg.Sink)
	if err != nil {
		helper.Errorf("Failed to init report sink: %v", err)
		return nil, nil, err
	}

	opts := []engine.Option{engine.WithStore(d.Store())}
	if out != nil {
		opts = append(opts, engine.WithSink(out))
	}
	eng, err := engine.NewEngine(ctx, cfg, opts...)
	if err != nil {
		helper.Errorf("Failed to init engine: %v", err)
		return nil, nil, err
	}

	cleanup := func() {
		helper.Info("Cleaning up tender_audit engine")
	}
	return eng, cleanup, nil
}

// toConfig 将 conf.Audit 转换为 pkg/config.Config，缺省的段落留给 Prepare 补默认值
func toConfig(c *conf.Audit) *config.Config {
	cfg := &config.Config{}
	if c == nil {
		return cfg
	}
	if l := c.Llm; l != nil {
		cfg.LLM = config.LLMConfig{
			Provider:    l.Provider,
			BaseURL:     l.BaseUrl,
			APIKey:      l.ApiKey,
			Model:       l.Model,
			Timeout:     int(l.Timeout),
			Temperature: l.Temperature,
			Advice:      l.Advice,
		}
	}
	if x := c.Extract; x != nil {
		cfg.Extract = config.ExtractConfig{Strategy: x.Strategy, MaxPrompt: int(x.MaxPrompt)}
	}
	if r := c.Rules; r != nil {
		cfg.Rules.AmountTolerance = r.AmountTolerance
	}
	if l := c.Log; l != nil {
		cfg.Log = config.LogConfig{Level: l.Level, File: l.File}
	}
	if cc := c.Concurrency; cc != nil {
		cfg.Concurrency = config.ConcurrencyConfig{
			Workers: int(cc.Workers),
			QPS:     int(cc.Qps),
			RPM:     int(cc.Rpm),
		}
	}
	if s := c.Sink; s != nil {
		cfg.Sink = config.SinkConfig{Type: s.Type, Dir: s.Dir, Formats: s.Formats}
		if s.S3 != nil {
			cfg.Sink.S3 = config.S3Config{
				Bucket:    s.S3.Bucket,
				Region:    s.S3.Region,
				Prefix:    s.S3.Prefix,
				AccessKey: s.S3.AccessKey,
				SecretKey: s.S3.SecretKey,
			}
		}
	}
	return cfg
}
