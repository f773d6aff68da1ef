package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config 项目配置结构体
type Config struct {
	LLM         LLMConfig         `yaml:"llm"`
	Extract     ExtractConfig     `yaml:"extract"`
	Rules       RulesConfig       `yaml:"rules"`
	Log         LogConfig         `yaml:"log"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	DB          DBConfig          `yaml:"db"`
	Sink        SinkConfig        `yaml:"sink"`
}

// LLMConfig LLM 相关配置
type LLMConfig struct {
	Provider    string  `yaml:"provider"` // ollama / openai / none
	BaseURL     string  `yaml:"base_url"`
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	Timeout     int     `yaml:"timeout"` // 秒
	Temperature float64 `yaml:"temperature"`
	Advice      bool    `yaml:"advice"` // 是否请求 LLM 给出优先处理建议
}

// ExtractConfig 字段提取配置
type ExtractConfig struct {
	Strategy  string `yaml:"strategy"`   // deterministic / delegated
	MaxPrompt int    `yaml:"max_prompt"` // 送入 LLM 的正文字数上限
}

// RulesConfig 检核规则配置
type RulesConfig struct {
	// AmountTolerance 金额差异容许比例，落在范围内判为警告；0 表示必须完全一致
	AmountTolerance float64 `yaml:"amount_tolerance"`
}

// DBConfig 数据库相关配置
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// SinkConfig 报告输出配置
type SinkConfig struct {
	Type    string   `yaml:"type"` // local / s3
	Dir     string   `yaml:"dir"`
	Formats []string `yaml:"formats"`
	S3      S3Config `yaml:"s3"`
}

// S3Config S3 存储配置
type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Prefix    string `yaml:"prefix"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ConcurrencyConfig 并发控制配置
type ConcurrencyConfig struct {
	Workers int `yaml:"workers"`
	QPS     int `yaml:"qps"`
	RPM     int `yaml:"rpm"`
}

// LoadConfig 从指定路径加载配置，再以环境变量（含 .env）覆盖敏感项
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// .env 不存在时忽略
	_ = godotenv.Load()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return &cfg, nil
}

// Default 返回不读取文件时使用的配置：只走规则提取，报告写到本地
func Default() *Config {
	var cfg Config
	_ = godotenv.Load()
	_ = cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg
}

// Prepare 供以其他方式构造的配置（如 display 服务的 bootstrap 转换结果）套用环境变量与默认值并校验
func (c *Config) Prepare() error {
	_ = godotenv.Load()
	if err := c.applyEnv(); err != nil {
		return err
	}
	c.applyDefaults()
	return c.Validate()
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("TENDER_LLM_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if v := os.Getenv("TENDER_LLM_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("TENDER_LLM_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("TENDER_LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("TENDER_DB_PASSWORD"); v != "" {
		c.DB.Password = v
	}
	if v := os.Getenv("TENDER_AMOUNT_TOLERANCE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid TENDER_AMOUNT_TOLERANCE: %w", err)
		}
		c.Rules.AmountTolerance = f
	}
	if v := os.Getenv("AWS_ACCESS_KEY_ID"); v != "" && c.Sink.S3.AccessKey == "" {
		c.Sink.S3.AccessKey = v
	}
	if v := os.Getenv("AWS_SECRET_ACCESS_KEY"); v != "" && c.Sink.S3.SecretKey == "" {
		c.Sink.S3.SecretKey = v
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = 60
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.1
	}
	if c.Extract.Strategy == "" {
		if c.LLM.Provider == "" || c.LLM.Provider == "none" {
			c.Extract.Strategy = "deterministic"
		} else {
			c.Extract.Strategy = "delegated"
		}
	}
	if c.Extract.MaxPrompt == 0 {
		c.Extract.MaxPrompt = 3000
	}
	if c.Concurrency.Workers == 0 {
		c.Concurrency.Workers = 4
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Sink.Type == "" {
		c.Sink.Type = "local"
	}
	if c.Sink.Dir == "" {
		c.Sink.Dir = "reports"
	}
	if len(c.Sink.Formats) == 0 {
		c.Sink.Formats = []string{"json", "html", "text"}
	}
}

// Validate 检查互相依赖的配置项
func (c *Config) Validate() error {
	if c.Rules.AmountTolerance < 0 || c.Rules.AmountTolerance >= 1 {
		return fmt.Errorf("rules.amount_tolerance must be in [0, 1), got %v", c.Rules.AmountTolerance)
	}
	switch c.Extract.Strategy {
	case "deterministic":
	case "delegated":
		if c.LLM.Provider == "" || c.LLM.Provider == "none" {
			return fmt.Errorf("extract.strategy delegated requires llm.provider")
		}
	default:
		return fmt.Errorf("unknown extract.strategy: %s", c.Extract.Strategy)
	}
	if c.Sink.Type == "s3" && c.Sink.S3.Bucket == "" {
		return fmt.Errorf("sink.s3.bucket is missing")
	}
	return nil
}
