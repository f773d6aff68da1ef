package conf

type Bootstrap struct {
	Server *Server `json:"server"`
	Data   *Data   `json:"data"`
	Auth   *Auth   `json:"auth"`
	Audit  *Audit  `json:"audit"`
}

type Auth struct {
	JwtKey   string `json:"jwt_key"`
	TokenTtl string `json:"token_ttl"` // 例如 24h
}

type Server struct {
	Http *HTTP `json:"http"`
}

type HTTP struct {
	Addr    string `json:"addr"`
	Timeout string `json:"timeout"`
}

type Data struct {
	Database *Database `json:"database"`
}

type Database struct {
	Driver string `json:"driver"`
	Source string `json:"source"`
}

// Audit 审核引擎配置，转换为 tender_audit 的 config.Config
type Audit struct {
	CaseRoot    string       `json:"case_root"` // 提交的案件资料夹必须位于此目录下
	Llm         *LLM         `json:"llm"`
	Extract     *Extract     `json:"extract"`
	Rules       *Rules       `json:"rules"`
	Log         *Log         `json:"log"`
	Concurrency *Concurrency `json:"concurrency"`
	Sink        *Sink        `json:"sink"`
}

type LLM struct {
	Provider    string  `json:"provider"`
	BaseUrl     string  `json:"base_url"`
	ApiKey      string  `json:"api_key"`
	Model       string  `json:"model"`
	Timeout     int32   `json:"timeout"`
	Temperature float64 `json:"temperature"`
	Advice      bool    `json:"advice"`
}

type Extract struct {
	Strategy  string `json:"strategy"`
	MaxPrompt int32  `json:"max_prompt"`
}

type Rules struct {
	AmountTolerance float64 `json:"amount_tolerance"`
}

type Log struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

type Concurrency struct {
	Workers int32 `json:"workers"`
	Qps     int32 `json:"qps"`
	Rpm     int32 `json:"rpm"`
}

type Sink struct {
	Type    string   `json:"type"`
	Dir     string   `json:"dir"`
	Formats []string `json:"formats"`
	S3      *S3      `json:"s3"`
}

type S3 struct {
	Bucket    string `json:"bucket"`
	Region    string `json:"region"`
	Prefix    string `json:"prefix"`
	AccessKey string `json:"access_key"`
	SecretKey string `json:"secret_key"`
}
