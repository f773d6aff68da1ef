package model

import "time"

// CheckResult 单项检核结果，生成后不再修改
type CheckResult struct {
	ID                int    `json:"id"`
	Label             string `json:"label"`
	Status            Status `json:"status"`
	Risk              Risk   `json:"risk"`
	Reason            Reason `json:"reason"`
	AnnouncementValue string `json:"announcement_value"`
	InstructionValue  string `json:"instruction_value"`
	Explanation       string `json:"explanation"`
}

// Summary 检核统计与执行摘要
type Summary struct {
	Total     int     `json:"total"`
	Passed    int     `json:"passed"`
	Failed    int     `json:"failed"`
	Warned    int     `json:"warned"`
	Skipped   int     `json:"skipped"`
	PassRate  float64 `json:"pass_rate"`
	Risk      Risk    `json:"risk"`
	RiskScore float64 `json:"risk_score"` // 0-100，越高越安全
	Verdict   Verdict `json:"verdict"`
	Action    string  `json:"action"`
}

// Document 文件种类
type Document string

const (
	DocAnnouncement Document = "announcement"
	DocInstructions Document = "instructions"
)

// DegradedField 未能可靠提取的字段，相关检核的结论可信度较低
type DegradedField struct {
	Document Document `json:"document"`
	Field    string   `json:"field"`
	Reason   string   `json:"reason"`
}

// Advice LLM 给出的优先处理建议，仅供参考，不影响任何检核结论
type Advice struct {
	Priorities []string `json:"priorities"`
	Model      string   `json:"model,omitempty"`
}

// AuditReport 单个案件的审核报告
type AuditReport struct {
	RunID            string              `json:"run_id"`
	CaseID           string              `json:"case_id"`
	Folder           string              `json:"folder"`
	AnnouncementFile string              `json:"announcement_file"`
	InstructionFile  string              `json:"instruction_file"`
	RuleSetVersion   string              `json:"rule_set_version"`
	Strategy         map[Document]string `json:"strategy,omitempty"` // 每份文件实际使用的提取策略
	GeneratedAt      time.Time           `json:"generated_at"`
	Checks           []CheckResult       `json:"checks"`
	Summary          Summary             `json:"summary"`
	Degraded         []DegradedField     `json:"degraded,omitempty"`
	Advice           *Advice             `json:"advice,omitempty"`
	Announcement     *AnnouncementFields `json:"announcement,omitempty"`
	Instructions     *InstructionFields  `json:"instructions,omitempty"`
}
