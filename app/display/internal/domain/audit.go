package domain

import "github.com/iWorld-y/tender_audit/app/tender_audit/pkg/model"

// User 审阅人员
type User struct {
	ID           int
	Username     string
	PasswordHash string
}

// AuditSummary 审核记录摘要
type AuditSummary struct {
	ID          int
	RunID       string
	CaseID      string
	Verdict     string
	Risk        string
	RiskScore   float64
	Failed      int
	Warned      int
	SubmittedBy string
	CreatedAt   string
}

// AuditDetail 审核记录详情
type AuditDetail struct {
	ID     int
	Report *model.AuditReport
}
