package report

import (
	"math"
	"time"

	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/model"
)

// 执行摘要的建议处置
const (
	ActionPublish      = "可直接發布"
	ActionRevise       = "建議修正後發布"
	ActionMajorRevise  = "必須重大修正"
	conditionalMaxFail = 2
)

// Meta 报告中与检核结果无关的部分
type Meta struct {
	RunID            string
	CaseID           string
	Folder           string
	AnnouncementFile string
	InstructionFile  string
	RuleSetVersion   string
	Strategy         map[model.Document]string
	GeneratedAt      time.Time
	Degraded         []model.DegradedField
	Announcement     *model.AnnouncementFields
	Instructions     *model.InstructionFields
}

// Assemble 汇总检核结果为报告，不修改 results
func Assemble(meta Meta, results []model.CheckResult) *model.AuditReport {
	checks := make([]model.CheckResult, len(results))
	copy(checks, results)

	generated := meta.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}
	return &model.AuditReport{
		RunID:            meta.RunID,
		CaseID:           meta.CaseID,
		Folder:           meta.Folder,
		AnnouncementFile: meta.AnnouncementFile,
		InstructionFile:  meta.InstructionFile,
		RuleSetVersion:   meta.RuleSetVersion,
		Strategy:         meta.Strategy,
		GeneratedAt:      generated,
		Checks:           checks,
		Summary:          Summarize(checks),
		Degraded:         meta.Degraded,
		Announcement:     meta.Announcement,
		Instructions:     meta.Instructions,
	}
}

// Summarize 统计各状态数量并给出执行摘要
func Summarize(results []model.CheckResult) model.Summary {
	s := model.Summary{Total: len(results), Risk: model.RiskLow}
	for _, r := range results {
		switch r.Status {
		case model.StatusPass:
			s.Passed++
		case model.StatusFail:
			s.Failed++
			if r.Risk > s.Risk {
				s.Risk = r.Risk
			}
		case model.StatusWarning:
			s.Warned++
		case model.StatusSkip:
			s.Skipped++
		}
	}
	if s.Total > 0 {
		s.PassRate = math.Round(float64(s.Passed)/float64(s.Total)*1000) / 1000
	}
	s.RiskScore = math.Max(0, math.Min(100, 100-15*float64(s.Failed)-5*float64(s.Warned)))

	switch {
	case s.Failed == 0:
		s.Verdict, s.Action = model.VerdictPass, ActionPublish
	case s.Failed <= conditionalMaxFail:
		s.Verdict, s.Action = model.VerdictConditional, ActionRevise
	default:
		s.Verdict, s.Action = model.VerdictFail, ActionMajorRevise
	}
	return s
}
