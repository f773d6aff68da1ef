package rules

import (
	"sort"

	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/model"
)

// Version 当前检核表版本
const Version = "2024.1"

// Input 单条规则的输入
type Input struct {
	Announcement *model.AnnouncementFields
	Instructions *model.InstructionFields
	Tolerance    float64
}

// Outcome 规则判定结果，编号、名称与风险等级由 Evaluate 补上
type Outcome struct {
	Status            model.Status
	Reason            model.Reason
	AnnouncementValue string
	InstructionValue  string
	Explanation       string
}

// Check 一条规则的判定逻辑，不得修改输入
type Check func(in *Input) Outcome

// Rule 检核表中的一项
type Rule struct {
	ID    int
	Label string
	Risk  model.Risk
	Check Check
}

// RuleSet 带版本的检核表
type RuleSet struct {
	Version   string
	Rules     []Rule
	Tolerance float64
}

// Default 返回内置检核表；tolerance 为金额比对的容许比例
func Default(tolerance float64) *RuleSet {
	return &RuleSet{
		Version:   Version,
		Rules:     table(),
		Tolerance: tolerance,
	}
}

// Evaluate 对两份字段执行全部规则，结果数量恒等于规则数量并按编号排序。
// 任一字段记录为 nil 时视为全部未知。
func (rs *RuleSet) Evaluate(a *model.AnnouncementFields, f *model.InstructionFields) []model.CheckResult {
	if a == nil {
		a = &model.AnnouncementFields{}
	}
	if f == nil {
		f = &model.InstructionFields{}
	}
	in := &Input{Announcement: a, Instructions: f, Tolerance: rs.Tolerance}

	results := make([]model.CheckResult, 0, len(rs.Rules))
	for _, r := range rs.Rules {
		out := r.Check(in)
		results = append(results, model.CheckResult{
			ID:                r.ID,
			Label:             r.Label,
			Status:            out.Status,
			Risk:              r.Risk,
			Reason:            out.Reason,
			AnnouncementValue: out.AnnouncementValue,
			InstructionValue:  out.InstructionValue,
			Explanation:       out.Explanation,
		})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results
}
