package rules

import (
	"fmt"
	"strings"

	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/model"
)

func pass(expl string) Outcome { return Outcome{Status: model.StatusPass, Explanation: expl} }

func fail(reason model.Reason, expl string) Outcome {
	return Outcome{Status: model.StatusFail, Reason: reason, Explanation: expl}
}

func warn(reason model.Reason, expl string) Outcome {
	return Outcome{Status: model.StatusWarning, Reason: reason, Explanation: expl}
}

func skip(reason model.Reason, expl string) Outcome {
	return Outcome{Status: model.StatusSkip, Reason: reason, Explanation: expl}
}

func (o Outcome) withAnn(v string) Outcome {
	o.AnnouncementValue = joinValue(o.AnnouncementValue, v)
	return o
}

func (o Outcome) withIns(v string) Outcome {
	o.InstructionValue = joinValue(o.InstructionValue, v)
	return o
}

func joinValue(cur, v string) string {
	switch {
	case v == "":
		return cur
	case cur == "":
		return v
	case strings.Contains(cur, v):
		return cur
	}
	return cur + "；" + v
}

var clauseByKey = func() map[string]func(*model.InstructionFields) *model.Checkbox {
	m := make(map[string]func(*model.InstructionFields) *model.Checkbox, len(model.Clauses))
	for _, c := range model.Clauses {
		m[c.Key] = c.Field
	}
	return m
}()

// clause 按条款键取勾选状态；键写错属于编程错误
func clause(key string) func(*model.InstructionFields) *model.Checkbox {
	f, ok := clauseByKey[key]
	if !ok {
		panic("rules: unknown clause " + key)
	}
	return f
}

type labeled interface {
	~int8
	Label() string
}

// on 按公告字段取值分派：未知时略过，未列出的取值视为不适用。
// 分支失败时在说明前补上公告的取值，使说明同时包含两份文件的值。
func on[E labeled](label string, get func(*model.AnnouncementFields) E, cases map[E]Check) Check {
	return func(in *Input) Outcome {
		v := get(in.Announcement)
		shown := label + ": " + v.Label()
		if v == 0 {
			return skip(model.ReasonUnknownInput, "公告「"+label+"」未載明，無法判斷").withAnn(shown)
		}
		c, ok := cases[v]
		if !ok {
			return pass("不適用（公告「" + label + "」為" + v.Label() + "）").withAnn(shown)
		}
		out := c(in)
		if out.Status == model.StatusFail || out.Status == model.StatusWarning {
			out.Explanation = "公告「" + label + "」為" + v.Label() + "，但" + out.Explanation
		}
		return out.withAnn(shown)
	}
}

// when 公告字段等于 want 时才执行 then
func when[E labeled](label string, get func(*model.AnnouncementFields) E, want E, then Check) Check {
	return on(label, get, map[E]Check{want: then})
}

// requireChecked 须知条款必须勾选
func requireChecked(key string) Check {
	field := clause(key)
	return func(in *Input) Outcome {
		v := *field(in.Instructions)
		shown := key + ": " + v.Label()
		switch v {
		case model.CheckboxChecked:
			return pass("須知「" + key + "」已勾選").withIns(shown)
		case model.CheckboxUnchecked:
			return fail(model.ReasonMissingCheckbox, "須知「"+key+"」未勾選").withIns(shown)
		}
		return skip(model.ReasonUnknownInput, "須知「"+key+"」勾選狀態無法識別").withIns(shown)
	}
}

// forbidChecked 须知条款不得勾选
func forbidChecked(key string) Check {
	field := clause(key)
	return func(in *Input) Outcome {
		v := *field(in.Instructions)
		shown := key + ": " + v.Label()
		switch v {
		case model.CheckboxUnchecked:
			return pass("須知「" + key + "」未勾選").withIns(shown)
		case model.CheckboxChecked:
			return fail(model.ReasonUnexpectedCheckbox, "須知「"+key+"」不應勾選卻已勾選").withIns(shown)
		}
		return skip(model.ReasonUnknownInput, "須知「"+key+"」勾選狀態無法識別").withIns(shown)
	}
}

// exclusive 二选一条款：want 必须勾选，other 同时勾选视为互相矛盾
func exclusive(want, other string) Check {
	w, o := clause(want), clause(other)
	return func(in *Input) Outcome {
		wv, ov := *w(in.Instructions), *o(in.Instructions)
		shown := want + ": " + wv.Label() + "；" + other + ": " + ov.Label()
		switch {
		case wv == model.CheckboxChecked && ov == model.CheckboxChecked:
			return fail(model.ReasonContradictoryCheckboxes,
				"須知「"+want+"」與「"+other+"」同時勾選，互相矛盾").withIns(shown)
		case wv == model.CheckboxChecked:
			return pass("須知「" + want + "」已勾選").withIns(shown)
		case wv == model.CheckboxUnchecked:
			return fail(model.ReasonMissingCheckbox, "須知「"+want+"」未勾選").withIns(shown)
		}
		return skip(model.ReasonUnknownInput, "須知「"+want+"」勾選狀態無法識別").withIns(shown)
	}
}

// notSpecified 检核方式尚未定义的分支，明确略过而不是默认通过
func notSpecified(expl string) Check {
	return func(in *Input) Outcome {
		return skip(model.ReasonNotSpecified, expl+"，檢核方式尚未定義，請人工確認")
	}
}

func severity(s model.Status) int {
	switch s {
	case model.StatusFail:
		return 3
	case model.StatusWarning:
		return 2
	case model.StatusSkip:
		return 1
	}
	return 0
}

// all 执行全部子项，结果取最严重者：不通过 > 警告 > 略过 > 通过
func all(checks ...Check) Check {
	return func(in *Input) Outcome {
		outs := make([]Outcome, len(checks))
		res := Outcome{Status: model.StatusPass}
		for i, c := range checks {
			outs[i] = c(in)
			if severity(outs[i].Status) > severity(res.Status) {
				res.Status = outs[i].Status
			}
		}
		var expl []string
		for _, o := range outs {
			res = res.withAnn(o.AnnouncementValue).withIns(o.InstructionValue)
			if o.Status != res.Status {
				continue
			}
			if res.Reason == model.ReasonNone {
				res.Reason = o.Reason
			}
			expl = append(expl, o.Explanation)
		}
		res.Explanation = strings.Join(expl, "；")
		return res
	}
}

// optional 子项输入未知时不影响整体结果
func optional(c Check) Check {
	return func(in *Input) Outcome {
		out := c(in)
		if out.Status == model.StatusSkip && out.Reason == model.ReasonUnknownInput {
			out.Status = model.StatusPass
			out.Reason = model.ReasonNone
			out.Explanation += "，未列入比對"
		}
		return out
	}
}

// textContains 公告文字字段须包含 want
func textContains(label string, get func(*model.AnnouncementFields) model.Text, want string) Check {
	return func(in *Input) Outcome {
		v := get(in.Announcement)
		shown := label + ": " + v.String()
		if !v.Known {
			return skip(model.ReasonUnknownInput, "公告「"+label+"」未載明").withAnn(shown)
		}
		if !strings.Contains(v.Value, want) {
			return fail(model.ReasonMismatch, "公告「"+label+"」為「"+v.Value+"」，應為「"+want+"」").withAnn(shown)
		}
		return pass("公告「" + label + "」為「" + v.Value + "」").withAnn(shown)
	}
}

// diffRatio 返回 |a-b|/max(a,b)
func diffRatio(a, b int64) float64 {
	hi, lo := a, b
	if lo > hi {
		hi, lo = lo, hi
	}
	if hi <= 0 {
		return 0
	}
	return float64(hi-lo) / float64(hi)
}

// amountRange 金额须落在 [min, max)；超出但在容许比例内判为警告
func amountRange(label string, get func(*model.AnnouncementFields) model.Amount, min, max int64) Check {
	return func(in *Input) Outcome {
		v := get(in.Announcement)
		shown := label + ": " + v.String()
		if !v.Known {
			return skip(model.ReasonUnknownInput, "公告「"+label+"」未載明").withAnn(shown)
		}
		if v.Value >= min && v.Value < max {
			return pass(fmt.Sprintf("%s %s 介於 %s 與 %s 之間", label, v, model.NewAmount(min), model.NewAmount(max))).withAnn(shown)
		}
		bound := min
		if v.Value >= max {
			bound = max
		}
		expl := fmt.Sprintf("%s %s 不在 %s 至 %s 之間", label, v, model.NewAmount(min), model.NewAmount(max))
		if in.Tolerance > 0 && diffRatio(v.Value, bound) <= in.Tolerance {
			return warn(model.ReasonOutOfRange, expl+"（在容許誤差內）").withAnn(shown)
		}
		return fail(model.ReasonOutOfRange, expl).withAnn(shown)
	}
}

// compareAmount 比对两份文件的金额，任一方未知时略过
func compareAmount(label string, ann func(*model.AnnouncementFields) model.Amount, ins func(*model.InstructionFields) model.Amount) Check {
	return func(in *Input) Outcome {
		a, b := ann(in.Announcement), ins(in.Instructions)
		out := compareAmounts(label, a, b, in.Tolerance)
		return out.withAnn(label + ": " + a.String()).withIns(label + ": " + b.String())
	}
}

func compareAmounts(label string, a, b model.Amount, tolerance float64) Outcome {
	switch {
	case !a.Known && !b.Known:
		return skip(model.ReasonUnknownInput, "公告與須知的"+label+"皆未載明")
	case !a.Known:
		return skip(model.ReasonUnknownInput, "公告"+label+"未載明，無法比對")
	case !b.Known:
		return skip(model.ReasonUnknownInput, "須知"+label+"未載明，無法比對")
	case a.Value == b.Value:
		return pass(fmt.Sprintf("公告與須知%s皆為 %s", label, a))
	}
	r := diffRatio(a.Value, b.Value)
	if r <= tolerance {
		return warn(model.ReasonMismatch, fmt.Sprintf("公告%s %s 與須知 %s 略有差異（%.2f%%，在容許誤差內）", label, rawOf(a), rawOf(b), r*100))
	}
	return fail(model.ReasonMismatch, fmt.Sprintf("公告%s %s 與須知 %s 不一致", label, rawOf(a), rawOf(b)))
}

// rawOf 优先展示原文写法
func rawOf(a model.Amount) string {
	if a.Raw != "" && a.Raw != fmt.Sprint(a.Value) {
		return a.Raw
	}
	return a.String()
}
