package rules

import (
	"strings"
	"unicode"

	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/model"
)

// checkCaseIdentity 项次1：案号一致；案号只差结尾一个字母时判为警告；案号一致但案名不同也判为警告
func checkCaseIdentity(in *Input) Outcome {
	a, b := in.Announcement.CaseNumber, in.Instructions.CaseNumber
	out := caseNumberOutcome(a, b)
	out = out.withAnn("案號: " + a.String()).withIns("案號: " + b.String())
	if out.Status != model.StatusPass {
		return out
	}

	name, object := in.Announcement.CaseName, in.Instructions.ObjectName
	out = out.withAnn("案名: " + name.String()).withIns("採購標的名稱: " + object.String())
	switch {
	case !name.Known || !object.Known:
		out.Explanation += "（案名未載明，未比對）"
	case compact(name.Value) != compact(object.Value):
		out.Status = model.StatusWarning
		out.Reason = model.ReasonMismatch
		out.Explanation = "案號一致，但公告案名「" + name.Value + "」與須知採購標的名稱「" + object.Value + "」不同"
	}
	return out
}

func caseNumberOutcome(a, b model.Text) Outcome {
	if !a.Known || !b.Known {
		return skip(model.ReasonUnknownInput, "案號未載明，無法比對")
	}
	// 只忽略空白，大小写不同视为不同案号
	x, y := compact(a.Value), compact(b.Value)
	switch {
	case x == y:
		return pass("公告與須知案號皆為 " + a.Value)
	case trailingLetter(x, y) || trailingLetter(y, x):
		return warn(model.ReasonMismatch, "公告案號 "+a.Value+" 與須知案號 "+b.Value+" 僅差結尾字母，請確認是否為同一案")
	}
	return fail(model.ReasonMismatch, "公告案號 "+a.Value+" 與須知案號 "+b.Value+" 不一致")
}

// trailingLetter 判断 long 是否为 short 加上一个结尾字母
func trailingLetter(short, long string) bool {
	if len(long) != len(short)+1 || !strings.HasPrefix(long, short) {
		return false
	}
	last := rune(long[len(long)-1])
	return last < unicode.MaxASCII && unicode.IsLetter(last)
}

func compact(s string) string {
	return strings.Join(strings.Fields(s), "")
}
