package extract

import (
	"regexp"
	"strings"

	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/model"
)

const (
	checkedGlyph   = `(?:■|☑|☒|✓|✔|\[[xXvV✓]\]|\([xXvV✓]\))`
	uncheckedGlyph = `(?:□|☐|\[\s?\]|\(\s?\))`
)

// clauseLabels 条款标签，可有多个写法，依序尝试
var clauseLabels = map[string][]string{
	"第3點逾公告金額十分之一": {"(二)逾公告金額十分之一未達公告金額", "逾公告金額十分之一未達公告金額"},
	"第4點非特殊採購":     {"(一)非屬特殊採購", "非屬特殊採購"},
	"第5點公開取得報價":    {"公開取得書面報價", "公開取得報價"},
	"第6點訂底價":       {"訂底價"},
	"第7點保留增購":      {"(一)保留增購權利", "保留增購權利"},
	"第7點未保留增購":     {"(二)未保留增購權利", "未保留增購權利"},
	"第8點條約協定":      {"適用條約或協定", "條約或協定之採購"},
	"第8點可參與":       {"可以參與投標", "可參與投標"},
	"第8點不可參與":      {"不可參與投標", "不可以參與投標"},
	"第8點禁止大陸":      {"不允許大陸地區廠商參與"},
	"第9點電子領標":      {"電子領標"},
	"第13點敏感性":      {"具敏感性或國安", "敏感性或國安"},
	"第13點國安":       {"涉及國家安全"},
	"第13點其他業類":     {"(16)其他業類", "其他業類"},
	"第15點中文譯本":     {"應檢附經公證或認證之中文譯本", "中文譯本"},
	"第15點納稅證明":     {"4.納稅證明", "納稅證明"},
	"第15點信用證明":     {"5.信用證明", "信用證明"},
	"第19點無需押標金":    {"無需繳納押標金", "免收押標金", "不須繳納押標金"},
	"第19點一定金額":     {"一定金額"},
	"第35點非統包":      {"非統包", "不採統包"},
	"第42點不分段":      {"(一)採一次投標不分段開標", "一次投標不分段開標"},
	"第42點分二段":      {"(二)採一次投標分段開標", "一次投標分段開標", "分二段開標"},
	"第54點不協商":      {"不採行協商措施", "不採協商措施"},
	"第59點最低標":      {"1.最低標", "最低標"},
	"第59點非64條之2":   {"非採行施行細則第64條之2", "非依施行細則第64條之2", "非屬施行細則第64條之2"},
	"第59點身障優先":     {"優先採購身心障礙", "身心障礙福利機構"},
	"財物性質租購":       {"租購"},
	"財物性質買受定製":     {"買受,定製", "買受定製", "買受,訂製"},
}

type clausePattern struct {
	checked   *regexp.Regexp
	unchecked *regexp.Regexp
}

// 第13點業類：(1)~(15) 任一勾选即视为已勾选
var industryClass = clausePattern{
	checked:   regexp.MustCompile(checkedGlyph + `\s*\((?:[1-9]|1[0-5])\)`),
	unchecked: regexp.MustCompile(uncheckedGlyph + `\s*\((?:[1-9]|1[0-5])\)`),
}

var clausePatterns = func() map[string][]clausePattern {
	out := make(map[string][]clausePattern, len(clauseLabels))
	for key, labels := range clauseLabels {
		for _, l := range labels {
			expr := labelExpr(l)
			out[key] = append(out[key], clausePattern{
				checked:   regexp.MustCompile(checkedGlyph + `\s*` + expr),
				unchecked: regexp.MustCompile(uncheckedGlyph + `\s*` + expr),
			})
		}
	}
	out["第13點業類"] = []clausePattern{industryClass}
	return out
}()

// labelExpr 把标签转成容忍字间空白的正则，抽取文本时常在字间插入空格或换行
func labelExpr(label string) string {
	runes := []rune(label)
	parts := make([]string, len(runes))
	for i, r := range runes {
		parts[i] = regexp.QuoteMeta(string(r))
	}
	return strings.Join(parts, `\s*`)
}

// checkboxState 判断条款的勾选状态。
// 同一标签先出现的符号为准；找不到任何带符号的标签时返回未识别。
func checkboxState(text, key string) model.Checkbox {
	for _, p := range clausePatterns[key] {
		c := p.checked.FindStringIndex(text)
		u := p.unchecked.FindStringIndex(text)
		switch {
		case c != nil && (u == nil || c[0] < u[0]):
			return model.CheckboxChecked
		case u != nil:
			if key == "第13點業類" && p.checked.MatchString(text) {
				return model.CheckboxChecked
			}
			return model.CheckboxUnchecked
		}
	}
	return model.CheckboxUnknown
}
