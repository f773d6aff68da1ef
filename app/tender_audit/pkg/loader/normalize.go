package loader

import (
	"html"
	"regexp"
	"strings"

	"golang.org/x/text/width"
)

var (
	// 段落、表格单元、换行一类的块级标签折叠为换行
	blockTagRe = regexp.MustCompile(`(?i)</?(?:text:p|text:h|text:list-item|text:line-break|table:table-cell|table:table-row|w:p|w:tc|w:tr|w:br|w:cr|p|div|br|tr|td|th|li|h[1-6])\b[^>]*>`)
	// ODT/DOCX 的空格与制表标签
	spaceTagRe = regexp.MustCompile(`(?i)<(?:text:s|text:tab|w:tab)\b[^>]*/?>`)
	anyTagRe   = regexp.MustCompile(`<[^>]+>`)
	spaceRunRe = regexp.MustCompile(`[ \t\f\v\x{00A0}]+`)
)

// 易混用字的统一写法；大写数字只在条次编号处改写，「參與」不受影响
var glyphReplacer = strings.NewReplacer(
	"：", ":",
	"壹、", "一、",
	"貳、", "二、",
	"參、", "三、",
	"\r\n", "\n",
	"\r", "\n",
)

// StripMarkup 去除 XML/HTML 标签，块级标签转为换行并还原实体
func StripMarkup(s string) string {
	s = blockTagRe.ReplaceAllString(s, "\n")
	s = spaceTagRe.ReplaceAllString(s, " ")
	s = anyTagRe.ReplaceAllString(s, "")
	return html.UnescapeString(s)
}

// Normalize 全形英数与标点折叠为半形，统一易混用字，压缩空白并去掉空行。
// ■□ 等勾选符号不受影响。
func Normalize(s string) string {
	s = width.Fold.String(s)
	s = glyphReplacer.Replace(s)

	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(spaceRunRe.ReplaceAllString(line, " "))
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
