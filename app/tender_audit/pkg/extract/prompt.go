package extract

import (
	"fmt"
	"strings"
)

// 各公告字段在提示词中的取值说明
var announcementHints = map[string]string{
	"案號":     "案號字串",
	"案名":     "案名",
	"招標方式":   "公開招標/公開取得報價/選擇性招標/限制性招標",
	"決標方式":   "最低標/最高標/最有利標",
	"採購金額":   "阿拉伯數字，不含逗號與幣別",
	"採購金級距":  "例如 未達公告金額",
	"依據法條":   "法條文字",
	"訂有底價":   "是/否",
	"複數決標":   "是/否",
	"依64條之2": "是/否",
	"標的分類":   "財物/勞務/工程/買受,定製",
	"適用條約":   "是/否",
	"敏感性採購":  "是/否",
	"國安採購":   "是/否",
	"增購權利":   "保留/未保留",
	"特殊採購":   "是/否",
	"統包":     "是/否",
	"協商措施":   "是/否",
	"電子領標":   "是/否",
	"優先身障":   "是/否",
	"外國廠商":   "可參與/不可參與",
	"限定中小企業": "是/否",
	"押標金":    "阿拉伯數字，無需押標金時填 0",
	"開標方式":   "不分段開標/分段開標",
	"廠商資格":   "合法設立登記/營業項目/其他",
}

const promptRules = `規則：
1. 只輸出一個 JSON 物件，不要任何說明文字或 markdown。
2. 文件中找不到的欄位一律填 "未載明"，不要推測。
3. 金額只填阿拉伯數字。`

func announcementPrompt(text string) string {
	var sb strings.Builder
	sb.WriteString("你是政府採購文件的資料擷取工具。請從以下「招標公告」擷取欄位。\n\n")
	sb.WriteString(promptRules)
	sb.WriteString("\n\n輸出格式：\n{\n")
	for i, f := range announcementFields {
		writeSchemaLine(&sb, f.key, announcementHints[f.key], i == len(announcementFields)-1)
	}
	sb.WriteString("}\n\n招標公告內容：\n")
	sb.WriteString(text)
	return sb.String()
}

func instructionsPrompt(text string) string {
	var sb strings.Builder
	sb.WriteString("你是政府採購文件的資料擷取工具。請從以下「投標須知」擷取案號、押標金與各條款勾選狀態。\n")
	sb.WriteString("勾選符號 ■ ☑ 表示已勾選，□ ☐ 表示未勾選。\n\n")
	sb.WriteString(promptRules)
	sb.WriteString("\n\n輸出格式：\n{\n")
	for i, f := range instructionFields {
		hint := "已勾選/未勾選"
		switch f.key {
		case "案號":
			hint = "案號字串"
		case "採購標的名稱":
			hint = "標的名稱"
		case "押標金金額":
			hint = "阿拉伯數字，無需押標金時填 0"
		}
		writeSchemaLine(&sb, f.key, hint, i == len(instructionFields)-1)
	}
	sb.WriteString("}\n\n投標須知內容：\n")
	sb.WriteString(text)
	return sb.String()
}

func writeSchemaLine(sb *strings.Builder, key, hint string, last bool) {
	sep := ","
	if last {
		sep = ""
	}
	fmt.Fprintf(sb, "  %q: \"%s\"%s\n", key, hint, sep)
}

// truncate 按字符截断，避免切断多字节字符
func truncate(text string, max int) string {
	if max <= 0 {
		return text
	}
	r := []rune(text)
	if len(r) <= max {
		return text
	}
	return string(r[:max])
}
