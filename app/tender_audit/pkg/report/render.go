package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/model"
)

// Format 报告输出格式
type Format string

const (
	FormatText Format = "text"
	FormatHTML Format = "html"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// Formats 支持的全部格式
var Formats = []Format{FormatText, FormatHTML, FormatJSON, FormatCSV}

// ErrUnknownFormat 不支持的输出格式
var ErrUnknownFormat = errors.New("unknown report format")

// ParseFormat 解析格式名称，大小写不敏感
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, x := range Formats {
		if f == x {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, s)
}

// Ext 输出文件扩展名
func (f Format) Ext() string {
	if f == FormatText {
		return ".txt"
	}
	return "." + string(f)
}

// ContentType 对应的 MIME 类型
func (f Format) ContentType() string {
	switch f {
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatJSON:
		return "application/json"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}

// Render 按格式渲染报告，不修改报告
func Render(r *model.AuditReport, format Format) ([]byte, error) {
	switch format {
	case FormatText:
		return renderText(r), nil
	case FormatHTML:
		return renderHTML(r)
	case FormatJSON:
		return json.MarshalIndent(r, "", "  ")
	case FormatCSV:
		return renderCSV(r)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
}

// ParseJSON 读回 JSON 报告
func ParseJSON(data []byte) (*model.AuditReport, error) {
	var r model.AuditReport
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return &r, nil
}

func statusMark(s model.Status) string {
	switch s {
	case model.StatusPass:
		return "✅"
	case model.StatusFail:
		return "❌"
	case model.StatusWarning:
		return "⚠️"
	}
	return "⏭️"
}

func renderText(r *model.AuditReport) []byte {
	var b bytes.Buffer
	line := strings.Repeat("=", 60)
	s := r.Summary

	fmt.Fprintln(&b, line)
	fmt.Fprintln(&b, "招標文件審核報告")
	fmt.Fprintln(&b, line)
	fmt.Fprintf(&b, "案號: %s\n", r.CaseID)
	fmt.Fprintf(&b, "招標公告: %s\n", r.AnnouncementFile)
	fmt.Fprintf(&b, "投標須知: %s\n", r.InstructionFile)
	fmt.Fprintf(&b, "檢核表版本: %s\n", r.RuleSetVersion)
	fmt.Fprintf(&b, "審核時間: %s\n", r.GeneratedAt.Format("2006-01-02 15:04:05"))
	for _, doc := range []model.Document{model.DocAnnouncement, model.DocInstructions} {
		if st, ok := r.Strategy[doc]; ok {
			fmt.Fprintf(&b, "提取方式(%s): %s\n", doc, st)
		}
	}

	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "【執行摘要】")
	fmt.Fprintf(&b, "  結論: %s，%s\n", s.Verdict.Label(), s.Action)
	fmt.Fprintf(&b, "  風險等級: %s    風險分數: %.0f/100\n", s.Risk.Label(), s.RiskScore)
	fmt.Fprintf(&b, "  通過 %d / 不通過 %d / 警告 %d / 略過 %d，共 %d 項（通過率 %.1f%%）\n",
		s.Passed, s.Failed, s.Warned, s.Skipped, s.Total, s.PassRate*100)

	if len(r.Degraded) > 0 {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, "【提取不完整的欄位】")
		for _, d := range r.Degraded {
			fmt.Fprintf(&b, "  - [%s] %s: %s\n", d.Document, d.Field, d.Reason)
		}
	}

	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "【逐項結果】")
	for _, c := range r.Checks {
		fmt.Fprintf(&b, "%s 項次%d %s（%s，風險%s）\n", statusMark(c.Status), c.ID, c.Label, c.Status.Label(), c.Risk.Label())
		if c.AnnouncementValue != "" {
			fmt.Fprintf(&b, "    公告: %s\n", c.AnnouncementValue)
		}
		if c.InstructionValue != "" {
			fmt.Fprintf(&b, "    須知: %s\n", c.InstructionValue)
		}
		fmt.Fprintf(&b, "    說明: %s\n", c.Explanation)
	}

	if r.Advice != nil && len(r.Advice.Priorities) > 0 {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, "【建議優先處理】（僅供參考）")
		for i, p := range r.Advice.Priorities {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, p)
		}
	}
	fmt.Fprintln(&b, line)
	return b.Bytes()
}

var csvHeader = []string{"項次", "檢核項目", "結果", "風險", "原因", "公告內容", "須知內容", "說明"}

// renderCSV 带 BOM，Excel 可直接打开
func renderCSV(r *model.AuditReport) ([]byte, error) {
	var b bytes.Buffer
	b.WriteString("\ufeff")
	w := csv.NewWriter(&b)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, c := range r.Checks {
		row := []string{
			strconv.Itoa(c.ID),
			c.Label,
			c.Status.Label(),
			c.Risk.Label(),
			c.Reason.String(),
			c.AnnouncementValue,
			c.InstructionValue,
			c.Explanation,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}
