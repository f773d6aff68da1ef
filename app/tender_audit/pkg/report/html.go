package report

import (
	"bytes"
	"html/template"

	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/model"
)

const htmlTpl = `<!DOCTYPE html>
<html lang="zh-TW">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>招標文件審核報告 | {{.CaseID}}</title>
    <style>
        :root {
            --primary-color: #2563eb;
            --bg-color: #f8fafc;
            --card-bg: #ffffff;
            --text-main: #1e293b;
            --text-secondary: #64748b;
            --border-color: #e2e8f0;
        }
        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", "Noto Sans TC", "Microsoft JhengHei", sans-serif;
            background-color: var(--bg-color);
            color: var(--text-main);
            line-height: 1.6;
            margin: 0;
            padding: 20px;
        }
        .container { max-width: 1100px; margin: 0 auto; }
        header { margin-bottom: 24px; }
        h1 { font-size: 2rem; margin: 0 0 8px 0; }
        .meta { color: var(--text-secondary); font-size: 0.9rem; }
        .summary {
            background: var(--card-bg);
            border: 1px solid var(--border-color);
            border-radius: 12px;
            padding: 20px;
            margin-bottom: 24px;
            display: grid;
            gap: 12px;
            grid-template-columns: repeat(auto-fit, minmax(140px, 1fr));
        }
        .stat .value { font-size: 1.6rem; font-weight: bold; }
        .stat .label { color: var(--text-secondary); font-size: 0.85rem; }
        .verdict-pass { color: #16a34a; }
        .verdict-conditional { color: #d97706; }
        .verdict-fail { color: #dc2626; }
        table { width: 100%; border-collapse: collapse; background: var(--card-bg); border-radius: 12px; overflow: hidden; }
        th, td { padding: 10px 12px; border-bottom: 1px solid var(--border-color); text-align: left; vertical-align: top; font-size: 0.9rem; }
        th { background: #f1f5f9; }
        tr.status-fail.risk-high { background: #fee2e2; }
        tr.status-fail.risk-medium { background: #ffedd5; }
        tr.status-fail.risk-low { background: #fef9c3; }
        tr.status-warning { background: #fefce8; }
        tr.status-skip { color: var(--text-secondary); }
        .badge { display: inline-block; padding: 2px 8px; border-radius: 9999px; font-size: 0.8rem; background: #e2e8f0; }
        .badge.risk-high { background: #dc2626; color: #fff; }
        .badge.risk-medium { background: #f97316; color: #fff; }
        .section { margin-top: 24px; background: var(--card-bg); border: 1px solid var(--border-color); border-radius: 12px; padding: 16px 20px; }
        .section h2 { font-size: 1.1rem; margin-top: 0; }
    </style>
</head>
<body>
<div class="container">
    <header>
        <h1>招標文件審核報告</h1>
        <div class="meta">案號 {{.CaseID}} · 檢核表 {{.RuleSetVersion}} · {{.GeneratedAt.Format "2006-01-02 15:04:05"}}</div>
        <div class="meta">招標公告：{{.AnnouncementFile}} · 投標須知：{{.InstructionFile}}</div>
    </header>

    <div class="summary">
        <div class="stat"><div class="value verdict-{{.Summary.Verdict}}">{{.Summary.Verdict.Label}}</div><div class="label">{{.Summary.Action}}</div></div>
        <div class="stat"><div class="value">{{printf "%.0f" .Summary.RiskScore}}</div><div class="label">風險分數</div></div>
        <div class="stat"><div class="value">{{.Summary.Risk.Label}}</div><div class="label">風險等級</div></div>
        <div class="stat"><div class="value">{{.Summary.Passed}}</div><div class="label">通過</div></div>
        <div class="stat"><div class="value">{{.Summary.Failed}}</div><div class="label">不通過</div></div>
        <div class="stat"><div class="value">{{.Summary.Warned}}</div><div class="label">警告</div></div>
        <div class="stat"><div class="value">{{.Summary.Skipped}}</div><div class="label">略過</div></div>
    </div>

    <table>
        <thead>
            <tr><th>項次</th><th>檢核項目</th><th>結果</th><th>風險</th><th>公告</th><th>須知</th><th>說明</th></tr>
        </thead>
        <tbody>
        {{range .Checks}}
            <tr class="status-{{.Status}} risk-{{.Risk}}">
                <td>{{.ID}}</td>
                <td>{{.Label}}</td>
                <td>{{mark .Status}} {{.Status.Label}}</td>
                <td><span class="badge risk-{{.Risk}}">{{.Risk.Label}}</span></td>
                <td>{{.AnnouncementValue}}</td>
                <td>{{.InstructionValue}}</td>
                <td>{{.Explanation}}</td>
            </tr>
        {{end}}
        </tbody>
    </table>

    {{if .Degraded}}
    <div class="section">
        <h2>提取不完整的欄位</h2>
        <ul>
        {{range .Degraded}}<li>[{{.Document}}] {{.Field}}：{{.Reason}}</li>{{end}}
        </ul>
    </div>
    {{end}}

    {{with .Advice}}{{if .Priorities}}
    <div class="section">
        <h2>建議優先處理（僅供參考）</h2>
        <ol>
        {{range .Priorities}}<li>{{.}}</li>{{end}}
        </ol>
    </div>
    {{end}}{{end}}
</div>
</body>
</html>
`

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"mark": statusMark,
}).Parse(htmlTpl))

func renderHTML(r *model.AuditReport) ([]byte, error) {
	var b bytes.Buffer
	if err := htmlTemplate.Execute(&b, r); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}
