package report

import (
	"bytes"
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/model"
)

// BatchRow 批次审核中一个案件的摘要；Err 非空表示该案件无法审核
type BatchRow struct {
	Folder string
	Report *model.AuditReport
	Err    error
}

// RenderBatch 输出批次汇总表
func RenderBatch(rows []BatchRow) []byte {
	var b bytes.Buffer
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "案件\t案號\t結論\t風險\t通過\t不通過\t警告\t略過\t風險分數")

	var ok, failed int
	for _, row := range rows {
		name := filepath.Base(row.Folder)
		if row.Err != nil || row.Report == nil {
			failed++
			fmt.Fprintf(tw, "%s\t-\t無法審核\t-\t-\t-\t-\t-\t-\n", name)
			continue
		}
		ok++
		s := row.Report.Summary
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%d\t%.0f\n",
			name, row.Report.CaseID, s.Verdict.Label(), s.Risk.Label(),
			s.Passed, s.Failed, s.Warned, s.Skipped, s.RiskScore)
	}
	tw.Flush()

	fmt.Fprintf(&b, "\n共 %d 案，完成 %d 案，無法審核 %d 案\n", len(rows), ok, failed)
	for _, row := range rows {
		if row.Err != nil {
			fmt.Fprintf(&b, "  - %s: %v\n", filepath.Base(row.Folder), row.Err)
		}
	}
	return b.Bytes()
}
