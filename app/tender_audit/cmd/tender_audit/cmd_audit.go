package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/model"
	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/report"
)

var (
	auditFormat string
	auditOut    string
	failOnFail  bool
)

var auditCmd = &cobra.Command{
	Use:   "audit <folder>",
	Short: "審核單一案件資料夾",
	Long: `讀取資料夾中的招標公告與投標須知並執行全部檢核。
報告依 --format 輸出到標準輸出或 --out 指定的檔案，另依設定寫入 sink 與資料庫。

Example:
  tender_audit audit ./cases/C13A07469
  tender_audit audit ./cases/C13A07469 --format html --out report.html`,
	Args: cobra.ExactArgs(1),
	RunE: runAudit,
}

func init() {
	auditCmd.Flags().StringVarP(&auditFormat, "format", "f", "text", "输出格式: text/html/json/csv")
	auditCmd.Flags().StringVarP(&auditOut, "out", "o", "", "输出文件，默认标准输出")
	auditCmd.Flags().BoolVar(&failOnFail, "fail-on-reject", false, "结论为不通過时以非零状态退出")
}

func runAudit(cmd *cobra.Command, args []string) error {
	format, err := report.ParseFormat(auditFormat)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd)
	defer cancel()

	e, cleanup, err := newEngine(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	r, err := e.AuditCase(ctx, args[0])
	if err != nil {
		return fmt.Errorf("無法審核: %w", err)
	}

	data, err := report.Render(r, format)
	if err != nil {
		return err
	}
	if err := writeOutput(auditOut, data); err != nil {
		return err
	}

	if failOnFail && r.Summary.Verdict == model.VerdictFail {
		return fmt.Errorf("審核結論: %s", r.Summary.Verdict.Label())
	}
	return nil
}

// writeOutput path 为空时写到标准输出
func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
