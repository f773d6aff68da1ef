package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/report"
)

var (
	renderFormat string
	renderOut    string
)

var renderCmd = &cobra.Command{
	Use:   "render <report.json>",
	Short: "將 JSON 報告轉為其他格式",
	Long: `讀回先前輸出的 JSON 報告並以指定格式重新輸出，不重新審核。

Example:
  tender_audit render reports/C13A07469/run.json --format csv --out C13A07469.csv`,
	Args: cobra.ExactArgs(1),
	// 不需要加载配置
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE:              runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", "html", "输出格式: text/html/json/csv")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "输出文件，默认标准输出")
}

func runRender(cmd *cobra.Command, args []string) error {
	format, err := report.ParseFormat(renderFormat)
	if err != nil {
		return err
	}
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	r, err := report.ParseJSON(raw)
	if err != nil {
		return err
	}
	data, err := report.Render(r, format)
	if err != nil {
		return fmt.Errorf("render %s: %w", args[0], err)
	}
	return writeOutput(renderOut, data)
}
