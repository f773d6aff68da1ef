package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/engine"
	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/logger"
	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/report"
)

var (
	batchWorkers int
	batchOut     string
)

var batchCmd = &cobra.Command{
	Use:   "batch <root>",
	Short: "批次審核 root 下的所有案件資料夾",
	Long: `root 下每個子資料夾視為一個案件，並行審核後輸出彙總表。
單一案件無法審核時標示為「無法審核」，其他案件照常處理。

Example:
  tender_audit batch ./cases --workers 8`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "并发数，默认取配置 concurrency.workers")
	batchCmd.Flags().StringVarP(&batchOut, "out", "o", "", "汇总表输出文件，默认标准输出")
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd)
	defer cancel()

	e, cleanup, err := newEngine(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	rows, err := e.AuditBatch(ctx, args[0], engine.BatchOptions{
		Workers: batchWorkers,
		ProgressCallback: func(folder string, done, total int) {
			logger.Log.Infof("进度 %d/%d: %s", done, total, filepath.Base(folder))
		},
	})
	if rows != nil {
		if werr := writeOutput(batchOut, report.RenderBatch(rows)); werr != nil {
			return werr
		}
	}
	if err != nil {
		return fmt.Errorf("批次審核中斷: %w", err)
	}
	return nil
}
