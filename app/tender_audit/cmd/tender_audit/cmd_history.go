package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/report"
	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/storage"
)

var (
	historyLimit int
	historyShow  int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "列出資料庫中的審核紀錄",
	Long:  "不帶參數時列出最近的審核紀錄；--show 指定編號時輸出該次完整的文字報告。",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.DB.Host == "" {
			return errors.New("未配置数据库 (db.host)")
		}
		store, err := storage.NewStorage(cfg.DB)
		if err != nil {
			return fmt.Errorf("无法连接数据库: %w", err)
		}
		defer store.Close()

		ctx := cmd.Context()
		if historyShow > 0 {
			r, err := store.GetAuditReport(ctx, historyShow)
			if err != nil {
				return err
			}
			data, err := report.Render(r, report.FormatText)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(data)
			return err
		}

		rows, err := store.ListAudits(ctx, 0, historyLimit)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "編號\t案號\t結論\t風險\t不通過\t警告\t時間")
		for _, a := range rows {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%d\t%s\n", a.ID, a.CaseID, a.Verdict.Label(), a.Risk.Label(),
				a.Failed, a.Warned, a.CreatedAt.Format("2006-01-02 15:04"))
		}
		return tw.Flush()
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "列出筆數")
	historyCmd.Flags().IntVar(&historyShow, "show", 0, "輸出指定編號的報告")
}
