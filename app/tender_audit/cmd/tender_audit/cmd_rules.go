package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "列出檢核表",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rs := rules.Default(cfg.Rules.AmountTolerance)
		fmt.Printf("檢核表版本 %s，金額容許比例 %.2f%%\n\n", rs.Version, rs.Tolerance*100)

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "項次\t檢核項目\t風險")
		for _, r := range rs.Rules {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", r.ID, r.Label, r.Risk.Label())
		}
		return tw.Flush()
	},
}
