package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/extract"
	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/llm/factory"
	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/loader"
)

var (
	fetchFields  bool
	fetchTimeout time.Duration
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <url>",
	Short: "抓取線上公告頁並輸出正文或提取的欄位",
	Long: `抓取政府電子採購網的公告頁，輸出正規化後的正文；
加上 --fields 時改為輸出公告欄位的提取結果（JSON），用於核對提取規則。

Example:
  tender_audit fetch "https://web.pcc.gov.tw/..." --fields`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().BoolVar(&fetchFields, "fields", false, "输出提取的公告字段")
	fetchCmd.Flags().DurationVar(&fetchTimeout, "timeout", 30*time.Second, "抓取超时")
}

func runFetch(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd)
	defer cancel()

	text, err := loader.FetchURL(ctx, args[0], fetchTimeout)
	if err != nil {
		return err
	}
	if !fetchFields {
		fmt.Println(text)
		return nil
	}

	gen, err := factory.NewGenerator(ctx, cfg)
	if err != nil {
		return err
	}
	fields, trace, err := extract.New(cfg, gen).Announcement(ctx, text)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(map[string]any{
		"strategy": trace.Strategy,
		"notes":    trace.Notes,
		"fields":   fields,
		"unknown":  fields.UnknownFields(),
	}, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
