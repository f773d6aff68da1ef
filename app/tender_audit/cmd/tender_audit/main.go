package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/config"
	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/engine"
	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/logger"
	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/sink"
	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/storage"
)

const defaultConfigPath = "configs/config.yaml"

var (
	// 全局参数
	configPath string
	verbose    bool
	noStore    bool
	noSink     bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "tender_audit",
	Short: "招標公告與投標須知一致性審核",
	Long: `tender_audit 讀取案件資料夾中的招標公告與投標須知，
提取欄位後依 23 項檢核表比對，輸出文字、HTML、JSON 或 CSV 報告。`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig(configPath, cmd.Flags().Changed("config"))
		if err != nil {
			return err
		}
		if verbose {
			c.Log.Level = "debug"
		}
		if err := logger.InitLogger(c.Log.Level, c.Log.File); err != nil {
			return fmt.Errorf("无法初始化日志: %w", err)
		}
		cfg = c
		return nil
	},
}

// loadConfig 未显式指定且默认路径不存在时使用内置默认配置
func loadConfig(path string, explicit bool) (*config.Config, error) {
	c, err := config.LoadConfig(path)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		c, err = config.Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("无法加载配置文件: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("配置错误: %w", err)
	}
	return c, nil
}

// newEngine 按配置接上数据库与报告输出；数据库连不上时只记录日志
func newEngine(ctx context.Context) (*engine.Engine, func(), error) {
	var opts []engine.Option
	cleanup := func() {}

	if cfg.DB.Host != "" && !noStore {
		store, err := storage.NewStorage(cfg.DB)
		if err != nil {
			logger.Log.Errorf("无法连接数据库: %v. 报告将不会入库。", err)
		} else {
			logger.Log.Info("已成功连接到数据库")
			opts = append(opts, engine.WithStore(store))
			cleanup = func() { store.Close() }
		}
	}

	if !noSink {
		out, err := sink.New(ctx, cfg.Sink)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		if out != nil {
			opts = append(opts, engine.WithSink(out))
		}
	}

	e, err := engine.NewEngine(ctx, cfg, opts...)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return e, cleanup, nil
}

// signalContext 收到 SIGINT/SIGTERM 时取消
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	base := cmd.Context()
	if base == nil {
		base = context.Background()
	}
	return signal.NotifyContext(base, syscall.SIGINT, syscall.SIGTERM)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath, "配置文件路径")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "输出调试日志")
	rootCmd.PersistentFlags().BoolVar(&noStore, "no-store", false, "不写入数据库")
	rootCmd.PersistentFlags().BoolVar(&noSink, "no-sink", false, "不输出报告文件")

	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(historyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
