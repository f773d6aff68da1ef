package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/logger"
	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/report"
)

// BatchOptions 批量审核选项
type BatchOptions struct {
	Workers          int // 为 0 时使用 concurrency.workers
	ProgressCallback func(folder string, done, total int)
}

// CaseFolders 返回 root 下的案件资料夹，按名称排序，隐藏目录被忽略
func CaseFolders(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read batch root: %w", err)
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		out = append(out, filepath.Join(root, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}

// AuditBatch 并发审核 root 下的每个案件资料夹，结果顺序与资料夹顺序一致。
// 单个案件的错误记录在对应行，不会中断其他案件。
func (e *Engine) AuditBatch(ctx context.Context, root string, opts BatchOptions) ([]report.BatchRow, error) {
	folders, err := CaseFolders(root)
	if err != nil {
		return nil, err
	}
	if len(folders) == 0 {
		return nil, fmt.Errorf("no case folders under %s", root)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = e.cfg.Concurrency.Workers
	}
	if workers <= 0 {
		workers = 1
	}
	logger.Log.Infof("开始批量审核 %d 个案件，并发数 %d", len(folders), workers)

	rows := make([]report.BatchRow, len(folders))
	var (
		mu   sync.Mutex
		done int
	)

	var g errgroup.Group
	g.SetLimit(workers)
	for i, folder := range folders {
		g.Go(func() error {
			r, err := e.AuditCase(ctx, folder)
			if err != nil {
				logger.Log.Errorf("案件无法审核 [%s]: %v", filepath.Base(folder), err)
			}
			rows[i] = report.BatchRow{Folder: folder, Report: r, Err: err}

			if opts.ProgressCallback != nil {
				mu.Lock()
				done++
				opts.ProgressCallback(folder, done, len(folders))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return rows, ctx.Err()
}
