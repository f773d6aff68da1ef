package usecase

import (
	"context"
	stderrors "errors"
	"path/filepath"
	"strings"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/tender_audit/app/display/internal/conf"
	"github.com/iWorld-y/tender_audit/app/display/internal/domain"
	"github.com/iWorld-y/tender_audit/app/display/internal/repo"
	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/model"
	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/report"
)

const maxPageSize = 100

// AuditUseCase 审核记录业务逻辑
type AuditUseCase struct {
	repo     repo.AuditRepo
	auditor  repo.Auditor
	caseRoot string
	log      *log.Helper
}

// NewAuditUseCase 创建审核业务逻辑实例
func NewAuditUseCase(repo repo.AuditRepo, auditor repo.Auditor, c *conf.Audit, logger log.Logger) *AuditUseCase {
	root := "."
	if c != nil && c.CaseRoot != "" {
		root = c.CaseRoot
	}
	return &AuditUseCase{
		repo:     repo,
		auditor:  auditor,
		caseRoot: root,
		log:      log.NewHelper(logger),
	}
}

// Submit 审核 case_root 下的一个案件资料夹
func (uc *AuditUseCase) Submit(ctx context.Context, folder string, userID int) (*model.AuditReport, int, error) {
	dir, err := uc.resolve(folder)
	if err != nil {
		return nil, 0, err
	}

	r, id, err := uc.auditor.Submit(ctx, dir, userID)
	switch {
	case stderrors.Is(err, model.ErrMissingDocument):
		return nil, 0, errors.BadRequest("MISSING_DOCUMENT", err.Error())
	case stderrors.Is(err, model.ErrUnreadableDocument):
		return nil, 0, errors.BadRequest("UNREADABLE_DOCUMENT", err.Error())
	case err != nil:
		uc.log.Errorf("audit %s failed: %v", folder, err)
		return nil, 0, err
	}
	return r, id, nil
}

// resolve 把提交的相对路径限制在 case_root 内
func (uc *AuditUseCase) resolve(folder string) (string, error) {
	folder = strings.TrimSpace(folder)
	if folder == "" {
		return "", errors.BadRequest("INVALID_ARGUMENT", "folder is required")
	}
	rel := filepath.Clean(string(filepath.Separator) + folder)
	if rel == string(filepath.Separator) {
		return "", errors.BadRequest("INVALID_ARGUMENT", "folder must name a case under case_root")
	}
	return filepath.Join(uc.caseRoot, rel), nil
}

// List 分页获取审核记录，userID 为 0 时列出全部
func (uc *AuditUseCase) List(ctx context.Context, userID, page, pageSize int) ([]*domain.AuditSummary, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return uc.repo.ListAudits(ctx, userID, page, pageSize)
}

// Get 获取完整报告
func (uc *AuditUseCase) Get(ctx context.Context, id int) (*domain.AuditDetail, error) {
	return uc.repo.GetAudit(ctx, id)
}

// RenderHTML 以 HTML 渲染已保存的报告
func (uc *AuditUseCase) RenderHTML(ctx context.Context, id int) ([]byte, error) {
	d, err := uc.repo.GetAudit(ctx, id)
	if err != nil {
		return nil, err
	}
	return report.Render(d.Report, report.FormatHTML)
}
