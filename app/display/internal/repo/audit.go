package repo

import (
	"context"

	"github.com/iWorld-y/tender_audit/app/display/internal/domain"
	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/model"
)

// AuditRepo 审核记录仓库接口
type AuditRepo interface {
	// ListAudits 分页获取审核摘要，submittedBy 为 0 时不过滤
	ListAudits(ctx context.Context, submittedBy, page, pageSize int) ([]*domain.AuditSummary, int, error)
	// GetAudit 根据ID获取完整报告
	GetAudit(ctx context.Context, id int) (*domain.AuditDetail, error)
}

// UserRepo 用户仓库接口
type UserRepo interface {
	// CreateUser 创建用户
	CreateUser(ctx context.Context, u *domain.User) error
	// GetUserByUsername 根据用户名获取用户
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
}

// Auditor 执行审核并入库
type Auditor interface {
	Submit(ctx context.Context, folder string, submittedBy int) (*model.AuditReport, int, error)
}
