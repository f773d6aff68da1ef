package data

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/tender_audit/app/display/internal/domain"
	"github.com/iWorld-y/tender_audit/app/display/internal/repo"
	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/model"
	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/storage"
)

type auditRepo struct {
	data *Data
	log  *log.Helper
}

func NewAuditRepo(data *Data, logger log.Logger) repo.AuditRepo {
	return &auditRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (r *auditRepo) ListAudits(ctx context.Context, submittedBy, page, pageSize int) ([]*domain.AuditSummary, int, error) {
	offset := (page - 1) * pageSize

	var total int
	if err := r.data.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM audit_runs WHERE $1 = 0 OR submitted_by = $1`, submittedBy,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.data.db.QueryContext(ctx, `
		SELECT a.id, a.run_id, a.case_id, a.verdict, a.risk, a.risk_score, a.failed, a.warned,
			COALESCE(u.username, ''), a.created_at
		FROM audit_runs a
		LEFT JOIN users u ON u.id = a.submitted_by
		WHERE $1 = 0 OR a.submitted_by = $1
		ORDER BY a.created_at DESC, a.id DESC
		LIMIT $2 OFFSET $3`, submittedBy, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var summaries []*domain.AuditSummary
	for rows.Next() {
		var (
			s             domain.AuditSummary
			verdict, risk string
			createdAt     time.Time
		)
		if err := rows.Scan(&s.ID, &s.RunID, &s.CaseID, &verdict, &risk, &s.RiskScore,
			&s.Failed, &s.Warned, &s.SubmittedBy, &createdAt); err != nil {
			return nil, 0, err
		}
		s.Verdict = labelOf(verdict, new(model.Verdict))
		s.Risk = labelOf(risk, new(model.Risk))
		s.CreatedAt = createdAt.Format("2006-01-02 15:04:05")
		summaries = append(summaries, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return summaries, total, nil
}

func (r *auditRepo) GetAudit(ctx context.Context, id int) (*domain.AuditDetail, error) {
	report, err := r.data.store.GetAuditReport(ctx, id)
	if stderrors.Is(err, storage.ErrNotFound) {
		return nil, errors.NotFound("AUDIT_NOT_FOUND", "audit not found")
	}
	if err != nil {
		return nil, err
	}
	return &domain.AuditDetail{ID: id, Report: report}, nil
}

type labeler interface {
	UnmarshalText([]byte) error
	Label() string
}

// labelOf 把库中的英文名称转为中文标签，无法识别时原样返回
func labelOf(name string, v labeler) string {
	if err := v.UnmarshalText([]byte(name)); err != nil {
		return name
	}
	return v.Label()
}
