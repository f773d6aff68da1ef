package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/tender_audit/app/display/internal/conf"
	"github.com/iWorld-y/tender_audit/app/display/internal/domain"
	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/model"
	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/report"
)

// mockUserRepo 模拟用户仓库
type mockUserRepo struct {
	users map[string]*domain.User
}

func (m *mockUserRepo) CreateUser(ctx context.Context, u *domain.User) error {
	if m.users == nil {
		m.users = make(map[string]*domain.User)
	}
	if _, ok := m.users[u.Username]; ok {
		return errors.Conflict("USER_EXISTS", "username already taken")
	}
	u.ID = len(m.users) + 1
	m.users[u.Username] = u
	return nil
}

func (m *mockUserRepo) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	u, ok := m.users[username]
	if !ok {
		return nil, errors.NotFound("USER_NOT_FOUND", "user not found")
	}
	return u, nil
}

// mockAuditRepo 模拟审核记录仓库
type mockAuditRepo struct {
	page, pageSize int
	reports        map[int]*model.AuditReport
}

func (m *mockAuditRepo) ListAudits(ctx context.Context, submittedBy, page, pageSize int) ([]*domain.AuditSummary, int, error) {
	m.page, m.pageSize = page, pageSize
	return []*domain.AuditSummary{{ID: 1, CaseID: "C13A07469"}}, 1, nil
}

func (m *mockAuditRepo) GetAudit(ctx context.Context, id int) (*domain.AuditDetail, error) {
	r, ok := m.reports[id]
	if !ok {
		return nil, errors.NotFound("AUDIT_NOT_FOUND", "audit not found")
	}
	return &domain.AuditDetail{ID: id, Report: r}, nil
}

// mockAuditor 记录收到的资料夹
type mockAuditor struct {
	folder string
	by     int
	err    error
}

func (m *mockAuditor) Submit(ctx context.Context, folder string, submittedBy int) (*model.AuditReport, int, error) {
	m.folder, m.by = folder, submittedBy
	if m.err != nil {
		return nil, 0, m.err
	}
	return report.Assemble(report.Meta{CaseID: "C13A07469"}, nil), 3, nil
}

func TestUserUseCase_RegisterLogin(t *testing.T) {
	uc := NewUserUseCase(&mockUserRepo{}, &conf.Auth{JwtKey: "k", TokenTtl: "1h"}, log.DefaultLogger)
	ctx := context.Background()

	if err := uc.Register(ctx, "reviewer", "secret1"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := uc.Register(ctx, "reviewer", "secret1"); !errors.IsConflict(err) {
		t.Errorf("Register() duplicate error = %v, want conflict", err)
	}
	if err := uc.Register(ctx, " ", "secret1"); !errors.IsBadRequest(err) {
		t.Errorf("Register() blank username error = %v, want bad request", err)
	}
	if err := uc.Register(ctx, "short", "123"); !errors.IsBadRequest(err) {
		t.Errorf("Register() short password error = %v, want bad request", err)
	}

	token, err := uc.Login(ctx, "reviewer", "secret1")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	claims, err := uc.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if claims.UserID != 1 || claims.Username != "reviewer" {
		t.Errorf("claims = %+v", claims)
	}

	if _, err := uc.Login(ctx, "reviewer", "wrong"); !errors.IsUnauthorized(err) {
		t.Errorf("Login() wrong password error = %v, want unauthorized", err)
	}
	if _, err := uc.Login(ctx, "nobody", "secret1"); !errors.IsUnauthorized(err) {
		t.Errorf("Login() unknown user error = %v, want unauthorized", err)
	}
}

func TestUserUseCase_ParseTokenRejectsOtherKey(t *testing.T) {
	repo := &mockUserRepo{}
	a := NewUserUseCase(repo, &conf.Auth{JwtKey: "a"}, log.DefaultLogger)
	b := NewUserUseCase(repo, &conf.Auth{JwtKey: "b"}, log.DefaultLogger)
	ctx := context.Background()
	if err := a.Register(ctx, "reviewer", "secret1"); err != nil {
		t.Fatal(err)
	}
	token, err := a.Login(ctx, "reviewer", "secret1")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.ParseToken(token); !errors.IsUnauthorized(err) {
		t.Errorf("ParseToken() error = %v, want unauthorized", err)
	}
	if _, err := a.ParseToken("not-a-token"); err == nil {
		t.Error("ParseToken() accepted garbage")
	}
}

func TestAuditUseCase_SubmitConfinesFolder(t *testing.T) {
	root := filepath.Join("srv", "cases")
	tests := []struct {
		folder string
		want   string
	}{
		{"C13A07469", filepath.Join(root, "C13A07469")},
		{"2024/C13A07469", filepath.Join(root, "2024", "C13A07469")},
		{"../../etc", filepath.Join(root, "etc")},
		{"/abs/case", filepath.Join(root, "abs", "case")},
	}
	for _, tt := range tests {
		t.Run(tt.folder, func(t *testing.T) {
			auditor := &mockAuditor{}
			uc := NewAuditUseCase(&mockAuditRepo{}, auditor, &conf.Audit{CaseRoot: root}, log.DefaultLogger)
			r, id, err := uc.Submit(context.Background(), tt.folder, 5)
			if err != nil {
				t.Fatalf("Submit() error = %v", err)
			}
			if auditor.folder != tt.want {
				t.Errorf("auditor got %q, want %q", auditor.folder, tt.want)
			}
			if auditor.by != 5 || id != 3 || r.CaseID != "C13A07469" {
				t.Errorf("by = %d, id = %d, case = %q", auditor.by, id, r.CaseID)
			}
		})
	}
}

func TestAuditUseCase_SubmitErrors(t *testing.T) {
	tests := []struct {
		name   string
		folder string
		err    error
		check  func(error) bool
	}{
		{"empty folder", "", nil, errors.IsBadRequest},
		{"root itself", "..", nil, errors.IsBadRequest},
		{"missing document", "c", fmt.Errorf("%w: 投標須知", model.ErrMissingDocument), errors.IsBadRequest},
		{"unreadable", "c", fmt.Errorf("%w: bad zip", model.ErrUnreadableDocument), errors.IsBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := NewAuditUseCase(&mockAuditRepo{}, &mockAuditor{err: tt.err}, nil, log.DefaultLogger)
			if _, _, err := uc.Submit(context.Background(), tt.folder, 0); !tt.check(err) {
				t.Errorf("Submit() error = %v", err)
			}
		})
	}

	uc := NewAuditUseCase(&mockAuditRepo{}, &mockAuditor{err: context.Canceled}, nil, log.DefaultLogger)
	_, _, err := uc.Submit(context.Background(), "c", 0)
	if errors.IsBadRequest(err) || err == nil {
		t.Errorf("Submit() error = %v, want the original error", err)
	}
}

func TestAuditUseCase_ListPaging(t *testing.T) {
	repo := &mockAuditRepo{}
	uc := NewAuditUseCase(repo, &mockAuditor{}, nil, log.DefaultLogger)

	list, total, err := uc.List(context.Background(), 0, 0, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 1 || len(list) != 1 || list[0].CaseID != "C13A07469" {
		t.Errorf("List() = %v, %d", list, total)
	}
	if repo.page != 1 || repo.pageSize != 10 {
		t.Errorf("paging defaults = %d/%d", repo.page, repo.pageSize)
	}

	_, _, _ = uc.List(context.Background(), 0, 2, 1000)
	if repo.pageSize != maxPageSize {
		t.Errorf("pageSize = %d, want capped at %d", repo.pageSize, maxPageSize)
	}
}

func TestAuditUseCase_RenderHTML(t *testing.T) {
	repo := &mockAuditRepo{reports: map[int]*model.AuditReport{
		1: report.Assemble(report.Meta{CaseID: "C13A07469"}, nil),
	}}
	uc := NewAuditUseCase(repo, &mockAuditor{}, nil, log.DefaultLogger)

	html, err := uc.RenderHTML(context.Background(), 1)
	if err != nil {
		t.Fatalf("RenderHTML() error = %v", err)
	}
	if !strings.Contains(string(html), "C13A07469") {
		t.Error("rendered page does not mention the case number")
	}
	if _, err := uc.RenderHTML(context.Background(), 2); !errors.IsNotFound(err) {
		t.Errorf("RenderHTML() error = %v, want not found", err)
	}
}
