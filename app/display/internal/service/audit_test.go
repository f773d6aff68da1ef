package service

import (
	"context"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/tender_audit/app/display/internal/conf"
	"github.com/iWorld-y/tender_audit/app/display/internal/domain"
	"github.com/iWorld-y/tender_audit/app/display/internal/usecase"
	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/model"
	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/report"
)

type memUsers struct {
	users map[string]*domain.User
}

func (m *memUsers) CreateUser(ctx context.Context, u *domain.User) error {
	if _, ok := m.users[u.Username]; ok {
		return errors.Conflict("USER_EXISTS", "username already taken")
	}
	u.ID = len(m.users) + 1
	m.users[u.Username] = u
	return nil
}

func (m *memUsers) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	if u, ok := m.users[username]; ok {
		return u, nil
	}
	return nil, errors.NotFound("USER_NOT_FOUND", "user not found")
}

type memAudits struct {
	reports []*model.AuditReport
	by      []int
}

func (m *memAudits) Submit(ctx context.Context, folder string, submittedBy int) (*model.AuditReport, int, error) {
	r := report.Assemble(report.Meta{CaseID: "C13A07469", Folder: folder}, nil)
	m.reports = append(m.reports, r)
	m.by = append(m.by, submittedBy)
	return r, len(m.reports), nil
}

func (m *memAudits) ListAudits(ctx context.Context, submittedBy, page, pageSize int) ([]*domain.AuditSummary, int, error) {
	var out []*domain.AuditSummary
	for i, r := range m.reports {
		if submittedBy == 0 || m.by[i] == submittedBy {
			out = append(out, &domain.AuditSummary{ID: i + 1, CaseID: r.CaseID})
		}
	}
	return out, len(out), nil
}

func (m *memAudits) GetAudit(ctx context.Context, id int) (*domain.AuditDetail, error) {
	if id < 1 || id > len(m.reports) {
		return nil, errors.NotFound("AUDIT_NOT_FOUND", "audit not found")
	}
	return &domain.AuditDetail{ID: id, Report: m.reports[id-1]}, nil
}

func newTestServer(t *testing.T) *http.Server {
	t.Helper()
	audits := &memAudits{}
	s := NewAuditService(
		usecase.NewUserUseCase(&memUsers{users: map[string]*domain.User{}}, &conf.Auth{JwtKey: "test"}, log.DefaultLogger),
		usecase.NewAuditUseCase(audits, audits, &conf.Audit{CaseRoot: "/cases"}, log.DefaultLogger),
		log.DefaultLogger,
	)
	srv := http.NewServer()
	s.RegisterRoutes(srv)
	return srv
}

func do(t *testing.T, srv *http.Server, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestAuditService_Flow(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, nethttp.MethodPost, "/api/register", "", `{"username":"reviewer","password":"secret1"}`)
	var reg RegisterReply
	if err := json.Unmarshal(rec.Body.Bytes(), &reg); err != nil || !reg.Success {
		t.Fatalf("register = %d %s", rec.Code, rec.Body.String())
	}

	rec = do(t, srv, nethttp.MethodPost, "/api/login", "", `{"username":"reviewer","password":"secret1"}`)
	var login LoginReply
	if err := json.Unmarshal(rec.Body.Bytes(), &login); err != nil || login.Token == "" {
		t.Fatalf("login = %d %s", rec.Code, rec.Body.String())
	}

	if rec = do(t, srv, nethttp.MethodPost, "/api/audits", "", `{"folder":"C13A07469"}`); rec.Code != nethttp.StatusUnauthorized {
		t.Errorf("submit without token = %d, want 401", rec.Code)
	}

	rec = do(t, srv, nethttp.MethodPost, "/api/audits", login.Token, `{"folder":"C13A07469"}`)
	var submitted SubmitAuditReply
	if err := json.Unmarshal(rec.Body.Bytes(), &submitted); err != nil || submitted.Id != 1 {
		t.Fatalf("submit = %d %s", rec.Code, rec.Body.String())
	}
	if submitted.Report.Folder != "/cases/C13A07469" {
		t.Errorf("Folder = %q", submitted.Report.Folder)
	}

	rec = do(t, srv, nethttp.MethodGet, "/api/audits?mine=true", login.Token, "")
	var list ListAuditsReply
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil || list.Total != 1 {
		t.Errorf("list = %d %s", rec.Code, rec.Body.String())
	}

	if rec = do(t, srv, nethttp.MethodGet, "/api/audits/1", login.Token, ""); rec.Code != nethttp.StatusOK {
		t.Errorf("get = %d %s", rec.Code, rec.Body.String())
	}
	if rec = do(t, srv, nethttp.MethodGet, "/api/audits/9", login.Token, ""); rec.Code != nethttp.StatusNotFound {
		t.Errorf("get missing = %d, want 404", rec.Code)
	}

	rec = do(t, srv, nethttp.MethodGet, "/api/audits/1/html?token="+login.Token, "", "")
	if rec.Code != nethttp.StatusOK || !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html") {
		t.Errorf("html = %d %s", rec.Code, rec.Header().Get("Content-Type"))
	}
}

func TestAuditService_LoginFailure(t *testing.T) {
	srv := newTestServer(t)
	rec := do(t, srv, nethttp.MethodPost, "/api/login", "", `{"username":"nobody","password":"secret1"}`)
	if rec.Code != nethttp.StatusUnauthorized {
		t.Errorf("login = %d, want 401", rec.Code)
	}
}
