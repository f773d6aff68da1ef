package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/tender_audit/app/display/internal/usecase"
	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/model"
)

const (
	OperationRegister    = "/tender_audit.display.v1.Display/Register"
	OperationLogin       = "/tender_audit.display.v1.Display/Login"
	OperationSubmitAudit = "/tender_audit.display.v1.Display/SubmitAudit"
	OperationListAudits  = "/tender_audit.display.v1.Display/ListAudits"
	OperationGetAudit    = "/tender_audit.display.v1.Display/GetAudit"
	OperationAuditHTML   = "/tender_audit.display.v1.Display/AuditHTML"
)

type RegisterReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterReply struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type LoginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginReply struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

type SubmitAuditReq struct {
	Folder string `json:"folder"`
}

type SubmitAuditReply struct {
	Id     int                `json:"id"`
	Report *model.AuditReport `json:"report"`
}

type ListAuditsReq struct {
	Page     int  `json:"page"`
	PageSize int  `json:"page_size"`
	Mine     bool `json:"mine"`
}

type AuditSummary struct {
	Id          int     `json:"id"`
	RunId       string  `json:"run_id"`
	CaseId      string  `json:"case_id"`
	Verdict     string  `json:"verdict"`
	Risk        string  `json:"risk"`
	RiskScore   float64 `json:"risk_score"`
	Failed      int     `json:"failed"`
	Warned      int     `json:"warned"`
	SubmittedBy string  `json:"submitted_by"`
	CreatedAt   string  `json:"created_at"`
}

type ListAuditsReply struct {
	Audits []*AuditSummary `json:"audits"`
	Total  int             `json:"total"`
}

type GetAuditReq struct {
	Id int `json:"id"`
}

type GetAuditReply struct {
	Id     int                `json:"id"`
	Report *model.AuditReport `json:"report"`
}

// AuditService 审核服务的 HTTP 接口
type AuditService struct {
	ucUser  *usecase.UserUseCase
	ucAudit *usecase.AuditUseCase
	log     *log.Helper
}

func NewAuditService(ucUser *usecase.UserUseCase, ucAudit *usecase.AuditUseCase, logger log.Logger) *AuditService {
	return &AuditService{
		ucUser:  ucUser,
		ucAudit: ucAudit,
		log:     log.NewHelper(logger),
	}
}

func (s *AuditService) Register(ctx context.Context, req *RegisterReq) (*RegisterReply, error) {
	if err := s.ucUser.Register(ctx, req.Username, req.Password); err != nil {
		return &RegisterReply{Success: false, Message: errors.FromError(err).Message}, nil
	}
	return &RegisterReply{Success: true, Message: "success"}, nil
}

func (s *AuditService) Login(ctx context.Context, req *LoginReq) (*LoginReply, error) {
	token, err := s.ucUser.Login(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}
	return &LoginReply{Token: token, Username: req.Username}, nil
}

func (s *AuditService) SubmitAudit(ctx context.Context, userID int, req *SubmitAuditReq) (*SubmitAuditReply, error) {
	r, id, err := s.ucAudit.Submit(ctx, req.Folder, userID)
	if err != nil {
		return nil, err
	}
	return &SubmitAuditReply{Id: id, Report: r}, nil
}

func (s *AuditService) ListAudits(ctx context.Context, userID int, req *ListAuditsReq) (*ListAuditsReply, error) {
	by := 0
	if req.Mine {
		by = userID
	}
	audits, total, err := s.ucAudit.List(ctx, by, req.Page, req.PageSize)
	if err != nil {
		return nil, err
	}

	list := make([]*AuditSummary, 0, len(audits))
	for _, a := range audits {
		list = append(list, &AuditSummary{
			Id:          a.ID,
			RunId:       a.RunID,
			CaseId:      a.CaseID,
			Verdict:     a.Verdict,
			Risk:        a.Risk,
			RiskScore:   a.RiskScore,
			Failed:      a.Failed,
			Warned:      a.Warned,
			SubmittedBy: a.SubmittedBy,
			CreatedAt:   a.CreatedAt,
		})
	}
	return &ListAuditsReply{Audits: list, Total: total}, nil
}

func (s *AuditService) GetAudit(ctx context.Context, req *GetAuditReq) (*GetAuditReply, error) {
	d, err := s.ucAudit.Get(ctx, req.Id)
	if err != nil {
		return nil, err
	}
	return &GetAuditReply{Id: d.ID, Report: d.Report}, nil
}

// RegisterRoutes 挂载 /api 下的全部路由
func (s *AuditService) RegisterRoutes(srv *http.Server) {
	r := srv.Route("/api")
	r.POST("/register", s.registerHandler)
	r.POST("/login", s.loginHandler)
	r.POST("/audits", s.submitHandler)
	r.GET("/audits", s.listHandler)
	r.GET("/audits/{id}", s.getHandler)
	r.GET("/audits/{id}/html", s.htmlHandler)
}

func (s *AuditService) registerHandler(ctx http.Context) error {
	var in RegisterReq
	if err := ctx.Bind(&in); err != nil {
		return err
	}
	http.SetOperation(ctx, OperationRegister)
	h := ctx.Middleware(func(ctx context.Context, req any) (any, error) {
		return s.Register(ctx, req.(*RegisterReq))
	})
	out, err := h(ctx, &in)
	if err != nil {
		return err
	}
	return ctx.Result(200, out)
}

func (s *AuditService) loginHandler(ctx http.Context) error {
	var in LoginReq
	if err := ctx.Bind(&in); err != nil {
		return err
	}
	http.SetOperation(ctx, OperationLogin)
	h := ctx.Middleware(func(ctx context.Context, req any) (any, error) {
		return s.Login(ctx, req.(*LoginReq))
	})
	out, err := h(ctx, &in)
	if err != nil {
		return err
	}
	return ctx.Result(200, out)
}

func (s *AuditService) submitHandler(ctx http.Context) error {
	claims, err := s.authorize(ctx)
	if err != nil {
		return err
	}
	var in SubmitAuditReq
	if err := ctx.Bind(&in); err != nil {
		return err
	}
	http.SetOperation(ctx, OperationSubmitAudit)
	h := ctx.Middleware(func(ctx context.Context, req any) (any, error) {
		return s.SubmitAudit(ctx, claims.UserID, req.(*SubmitAuditReq))
	})
	out, err := h(ctx, &in)
	if err != nil {
		return err
	}
	return ctx.Result(200, out)
}

func (s *AuditService) listHandler(ctx http.Context) error {
	claims, err := s.authorize(ctx)
	if err != nil {
		return err
	}
	q := ctx.Query()
	in := ListAuditsReq{
		Page:     atoi(q.Get("page")),
		PageSize: atoi(q.Get("page_size")),
		Mine:     q.Get("mine") == "true" || q.Get("mine") == "1",
	}
	http.SetOperation(ctx, OperationListAudits)
	h := ctx.Middleware(func(ctx context.Context, req any) (any, error) {
		return s.ListAudits(ctx, claims.UserID, req.(*ListAuditsReq))
	})
	out, err := h(ctx, &in)
	if err != nil {
		return err
	}
	return ctx.Result(200, out)
}

func (s *AuditService) getHandler(ctx http.Context) error {
	if _, err := s.authorize(ctx); err != nil {
		return err
	}
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	http.SetOperation(ctx, OperationGetAudit)
	h := ctx.Middleware(func(ctx context.Context, req any) (any, error) {
		return s.GetAudit(ctx, req.(*GetAuditReq))
	})
	out, err := h(ctx, &GetAuditReq{Id: id})
	if err != nil {
		return err
	}
	return ctx.Result(200, out)
}

// htmlHandler 浏览器直接打开时可以用 ?token= 传递凭证
func (s *AuditService) htmlHandler(ctx http.Context) error {
	if _, err := s.authorize(ctx); err != nil {
		return err
	}
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	http.SetOperation(ctx, OperationAuditHTML)
	h := ctx.Middleware(func(ctx context.Context, req any) (any, error) {
		return s.ucAudit.RenderHTML(ctx, req.(*GetAuditReq).Id)
	})
	out, err := h(ctx, &GetAuditReq{Id: id})
	if err != nil {
		return err
	}
	return ctx.Blob(200, "text/html; charset=utf-8", out.([]byte))
}

// authorize 从 Authorization: Bearer 头或 token 查询参数中取出凭证
func (s *AuditService) authorize(ctx http.Context) (*usecase.Claims, error) {
	token := strings.TrimSpace(strings.TrimPrefix(ctx.Header().Get("Authorization"), "Bearer "))
	if token == "" {
		token = ctx.Query().Get("token")
	}
	if token == "" {
		return nil, errors.Unauthorized("MISSING_TOKEN", "login required")
	}
	return s.ucUser.ParseToken(token)
}

func pathID(ctx http.Context) (int, error) {
	id, err := strconv.Atoi(ctx.Vars().Get("id"))
	if err != nil || id <= 0 {
		return 0, errors.BadRequest("INVALID_ARGUMENT", "invalid audit id")
	}
	return id, nil
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
