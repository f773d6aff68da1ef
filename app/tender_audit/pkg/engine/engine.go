package engine

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/config"
	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/extract"
	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/llm"
	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/llm/factory"
	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/loader"
	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/logger"
	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/model"
	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/report"
	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/rules"
	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/sink"
)

// ReportStore 持久化审核报告，返回记录编号
type ReportStore interface {
	SaveAuditReport(ctx context.Context, r *model.AuditReport, submittedBy int) (int, error)
}

// Engine 核心处理引擎：读取、提取、检核、汇总
type Engine struct {
	cfg       *config.Config
	extractor extract.Extractor
	rules     *rules.RuleSet
	advisor   *Advisor
	store     ReportStore
	sink      sink.Sink
	formats   []report.Format
}

// Option 引擎的可选组件
type Option func(*Engine)

func WithStore(s ReportStore) Option {
	return func(e *Engine) { e.store = s }
}

func WithSink(s sink.Sink) Option {
	return func(e *Engine) { e.sink = s }
}

func WithExtractor(x extract.Extractor) Option {
	return func(e *Engine) { e.extractor = x }
}

func WithRuleSet(rs *rules.RuleSet) Option {
	return func(e *Engine) { e.rules = rs }
}

// NewEngine 按配置创建 LLM 客户端后组装引擎
func NewEngine(ctx context.Context, cfg *config.Config, opts ...Option) (*Engine, error) {
	gen, err := factory.NewGenerator(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}
	return New(cfg, gen, opts...)
}

// New 使用给定的生成器组装引擎；gen 为 nil 时只做规则提取，也不产生建议
func New(cfg *config.Config, gen llm.Generator, opts ...Option) (*Engine, error) {
	formats := make([]report.Format, 0, len(cfg.Sink.Formats))
	for _, name := range cfg.Sink.Formats {
		f, err := report.ParseFormat(name)
		if err != nil {
			return nil, fmt.Errorf("sink.formats: %w", err)
		}
		formats = append(formats, f)
	}

	e := &Engine{
		cfg:       cfg,
		extractor: extract.New(cfg, gen),
		rules:     rules.Default(cfg.Rules.AmountTolerance),
		formats:   formats,
	}
	if cfg.LLM.Advice && gen != nil {
		e.advisor = NewAdvisor(gen, cfg.LLM.Temperature)
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// RuleSet 返回引擎使用的检核表
func (e *Engine) RuleSet() *rules.RuleSet {
	return e.rules
}

// AuditCase 审核一个案件资料夹。
// 只有找不到或读不出文件时返回错误；字段缺失体现在报告的略过项与 Degraded 中。
func (e *Engine) AuditCase(ctx context.Context, folder string) (*model.AuditReport, error) {
	r, _, err := e.Submit(ctx, folder, 0)
	return r, err
}

// Submit 与 AuditCase 相同，另外记录提交者并返回存储编号；未配置存储或保存失败时编号为 0
func (e *Engine) Submit(ctx context.Context, folder string, submittedBy int) (*model.AuditReport, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	runID := uuid.NewString()
	log := logger.WithCase(runID, filepath.Base(folder))

	files, err := loader.Discover(folder)
	if err != nil {
		return nil, 0, err
	}
	annText, err := loader.Load(files.Announcement)
	if err != nil {
		return nil, 0, err
	}
	insText, err := loader.Load(files.Instructions)
	if err != nil {
		return nil, 0, err
	}
	log.Debugf("已读取文件: %s, %s", filepath.Base(files.Announcement), filepath.Base(files.Instructions))

	ann, annTrace, err := e.extractor.Announcement(ctx, annText)
	if err != nil {
		return nil, 0, fmt.Errorf("extract announcement: %w", err)
	}
	ins, insTrace, err := e.extractor.Instructions(ctx, insText)
	if err != nil {
		return nil, 0, fmt.Errorf("extract instructions: %w", err)
	}

	results := e.rules.Evaluate(ann, ins)
	r := report.Assemble(report.Meta{
		RunID:            runID,
		CaseID:           caseID(ann, ins, folder),
		Folder:           folder,
		AnnouncementFile: filepath.Base(files.Announcement),
		InstructionFile:  filepath.Base(files.Instructions),
		RuleSetVersion:   e.rules.Version,
		Strategy: map[model.Document]string{
			model.DocAnnouncement: annTrace.Strategy,
			model.DocInstructions: insTrace.Strategy,
		},
		Degraded:     degradedFields(ann, ins, annTrace, insTrace),
		Announcement: ann,
		Instructions: ins,
	}, results)

	log = logger.WithCase(runID, r.CaseID)
	log.Infof("检核完成: %s, 不通过 %d 项, 警告 %d 项, 略过 %d 项",
		r.Summary.Verdict.Label(), r.Summary.Failed, r.Summary.Warned, r.Summary.Skipped)

	if e.advisor != nil && r.Summary.Failed+r.Summary.Warned > 0 {
		advice, err := e.advisor.Advise(ctx, r)
		if err != nil {
			log.Warnf("生成处理建议失败: %v", err)
		} else {
			r.Advice = advice
		}
	}

	var id int
	if e.store != nil {
		if id, err = e.store.SaveAuditReport(ctx, r, submittedBy); err != nil {
			log.Errorf("保存审核报告失败: %v", err)
			id = 0
		}
	}
	e.publish(ctx, r)
	return r, id, nil
}

// publish 按配置的格式渲染并写入 sink，失败只记录日志
func (e *Engine) publish(ctx context.Context, r *model.AuditReport) {
	if e.sink == nil {
		return
	}
	log := logger.WithCase(r.RunID, r.CaseID)
	for _, f := range e.formats {
		data, err := report.Render(r, f)
		if err != nil {
			log.Errorf("渲染报告失败 [%s]: %v", f, err)
			continue
		}
		loc, err := e.sink.Put(ctx, sink.Key(r.CaseID, r.RunID, f.Ext()), data, f.ContentType())
		if err != nil {
			log.Errorf("输出报告失败 [%s]: %v", f, err)
			continue
		}
		log.Infof("报告已输出: %s", loc)
	}
}

// caseID 优先取公告案号，其次须知案号，都没有时用资料夹名称
func caseID(a *model.AnnouncementFields, f *model.InstructionFields, folder string) string {
	switch {
	case a.CaseNumber.Known:
		return a.CaseNumber.Value
	case f.CaseNumber.Known:
		return f.CaseNumber.Value
	}
	return filepath.Base(folder)
}

const (
	reasonMissing         = "未能提取"
	reasonMissingCritical = "關鍵欄位未能提取，相關檢核結論可信度低"
)

// degradedFields 依序列出公告未知字段（关键字段在前）、须知未知字段与提取过程的备注
func degradedFields(a *model.AnnouncementFields, f *model.InstructionFields, traces ...*extract.Trace) []model.DegradedField {
	critical := make(map[string]bool, len(model.CriticalAnnouncementFields))
	for _, k := range model.CriticalAnnouncementFields {
		critical[k] = true
	}

	var out []model.DegradedField
	for _, k := range a.UnknownFields() {
		reason := reasonMissing
		if critical[k] {
			reason = reasonMissingCritical
		}
		out = append(out, model.DegradedField{Document: model.DocAnnouncement, Field: k, Reason: reason})
	}
	for _, k := range f.UnknownFields() {
		out = append(out, model.DegradedField{Document: model.DocInstructions, Field: k, Reason: reasonMissing})
	}
	for _, t := range traces {
		if t != nil {
			out = append(out, t.Notes...)
		}
	}
	return out
}
