package extract

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/config"
	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/llm"
	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/model"
)

// Extractor 把文件正文转为结构化字段。
// 单个字段提取失败只会让该字段保持未知，不会返回错误；错误只用于上下文取消。
type Extractor interface {
	Announcement(ctx context.Context, text string) (*model.AnnouncementFields, *Trace, error)
	Instructions(ctx context.Context, text string) (*model.InstructionFields, *Trace, error)
}

// 提取策略名称，写入报告
const (
	StrategyDeterministic = "deterministic"
	StrategyDelegated     = "delegated"
	StrategyCrossChecked  = "delegated+deterministic"
	StrategyFallback      = "deterministic(fallback)"
	StrategyNone          = "none"
)

// New 按配置选择提取策略；gen 为空时退回规则提取
func New(cfg *config.Config, gen llm.Generator) Extractor {
	det := NewDeterministic()
	if cfg.Extract.Strategy != "delegated" || gen == nil {
		return det
	}
	return NewDelegated(gen,
		WithFallback(det),
		WithMaxChars(cfg.Extract.MaxPrompt),
		WithTemperature(cfg.LLM.Temperature),
		WithTimeout(time.Duration(cfg.LLM.Timeout)*time.Second),
	)
}

// Trace 一次提取的过程记录
type Trace struct {
	Strategy string
	Notes    []model.DegradedField
}

// field 一个字段的读写方式，供规则提取、LLM 解码与交叉核对共用
type field[T any] struct {
	key string
	set func(*T, string)
	get func(*T) string // 展示用取值，未知时为空串
	cp  func(dst, src *T)
}

type labeled interface {
	~int8
	Label() string
}

func enumField[T any, E labeled](key string, p func(*T) *E, parse func(string) E) field[T] {
	return field[T]{
		key: key,
		set: func(t *T, v string) { *p(t) = parse(v) },
		get: func(t *T) string {
			if *p(t) == 0 {
				return ""
			}
			return (*p(t)).Label()
		},
		cp: func(dst, src *T) { *p(dst) = *p(src) },
	}
}

func textField[T any](key string, p func(*T) *model.Text) field[T] {
	return field[T]{
		key: key,
		set: func(t *T, v string) { *p(t) = model.NewText(cleanValue(v)) },
		get: func(t *T) string {
			if !p(t).Known {
				return ""
			}
			return p(t).Value
		},
		cp: func(dst, src *T) { *p(dst) = *p(src) },
	}
}

func amountField[T any](key string, p func(*T) *model.Amount) field[T] {
	return field[T]{
		key: key,
		set: func(t *T, v string) { *p(t) = model.ParseAmount(cleanValue(v)) },
		get: func(t *T) string {
			if !p(t).Known {
				return ""
			}
			return strconv.FormatInt(p(t).Value, 10)
		},
		cp: func(dst, src *T) { *p(dst) = *p(src) },
	}
}

type annField = field[model.AnnouncementFields]

// announcementFields 公告字段表，键与 model.AnnouncementKeys 一致
var announcementFields = []annField{
	textField("案號", func(a *model.AnnouncementFields) *model.Text { return &a.CaseNumber }),
	textField("案名", func(a *model.AnnouncementFields) *model.Text { return &a.CaseName }),
	enumField("招標方式", func(a *model.AnnouncementFields) *model.ProcurementMethod { return &a.ProcurementMethod }, parseProcurement),
	enumField("決標方式", func(a *model.AnnouncementFields) *model.AwardMethod { return &a.AwardMethod }, parseAward),
	amountField("採購金額", func(a *model.AnnouncementFields) *model.Amount { return &a.Amount }),
	textField("採購金級距", func(a *model.AnnouncementFields) *model.Text { return &a.AmountTier }),
	textField("依據法條", func(a *model.AnnouncementFields) *model.Text { return &a.LegalBasis }),
	enumField("訂有底價", func(a *model.AnnouncementFields) *model.Flag { return &a.ReservePrice }, parseFlag),
	enumField("複數決標", func(a *model.AnnouncementFields) *model.Flag { return &a.MultipleAward }, parseFlag),
	enumField("依64條之2", func(a *model.AnnouncementFields) *model.Flag { return &a.Article64_2 }, parseFlag),
	enumField("標的分類", func(a *model.AnnouncementFields) *model.ObjectClass { return &a.ObjectClass }, parseObjectClass),
	enumField("適用條約", func(a *model.AnnouncementFields) *model.Flag { return &a.Treaty }, parseFlag),
	enumField("敏感性採購", func(a *model.AnnouncementFields) *model.Flag { return &a.Sensitive }, parseFlag),
	enumField("國安採購", func(a *model.AnnouncementFields) *model.Flag { return &a.NationalSecurity }, parseFlag),
	enumField("增購權利", func(a *model.AnnouncementFields) *model.FuturePurchase { return &a.FuturePurchase }, parseFuture),
	enumField("特殊採購", func(a *model.AnnouncementFields) *model.Flag { return &a.Special }, parseFlag),
	enumField("統包", func(a *model.AnnouncementFields) *model.Flag { return &a.Turnkey }, parseFlag),
	enumField("協商措施", func(a *model.AnnouncementFields) *model.Flag { return &a.Negotiation }, parseFlag),
	enumField("電子領標", func(a *model.AnnouncementFields) *model.Flag { return &a.ElectronicCollection }, parseFlag),
	enumField("優先身障", func(a *model.AnnouncementFields) *model.Flag { return &a.DisabledPriority }, parseFlag),
	enumField("外國廠商", func(a *model.AnnouncementFields) *model.ForeignEligibility { return &a.ForeignBidders }, parseForeign),
	enumField("限定中小企業", func(a *model.AnnouncementFields) *model.Flag { return &a.SMEOnly }, parseFlag),
	amountField("押標金", func(a *model.AnnouncementFields) *model.Amount { return &a.BidBond }),
	enumField("開標方式", func(a *model.AnnouncementFields) *model.BidOpening { return &a.BidOpening }, parseOpening),
	enumField("廠商資格", func(a *model.AnnouncementFields) *model.Qualification { return &a.Qualification }, parseQualification),
}

type insField = field[model.InstructionFields]

// instructionFields 须知字段表：案号、名称、押标金加上全部勾选条款
var instructionFields = func() []insField {
	fs := []insField{
		textField("案號", func(f *model.InstructionFields) *model.Text { return &f.CaseNumber }),
		textField("採購標的名稱", func(f *model.InstructionFields) *model.Text { return &f.ObjectName }),
		amountField("押標金金額", func(f *model.InstructionFields) *model.Amount { return &f.BidBond }),
	}
	for _, c := range model.Clauses {
		fs = append(fs, enumField(c.Key, c.Field, parseCheckbox))
	}
	return fs
}()

// cleanValue 把 LLM 常用的缺值写法视为空
func cleanValue(v string) string {
	v = strings.TrimSpace(v)
	switch v {
	case "未載明", "未找到", "NA", "N/A", "n/a", "null", "無資料", "未知":
		return ""
	}
	return v
}

// merge 以规则提取结果为准合并 LLM 结果：
// 规则未知时采用 LLM 值；两者皆已知且不同时保留规则值并记录分歧。
func merge[T any](fields []field[T], doc model.Document, det, gen *T) (*T, []model.DegradedField) {
	var out T
	var notes []model.DegradedField
	for _, f := range fields {
		dv, gv := f.get(det), f.get(gen)
		switch {
		case dv == "":
			f.cp(&out, gen)
		case gv != "" && !sameValue(dv, gv):
			f.cp(&out, det)
			notes = append(notes, model.DegradedField{
				Document: doc,
				Field:    f.key,
				Reason:   "LLM 與規則提取不一致（LLM: " + gv + "，規則: " + dv + "），採用規則結果",
			})
		default:
			f.cp(&out, det)
		}
	}
	return &out, notes
}

func sameValue(a, b string) bool {
	return strings.EqualFold(strings.Join(strings.Fields(a), ""), strings.Join(strings.Fields(b), ""))
}
