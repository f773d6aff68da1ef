package model

import "fmt"

// enumString 返回枚举的机器可读名称，越界时返回第一个名称（unknown）
func enumString[T ~int8](v T, names []string) string {
	if int(v) < 0 || int(v) >= len(names) {
		return names[0]
	}
	return names[v]
}

// enumParse 根据名称解析枚举值
func enumParse[T ~int8](text []byte, names []string, dst *T) error {
	s := string(text)
	for i, n := range names {
		if n == s {
			*dst = T(i)
			return nil
		}
	}
	return fmt.Errorf("unknown value %q", s)
}

// Flag 公告中的 是/否 标记，零值为未知
type Flag int8

const (
	FlagUnknown Flag = iota
	FlagYes
	FlagNo
)

var (
	flagNames  = []string{"unknown", "yes", "no"}
	flagLabels = []string{"未載明", "是", "否"}
)

func (f Flag) String() string { return enumString(f, flagNames) }
func (f Flag) Label() string { return enumString(f, flagLabels) }
func (f Flag) Known() bool { return f != FlagUnknown }
func (f Flag) MarshalText() ([]byte, error) { return []byte(f.String()), nil }
func (f *Flag) UnmarshalText(text []byte) error { return enumParse(text, flagNames, f) }

// FlagOf 将布尔值转换为已知标记
func FlagOf(b bool) Flag {
	if b {
		return FlagYes
	}
	return FlagNo
}

// Checkbox 须知勾选框三态：已勾选/未勾选/未知
type Checkbox int8

const (
	CheckboxUnknown Checkbox = iota
	CheckboxChecked
	CheckboxUnchecked
)

var (
	checkboxNames  = []string{"unknown", "checked", "unchecked"}
	checkboxLabels = []string{"未識別", "已勾選", "未勾選"}
)

func (c Checkbox) String() string { return enumString(c, checkboxNames) }
func (c Checkbox) Label() string { return enumString(c, checkboxLabels) }
func (c Checkbox) Known() bool { return c != CheckboxUnknown }
func (c Checkbox) MarshalText() ([]byte, error) { return []byte(c.String()), nil }
func (c *Checkbox) UnmarshalText(text []byte) error { return enumParse(text, checkboxNames, c) }

// AwardMethod 决标方式
type AwardMethod int8

const (
	AwardUnknown AwardMethod = iota
	AwardLowest
	AwardHighest
	AwardMostAdvantageous
)

var (
	awardNames  = []string{"unknown", "lowest", "highest", "most_advantageous"}
	awardLabels = []string{"未載明", "最低標", "最高標", "最有利標"}
)

func (a AwardMethod) String() string { return enumString(a, awardNames) }
func (a AwardMethod) Label() string { return enumString(a, awardLabels) }
func (a AwardMethod) MarshalText() ([]byte, error) { return []byte(a.String()), nil }
func (a *AwardMethod) UnmarshalText(text []byte) error { return enumParse(text, awardNames, a) }

// ProcurementMethod 招标方式
type ProcurementMethod int8

const (
	ProcurementUnknown ProcurementMethod = iota
	ProcurementOpenTender
	ProcurementOpenQuotation
	ProcurementSelective
	ProcurementLimited
)

var (
	procurementNames  = []string{"unknown", "open_tender", "open_quotation", "selective", "limited"}
	procurementLabels = []string{"未載明", "公開招標", "公開取得報價", "選擇性招標", "限制性招標"}
)

func (p ProcurementMethod) String() string { return enumString(p, procurementNames) }
func (p ProcurementMethod) Label() string { return enumString(p, procurementLabels) }
func (p ProcurementMethod) MarshalText() ([]byte, error) { return []byte(p.String()), nil }
func (p *ProcurementMethod) UnmarshalText(text []byte) error {
	return enumParse(text, procurementNames, p)
}

// ObjectClass 标的分类
type ObjectClass int8

const (
	ObjectUnknown ObjectClass = iota
	ObjectGoods
	ObjectServices
	ObjectConstruction
	ObjectCustomMade
)

var (
	objectNames  = []string{"unknown", "goods", "services", "construction", "custom_made"}
	objectLabels = []string{"未載明", "財物", "勞務", "工程", "買受，定製"}
)

func (o ObjectClass) String() string { return enumString(o, objectNames) }
func (o ObjectClass) Label() string { return enumString(o, objectLabels) }
func (o ObjectClass) MarshalText() ([]byte, error) { return []byte(o.String()), nil }
func (o *ObjectClass) UnmarshalText(text []byte) error { return enumParse(text, objectNames, o) }

// ForeignEligibility 外国厂商参与资格
type ForeignEligibility int8

const (
	ForeignUnknown ForeignEligibility = iota
	ForeignAllowed
	ForeignDisallowed
)

var (
	foreignNames  = []string{"unknown", "allowed", "disallowed"}
	foreignLabels = []string{"未載明", "得參與", "不得參與"}
)

func (f ForeignEligibility) String() string { return enumString(f, foreignNames) }
func (f ForeignEligibility) Label() string { return enumString(f, foreignLabels) }
func (f ForeignEligibility) MarshalText() ([]byte, error) { return []byte(f.String()), nil }
func (f *ForeignEligibility) UnmarshalText(text []byte) error {
	return enumParse(text, foreignNames, f)
}

// BidOpening 开标方式
type BidOpening int8

const (
	OpeningUnknown BidOpening = iota
	OpeningSingleStage
	OpeningTwoStage
)

var (
	openingNames  = []string{"unknown", "single_stage", "two_stage"}
	openingLabels = []string{"未載明", "一次投標不分段開標", "一次投標分段開標"}
)

func (b BidOpening) String() string { return enumString(b, openingNames) }
func (b BidOpening) Label() string { return enumString(b, openingLabels) }
func (b BidOpening) MarshalText() ([]byte, error) { return []byte(b.String()), nil }
func (b *BidOpening) UnmarshalText(text []byte) error { return enumParse(text, openingNames, b) }

// FuturePurchase 未来增购权利
type FuturePurchase int8

const (
	FutureUnknown FuturePurchase = iota
	FutureReserved
	FutureNone
)

var (
	futureNames  = []string{"unknown", "reserved", "none"}
	futureLabels = []string{"未載明", "保留", "無"}
)

func (f FuturePurchase) String() string { return enumString(f, futureNames) }
func (f FuturePurchase) Label() string { return enumString(f, futureLabels) }
func (f FuturePurchase) MarshalText() ([]byte, error) { return []byte(f.String()), nil }
func (f *FuturePurchase) UnmarshalText(text []byte) error {
	return enumParse(text, futureNames, f)
}

// Qualification 厂商资格依据
type Qualification int8

const (
	QualificationUnknown Qualification = iota
	QualificationLegalRegistration
	QualificationBusinessScope
	// QualificationOther 有文字但无法归类
	QualificationOther
)

var (
	qualificationNames  = []string{"unknown", "legal_registration", "business_scope", "other"}
	qualificationLabels = []string{"未載明", "合法設立登記之廠商", "營業項目", "其他"}
)

func (q Qualification) String() string { return enumString(q, qualificationNames) }
func (q Qualification) Label() string { return enumString(q, qualificationLabels) }
func (q Qualification) MarshalText() ([]byte, error) { return []byte(q.String()), nil }
func (q *Qualification) UnmarshalText(text []byte) error {
	return enumParse(text, qualificationNames, q)
}

// Status 单项检核结论
type Status int8

const (
	StatusPass Status = iota
	StatusFail
	StatusWarning
	StatusSkip
)

var (
	statusNames  = []string{"pass", "fail", "warning", "skip"}
	statusLabels = []string{"通過", "不通過", "警告", "略過"}
)

func (s Status) String() string { return enumString(s, statusNames) }
func (s Status) Label() string { return enumString(s, statusLabels) }
func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }
func (s *Status) UnmarshalText(text []byte) error { return enumParse(text, statusNames, s) }

// Risk 风险等级，数值越大风险越高
type Risk int8

const (
	RiskLow Risk = iota
	RiskMedium
	RiskHigh
)

var (
	riskNames  = []string{"low", "medium", "high"}
	riskLabels = []string{"低", "中", "高"}
)

func (r Risk) String() string { return enumString(r, riskNames) }
func (r Risk) Label() string { return enumString(r, riskLabels) }
func (r Risk) MarshalText() ([]byte, error) { return []byte(r.String()), nil }
func (r *Risk) UnmarshalText(text []byte) error { return enumParse(text, riskNames, r) }

// Reason 未通过的具体类别，用于区分"漏勾"与"矛盾勾选"等情况
type Reason int8

const (
	ReasonNone Reason = iota
	ReasonMismatch
	ReasonMissingCheckbox
	ReasonContradictoryCheckboxes
	ReasonUnexpectedCheckbox
	ReasonOutOfRange
	ReasonNotSpecified
	ReasonUnknownInput
)

var reasonNames = []string{
	"none",
	"mismatch",
	"missing_checkbox",
	"contradictory_checkboxes",
	"unexpected_checkbox",
	"out_of_range",
	"not_specified",
	"unknown_input",
}

func (r Reason) String() string { return enumString(r, reasonNames) }
func (r Reason) MarshalText() ([]byte, error) { return []byte(r.String()), nil }
func (r *Reason) UnmarshalText(text []byte) error { return enumParse(text, reasonNames, r) }

// Verdict 案件最终判定
type Verdict int8

const (
	VerdictPass Verdict = iota
	VerdictConditional
	VerdictFail
)

var (
	verdictNames  = []string{"pass", "conditional", "fail"}
	verdictLabels = []string{"通過", "條件通過", "不通過"}
)

func (v Verdict) String() string { return enumString(v, verdictNames) }
func (v Verdict) Label() string { return enumString(v, verdictLabels) }
func (v Verdict) MarshalText() ([]byte, error) { return []byte(v.String()), nil }
func (v *Verdict) UnmarshalText(text []byte) error { return enumParse(text, verdictNames, v) }
