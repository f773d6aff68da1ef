package model

import (
	"strconv"
	"strings"
)

// Text 可能缺失的文本字段
type Text struct {
	Value string `json:"value,omitempty"`
	Known bool   `json:"known"`
}

// UnknownText 未提取到的文本
var UnknownText = Text{}

// NewText 去除首尾空白后构造文本字段，空串视为未知
func NewText(s string) Text {
	s = strings.TrimSpace(s)
	if s == "" {
		return UnknownText
	}
	return Text{Value: s, Known: true}
}

func (t Text) String() string {
	if !t.Known {
		return "未載明"
	}
	return t.Value
}

// Amount 去除千分位与币别符号后的金额
type Amount struct {
	Value int64  `json:"value"`
	Raw   string `json:"raw,omitempty"`
	Known bool   `json:"known"`
}

// UnknownAmount 未提取到的金额
var UnknownAmount = Amount{}

// NewAmount 构造已知金额
func NewAmount(v int64) Amount {
	return Amount{Value: v, Raw: strconv.FormatInt(v, 10), Known: true}
}

// ParseAmount 从 "NT$ 1,234,000"、"新臺幣５０，０００元" 一类写法中取出整数金额。
// 只取第一段数字，数字开始后遇到千分位与空白以外的字符即停止；小数点后的部分被舍弃。
// 没有任何数字时返回 UnknownAmount。
func ParseAmount(raw string) Amount {
	raw = strings.TrimSpace(raw)
	var digits []byte
loop:
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			digits = append(digits, byte(r))
		case r >= '０' && r <= '９':
			digits = append(digits, byte('0'+(r-'０')))
		case len(digits) == 0:
		case r == ',' || r == '，' || r == ' ':
		default:
			break loop
		}
	}
	if len(digits) == 0 {
		return UnknownAmount
	}
	v, err := strconv.ParseInt(string(digits), 10, 64)
	if err != nil {
		return UnknownAmount
	}
	return Amount{Value: v, Raw: raw, Known: true}
}

func (a Amount) String() string {
	if !a.Known {
		return "未載明"
	}
	s := strconv.FormatInt(a.Value, 10)
	var sb strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(c)
	}
	return sb.String()
}

// AnnouncementFields 招标公告提取结果
type AnnouncementFields struct {
	CaseNumber           Text               `json:"case_number"`
	CaseName             Text               `json:"case_name"`
	ProcurementMethod    ProcurementMethod  `json:"procurement_method"`
	Amount               Amount             `json:"amount"`
	AmountTier           Text               `json:"amount_tier"`  // 采购金级距
	LegalBasis           Text               `json:"legal_basis"`  // 依据法条
	AwardMethod          AwardMethod        `json:"award_method"`
	ReservePrice         Flag               `json:"reserve_price"`
	MultipleAward        Flag               `json:"multiple_award"`
	Article64_2          Flag               `json:"article_64_2"` // 依施行细则第64条之2办理
	ObjectClass          ObjectClass        `json:"object_class"`
	Treaty               Flag               `json:"treaty"`
	Sensitive            Flag               `json:"sensitive"`
	NationalSecurity     Flag               `json:"national_security"`
	FuturePurchase       FuturePurchase     `json:"future_purchase"`
	Special              Flag               `json:"special"`
	Turnkey              Flag               `json:"turnkey"`
	Negotiation          Flag               `json:"negotiation"`
	ElectronicCollection Flag               `json:"electronic_collection"`
	DisabledPriority     Flag               `json:"disabled_priority"`
	ForeignBidders       ForeignEligibility `json:"foreign_bidders"`
	SMEOnly              Flag               `json:"sme_only"`
	BidBond              Amount             `json:"bid_bond"`
	BidOpening           BidOpening         `json:"bid_opening"`
	Qualification        Qualification      `json:"qualification"`
}

// InstructionFields 投标须知提取结果，勾选框与须知范本条款一一对应
type InstructionFields struct {
	CaseNumber Text   `json:"case_number"`
	ObjectName Text   `json:"object_name"`
	BidBond    Amount `json:"bid_bond"`

	AmountTier           Checkbox `json:"amount_tier"`           // 第3点
	NonSpecial           Checkbox `json:"non_special"`           // 第4点
	OpenQuotation        Checkbox `json:"open_quotation"`        // 第5点
	ReservePrice         Checkbox `json:"reserve_price"`         // 第6点
	FutureReserved       Checkbox `json:"future_reserved"`       // 第7点
	FutureNotReserved    Checkbox `json:"future_not_reserved"`   // 第7点
	Treaty               Checkbox `json:"treaty"`                // 第8点
	ForeignAllowed       Checkbox `json:"foreign_allowed"`       // 第8点
	ForeignDisallowed    Checkbox `json:"foreign_disallowed"`    // 第8点
	MainlandBanned       Checkbox `json:"mainland_banned"`       // 第8点
	ElectronicCollection Checkbox `json:"electronic_collection"` // 第9点
	Sensitive            Checkbox `json:"sensitive"`             // 第13点
	NationalSecurity     Checkbox `json:"national_security"`     // 第13点
	IndustryClass        Checkbox `json:"industry_class"`        // 第13点 (1)-(15) 任一
	OtherIndustry        Checkbox `json:"other_industry"`        // 第13点 (16)
	ChineseTranslation   Checkbox `json:"chinese_translation"`   // 第15点
	TaxCertificate       Checkbox `json:"tax_certificate"`       // 第15点
	CreditCertificate    Checkbox `json:"credit_certificate"`    // 第15点
	BondExempt           Checkbox `json:"bond_exempt"`           // 第19点
	BondFixed            Checkbox `json:"bond_fixed"`            // 第19点
	NonTurnkey           Checkbox `json:"non_turnkey"`           // 第35点
	SingleStage          Checkbox `json:"single_stage"`          // 第42点
	TwoStage             Checkbox `json:"two_stage"`             // 第42点
	NoNegotiation        Checkbox `json:"no_negotiation"`        // 第54点
	LowestBid            Checkbox `json:"lowest_bid"`            // 第59点
	NotArticle64_2       Checkbox `json:"not_article_64_2"`      // 第59点
	DisabledPriority     Checkbox `json:"disabled_priority"`     // 第59点
	LeasePurchase        Checkbox `json:"lease_purchase"`        // 财物性质
	CustomMade           Checkbox `json:"custom_made"`           // 财物性质
}

// Clause 须知范本中的一个勾选条款
type Clause struct {
	Key   string // 条款键，同时作为 LLM 输出的 JSON 键
	Field func(*InstructionFields) *Checkbox
}

// Clauses 全部勾选条款，顺序即须知范本中的条款顺序
var Clauses = []Clause{
	{"第3點逾公告金額十分之一", func(f *InstructionFields) *Checkbox { return &f.AmountTier }},
	{"第4點非特殊採購", func(f *InstructionFields) *Checkbox { return &f.NonSpecial }},
	{"第5點公開取得報價", func(f *InstructionFields) *Checkbox { return &f.OpenQuotation }},
	{"第6點訂底價", func(f *InstructionFields) *Checkbox { return &f.ReservePrice }},
	{"第7點保留增購", func(f *InstructionFields) *Checkbox { return &f.FutureReserved }},
	{"第7點未保留增購", func(f *InstructionFields) *Checkbox { return &f.FutureNotReserved }},
	{"第8點條約協定", func(f *InstructionFields) *Checkbox { return &f.Treaty }},
	{"第8點可參與", func(f *InstructionFields) *Checkbox { return &f.ForeignAllowed }},
	{"第8點不可參與", func(f *InstructionFields) *Checkbox { return &f.ForeignDisallowed }},
	{"第8點禁止大陸", func(f *InstructionFields) *Checkbox { return &f.MainlandBanned }},
	{"第9點電子領標", func(f *InstructionFields) *Checkbox { return &f.ElectronicCollection }},
	{"第13點敏感性", func(f *InstructionFields) *Checkbox { return &f.Sensitive }},
	{"第13點國安", func(f *InstructionFields) *Checkbox { return &f.NationalSecurity }},
	{"第13點業類", func(f *InstructionFields) *Checkbox { return &f.IndustryClass }},
	{"第13點其他業類", func(f *InstructionFields) *Checkbox { return &f.OtherIndustry }},
	{"第15點中文譯本", func(f *InstructionFields) *Checkbox { return &f.ChineseTranslation }},
	{"第15點納稅證明", func(f *InstructionFields) *Checkbox { return &f.TaxCertificate }},
	{"第15點信用證明", func(f *InstructionFields) *Checkbox { return &f.CreditCertificate }},
	{"第19點無需押標金", func(f *InstructionFields) *Checkbox { return &f.BondExempt }},
	{"第19點一定金額", func(f *InstructionFields) *Checkbox { return &f.BondFixed }},
	{"第35點非統包", func(f *InstructionFields) *Checkbox { return &f.NonTurnkey }},
	{"第42點不分段", func(f *InstructionFields) *Checkbox { return &f.SingleStage }},
	{"第42點分二段", func(f *InstructionFields) *Checkbox { return &f.TwoStage }},
	{"第54點不協商", func(f *InstructionFields) *Checkbox { return &f.NoNegotiation }},
	{"第59點最低標", func(f *InstructionFields) *Checkbox { return &f.LowestBid }},
	{"第59點非64條之2", func(f *InstructionFields) *Checkbox { return &f.NotArticle64_2 }},
	{"第59點身障優先", func(f *InstructionFields) *Checkbox { return &f.DisabledPriority }},
	{"財物性質租購", func(f *InstructionFields) *Checkbox { return &f.LeasePurchase }},
	{"財物性質買受定製", func(f *InstructionFields) *Checkbox { return &f.CustomMade }},
}

// CriticalAnnouncementFields 缺失时需要优先提示的公告字段
var CriticalAnnouncementFields = []string{"案號", "案名", "招標方式", "決標方式"}

// UnknownFields 返回未能提取的公告字段名，关键字段排在最前
func (a *AnnouncementFields) UnknownFields() []string {
	known := map[string]bool{
		"案號":     a.CaseNumber.Known,
		"案名":     a.CaseName.Known,
		"招標方式":   a.ProcurementMethod != ProcurementUnknown,
		"決標方式":   a.AwardMethod != AwardUnknown,
		"採購金額":   a.Amount.Known,
		"採購金級距":  a.AmountTier.Known,
		"依據法條":   a.LegalBasis.Known,
		"訂有底價":   a.ReservePrice.Known(),
		"複數決標":   a.MultipleAward.Known(),
		"依64條之2": a.Article64_2.Known(),
		"標的分類":   a.ObjectClass != ObjectUnknown,
		"適用條約":   a.Treaty.Known(),
		"敏感性採購":  a.Sensitive.Known(),
		"國安採購":   a.NationalSecurity.Known(),
		"增購權利":   a.FuturePurchase != FutureUnknown,
		"特殊採購":   a.Special.Known(),
		"統包":     a.Turnkey.Known(),
		"協商措施":   a.Negotiation.Known(),
		"電子領標":   a.ElectronicCollection.Known(),
		"優先身障":   a.DisabledPriority.Known(),
		"外國廠商":   a.ForeignBidders != ForeignUnknown,
		"限定中小企業": a.SMEOnly.Known(),
		"押標金":    a.BidBond.Known,
		"開標方式":   a.BidOpening != OpeningUnknown,
		"廠商資格":   a.Qualification != QualificationUnknown,
	}
	return orderedUnknown(known, AnnouncementKeys)
}

// AnnouncementKeys 公告字段键，顺序即报告中的展示顺序
var AnnouncementKeys = []string{
	"案號", "案名", "招標方式", "決標方式", "採購金額", "採購金級距", "依據法條",
	"訂有底價", "複數決標", "依64條之2", "標的分類", "適用條約", "敏感性採購", "國安採購",
	"增購權利", "特殊採購", "統包", "協商措施", "電子領標", "優先身障", "外國廠商",
	"限定中小企業", "押標金", "開標方式", "廠商資格",
}

// UnknownFields 返回未能识别的须知字段
func (f *InstructionFields) UnknownFields() []string {
	var out []string
	if !f.CaseNumber.Known {
		out = append(out, "案號")
	}
	if !f.ObjectName.Known {
		out = append(out, "採購標的名稱")
	}
	if !f.BidBond.Known {
		out = append(out, "押標金金額")
	}
	for _, c := range Clauses {
		if !c.Field(f).Known() {
			out = append(out, c.Key)
		}
	}
	return out
}

func orderedUnknown(known map[string]bool, order []string) []string {
	var out []string
	for _, k := range order {
		if !known[k] {
			out = append(out, k)
		}
	}
	return out
}
