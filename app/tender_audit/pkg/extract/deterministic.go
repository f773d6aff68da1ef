package extract

import (
	"context"
	"regexp"
	"strings"

	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/model"
)

// pattern 一条提取规则；value 非空时命中即取该值，否则取第一个捕获组
type pattern struct {
	re    *regexp.Regexp
	value string
}

func capture(expr string) pattern { return pattern{re: regexp.MustCompile(expr)} }

func fixed(expr, value string) pattern {
	return pattern{re: regexp.MustCompile(expr), value: value}
}

func (p pattern) find(text string) (string, bool) {
	m := p.re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	if p.value != "" {
		return p.value, true
	}
	if len(m) < 2 {
		return m[0], true
	}
	return strings.TrimSpace(m[1]), true
}

// 正文已经过 loader.Normalize：全形转半形，冒号统一为 ":"
const money = `(?:新[臺台]幣|NT\$?|\$)?\s*`

// announcementPatterns 公告字段的规则，按顺序尝试，第一个得到已知值的规则生效
var announcementPatterns = map[string][]pattern{
	"案號": {
		capture(`案號\s*:\s*([A-Za-z0-9][A-Za-z0-9_-]*)`),
		capture(`\b([A-Za-z]\d{2}[A-Za-z]\d{5}[A-Za-z]?)\b`),
	},
	"案名":    {capture(`案名\s*:\s*([^\n*]+)`)},
	"招標方式":  {capture(`招標方式\s*:\s*([^\n]+)`), capture(`(公開取得(?:書面)?報價|公開招標|選擇性招標|限制性招標)`)},
	"決標方式":  {capture(`決標方式\s*:\s*([^\n]+)`)},
	"採購金額":  {capture(`採購金額\s*:\s*` + money + `([\d,]+)`), capture(`預算金額\s*:\s*` + money + `([\d,]+)`)},
	"採購金級距": {capture(`採購金(?:額)?級距\s*:\s*([^\n\s]+)`)},
	"依據法條":  {capture(`依據法條\s*:\s*([^\n]+)`)},
	"訂有底價": {
		capture(`底價[^\n:]*:\s*(是|否)`),
		fixed(`不訂底價`, "否"),
		fixed(`訂有底價`, "是"),
	},
	"複數決標":   {capture(`複數決標[^\n:]*:\s*(是|否)`), fixed(`非複數決標`, "否")},
	"依64條之2": {capture(`64條之2[^\n:]*:\s*(是|否)`)},
	"標的分類":   {capture(`標的分類\s*:\s*([^\n]+)`)},
	"適用條約":   {capture(`條約或協定[^\n:]*:\s*(是|否)`)},
	"敏感性採購":  {capture(`敏感性或國安[^\n:]*:\s*(是|否)`)},
	"國安採購":   {capture(`涉及國家安全[^\n:]*:\s*(是|否)`)},
	"增購權利":   {capture(`增購權利[^\n:]*:\s*([^\n]+)`)},
	"特殊採購":   {capture(`特殊採購[^\n:]*:\s*(是|否)`)},
	"統包":     {capture(`統包[^\n:]*:\s*(是|否)`)},
	"協商措施":   {capture(`協商措施[^\n:]*:\s*(是|否)`)},
	"電子領標":   {capture(`電子領標[^\n:]*:\s*(是|否)`)},
	"優先身障":   {capture(`身心障礙[^\n:]*:\s*(是|否)`)},
	"外國廠商":   {capture(`外國廠商[^\n:]*:\s*([^\n]+)`)},
	"限定中小企業": {
		capture(`中小企業[^\n:]*:\s*(是|否)`),
		fixed(`不限定中小企業`, "否"),
		fixed(`限定中小企業參與`, "是"),
	},
	"押標金": {
		capture(`押標金\s*:\s*` + money + `([\d,]+)`),
		fixed(`押標金\s*:\s*(?:無|免|不需|免收)`, "0"),
	},
	"開標方式": {capture(`開標方式\s*:\s*([^\n]+)`), capture(`((?:一次投標)?(?:不分段|分段)開標)`)},
	"廠商資格": {
		capture(`廠商資格[^\n:]*:\s*([^\n]+)`),
		fixed(`合法設立登記之廠商`, "合法設立登記"),
		fixed(`營業項目`, "營業項目"),
	},
}

var (
	insCaseNumberRe = regexp.MustCompile(`案號\s*:\s*([A-Za-z0-9][A-Za-z0-9_-]*)`)
	insTitleLineRe  = regexp.MustCompile(`採購標的名稱及案號\s*:\s*([^\n]+)`)
	insObjectNameRe = regexp.MustCompile(`採購標的名稱\s*:\s*([^\n]+)`)
	caseTokenRe     = regexp.MustCompile(`([A-Za-z]+\d[A-Za-z0-9_-]*)\s*[)\]]?\s*$`)
	insBondRe       = regexp.MustCompile(`押標金[^\n]{0,80}?新[臺台]幣\s*[□■]?[_\s]*([\d,]+)[_\s]*元`)
)

// Deterministic 只依赖正则与勾选符号的提取策略
type Deterministic struct{}

var _ Extractor = (*Deterministic)(nil)

// NewDeterministic 创建规则提取器
func NewDeterministic() *Deterministic {
	return &Deterministic{}
}

func (d *Deterministic) Announcement(ctx context.Context, text string) (*model.AnnouncementFields, *Trace, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	return d.announcement(text), &Trace{Strategy: StrategyDeterministic}, nil
}

func (d *Deterministic) announcement(text string) *model.AnnouncementFields {
	var a model.AnnouncementFields
	for _, f := range announcementFields {
		for _, p := range announcementPatterns[f.key] {
			v, ok := p.find(text)
			if !ok {
				continue
			}
			f.set(&a, v)
			if f.get(&a) != "" {
				break
			}
		}
	}
	return &a
}

func (d *Deterministic) Instructions(ctx context.Context, text string) (*model.InstructionFields, *Trace, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	return d.instructions(text), &Trace{Strategy: StrategyDeterministic}, nil
}

func (d *Deterministic) instructions(text string) *model.InstructionFields {
	var f model.InstructionFields

	// "採購標的名稱及案號:辦公桌椅一批 C13A07469" 同时给出名称与案号
	if m := insTitleLineRe.FindStringSubmatch(text); m != nil {
		line := strings.TrimSpace(m[1])
		if t := caseTokenRe.FindStringSubmatchIndex(line); t != nil {
			f.CaseNumber = model.NewText(line[t[2]:t[3]])
			name := strings.TrimRight(line[:t[0]], " ,、([:")
			f.ObjectName = model.NewText(strings.TrimRight(strings.TrimSuffix(name, "案號"), " ,、([:"))
		} else {
			f.ObjectName = model.NewText(line)
		}
	}
	if !f.CaseNumber.Known {
		if m := insCaseNumberRe.FindStringSubmatch(text); m != nil {
			f.CaseNumber = model.NewText(m[1])
		}
	}
	if !f.ObjectName.Known {
		if m := insObjectNameRe.FindStringSubmatch(text); m != nil {
			f.ObjectName = model.NewText(m[1])
		}
	}

	for _, c := range model.Clauses {
		*c.Field(&f) = checkboxState(text, c.Key)
	}

	if m := insBondRe.FindStringSubmatch(text); m != nil {
		f.BidBond = model.ParseAmount(m[1])
	} else if f.BondExempt == model.CheckboxChecked && f.BondFixed != model.CheckboxChecked {
		f.BidBond = model.NewAmount(0)
	}
	return &f
}
