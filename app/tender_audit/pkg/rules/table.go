package rules

import (
	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/model"
)

// 公告字段取值器
var (
	procurement  = func(a *model.AnnouncementFields) model.ProcurementMethod { return a.ProcurementMethod }
	award        = func(a *model.AnnouncementFields) model.AwardMethod { return a.AwardMethod }
	reserve      = func(a *model.AnnouncementFields) model.Flag { return a.ReservePrice }
	multiple     = func(a *model.AnnouncementFields) model.Flag { return a.MultipleAward }
	article64    = func(a *model.AnnouncementFields) model.Flag { return a.Article64_2 }
	objectClass  = func(a *model.AnnouncementFields) model.ObjectClass { return a.ObjectClass }
	treaty       = func(a *model.AnnouncementFields) model.Flag { return a.Treaty }
	sensitive    = func(a *model.AnnouncementFields) model.Flag { return a.Sensitive }
	security     = func(a *model.AnnouncementFields) model.Flag { return a.NationalSecurity }
	future       = func(a *model.AnnouncementFields) model.FuturePurchase { return a.FuturePurchase }
	special      = func(a *model.AnnouncementFields) model.Flag { return a.Special }
	turnkey      = func(a *model.AnnouncementFields) model.Flag { return a.Turnkey }
	negotiation  = func(a *model.AnnouncementFields) model.Flag { return a.Negotiation }
	electronic   = func(a *model.AnnouncementFields) model.Flag { return a.ElectronicCollection }
	disabled     = func(a *model.AnnouncementFields) model.Flag { return a.DisabledPriority }
	foreign      = func(a *model.AnnouncementFields) model.ForeignEligibility { return a.ForeignBidders }
	sme          = func(a *model.AnnouncementFields) model.Flag { return a.SMEOnly }
	qualify      = func(a *model.AnnouncementFields) model.Qualification { return a.Qualification }
	opening      = func(a *model.AnnouncementFields) model.BidOpening { return a.BidOpening }
	amount       = func(a *model.AnnouncementFields) model.Amount { return a.Amount }
	amountTier   = func(a *model.AnnouncementFields) model.Text { return a.AmountTier }
	legalBasis   = func(a *model.AnnouncementFields) model.Text { return a.LegalBasis }
	annBidBond   = func(a *model.AnnouncementFields) model.Amount { return a.BidBond }
	insBidBond   = func(f *model.InstructionFields) model.Amount { return f.BidBond }
	openQuoteMin = int64(150000)
	openQuoteMax = int64(1500000)
)

// table 0821 版检核表，共 23 项
func table() []Rule {
	return []Rule{
		{1, "案號案名一致性", model.RiskHigh, checkCaseIdentity},
		{2, "採購金額級距", model.RiskHigh, when("招標方式", procurement, model.ProcurementOpenQuotation, all(
			amountRange("採購金額", amount, openQuoteMin, openQuoteMax),
			optional(textContains("採購金級距", amountTier, "未達公告金額")),
			optional(textContains("依據法條", legalBasis, "第49條")),
			requireChecked("第3點逾公告金額十分之一"),
		))},
		{3, "招標方式須知設定", model.RiskLow, when("招標方式", procurement, model.ProcurementOpenQuotation,
			requireChecked("第5點公開取得報價"))},
		{4, "決標方式設定", model.RiskLow, when("決標方式", award, model.AwardLowest, all(
			requireChecked("第59點最低標"),
			requireChecked("第59點非64條之2"),
		))},
		{5, "底價設定一致性", model.RiskHigh, when("訂有底價", reserve, model.FlagYes,
			requireChecked("第6點訂底價"))},
		{6, "非複數決標設定", model.RiskMedium, on("複數決標", multiple, map[model.Flag]Check{
			model.FlagNo:  func(*Input) Outcome { return pass("公告為非複數決標，與須知範本一致") },
			model.FlagYes: func(*Input) Outcome { return fail(model.ReasonMismatch, "須知範本僅適用非複數決標") },
		})},
		{7, "施行細則第64條之2", model.RiskLow, when("依64條之2", article64, model.FlagNo,
			requireChecked("第59點非64條之2"))},
		{8, "標的分類一致性", model.RiskLow, on("標的分類", objectClass, map[model.ObjectClass]Check{
			model.ObjectCustomMade: all(
				requireChecked("財物性質買受定製"),
				forbidChecked("財物性質租購"),
			),
			model.ObjectGoods:        notSpecified("標的分類為財物"),
			model.ObjectServices:     notSpecified("標的分類為勞務"),
			model.ObjectConstruction: notSpecified("標的分類為工程"),
		})},
		{9, "條約協定適用", model.RiskHigh, on("適用條約", treaty, map[model.Flag]Check{
			model.FlagNo:  forbidChecked("第8點條約協定"),
			model.FlagYes: requireChecked("第8點條約協定"),
		})},
		{10, "敏感性或國安疑慮", model.RiskHigh, when("敏感性採購", sensitive, model.FlagYes, all(
			requireChecked("第13點敏感性"),
			requireChecked("第8點禁止大陸"),
		))},
		{11, "國家安全", model.RiskHigh, when("國安採購", security, model.FlagYes, all(
			requireChecked("第13點國安"),
			requireChecked("第8點禁止大陸"),
		))},
		{12, "未來增購權利", model.RiskLow, on("增購權利", future, map[model.FuturePurchase]Check{
			model.FutureReserved: exclusive("第7點保留增購", "第7點未保留增購"),
			model.FutureNone:     exclusive("第7點未保留增購", "第7點保留增購"),
		})},
		{13, "特殊採購認定", model.RiskHigh, when("特殊採購", special, model.FlagNo,
			requireChecked("第4點非特殊採購"))},
		{14, "統包認定", model.RiskLow, when("統包", turnkey, model.FlagNo,
			requireChecked("第35點非統包"))},
		{15, "協商措施", model.RiskLow, when("協商措施", negotiation, model.FlagNo,
			requireChecked("第54點不協商"))},
		{16, "電子領標", model.RiskLow, when("電子領標", electronic, model.FlagYes,
			requireChecked("第9點電子領標"))},
		{17, "押標金設定", model.RiskLow, bidBond},
		{18, "優先採購身心障礙", model.RiskLow, when("優先身障", disabled, model.FlagYes,
			requireChecked("第59點身障優先"))},
		{19, "外國廠商參與規定", model.RiskMedium, on("外國廠商", foreign, map[model.ForeignEligibility]Check{
			model.ForeignAllowed:    exclusive("第8點可參與", "第8點不可參與"),
			model.ForeignDisallowed: exclusive("第8點不可參與", "第8點可參與"),
		})},
		{20, "外國廠商文件要求", model.RiskMedium, when("外國廠商", foreign, model.ForeignAllowed, all(
			requireChecked("第15點中文譯本"),
			requireChecked("第15點納稅證明"),
			requireChecked("第15點信用證明"),
		))},
		{21, "中小企業參與限制", model.RiskMedium, when("限定中小企業", sme, model.FlagYes,
			requireChecked("第8點不可參與"))},
		{22, "廠商資格摘要一致性", model.RiskMedium, on("廠商資格", qualify, map[model.Qualification]Check{
			model.QualificationLegalRegistration: all(
				requireChecked("第13點其他業類"),
				forbidChecked("第13點業類"),
			),
			model.QualificationBusinessScope: requireChecked("第13點業類"),
			model.QualificationOther:         notSpecified("廠商資格為其他類型"),
		})},
		{23, "開標程序一致性", model.RiskHigh, on("開標方式", opening, map[model.BidOpening]Check{
			model.OpeningSingleStage: exclusive("第42點不分段", "第42點分二段"),
			model.OpeningTwoStage:    exclusive("第42點分二段", "第42點不分段"),
		})},
	}
}

// bondClause 押标金大于零须勾选一定金额，等于零须勾选无需押标金
// bidBond 项次17：任一侧押标金未载明即略过，第19点勾选不一致只写入说明
func bidBond(in *Input) Outcome {
	cmp := compareAmount("押標金", annBidBond, insBidBond)(in)
	if cmp.Status != model.StatusSkip || cmp.Reason != model.ReasonUnknownInput {
		return all(func(*Input) Outcome { return cmp }, optional(bondClause))(in)
	}
	if clause := bondClause(in); clause.Status == model.StatusFail {
		cmp.Explanation += "；另：" + clause.Explanation
		cmp = cmp.withIns(clause.InstructionValue)
	}
	return cmp
}

func bondClause(in *Input) Outcome {
	bond := in.Announcement.BidBond
	if !bond.Known {
		return skip(model.ReasonUnknownInput, "公告押標金未載明")
	}
	if bond.Value > 0 {
		return exclusive("第19點一定金額", "第19點無需押標金")(in)
	}
	return exclusive("第19點無需押標金", "第19點一定金額")(in)
}
