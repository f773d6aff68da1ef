package extract

import (
	"strings"

	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/model"
)

// 以下解析函数接受规则捕获或 LLM 返回的原始值，无法判断时返回未知

func parseFlag(v string) model.Flag {
	v = strings.ToLower(cleanValue(v))
	switch {
	case v == "":
		return model.FlagUnknown
	case strings.HasPrefix(v, "否"), strings.HasPrefix(v, "無"), strings.HasPrefix(v, "不"), strings.HasPrefix(v, "非"),
		v == "no", v == "false", v == "n":
		return model.FlagNo
	case strings.HasPrefix(v, "是"), strings.HasPrefix(v, "有"), strings.HasPrefix(v, "適用"),
		v == "yes", v == "true", v == "y":
		return model.FlagYes
	}
	return model.FlagUnknown
}

func parseCheckbox(v string) model.Checkbox {
	v = strings.ToLower(cleanValue(v))
	switch {
	case v == "":
		return model.CheckboxUnknown
	case strings.Contains(v, "未勾選"), strings.Contains(v, "unchecked"), v == "□", v == "否", v == "false", v == "no":
		return model.CheckboxUnchecked
	case strings.Contains(v, "已勾選"), strings.Contains(v, "勾選"), strings.Contains(v, "checked"),
		v == "■", v == "是", v == "true", v == "yes":
		return model.CheckboxChecked
	}
	return model.CheckboxUnknown
}

func parseProcurement(v string) model.ProcurementMethod {
	v = cleanValue(v)
	switch {
	case v == "":
		return model.ProcurementUnknown
	case strings.Contains(v, "公開取得"), strings.Contains(v, "報價"):
		return model.ProcurementOpenQuotation
	case strings.Contains(v, "選擇性"):
		return model.ProcurementSelective
	case strings.Contains(v, "限制性"):
		return model.ProcurementLimited
	case strings.Contains(v, "公開招標"):
		return model.ProcurementOpenTender
	}
	return model.ProcurementUnknown
}

func parseAward(v string) model.AwardMethod {
	v = cleanValue(v)
	switch {
	case strings.Contains(v, "最有利"):
		return model.AwardMostAdvantageous
	case strings.Contains(v, "最低"):
		return model.AwardLowest
	case strings.Contains(v, "最高"):
		return model.AwardHighest
	}
	return model.AwardUnknown
}

func parseObjectClass(v string) model.ObjectClass {
	v = strings.ReplaceAll(cleanValue(v), "，", ",")
	switch {
	case strings.Contains(v, "買受"), strings.Contains(v, "定製"), strings.Contains(v, "訂製"):
		return model.ObjectCustomMade
	case strings.Contains(v, "財物"):
		return model.ObjectGoods
	case strings.Contains(v, "勞務"):
		return model.ObjectServices
	case strings.Contains(v, "工程"):
		return model.ObjectConstruction
	}
	return model.ObjectUnknown
}

func parseForeign(v string) model.ForeignEligibility {
	v = cleanValue(v)
	switch {
	case v == "":
		return model.ForeignUnknown
	case strings.Contains(v, "不可"), strings.Contains(v, "不得"), strings.Contains(v, "禁止"), strings.HasPrefix(v, "否"):
		return model.ForeignDisallowed
	case strings.Contains(v, "可"), strings.Contains(v, "得"), strings.HasPrefix(v, "是"), strings.Contains(v, "允許"):
		return model.ForeignAllowed
	}
	return model.ForeignUnknown
}

func parseOpening(v string) model.BidOpening {
	v = cleanValue(v)
	switch {
	case strings.Contains(v, "不分段"):
		return model.OpeningSingleStage
	case strings.Contains(v, "分段"), strings.Contains(v, "二段"):
		return model.OpeningTwoStage
	}
	return model.OpeningUnknown
}

func parseFuture(v string) model.FuturePurchase {
	v = cleanValue(v)
	switch {
	case v == "":
		return model.FutureUnknown
	case strings.Contains(v, "未保留"), strings.Contains(v, "不保留"), strings.HasPrefix(v, "無"), strings.HasPrefix(v, "否"):
		return model.FutureNone
	case strings.Contains(v, "保留"), strings.HasPrefix(v, "有"), strings.HasPrefix(v, "是"):
		return model.FutureReserved
	}
	return model.FutureUnknown
}

func parseQualification(v string) model.Qualification {
	v = cleanValue(v)
	switch {
	case v == "":
		return model.QualificationUnknown
	case strings.Contains(v, "營業項目"):
		// 写明营业项目代码时以代码为准，即使同句也提到合法设立登记
		return model.QualificationBusinessScope
	case strings.Contains(v, "合法設立登記"):
		return model.QualificationLegalRegistration
	}
	return model.QualificationOther
}
