package service

import (
	"math"
	"strconv"
	"strings"
	"wc_rakuten_tracking/dto"
	"wc_rakuten_tracking/module"
)

const displayDefaultDomain = "dc.rmptag.com"

// DisplayBeacon Display 渠道的外发元素描述
type DisplayBeacon struct {
	Element string // iframe | img
	URL     string
}

// BuildDisplayBeacon 生成 Display 渠道转化元素。
// displayMID、订单号、转化类型任一缺失都静默放弃。
func BuildDisplayBeacon(basket *dto.SaleBasket, ov *Overrides, st *TrackingSettings) (DisplayBeacon, bool) {
	if basket == nil {
		return DisplayBeacon{}, false
	}

	displayMID := ResolveParam(ov, OvDisplayMID, st.Get(module.SettingDisplayMID), "")
	if displayMID == "" {
		return DisplayBeacon{}, false
	}
	if basket.OrderID == "" || basket.ConversionType == "" {
		return DisplayBeacon{}, false
	}

	// 整单不含税价：行不含税小计合计减去优惠额，保留两位
	var price float64
	skus := make([]string, 0, len(basket.LineItems))
	for _, li := range basket.LineItems {
		price += li.UnitPriceLessTax * float64(li.Quantity)
		skus = append(skus, li.SKU)
	}
	price = round2(price - math.Abs(basket.DiscountAmount))

	orderNumber := basket.OrderID
	if basket.AffiliateConfig.IncludeStatus && basket.CustomerStatus == dto.CustomerStatusExisting {
		orderNumber = "R_" + orderNumber
	}

	domain := ResolveParam(ov, OvDisplayDomain, st.Get(module.SettingDisplayDomain), displayDefaultDomain)
	tagType := strings.ToLower(ResolveParam(ov, OvTagType, st.Get(module.SettingTagType), "script"))
	switch tagType {
	case "iframe", "img", "script":
	default:
		tagType = "script"
	}

	var b strings.Builder
	b.WriteString("https://")
	b.WriteString(domain)
	b.WriteString("/")
	b.WriteString(tagType)
	writeParam(&b, "prodID", displayMID, true)
	writeParam(&b, "orderNumber", orderNumber, false)
	writeParam(&b, "price", strconv.FormatFloat(price, 'f', 2, 64), false)
	writeParam(&b, "cur", basket.Currency, false)
	writeParam(&b, "pt", "conv", false)
	if len(skus) > 0 {
		writeParam(&b, "skulist", strings.Join(skus, ","), false)
	}

	// 元素种类：img 出 1x1 图片，其余（含默认的 script）落成 iframe
	element := "iframe"
	if tagType == "img" {
		element = "img"
	}

	return DisplayBeacon{Element: element, URL: b.String()}, true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
