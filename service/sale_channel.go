package service

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"wc_rakuten_tracking/dto"
	"wc_rakuten_tracking/module"
)

const saleTrackHost = "https://track.linksynergy.com"

// saleLine 聚合后的出账行，合成行（DISCOUNT/ORDERTAX）也走这里
type saleLine struct {
	sku      string
	name     string
	qty      int
	amtCents int64
}

// BuildSaleBeacon 生成 Sale 渠道 1x1 像素 GET 地址。
// 返回 ok=false 表示本渠道静默放弃，不产生任何外发请求。
func BuildSaleBeacon(basket *dto.SaleBasket, ov *Overrides, st *TrackingSettings) (string, bool) {
	if basket == nil {
		return "", false
	}
	cfg := basket.AffiliateConfig

	mid := ResolveParam(ov, OvMerchantID, cfg.RanMID, "")
	if mid == "" {
		return "", false
	}

	cfgAllow := "true"
	if !cfg.AllowCommission {
		cfgAllow = "false"
	}
	if !ResolveParamBool(ov, OvAllowCommission, cfgAllow, "true") {
		return "", false
	}

	removeProductTax := ResolveParamBool(ov, OvRemoveProductTax, st.Get(module.SettingRemoveTaxFromProducts), "false")

	// 按 SKU 聚合：数量累加、金额累加，保持首次出现的行序
	var merged []*saleLine
	index := map[string]*saleLine{}
	for _, li := range basket.LineItems {
		if li.Quantity <= 0 {
			continue
		}
		amt := lineAmountCents(li, removeProductTax, cfg.TaxRate)
		if exist, ok := index[li.SKU]; ok {
			exist.qty += li.Quantity
			exist.amtCents += amt
			continue
		}
		line := &saleLine{sku: li.SKU, name: li.ProductName, qty: li.Quantity, amtCents: amt}
		index[li.SKU] = line
		merged = append(merged, line)
	}

	var total int64
	for _, line := range merged {
		total += line.amtCents
	}

	// 优惠额先做去税修正，再按归因模式落账
	discountCents := int64(math.Round(math.Abs(basket.DiscountAmount) * 100))
	if cfg.RemoveTaxFromDiscount && cfg.TaxRate > 0 {
		discountCents = int64(math.Round(float64(discountCents) / ((100 + cfg.TaxRate) / 100)))
	}

	hasLineDiscount := false
	discountType := strings.ToLower(ResolveParam(ov, OvDiscountType, cfg.DiscountType, dto.DiscountTypeItem))
	if discountCents > 0 {
		if discountType == dto.DiscountTypeOrder {
			// 整单模式：负额合成行，真实行金额不动
			merged = append(merged, &saleLine{sku: "DISCOUNT", name: "DISCOUNT", qty: 1, amtCents: -discountCents})
		} else if total > 0 {
			// 按行模式：按金额占比分摊，末行兜余数保证分摊合计精确
			hasLineDiscount = true
			var applied int64
			for i, line := range merged {
				var deduct int64
				if i == len(merged)-1 {
					deduct = discountCents - applied
				} else {
					deduct = int64(math.Round(float64(discountCents) * float64(line.amtCents) / float64(total)))
					applied += deduct
				}
				line.amtCents -= deduct
			}
		}
	}

	if ResolveParamBool(ov, OvRemoveOrderTax, st.Get(module.SettingRemoveOrderTax), "false") && basket.TaxAmount > 0 {
		taxCents := int64(math.Round(basket.TaxAmount * 100))
		merged = append(merged, &saleLine{sku: "ORDERTAX", name: "ORDERTAX", qty: 1, amtCents: -taxCents})
	}

	// 老客前缀作用于全部行，合成行也一样
	if cfg.IncludeStatus && basket.CustomerStatus == dto.CustomerStatusExisting {
		for _, line := range merged {
			line.sku = "R_" + line.sku
			line.name = "R_" + line.name
		}
	}

	skus := make([]string, 0, len(merged))
	qtys := make([]string, 0, len(merged))
	amts := make([]string, 0, len(merged))
	names := make([]string, 0, len(merged))
	for _, line := range merged {
		skus = append(skus, line.sku)
		qtys = append(qtys, strconv.Itoa(line.qty))
		amts = append(amts, strconv.FormatInt(line.amtCents, 10))
		names = append(names, line.name)
	}

	path := "ep"
	tagType := ResolveParam(ov, OvTagType, st.Get(module.SettingTagType), "pixel")
	if !strings.EqualFold(tagType, "pixel") {
		path = "eventnvppixel"
	}

	// 参数名与顺序是联盟端契约，逐个手工拼接，不能用会重排的 url.Values
	var b strings.Builder
	b.WriteString(saleTrackHost)
	b.WriteString("/")
	b.WriteString(path)
	writeParam(&b, "mid", mid, true)
	writeParam(&b, "ord", basket.OrderID, false)
	writeParam(&b, "skulist", strings.Join(skus, "|"), false)
	writeParam(&b, "qlist", strings.Join(qtys, "|"), false)
	writeParam(&b, "amtlist", strings.Join(amts, "|"), false)
	writeParam(&b, "cur", basket.Currency, false)
	writeParam(&b, "namelist", strings.Join(names, "|"), false)
	if land := ResolveParam(ov, OvLand, "", ""); land != "" {
		writeParam(&b, "land", land, false)
	}
	if tr := ResolveParam(ov, OvTR, "", ""); tr != "" {
		writeParam(&b, "tr", tr, false)
	}
	if hasLineDiscount {
		writeParam(&b, "discount", strconv.FormatInt(discountCents, 10), false)
	}

	return b.String(), true
}

// lineAmountCents 单行出账金额（分）。默认按含税单价；
// 开了商品去税时优先用不含税单价，缺失时按税率折算。
func lineAmountCents(li dto.LineItem, removeProductTax bool, taxRate float64) int64 {
	amt := int64(math.Round(li.UnitPrice*100)) * int64(li.Quantity)
	if removeProductTax {
		if li.UnitPriceLessTax > 0 {
			amt = int64(math.Round(li.UnitPriceLessTax*100)) * int64(li.Quantity)
		} else if taxRate > 0 {
			amt = int64(math.Round(float64(amt) / ((100 + taxRate) / 100)))
		}
	}
	return amt
}

// writeParam 追加一个查询参数，first 决定 '?' 还是 '&'
func writeParam(b *strings.Builder, key, value string, first bool) {
	if first {
		b.WriteString("?")
	} else {
		b.WriteString("&")
	}
	b.WriteString(key)
	b.WriteString("=")
	b.WriteString(url.QueryEscape(value))
}
