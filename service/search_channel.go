package service

import (
	"math"
	"strconv"
	"strings"
	"wc_rakuten_tracking/dto"
	"wc_rakuten_tracking/module"

	jsoniter "github.com/json-iterator/go"
)

const searchScriptURL = "https://search.rmptag.com/rmsearch.js"

// SearchBeacon Search 渠道的异步加载描述：远端脚本加载完成后
// 以固定参数顺序调用事件上报。加载失败则该渠道永久静默。
type SearchBeacon struct {
	ScriptURL string
	// Args 顺序固定：id、转化类型、金额、订单号、优惠码、币种、两个保留空位
	Args []string
}

// BuildSearchBeacon 生成 Search 渠道上报参数，searchMID 或订单号缺失时静默放弃
func BuildSearchBeacon(basket *dto.SaleBasket, ov *Overrides, st *TrackingSettings) (SearchBeacon, bool) {
	if basket == nil {
		return SearchBeacon{}, false
	}

	searchMID := ResolveParam(ov, OvSearchMID, st.Get(module.SettingSearchMID), "")
	if searchMID == "" {
		return SearchBeacon{}, false
	}
	if basket.OrderID == "" {
		return SearchBeacon{}, false
	}

	// 订单价值按含税单价合计减优惠额，保留两位
	var value float64
	for _, li := range basket.LineItems {
		value += li.UnitPrice * float64(li.Quantity)
	}
	value = round2(value - math.Abs(basket.DiscountAmount))

	currency := basket.Currency
	if currency == "" {
		currency = "USD"
	}

	return SearchBeacon{
		ScriptURL: searchScriptURL,
		Args: []string{
			searchMID,
			"conv",
			strconv.FormatFloat(value, 'f', 2, 64),
			basket.OrderID,
			basket.DiscountCode,
			currency,
			"",
			"",
		},
	}, true
}

// Snippet 渲染异步加载桩：onload/onreadystatechange 双路兼容老浏览器事件模型
func (s SearchBeacon) Snippet() string {
	args := make([]string, 0, len(s.Args))
	for i, arg := range s.Args {
		// 金额位是数字字面量，其余全部按 JS 字符串字面量编码
		if i == 2 {
			args = append(args, arg)
			continue
		}
		quoted, _ := jsoniter.MarshalToString(arg)
		args = append(args, quoted)
	}

	var b strings.Builder
	b.WriteString("(function(){var s=document.createElement('script');s.async=true;s.src='")
	b.WriteString(s.ScriptURL)
	b.WriteString("';s.onload=s.onreadystatechange=function(){var rs=this.readyState;")
	b.WriteString("if(rs&&rs!=='complete'&&rs!=='loaded')return;")
	b.WriteString("if(window.rmsearch){window.rmsearch.sendEvent(")
	b.WriteString(strings.Join(args, ","))
	b.WriteString(");}};var h=document.getElementsByTagName('script')[0];")
	b.WriteString("h.parentNode.insertBefore(s,h);})();")
	return b.String()
}
