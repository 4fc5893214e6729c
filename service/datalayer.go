package service

import (
	"log"
	"strings"
	ginprom "wc_rakuten_tracking/common/ginporm"
	"wc_rakuten_tracking/dto"
	"wc_rakuten_tracking/module"

	jsoniter "github.com/json-iterator/go"
)

// RenderThankyouFragment 组装落页片段：datalayer 脚本、厂商标签加载器、
// 以及三个渠道各自的外发元素。任何渠道的放弃都不影响其它渠道。
// 商户ID或脚本ID未配置时整体关闭，返回空串。
func RenderThankyouFragment(basket *dto.SaleBasket, ov *Overrides, st *TrackingSettings) string {
	if basket == nil || !st.Enabled() {
		ginprom.DatalayerCounterVec.WithLabelValues("skipped").Inc()
		return ""
	}

	// jsoniter 默认对字符串内的 <、>、& 做 \u 转义，
	// "</script>" 这类内容不可能原样落进脚本字面量
	payload, err := jsoniter.MarshalToString(basket)
	if err != nil {
		// 不应出现，出现也只是本单不出追踪
		log.Printf("[Datalayer] marshal basket for order %s: %v", basket.OrderID, err)
		ginprom.DatalayerCounterVec.WithLabelValues("skipped").Inc()
		return ""
	}

	var b strings.Builder
	b.WriteString("<!-- START Rakuten Advertising Conversion Datalayer -->\n")
	b.WriteString("<script type=\"text/javascript\">\n/* <![CDATA[ */\n")
	b.WriteString("var rm_trans = ")
	b.WriteString(payload)
	b.WriteString(";\n")
	b.WriteString("window.DataLayer = window.DataLayer || {};\n")
	b.WriteString("DataLayer.Sale = { Basket: rm_trans, Ready: true };\n")
	b.WriteString("/* ]]> */\n</script>\n")
	b.WriteString("<script async src=\"https://tag.rmp.rakuten.com/")
	b.WriteString(st.Get(module.SettingScriptID))
	b.WriteString(".ct.js\"></script>\n")

	if saleURL, ok := BuildSaleBeacon(basket, ov, st); ok {
		ginprom.BeaconBuildCounterVec.WithLabelValues("sale", "built").Inc()
		b.WriteString("<img src=\"")
		b.WriteString(htmlAttrEscape(saleURL))
		b.WriteString("\" width=\"1\" height=\"1\" alt=\"\" style=\"display:none\">\n")
	} else {
		ginprom.BeaconBuildCounterVec.WithLabelValues("sale", "skipped").Inc()
	}

	if display, ok := BuildDisplayBeacon(basket, ov, st); ok {
		ginprom.BeaconBuildCounterVec.WithLabelValues("display", "built").Inc()
		if display.Element == "img" {
			b.WriteString("<img src=\"")
			b.WriteString(htmlAttrEscape(display.URL))
			b.WriteString("\" width=\"1\" height=\"1\" alt=\"\" style=\"display:none\">\n")
		} else {
			b.WriteString("<iframe src=\"")
			b.WriteString(htmlAttrEscape(display.URL))
			b.WriteString("\" width=\"1\" height=\"1\" frameborder=\"0\" style=\"display:none\"></iframe>\n")
		}
	} else {
		ginprom.BeaconBuildCounterVec.WithLabelValues("display", "skipped").Inc()
	}

	if search, ok := BuildSearchBeacon(basket, ov, st); ok {
		ginprom.BeaconBuildCounterVec.WithLabelValues("search", "built").Inc()
		b.WriteString("<script type=\"text/javascript\">")
		b.WriteString(search.Snippet())
		b.WriteString("</script>\n")
	} else {
		ginprom.BeaconBuildCounterVec.WithLabelValues("search", "skipped").Inc()
	}

	b.WriteString("<!-- END Rakuten Advertising Conversion Datalayer -->\n")
	ginprom.DatalayerCounterVec.WithLabelValues("rendered").Inc()
	return b.String()
}

// RenderOrderMissingNotice 订单加载失败时落页的 console 告警，渲染照常继续
func RenderOrderMissingNotice() string {
	ginprom.DatalayerCounterVec.WithLabelValues("order_missing").Inc()
	return "<script type=\"text/javascript\">\n" +
		"console.warn('Rakuten Advertising Conversion Tag Error: Order does not exist. Order not tracked.');\n" +
		"</script>\n"
}

func htmlAttrEscape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	return s
}
