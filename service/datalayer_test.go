package service

import (
	"strings"
	"testing"
	"wc_rakuten_tracking/dto"
	"wc_rakuten_tracking/module"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullSettings() *TrackingSettings {
	return NewTrackingSettings(map[string]string{
		module.SettingRanMID:     "12345",
		module.SettingScriptID:   "99887",
		module.SettingDisplayMID: "555",
		module.SettingSearchMID:  "888",
	})
}

func TestRenderThankyouFragment_DisabledWithoutScriptID(t *testing.T) {
	basket := saleBasket(testAffiliateConfig(), dto.LineItem{Quantity: 1, UnitPrice: 11.00, SKU: "ABC", ProductName: "Widget"})

	// 仅配商户ID不够，脚本ID缺失时整体关闭
	st := NewTrackingSettings(map[string]string{module.SettingRanMID: "12345"})
	assert.Equal(t, "", RenderThankyouFragment(basket, nil, st))
	assert.Equal(t, "", RenderThankyouFragment(nil, nil, fullSettings()))
}

func TestRenderThankyouFragment_DatalayerPayload(t *testing.T) {
	basket := saleBasket(testAffiliateConfig(), dto.LineItem{
		Quantity: 2, UnitPrice: 11.00, UnitPriceLessTax: 10.00, SKU: "ABC", ProductName: "Widget",
	})

	html := RenderThankyouFragment(basket, nil, fullSettings())
	require.NotEmpty(t, html)

	// 线上契约字段名原样出现在 datalayer JSON 里
	assert.Contains(t, html, "var rm_trans = ")
	assert.Contains(t, html, `"ranMID":"12345"`)
	assert.Contains(t, html, `"orderid":"1001"`)
	assert.Contains(t, html, `"lineitems"`)
	assert.Contains(t, html, `"SKU":"ABC"`)
	assert.Contains(t, html, "DataLayer.Sale = { Basket: rm_trans, Ready: true };")
	assert.Contains(t, html, "https://tag.rmp.rakuten.com/99887.ct.js")
	assert.True(t, strings.HasPrefix(html, "<!-- START Rakuten Advertising Conversion Datalayer -->"))
	assert.Contains(t, html, "<!-- END Rakuten Advertising Conversion Datalayer -->")
}

func TestRenderThankyouFragment_AllChannels(t *testing.T) {
	basket := saleBasket(testAffiliateConfig(), dto.LineItem{
		Quantity: 2, UnitPrice: 11.00, UnitPriceLessTax: 10.00, SKU: "ABC", ProductName: "Widget",
	})

	html := RenderThankyouFragment(basket, nil, fullSettings())

	// Sale 像素的 URL 落进 img src，& 做 HTML 属性转义
	assert.Contains(t, html, `<img src="https://track.linksynergy.com/ep?mid=12345&amp;ord=1001`)
	// Display 默认落 iframe
	assert.Contains(t, html, `<iframe src="https://dc.rmptag.com/script?prodID=555`)
	// Search 落异步加载桩
	assert.Contains(t, html, "window.rmsearch.sendEvent(")
}

func TestRenderThankyouFragment_ChannelsFailIndependently(t *testing.T) {
	basket := saleBasket(testAffiliateConfig(), dto.LineItem{Quantity: 1, UnitPrice: 11.00, SKU: "ABC", ProductName: "Widget"})

	// 只配 Sale 渠道：display/search 静默缺席，datalayer 与 sale 照常
	st := NewTrackingSettings(map[string]string{
		module.SettingRanMID:   "12345",
		module.SettingScriptID: "99887",
	})
	html := RenderThankyouFragment(basket, nil, st)

	assert.Contains(t, html, "track.linksynergy.com")
	assert.NotContains(t, html, "dc.rmptag.com")
	assert.NotContains(t, html, "rmsearch")
}

func TestRenderThankyouFragment_ScriptBreakoutEscaped(t *testing.T) {
	basket := saleBasket(testAffiliateConfig(), dto.LineItem{
		Quantity: 1, UnitPrice: 11.00, SKU: "ABC", ProductName: "Widget</script><script>alert(1)",
	})

	html := RenderThankyouFragment(basket, nil, fullSettings())

	// 商品名里的标签不得原样落进脚本字面量
	assert.NotContains(t, html, "Widget</script>")
	assert.Contains(t, html, `</script>`)
}

func TestRenderOrderMissingNotice(t *testing.T) {
	html := RenderOrderMissingNotice()

	assert.Contains(t, html, "console.warn(")
	assert.Contains(t, html, "Order does not exist")
}
