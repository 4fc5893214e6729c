package service

import (
	"testing"
	"wc_rakuten_tracking/dto"
	"wc_rakuten_tracking/module"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAffiliateConfig() dto.AffiliateConfig {
	return dto.AffiliateConfig{
		RanMID:          "12345",
		DiscountType:    dto.DiscountTypeItem,
		TaxRate:         20,
		AllowCommission: true,
	}
}

func TestBasketFromOrder_UnitPriceMath(t *testing.T) {
	order := &module.ShopOrder{ID: 1001, Currency: "USD", Status: module.OrderStatusCompleted}
	lines := []OrderLine{
		{SKU: "ABC", Name: "Widget", Quantity: 2, Subtotal: 20.00, SubtotalTax: 2.00},
		{SKU: "DEF", Name: "Gadget", Quantity: 4, Subtotal: 10.00, SubtotalTax: 0},
	}

	basket := BasketFromOrder(testAffiliateConfig(), order, lines, nil, 0)

	require.Len(t, basket.LineItems, 2)
	assert.Equal(t, 11.00, basket.LineItems[0].UnitPrice)
	assert.Equal(t, 10.00, basket.LineItems[0].UnitPriceLessTax)
	assert.Equal(t, 2.50, basket.LineItems[1].UnitPrice)
	assert.Equal(t, 2.50, basket.LineItems[1].UnitPriceLessTax)

	for _, li := range basket.LineItems {
		assert.LessOrEqual(t, li.UnitPriceLessTax, li.UnitPrice)
	}
}

func TestBasketFromOrder_ZeroQuantityExcluded(t *testing.T) {
	order := &module.ShopOrder{ID: 1001, Currency: "USD"}
	lines := []OrderLine{
		{SKU: "BAD", Name: "Broken", Quantity: 0, Subtotal: 10.00},
		{SKU: "OK", Name: "Fine", Quantity: 1, Subtotal: 5.00},
	}

	basket := BasketFromOrder(testAffiliateConfig(), order, lines, nil, 0)

	require.Len(t, basket.LineItems, 1)
	assert.Equal(t, "OK", basket.LineItems[0].SKU)
}

func TestBasketFromOrder_CustomerStatus(t *testing.T) {
	cfg := testAffiliateConfig()

	// 无客户标识一律新客
	guest := &module.ShopOrder{ID: 1, Currency: "USD", CustomerID: 0}
	assert.Equal(t, dto.CustomerStatusNew, BasketFromOrder(cfg, guest, nil, nil, 5).CustomerStatus)
	assert.Equal(t, "", BasketFromOrder(cfg, guest, nil, nil, 5).CustomerID)

	// 有客户但无历史成交
	fresh := &module.ShopOrder{ID: 2, Currency: "USD", CustomerID: 42}
	assert.Equal(t, dto.CustomerStatusNew, BasketFromOrder(cfg, fresh, nil, nil, 0).CustomerStatus)

	// 有历史成交
	repeat := &module.ShopOrder{ID: 3, Currency: "USD", CustomerID: 42}
	basket := BasketFromOrder(cfg, repeat, nil, nil, 3)
	assert.Equal(t, dto.CustomerStatusExisting, basket.CustomerStatus)
	assert.Equal(t, "42", basket.CustomerID)
}

func TestBasketFromOrder_Normalization(t *testing.T) {
	order := &module.ShopOrder{
		ID:            77,
		Currency:      "usd",
		DiscountTotal: -5.00,
		TotalTax:      2.00,
	}

	basket := BasketFromOrder(testAffiliateConfig(), order, nil, []string{"SAVE10", "VIP"}, 0)

	// 订单号回退用主键
	assert.Equal(t, "77", basket.OrderID)
	assert.Equal(t, "USD", basket.Currency)
	assert.Equal(t, dto.ConversionTypeSale, basket.ConversionType)
	assert.Equal(t, "SAVE10/VIP", basket.DiscountCode)
	// 优惠额取绝对值
	assert.Equal(t, 5.00, basket.DiscountAmount)
	assert.Equal(t, 2.00, basket.TaxAmount)
}

func TestBasketFromOrder_OrderNumberPreferred(t *testing.T) {
	order := &module.ShopOrder{ID: 77, OrderNumber: "WC-2026-077", Currency: "USD"}

	basket := BasketFromOrder(testAffiliateConfig(), order, nil, nil, 0)
	assert.Equal(t, "WC-2026-077", basket.OrderID)
}

func TestBasketFromOrder_SanitizesTokens(t *testing.T) {
	order := &module.ShopOrder{ID: 1, Currency: "USD"}
	lines := []OrderLine{
		{SKU: "AB\nC", Name: "Wid\tget", Quantity: 1, Subtotal: 5.00},
	}

	basket := BasketFromOrder(testAffiliateConfig(), order, lines, nil, 0)

	require.Len(t, basket.LineItems, 1)
	assert.Equal(t, "ABC", basket.LineItems[0].SKU)
	assert.Equal(t, "Widget", basket.LineItems[0].ProductName)
}
