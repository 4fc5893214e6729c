package service

import (
	"errors"
	"log"
	"math"
	"strconv"
	"strings"
	"wc_rakuten_tracking/dto"
	"wc_rakuten_tracking/module"

	"gorm.io/gorm"
)

// ErrOrderNotFound 订单不存在，调用方输出 console.warn 提示但不影响落页
var ErrOrderNotFound = errors.New("order not found")

// OrderLine 订单行与商品解析后的中间形态，SKU 已做商品ID兜底
type OrderLine struct {
	SKU         string
	Name        string
	Quantity    int
	Subtotal    float64 // 行小计，不含税
	SubtotalTax float64
}

// BuildSaleBasket 按订单ID加载数据并构建 SaleBasket。
// 返回 (nil, nil) 表示终态失败订单的静默跳过。
func BuildSaleBasket(orderID int64) (*dto.SaleBasket, error) {
	order, err := module.ShopOrderMapper.GetByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	// 终态失败订单不出追踪，也不告警
	if order.Status == module.OrderStatusFailed {
		return nil, nil
	}

	items, err := module.ShopOrderItemMapper.ListByOrder(orderID)
	if err != nil {
		return nil, err
	}

	lines := make([]OrderLine, 0, len(items))
	for _, item := range items {
		product, err := module.ShopProductMapper.GetByID(item.ProductID)
		if err != nil {
			// 商品已删除等情况，该行剔除，不影响整单
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("[Datalayer] load product %d for order %d: %v", item.ProductID, orderID, err)
			}
			continue
		}
		sku := product.Sku
		if sku == "" {
			sku = strconv.FormatInt(product.ID, 10)
		}
		lines = append(lines, OrderLine{
			SKU:         sku,
			Name:        product.Name,
			Quantity:    item.Quantity,
			Subtotal:    item.Subtotal,
			SubtotalTax: item.SubtotalTax,
		})
	}

	// 优惠码：优先新版表，退回旧版逗号分隔列
	coupons, err := module.ShopOrderCouponMapper.GetCouponCodes(orderID)
	if err != nil {
		log.Printf("[Datalayer] load coupons for order %d: %v", orderID, err)
		coupons = nil
	}
	if len(coupons) == 0 && order.UsedCoupons != "" {
		for _, code := range strings.Split(order.UsedCoupons, ",") {
			if code = strings.TrimSpace(code); code != "" {
				coupons = append(coupons, code)
			}
		}
	}

	var prior int64
	if order.CustomerID > 0 {
		prior, err = module.ShopOrderMapper.CountPriorOrders(order.CustomerID, order.ID)
		if err != nil {
			log.Printf("[Datalayer] count prior orders for customer %d: %v", order.CustomerID, err)
			prior = 0
		}
	}

	cfg := CurrentSettings().AffiliateConfig()
	return BasketFromOrder(cfg, order, lines, coupons, prior), nil
}

// BasketFromOrder 纯转换：订单数据 -> 规范化 SaleBasket
func BasketFromOrder(cfg dto.AffiliateConfig, order *module.ShopOrder, lines []OrderLine, coupons []string, priorOrders int64) *dto.SaleBasket {
	orderNumber := order.OrderNumber
	if orderNumber == "" {
		orderNumber = strconv.FormatInt(order.ID, 10)
	}

	// 无客户标识一律按新客处理
	status := dto.CustomerStatusNew
	customerID := ""
	if order.CustomerID > 0 {
		customerID = strconv.FormatInt(order.CustomerID, 10)
		if priorOrders > 0 {
			status = dto.CustomerStatusExisting
		}
	}

	basket := &dto.SaleBasket{
		AffiliateConfig: cfg,
		OrderID:         orderNumber,
		Currency:        strings.ToUpper(order.Currency),
		CustomerStatus:  status,
		ConversionType:  dto.ConversionTypeSale,
		CustomerID:      customerID,
		DiscountCode:    strings.Join(coupons, "/"),
		DiscountAmount:  math.Abs(order.DiscountTotal),
		TaxAmount:       math.Abs(order.TotalTax),
	}

	for _, line := range lines {
		// 数量非正按坏数据处理，剔除该行避免除零
		if line.Quantity <= 0 {
			continue
		}
		qty := float64(line.Quantity)
		basket.LineItems = append(basket.LineItems, dto.LineItem{
			Quantity:         line.Quantity,
			UnitPrice:        (line.Subtotal + line.SubtotalTax) / qty,
			UnitPriceLessTax: line.Subtotal / qty,
			SKU:              sanitizeToken(line.SKU),
			ProductName:      sanitizeToken(line.Name),
		})
	}

	return basket
}

// sanitizeToken 去掉会破坏脚本字面量的控制字符，引号反斜杠由 JSON 编码兜底
func sanitizeToken(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 {
			return -1
		}
		return r
	}, s)
}
