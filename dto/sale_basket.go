package dto

// 字段名即落页 rm_trans 对象的键名，属于与 Rakuten 端的兼容契约，不可改名。

// AffiliateConfig 联盟侧商户身份与行为开关，构建后不再变更
type AffiliateConfig struct {
	RanMID                string  `json:"ranMID"`       // 商户ID，为空时整体不出追踪
	DiscountType          string  `json:"discountType"` // item-按行分摊 order-整单负行
	TaxRate               float64 `json:"taxRate"`      // 税率，百分数
	RemoveTaxFromDiscount bool    `json:"removeTaxFromDiscount"`
	IncludeStatus         bool    `json:"includeStatus"` // 是否对老客打 R_ 前缀
	AllowCommission       bool    `json:"allowCommission"`
}

// LineItem 归一化后的订单行
type LineItem struct {
	Quantity         int     `json:"quantity"`
	UnitPrice        float64 `json:"unitPrice"`        // 含税单价
	UnitPriceLessTax float64 `json:"unitPriceLessTax"` // 不含税单价，恒 <= UnitPrice
	SKU              string  `json:"SKU"`
	ProductName      string  `json:"productName"`
}

// SaleBasket 每单一份的标准化追踪记录，构建与分发两个阶段之间的契约
type SaleBasket struct {
	AffiliateConfig AffiliateConfig `json:"affiliateConfig"`
	OrderID         string          `json:"orderid"`
	Currency        string          `json:"currency"`       // ISO 4217，大写
	CustomerStatus  string          `json:"customerStatus"` // NEW | EXISTING
	ConversionType  string          `json:"conversionType"` // 恒为 Sale
	CustomerID      string          `json:"customerID"`     // 游客为空串
	DiscountCode    string          `json:"discountCode"`   // "/" 连接的优惠码列表
	DiscountAmount  float64         `json:"discountAmount"` // 整单优惠额绝对值
	TaxAmount       float64         `json:"taxAmount"`
	LineItems       []LineItem      `json:"lineitems"`
}

const (
	CustomerStatusNew      = "NEW"
	CustomerStatusExisting = "EXISTING"

	ConversionTypeSale = "Sale"

	DiscountTypeItem  = "item"
	DiscountTypeOrder = "order"
)
