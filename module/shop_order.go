package module

import (
	"time"
	mysqldb "wc_rakuten_tracking/common/mysql"
)

// ShopOrder 商城订单表
type ShopOrder struct {
	ID            int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OrderNumber   string    `gorm:"column:order_number;size:32;not null;default:''" json:"order_number"` // 对外订单号，为空时回退用ID
	Status        string    `gorm:"column:status;size:32;not null;default:'pending'" json:"status"`
	Currency      string    `gorm:"column:currency;size:8;not null;default:'USD'" json:"currency"`
	CustomerID    int64     `gorm:"column:customer_id;not null;default:0" json:"customer_id"` // 0 表示游客下单
	DiscountTotal float64   `gorm:"column:discount_total;type:decimal(12,2);not null;default:0" json:"discount_total"`
	DiscountTax   float64   `gorm:"column:discount_tax;type:decimal(12,2);not null;default:0" json:"discount_tax"`
	TotalTax      float64   `gorm:"column:total_tax;type:decimal(12,2);not null;default:0" json:"total_tax"`
	Total         float64   `gorm:"column:total;type:decimal(12,2);not null;default:0" json:"total"`
	UsedCoupons   string    `gorm:"column:used_coupons;size:255;not null;default:''" json:"used_coupons"` // 旧版逗号分隔优惠码，新版用 shop_order_coupon 表
	CreateTime    time.Time `gorm:"column:create_time;type:timestamp;default:CURRENT_TIMESTAMP" json:"create_time"`
}

// TableName 指定表名
func (ShopOrder) TableName() string {
	return "shop_order"
}

// 订单状态常量
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusFailed     = "failed" // 终态失败，静默跳过不出追踪
)

var (
	ShopOrderMapper = new(ShopOrder)
)

// GetByID 按主键取订单
func (s *ShopOrder) GetByID(orderID int64) (*ShopOrder, error) {
	db := mysqldb.GetConnected()
	var order ShopOrder
	err := db.Model(&ShopOrder{}).
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// CountPriorOrders 统计该客户在本单之外已成交的订单数，用于判定新老客
func (s *ShopOrder) CountPriorOrders(customerID, excludeOrderID int64) (int64, error) {
	db := mysqldb.GetConnected()
	var count int64
	err := db.Model(&ShopOrder{}).
		Where("customer_id = ? AND id != ? AND status IN ?", customerID, excludeOrderID,
			[]string{OrderStatusProcessing, OrderStatusCompleted}).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
