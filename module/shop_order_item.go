package module

import (
	mysqldb "wc_rakuten_tracking/common/mysql"
)

// ShopOrderItem 订单行表
type ShopOrderItem struct {
	ID          int64   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OrderID     int64   `gorm:"column:order_id;not null;index" json:"order_id"`
	ProductID   int64   `gorm:"column:product_id;not null;default:0" json:"product_id"`
	Quantity    int     `gorm:"column:quantity;not null;default:0" json:"quantity"`
	Subtotal    float64 `gorm:"column:subtotal;type:decimal(12,2);not null;default:0" json:"subtotal"` // 行小计，不含税
	SubtotalTax float64 `gorm:"column:subtotal_tax;type:decimal(12,2);not null;default:0" json:"subtotal_tax"`
	Total       float64 `gorm:"column:total;type:decimal(12,2);not null;default:0" json:"total"` // 折后行合计
	TotalTax    float64 `gorm:"column:total_tax;type:decimal(12,2);not null;default:0" json:"total_tax"`
}

// TableName 指定表名
func (ShopOrderItem) TableName() string {
	return "shop_order_item"
}

var (
	ShopOrderItemMapper = new(ShopOrderItem)
)

// ListByOrder 取某订单的全部订单行，按主键排序保持下单顺序
func (s *ShopOrderItem) ListByOrder(orderID int64) ([]ShopOrderItem, error) {
	db := mysqldb.GetConnected()
	var items []ShopOrderItem
	err := db.Model(&ShopOrderItem{}).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
