package module

import (
	mysqldb "wc_rakuten_tracking/common/mysql"
)

// ShopOrderCoupon 订单优惠码表（新版存储，旧版在 shop_order.used_coupons）
type ShopOrderCoupon struct {
	ID      int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OrderID int64  `gorm:"column:order_id;not null;index" json:"order_id"`
	Code    string `gorm:"column:code;size:64;not null;default:''" json:"code"`
}

// TableName 指定表名
func (ShopOrderCoupon) TableName() string {
	return "shop_order_coupon"
}

var (
	ShopOrderCouponMapper = new(ShopOrderCoupon)
)

// GetCouponCodes 取订单上应用的全部优惠码
func (s *ShopOrderCoupon) GetCouponCodes(orderID int64) ([]string, error) {
	db := mysqldb.GetConnected()
	var rows []ShopOrderCoupon
	err := db.Model(&ShopOrderCoupon{}).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	codes := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.Code != "" {
			codes = append(codes, row.Code)
		}
	}
	return codes, nil
}
