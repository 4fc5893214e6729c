package module

import (
	mysqldb "wc_rakuten_tracking/common/mysql"
)

// ShopProduct 商品表
type ShopProduct struct {
	ID    int64   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Sku   string  `gorm:"column:sku;size:64;not null;default:''" json:"sku"` // 可能为空，为空时用商品ID兜底
	Name  string  `gorm:"column:name;size:255;not null;default:''" json:"name"`
	Price float64 `gorm:"column:price;type:decimal(12,2);not null;default:0" json:"price"`
}

// TableName 指定表名
func (ShopProduct) TableName() string {
	return "shop_product"
}

var (
	ShopProductMapper = new(ShopProduct)
)

// GetByID 按主键取商品，订单行指向的商品可能已被删除
func (s *ShopProduct) GetByID(productID int64) (*ShopProduct, error) {
	db := mysqldb.GetConnected()
	var product ShopProduct
	err := db.Model(&ShopProduct{}).
		Where("id = ?", productID).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}
