package module

import (
	mysqldb "wc_rakuten_tracking/common/mysql"
)

// TrackingSetting 追踪配置表，option_name/option_value 键值对，由商城后台写入
type TrackingSetting struct {
	ID          int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OptionName  string `gorm:"column:option_name;size:64;not null;uniqueIndex" json:"option_name"`
	OptionValue string `gorm:"column:option_value;size:255;not null;default:''" json:"option_value"`
}

// TableName 指定表名
func (TrackingSetting) TableName() string {
	return "tracking_setting"
}

// 配置项名称，与商城后台设置页一一对应
const (
	SettingRanMID                = "ranMID"
	SettingScriptID              = "scriptID"
	SettingDiscountType          = "discountType"
	SettingTaxRate               = "taxRate"
	SettingRemoveTaxFromDiscount = "removeTaxFromDiscount"
	SettingRemoveTaxFromProducts = "removeTaxFromProducts"
	SettingRemoveOrderTax        = "removeOrderTax"
	SettingIncludeStatus         = "includeStatus"
	SettingAllowCommission       = "allowCommission"
	SettingTagType               = "tagType"
	SettingDisplayMID            = "displayMID"
	SettingSearchMID             = "searchMID"
	SettingDisplayDomain         = "displayDomain"
)

var (
	TrackingSettingMapper = new(TrackingSetting)
)

// LoadAll 取全部配置项
func (t *TrackingSetting) LoadAll() (map[string]string, error) {
	db := mysqldb.GetConnected()
	var rows []TrackingSetting
	err := db.Model(&TrackingSetting{}).Find(&rows).Error
	if err != nil {
		return nil, err
	}

	values := make(map[string]string, len(rows))
	for _, row := range rows {
		if row.OptionName != "" {
			values[row.OptionName] = row.OptionValue
		}
	}
	return values, nil
}
