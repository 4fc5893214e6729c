package service

import (
	"strconv"
	"strings"
	"sync"
	"wc_rakuten_tracking/dto"
	"wc_rakuten_tracking/module"
)

// TrackingSettings 商城后台写入的追踪配置快照，由 cron 周期性推送刷新
type TrackingSettings struct {
	values map[string]string
}

var (
	settingsLock    = &sync.RWMutex{}
	currentSettings = NewTrackingSettings(nil)
)

func NewTrackingSettings(values map[string]string) *TrackingSettings {
	if values == nil {
		values = map[string]string{}
	}
	return &TrackingSettings{values: values}
}

// PushSettings 替换当前配置快照
func PushSettings(values map[string]string) {
	settingsLock.Lock()
	currentSettings = NewTrackingSettings(values)
	settingsLock.Unlock()
}

// CurrentSettings 取当前配置快照
func CurrentSettings() *TrackingSettings {
	settingsLock.RLock()
	defer settingsLock.RUnlock()
	return currentSettings
}

func (s *TrackingSettings) Get(name string) string {
	if s == nil {
		return ""
	}
	return s.values[name]
}

func (s *TrackingSettings) GetDefault(name, def string) string {
	v := s.Get(name)
	if v == "" {
		return def
	}
	return v
}

// Enabled 商户ID与脚本ID都配置了才出追踪，与原插件行为一致
func (s *TrackingSettings) Enabled() bool {
	return s.Get(module.SettingRanMID) != "" && s.Get(module.SettingScriptID) != ""
}

// AffiliateConfig 把配置快照转成随 basket 下发的 affiliateConfig
func (s *TrackingSettings) AffiliateConfig() dto.AffiliateConfig {
	taxRate, err := strconv.ParseFloat(s.GetDefault(module.SettingTaxRate, "20"), 64)
	if err != nil || taxRate < 0 {
		taxRate = 0
	}

	return dto.AffiliateConfig{
		RanMID:                s.Get(module.SettingRanMID),
		DiscountType:          strings.ToLower(s.GetDefault(module.SettingDiscountType, dto.DiscountTypeItem)),
		TaxRate:               taxRate,
		RemoveTaxFromDiscount: settingFlag(s.Get(module.SettingRemoveTaxFromDiscount), false),
		IncludeStatus:         settingFlag(s.Get(module.SettingIncludeStatus), false),
		AllowCommission:       settingFlag(s.Get(module.SettingAllowCommission), true),
	}
}

// settingFlag 解析 true/false 文本开关，空串取默认值
func settingFlag(v string, def bool) bool {
	if v == "" {
		return def
	}
	return !strings.EqualFold(v, "false")
}
