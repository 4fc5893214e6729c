package cron

import (
	"log"
	"sync"
	"wc_rakuten_tracking/core"
	"wc_rakuten_tracking/module"
	"wc_rakuten_tracking/service"

	"github.com/robfig/cron/v3"
)

var (
	cronInstance          *cron.Cron
	once                  sync.Once
	TrackingSettingMapper = module.TrackingSettingMapper
)

// InitCronJobs 初始化并启动所有定时任务
func InitCronJobs() {
	log.Printf("[Cron] Initializing cron jobs...")
	once.Do(func() {
		cronInstance = cron.New(cron.WithSeconds())
		setupTrackingJobs()
		cronInstance.Start()
		log.Printf("[Cron] Cron jobs initialized and started")
	})
}

// setupTrackingJobs 配置追踪相关的定时任务
func setupTrackingJobs() {
	// 启动时先同步拉一次配置，避免首个请求拿不到商户ID
	if err := RefreshTrackingSettings(); err != nil {
		log.Printf("[Cron] Initial settings load failed: %v", err)
	}

	_, err := cronInstance.AddFunc(core.GetConfig().SETTINGS_REFRESH_SPEC, func() {
		if err := RefreshTrackingSettings(); err != nil {
			log.Printf("[Cron] Failed settings refresh: %v", err)
		}
	})
	if err != nil {
		log.Printf("[Cron] Failed to setup settings refresh job: %v", err)
	}

	// 每5分钟探测一次厂商标签脚本可达性，只告警不重试
	_, err = cronInstance.AddFunc("0 */5 * * * *", checkVendorTag)
	if err != nil {
		log.Printf("[Cron] Failed to setup vendor tag check job: %v", err)
	}
}

// RefreshTrackingSettings 从商城库拉取配置并推送到服务层快照
func RefreshTrackingSettings() error {
	values, err := TrackingSettingMapper.LoadAll()
	if err != nil {
		log.Println("Error fetching tracking settings:", err)
		return err
	}

	service.PushSettings(values)
	return nil
}

// checkVendorTag 探测 //tag.rmp.rakuten.com/{scriptID}.ct.js 是否可达
func checkVendorTag() {
	scriptID := service.CurrentSettings().Get(module.SettingScriptID)
	if scriptID == "" {
		return
	}

	tagURL := core.GetConfig().VENDOR_TAG_BASE + "/" + scriptID + ".ct.js"
	if err := core.HttpGet(tagURL, nil); err != nil {
		log.Printf("[Cron] WARNING vendor tag script unreachable: %s: %v", tagURL, err)
	}
}
