package core

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config 结构体定义了需要读取的配置项
type Config struct {
	MYSQL_DB              string
	SERVER_PORT           string
	PPROF                 string
	SETTINGS_REFRESH_SPEC string
	VENDOR_TAG_BASE       string
}

var config *Config

// LoadConfig 从配置文件中读取配置项
func LoadConfig(cfg string) *Config {

	absPath, _ := filepath.Abs(cfg)
	// 配置viper
	viper.SetConfigFile(absPath)
	viper.SetConfigType("yaml") // 明确指定配置类型
	viper.ReadInConfig()

	config = &Config{
		MYSQL_DB:              getViperStringValue("MYSQL_DB"),
		SERVER_PORT:           getViperStringValue("SERVER_PORT"),
		PPROF:                 getViperStringDefault("PPROF", "false"),
		SETTINGS_REFRESH_SPEC: getViperStringDefault("SETTINGS_REFRESH_SPEC", "*/30 * * * * *"),
		VENDOR_TAG_BASE:       getViperStringDefault("VENDOR_TAG_BASE", "https://tag.rmp.rakuten.com"),
	}
	return config
}

// GetConfig 返回已经读取的配置项
func GetConfig() *Config {
	if config == nil {
		panic("Config not initialized. Call LoadConfig first.")
	}
	return config
}

// getViperStringValue 从 viper 中读取配置项的值
func getViperStringValue(key string) string {
	value := viper.GetString(key)
	if value == "" {
		configFile := viper.ConfigFileUsed()
		log.Printf("Failed to get value for key %s. Current config file: %s", key, configFile)
		log.Printf("Available keys: %v", viper.AllKeys())
		panic(fmt.Errorf("%s 必须在环境变量或 config.yaml 文件中提供", key))
	}
	return value
}

// getViperStringDefault 读取可选配置项，缺省时返回默认值
func getViperStringDefault(key, def string) string {
	value := viper.GetString(key)
	if value == "" {
		return def
	}
	return value
}
