package service

import (
	"errors"
	"wc_rakuten_tracking/core"
)

// FireBeacon 服务端试发一次 beacon GET，仅供运营诊断接口使用，
// 真实分发始终由买家浏览器加载落页元素完成。发后即忘，应答体丢弃。
func FireBeacon(urlStr string) error {
	if urlStr == "" {
		return errors.New("beacon url is empty")
	}
	return core.Fast_Http("", urlStr, "", "GET", nil)
}
