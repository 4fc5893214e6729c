package service

import (
	"net/url"
	"strings"
)

// 访客 cookie，值为 key:value 竖线分隔串，可能被多重 URL 编码
const (
	CookieStoreGateway = "rmStoreGateway"
	CookieStoreLegacy  = "rmStore"
)

// cookie 内的覆盖键
const (
	OvMerchantID       = "amid"
	OvTagType          = "atm"
	OvDiscountType     = "adt"
	OvAllowCommission  = "aic"
	OvRemoveProductTax = "artp"
	OvRemoveOrderTax   = "arot"
	OvDisplayMID       = "admid"
	OvSearchMID        = "asmid"
	OvDisplayDomain    = "adr"
	OvLand             = "ald"
	OvTR               = "atrv"
)

// Overrides 从访客 cookie 解析出的逐次访问覆盖参数，只读
type Overrides struct {
	// IgnoreCookie 置位后整条 cookie 链被跳过，直接走配置/默认值
	IgnoreCookie bool

	values map[string]string
}

// ParseOverrides 解析若干 cookie 原始值，先到先得：传入顺序即优先级
func ParseOverrides(rawCookies ...string) *Overrides {
	ov := &Overrides{values: map[string]string{}}
	for _, raw := range rawCookies {
		decoded := decodeCookieValue(raw)
		if decoded == "" {
			continue
		}
		for _, pair := range strings.Split(decoded, "|") {
			key, value, found := strings.Cut(pair, ":")
			if !found {
				continue
			}
			key = strings.TrimSpace(key)
			value = strings.TrimSpace(value)
			if key == "" || value == "" {
				continue
			}
			if _, exists := ov.values[key]; !exists {
				ov.values[key] = value
			}
		}
	}
	return ov
}

// decodeCookieValue 反复 URL 解码直到不动点，解码失败按坏数据处理返回空串
func decodeCookieValue(raw string) string {
	s := raw
	for i := 0; i < 10; i++ {
		decoded, err := url.QueryUnescape(s)
		if err != nil {
			return ""
		}
		if decoded == s {
			return s
		}
		s = decoded
	}
	return s
}

// Get 取某个覆盖键的值，没有则空串
func (o *Overrides) Get(key string) string {
	if o == nil {
		return ""
	}
	return o.values[key]
}

// ResolveParam 参数解析优先级：IgnoreCookie 强制跳过 cookie，
// 否则 cookie 值 > 配置值 > 默认值
func ResolveParam(ov *Overrides, cookieKey, cfgValue, def string) string {
	var v string
	if ov != nil && !ov.IgnoreCookie {
		v = ov.Get(cookieKey)
	}
	if v == "" {
		v = cfgValue
	}
	if v == "" {
		v = def
	}
	return v
}

// ResolveParamBool 同 ResolveParam，解析结果为字面 "false"（不分大小写）时视为 false
func ResolveParamBool(ov *Overrides, cookieKey, cfgValue, def string) bool {
	v := ResolveParam(ov, cookieKey, cfgValue, def)
	if v == "" {
		return false
	}
	return !strings.EqualFold(v, "false")
}
