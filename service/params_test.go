package service

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOverrides_PlainCookie(t *testing.T) {
	ov := ParseOverrides("amid:12345|atm:pixel")

	assert.Equal(t, "12345", ov.Get(OvMerchantID))
	assert.Equal(t, "pixel", ov.Get(OvTagType))
	assert.Equal(t, "", ov.Get(OvDisplayMID))
}

func TestParseOverrides_MultiplyEncoded(t *testing.T) {
	raw := "amid:999|adt:order"
	once := url.QueryEscape(raw)
	twice := url.QueryEscape(once)

	ov := ParseOverrides(twice)

	assert.Equal(t, "999", ov.Get(OvMerchantID))
	assert.Equal(t, "order", ov.Get(OvDiscountType))
}

func TestParseOverrides_MalformedResolvesEmpty(t *testing.T) {
	// 非法的 % 序列按坏数据处理，整条 cookie 落空
	ov := ParseOverrides("amid%GG:123")

	assert.Equal(t, "", ov.Get(OvMerchantID))
}

func TestParseOverrides_FirstCookieWins(t *testing.T) {
	// rmStoreGateway 先传入，同名键不被旧版 rmStore 覆盖
	ov := ParseOverrides("amid:new", "amid:legacy|asmid:777")

	assert.Equal(t, "new", ov.Get(OvMerchantID))
	assert.Equal(t, "777", ov.Get(OvSearchMID))
}

func TestParseOverrides_SkipsBrokenPairs(t *testing.T) {
	ov := ParseOverrides("noseparator|amid:123|:orphan|empty:")

	assert.Equal(t, "123", ov.Get(OvMerchantID))
	assert.Equal(t, "", ov.Get("noseparator"))
	assert.Equal(t, "", ov.Get("empty"))
}

func TestResolveParam_CookieBeatsConfig(t *testing.T) {
	ov := ParseOverrides("amid:777")

	got := ResolveParam(ov, OvMerchantID, "12345", "fallback")
	assert.Equal(t, "777", got)
}

func TestResolveParam_ConfigBeatsDefault(t *testing.T) {
	ov := ParseOverrides("")

	got := ResolveParam(ov, OvMerchantID, "12345", "fallback")
	assert.Equal(t, "12345", got)

	got = ResolveParam(ov, OvMerchantID, "", "fallback")
	assert.Equal(t, "fallback", got)
}

func TestResolveParam_IgnoreCookie(t *testing.T) {
	ov := ParseOverrides("amid:777")
	ov.IgnoreCookie = true

	// cookie 有值也不得生效
	got := ResolveParam(ov, OvMerchantID, "12345", "fallback")
	assert.Equal(t, "12345", got)
}

func TestResolveParam_NilOverrides(t *testing.T) {
	got := ResolveParam(nil, OvMerchantID, "12345", "")
	assert.Equal(t, "12345", got)
}

func TestResolveParamBool_FalseLiteral(t *testing.T) {
	ov := ParseOverrides("aic:False")

	require.False(t, ResolveParamBool(ov, OvAllowCommission, "true", "true"))
	assert.True(t, ResolveParamBool(nil, OvAllowCommission, "true", ""))
	assert.True(t, ResolveParamBool(nil, OvAllowCommission, "1", ""))
	assert.False(t, ResolveParamBool(nil, OvAllowCommission, "", ""))
}
