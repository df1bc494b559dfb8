// Package i18n 提供接口提示文案的多语言支持
package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	LocaleZhCN = "zh-CN"
	LocaleEnUS = "en-US"

	// DefaultLocale 默认语言
	DefaultLocale = LocaleZhCN

	localeQueryKey  = "lang"
	localeHeaderKey = "X-Locale"
)

// SupportedLocales 支持的语言列表
func SupportedLocales() []string {
	return []string{LocaleZhCN, LocaleEnUS}
}

// T 根据语言返回文案，缺失时回退到默认语言，再回退到 key 本身
func T(locale, key string) string {
	normalized := NormalizeLocale(locale)
	if table, ok := catalog[normalized]; ok {
		if msg, ok := table[key]; ok {
			return msg
		}
	}
	if msg, ok := catalog[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Sprintf 带参数的文案
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}

// NormalizeLocale 统一语言标识，无法识别时返回默认语言
func NormalizeLocale(locale string) string {
	value := strings.ToLower(strings.TrimSpace(locale))
	if value == "" {
		return DefaultLocale
	}
	value = strings.ReplaceAll(value, "_", "-")
	switch {
	case strings.HasPrefix(value, "zh"):
		return LocaleZhCN
	case strings.HasPrefix(value, "en"):
		return LocaleEnUS
	default:
		return DefaultLocale
	}
}

// ResolveLocale 从请求中解析语言：query > X-Locale > Accept-Language
func ResolveLocale(c *gin.Context) string {
	if c == nil || c.Request == nil {
		return DefaultLocale
	}
	if v := strings.TrimSpace(c.Query(localeQueryKey)); v != "" {
		return NormalizeLocale(v)
	}
	if v := strings.TrimSpace(c.GetHeader(localeHeaderKey)); v != "" {
		return NormalizeLocale(v)
	}
	accept := strings.TrimSpace(c.GetHeader("Accept-Language"))
	if accept == "" {
		return DefaultLocale
	}
	first := strings.SplitN(accept, ",", 2)[0]
	first = strings.SplitN(first, ";", 2)[0]
	return NormalizeLocale(first)
}
