package web

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nicksnyder/go-i18n/v2/i18n"

	tci18n "tradechallenge/i18n"
)

// I18nMiddleware 解析请求的 Accept-Language 头并设置到上下文
func I18nMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		acceptLang := c.GetHeader("Accept-Language")
		lang := parseAcceptLanguage(acceptLang)

		c.Set("language", lang)
		c.Set("localizer", tci18n.GetLocalizer(lang))

		c.Next()
	}
}

// parseAcceptLanguage 解析 Accept-Language 头
// 示例: "fr-FR,fr;q=0.9,en;q=0.8" -> "fr-FR"
func parseAcceptLanguage(acceptLang string) string {
	if acceptLang == "" {
		return tci18n.GetSystemLanguage()
	}

	langs := strings.Split(acceptLang, ",")
	if len(langs) == 0 {
		return tci18n.GetSystemLanguage()
	}

	// 取第一个语言（优先级最高）
	firstLang := strings.TrimSpace(langs[0])

	// 去除权重参数 (;q=0.9)
	if idx := strings.Index(firstLang, ";"); idx != -1 {
		firstLang = firstLang[:idx]
	}

	return normalizeLanguage(strings.TrimSpace(firstLang))
}

// normalizeLanguage 标准化语言代码
func normalizeLanguage(lang string) string {
	lang = strings.ToLower(lang)

	switch {
	case strings.HasPrefix(lang, "fr"):
		return "fr-FR"
	case strings.HasPrefix(lang, "en"):
		return "en-US"
	default:
		return tci18n.GetSystemLanguage()
	}
}

// GetLocalizer 从上下文获取 Localizer
func GetLocalizer(c *gin.Context) *i18n.Localizer {
	if localizer, exists := c.Get("localizer"); exists {
		if l, ok := localizer.(*i18n.Localizer); ok {
			return l
		}
	}
	return tci18n.GetLocalizer(tci18n.GetSystemLanguage())
}

// GetLanguage 从上下文获取语言
func GetLanguage(c *gin.Context) string {
	if lang, exists := c.Get("language"); exists {
		if l, ok := lang.(string); ok {
			return l
		}
	}
	return tci18n.GetSystemLanguage()
}

// T 翻译消息（从上下文获取语言）
func T(c *gin.Context, key string, data ...interface{}) string {
	lang := GetLanguage(c)
	return tci18n.TWithLang(lang, key, data...)
}
