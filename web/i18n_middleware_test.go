package web

import (
	"testing"

	"tradechallenge/i18n"
)

func TestParseAcceptLanguage(t *testing.T) {
	if err := i18n.Init("fr-FR"); err != nil {
		t.Fatalf("初始化 i18n 失败: %v", err)
	}

	tests := []struct {
		name       string
		acceptLang string
		want       string
	}{
		{"空头部取系统语言", "", "fr-FR"},
		{"法语", "fr-FR", "fr-FR"},
		{"法语短码", "fr", "fr-FR"},
		{"英语", "en-US", "en-US"},
		{"英语短码", "en", "en-US"},
		{"带权重参数", "en-GB;q=0.9,fr;q=0.8", "en-US"},
		{"多语言取第一个", "fr-CA, en-US;q=0.7", "fr-FR"},
		{"不支持的语言回退系统语言", "de-DE", "fr-FR"},
		{"大小写不敏感", "EN-us", "en-US"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseAcceptLanguage(tt.acceptLang); got != tt.want {
				t.Errorf("parseAcceptLanguage(%q) = %q, 期望 %q", tt.acceptLang, got, tt.want)
			}
		})
	}
}

func TestNormalizeLanguageDefault(t *testing.T) {
	if err := i18n.Init("en-US"); err != nil {
		t.Fatalf("初始化 i18n 失败: %v", err)
	}
	if got := normalizeLanguage("ja-JP"); got != "en-US" {
		t.Errorf("不支持的语言应回退系统语言 en-US, 实际 %q", got)
	}
	// 恢复默认系统语言，避免影响其它测试
	if err := i18n.Init("fr-FR"); err != nil {
		t.Fatalf("初始化 i18n 失败: %v", err)
	}
}
