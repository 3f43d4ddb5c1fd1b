// Package i18n holds the message catalogs for the todo CLI and shell.
package i18n

import (
	"fmt"
	"os"
	"strings"
)

// I18n 是一个已解析 locale 的只读消息目录
// I18n is a read-only message catalog for one resolved locale.
type I18n struct {
	locale   string
	messages map[string]string
}

// New 按优先级解析 locale：显式配置（ui.locale，已合并 LISTKEEPER_LANG）> 系统环境 > en
// New resolves the locale from the configured value (ui.locale, which the
// config layer already overrides with LISTKEEPER_LANG), then the system
// environment, then "en". Keys missing from a translation fall back to English.
func New(configured string) *I18n {
	locale := normalizeLocale(configured)
	if strings.TrimSpace(configured) == "" {
		locale = SystemLocale()
	}

	messages := make(map[string]string, len(EnMessages))
	for k, v := range EnMessages {
		messages[k] = v
	}
	if locale == "zh-CN" {
		for k, v := range ZhCNMessages {
			messages[k] = v
		}
	}
	return &I18n{locale: locale, messages: messages}
}

// T formats the message for key. Unknown keys come back unchanged.
func (i *I18n) T(key string, args ...any) string {
	tmpl, ok := i.messages[key]
	if !ok {
		return key
	}
	if len(args) == 0 {
		return tmpl
	}
	return fmt.Sprintf(tmpl, args...)
}

// Locale 返回解析后的 locale（"en"、"zh-CN" 或原样保留的其它值）
// Locale returns the resolved locale.
func (i *I18n) Locale() string {
	return i.locale
}

// SystemLocale reads LC_ALL, LC_MESSAGES and LANG in POSIX precedence.
func SystemLocale() string {
	for _, env := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" && v != "C" && v != "POSIX" {
			return normalizeLocale(v)
		}
	}
	return "en"
}

func normalizeLocale(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "en"
	}
	// 去掉 .UTF-8 等后缀 / drop the codeset suffix
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		s = s[:idx]
	}
	s = strings.ReplaceAll(s, "_", "-")
	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "zh"):
		return "zh-CN"
	case strings.HasPrefix(lower, "en"):
		return "en"
	}
	return s
}
