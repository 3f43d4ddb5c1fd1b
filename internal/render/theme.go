package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme 定义列表输出的色彩和样式
// Theme defines colors and styles for list output
type Theme struct {
	// 基础色 / Base colors
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Danger  lipgloss.Color
	Success lipgloss.Color
	Muted   lipgloss.Color
	Text    lipgloss.Color

	// 预构建样式 / Pre-built styles
	TitleStyle    lipgloss.Style
	HeaderStyle   lipgloss.Style
	DoneStyle     lipgloss.Style
	PendingStyle  lipgloss.Style
	ReminderStyle lipgloss.Style
	ErrorStyle    lipgloss.Style
	SuccessStyle  lipgloss.Style
	MutedStyle    lipgloss.Style
}

// DarkTheme 暗色主题（默认）
// DarkTheme is the default dark theme
func DarkTheme() Theme {
	return build(Theme{
		Primary: lipgloss.Color("#7C3AED"),
		Accent:  lipgloss.Color("#F59E0B"),
		Danger:  lipgloss.Color("#EF4444"),
		Success: lipgloss.Color("#10B981"),
		Muted:   lipgloss.Color("#6B7280"),
		Text:    lipgloss.Color("#E5E7EB"),
	})
}

// LightTheme 亮色主题
// LightTheme is tuned for light terminal backgrounds
func LightTheme() Theme {
	return build(Theme{
		Primary: lipgloss.Color("#5B21B6"),
		Accent:  lipgloss.Color("#B45309"),
		Danger:  lipgloss.Color("#B91C1C"),
		Success: lipgloss.Color("#047857"),
		Muted:   lipgloss.Color("#6B7280"),
		Text:    lipgloss.Color("#111827"),
	})
}

// ThemeFor 按名称选择主题；auto 根据终端背景选择
// ThemeFor picks a theme by name; "auto" follows the terminal background
func ThemeFor(name string) Theme {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "light":
		return LightTheme()
	case "dark":
		return DarkTheme()
	default:
		if lipgloss.HasDarkBackground() {
			return DarkTheme()
		}
		return LightTheme()
	}
}

func build(t Theme) Theme {
	t.TitleStyle = lipgloss.NewStyle().
		Foreground(t.Primary).
		Bold(true)

	t.HeaderStyle = lipgloss.NewStyle().
		Foreground(t.Muted).
		Bold(true)

	t.DoneStyle = lipgloss.NewStyle().
		Foreground(t.Muted).
		Strikethrough(true)

	t.PendingStyle = lipgloss.NewStyle().
		Foreground(t.Text)

	t.ReminderStyle = lipgloss.NewStyle().
		Foreground(t.Accent)

	t.ErrorStyle = lipgloss.NewStyle().
		Foreground(t.Danger).
		Bold(true)

	t.SuccessStyle = lipgloss.NewStyle().
		Foreground(t.Success)

	t.MutedStyle = lipgloss.NewStyle().
		Foreground(t.Muted)

	return t
}
