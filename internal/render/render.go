package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-runewidth"

	"listkeeper/internal/i18n"
	"listkeeper/internal/model"
)

// TimeLayout is how reminder and modification times are shown and parsed.
const TimeLayout = "2006-01-02 15:04"

// RenderMarkdown 使用 Glamour 渲染 markdown 文本
// RenderMarkdown renders markdown text using Glamour
func RenderMarkdown(content string, width int) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}

	rendered, err := r.Render(content)
	if err != nil {
		return content
	}

	return strings.TrimRight(rendered, "\n")
}


// Printer writes lists for humans. With Plain set it emits no styling and
// prints notes verbatim, which keeps output stable for scripts.
type Printer struct {
	Theme Theme
	Width int
	Plain bool
	Tr    *i18n.I18n

	cells *runewidth.Condition
}

// NewPrinter measures ambiguous-width characters as two cells when the
// locale is zh-CN, which is how CJK terminals draw them.
func NewPrinter(theme Theme, width int, plain bool, tr *i18n.I18n) *Printer {
	if width <= 0 {
		width = 80
	}
	if tr == nil {
		tr = i18n.New("")
	}
	cells := runewidth.NewCondition()
	cells.EastAsianWidth = tr.Locale() == "zh-CN"
	return &Printer{Theme: theme, Width: width, Plain: plain, Tr: tr, cells: cells}
}

// Truncate 按显示宽度截断（兼容中日韩宽字符）
// Truncate cuts s to width display cells, marking the cut with "…".
func (p *Printer) Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if p.cells.StringWidth(s) <= width {
		return s
	}
	return p.cells.Truncate(s, width, "…")
}

// Lists prints one row per list: id, title and completion count.
func (p *Printer) Lists(w io.Writer, lists []model.List) {
	if len(lists) == 0 {
		fmt.Fprintln(w, p.style(p.Theme.MutedStyle.Render, p.Tr.T("list.empty")))
		return
	}

	idWidth := p.cells.StringWidth(p.Tr.T("list.column_id"))
	for _, l := range lists {
		if n := len(strconv.FormatInt(l.ID, 10)); n > idWidth {
			idWidth = n
		}
	}
	countWidth := p.cells.StringWidth(p.Tr.T("list.column_items"))
	for _, l := range lists {
		if n := len(counts(l)); n > countWidth {
			countWidth = n
		}
	}
	titleWidth := p.Width - idWidth - countWidth - 4
	if titleWidth < 8 {
		titleWidth = 8
	}

	header := p.cells.FillRight(p.Tr.T("list.column_id"), idWidth) + "  " +
		p.cells.FillRight(p.Tr.T("list.column_title"), titleWidth) + "  " +
		p.Tr.T("list.column_items")
	fmt.Fprintln(w, p.style(p.Theme.HeaderStyle.Render, strings.TrimRight(header, " ")))

	for _, l := range lists {
		row := p.cells.FillLeft(strconv.FormatInt(l.ID, 10), idWidth) + "  " +
			p.cells.FillRight(p.Truncate(l.Title, titleWidth), titleWidth) + "  " +
			counts(l)
		fmt.Fprintln(w, row)
	}
}

// List prints a list header followed by its numbered items. Items are
// numbered from 1.
func (p *Printer) List(w io.Writer, list model.List) {
	header := p.Tr.T("list.header", list.Title, list.CompletedCount(), len(list.Items))
	fmt.Fprintln(w, p.style(p.Theme.TitleStyle.Render, header))
	if !list.Modified.IsZero() {
		fmt.Fprintln(w, p.style(p.Theme.MutedStyle.Render, p.Tr.T("list.modified", list.Modified.Local().Format(TimeLayout))))
	}
	if len(list.Items) == 0 {
		fmt.Fprintln(w, p.style(p.Theme.MutedStyle.Render, p.Tr.T("list.no_items")))
		return
	}

	numWidth := len(strconv.Itoa(len(list.Items)))
	for i, it := range list.Items {
		p.item(w, i+1, numWidth, it)
	}
}

func (p *Printer) item(w io.Writer, n, numWidth int, it model.Item) {
	box := "[ ]"
	render := p.Theme.PendingStyle.Render
	if it.Completed {
		box = "[x]"
		render = p.Theme.DoneStyle.Render
	}
	prefix := fmt.Sprintf("%*d. %s ", numWidth, n, box)
	content := p.Truncate(it.Content, p.Width-p.cells.StringWidth(prefix))
	line := prefix + p.style(render, content)
	if it.ReminderEnabled && it.ReminderAt != nil {
		line += "  " + p.style(p.Theme.ReminderStyle.Render, p.Tr.T("list.reminder", it.ReminderAt.Local().Format(TimeLayout)))
	}
	fmt.Fprintln(w, line)

	notes := strings.TrimSpace(it.Notes)
	if notes == "" {
		return
	}
	indent := strings.Repeat(" ", p.cells.StringWidth(prefix))
	if !p.Plain {
		notes = RenderMarkdown(notes, p.Width-len(indent))
	}
	for _, l := range strings.Split(notes, "\n") {
		fmt.Fprintln(w, indent+l)
	}
}

// Status prints a success line.
func (p *Printer) Status(w io.Writer, key string, args ...any) {
	fmt.Fprintln(w, p.style(p.Theme.SuccessStyle.Render, p.Tr.T(key, args...)))
}

// Error prints an error line.
func (p *Printer) Error(w io.Writer, key string, args ...any) {
	fmt.Fprintln(w, p.style(p.Theme.ErrorStyle.Render, p.Tr.T(key, args...)))
}

// Remember prints the line shown when a reminder fires.
func (p *Printer) Remember(w io.Writer, content string, at time.Time) {
	msg := p.Tr.T("alarm.remember", content)
	if !at.IsZero() {
		msg += " (" + at.Local().Format(TimeLayout) + ")"
	}
	fmt.Fprintln(w, p.style(p.Theme.ReminderStyle.Render, msg))
}

func (p *Printer) style(render func(...string) string, s string) string {
	if p.Plain {
		return s
	}
	return render(s)
}

func counts(l model.List) string {
	return fmt.Sprintf("%d/%d", l.CompletedCount(), len(l.Items))
}
