package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"

	"listkeeper/internal/i18n"
	"listkeeper/internal/model"
)

func plainPrinter(width int) *Printer {
	return NewPrinter(DarkTheme(), width, true, i18n.New("en"))
}

func TestRenderMarkdown(t *testing.T) {
	if got := RenderMarkdown("   ", 40); got != "" {
		t.Fatalf("empty input rendered %q", got)
	}
	got := RenderMarkdown("# Title\n\nsome **bold** text", 40)
	if !strings.Contains(got, "Title") || !strings.Contains(got, "bold") {
		t.Fatalf("rendered=%q", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"much too long", 8, "much to…"},
		{"买牛奶和面包", 7, "买牛奶…"},
		{"x", 0, ""},
	}
	p := plainPrinter(80)
	for _, tt := range tests {
		got := p.Truncate(tt.in, tt.width)
		if got != tt.want {
			t.Errorf("Truncate(%q, %d)=%q, want %q", tt.in, tt.width, got, tt.want)
		}
		if p.cells.StringWidth(got) > tt.width {
			t.Errorf("Truncate(%q, %d) width=%d", tt.in, tt.width, p.cells.StringWidth(got))
		}
	}
}

func TestTruncateCountsAmbiguousWidthInChinese(t *testing.T) {
	p := NewPrinter(DarkTheme(), 80, true, i18n.New("zh-CN"))
	got := p.Truncate("much too long", 8)
	if got != "much t…" {
		t.Fatalf("Truncate=%q, want %q", got, "much t…")
	}
}

func TestPrinterLists(t *testing.T) {
	var buf bytes.Buffer
	p := plainPrinter(40)

	p.Lists(&buf, nil)
	if !strings.Contains(buf.String(), "No lists yet") {
		t.Fatalf("empty output=%q", buf.String())
	}

	buf.Reset()
	groceries := model.NewList("Groceries", time.Now())
	groceries.ID = 1
	model.AddItem(groceries, model.Item{Content: "Buy milk", Completed: true})
	model.AddItem(groceries, model.NewItem("Eggs"))
	long := model.NewList(strings.Repeat("very long title ", 5), time.Now())
	long.ID = 12

	p.Lists(&buf, []model.List{*groceries, *long})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines=%d: %q", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "ID") || !strings.HasSuffix(lines[0], "Items") {
		t.Fatalf("header=%q", lines[0])
	}
	if !strings.HasPrefix(lines[1], " 1  Groceries") || !strings.HasSuffix(lines[1], "1/2") {
		t.Fatalf("row=%q", lines[1])
	}
	for _, l := range lines {
		if w := runewidth.StringWidth(l); w > 40 {
			t.Fatalf("line %q is %d wide", l, w)
		}
	}
	if !strings.Contains(lines[2], "…") {
		t.Fatalf("long title not truncated: %q", lines[2])
	}
}

func TestPrinterList(t *testing.T) {
	var buf bytes.Buffer
	p := plainPrinter(60)

	at := time.Date(2030, 5, 1, 10, 0, 0, 0, time.Local)
	list := model.NewList("Groceries", time.Now())
	model.AddItem(list, model.Item{Content: "Buy milk", ReminderEnabled: true, ReminderAt: &at})
	model.AddItem(list, model.Item{Content: "Bread", Completed: true, Notes: "whole grain\nsliced"})

	p.List(&buf, *list)
	out := buf.String()
	for _, want := range []string{
		"Groceries (1/2 done)",
		"1. [ ] Buy milk  reminder 2030-05-01 10:00",
		"2. [x] Bread",
		"\n       whole grain\n",
		"\n       sliced\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrinterEmptyList(t *testing.T) {
	var buf bytes.Buffer
	plainPrinter(60).List(&buf, model.List{Title: "Empty"})
	if !strings.Contains(buf.String(), "This list is empty.") {
		t.Fatalf("output=%q", buf.String())
	}
}

func TestPrinterStatusAndRemember(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(DarkTheme(), 60, true, i18n.New("zh-CN"))
	p.Status(&buf, "status.list_created")
	p.Error(&buf, "error.schedule")
	p.Remember(&buf, "买牛奶", time.Time{})
	want := "已创建新清单。\n无法设置提醒！\n别忘了：买牛奶\n"
	if buf.String() != want {
		t.Fatalf("output=%q, want %q", buf.String(), want)
	}
}

func TestThemeFor(t *testing.T) {
	if ThemeFor("light").Text != LightTheme().Text {
		t.Fatal("light theme not selected")
	}
	if ThemeFor("DARK").Text != DarkTheme().Text {
		t.Fatal("dark theme not selected")
	}
	auto := ThemeFor("auto").Text
	if auto != DarkTheme().Text && auto != LightTheme().Text {
		t.Fatalf("auto picked unknown text color %q", auto)
	}
}
