package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"listkeeper/internal/model"

	"github.com/google/uuid"
)

// 导出/导入格式沿用旧版记录结构：时间为 Unix 毫秒
// The export/import format keeps the legacy record layout: timestamps are unix milliseconds
type wireList struct {
	ID       int64      `json:"id,omitempty"`
	Title    string     `json:"title"`
	Created  int64      `json:"created"`
	Modified int64      `json:"modified"`
	Items    []wireItem `json:"items"`
}

type wireItem struct {
	ID              string `json:"id,omitempty"`
	Content         string `json:"content"`
	Notes           string `json:"notes"`
	Completed       bool   `json:"completed"`
	ReminderEnabled bool   `json:"reminder_enabled,omitempty"`
	ReminderAt      int64  `json:"reminder_at,omitempty"`

	// 旧版字段 / legacy fields
	AlarmIsSet *bool           `json:"alarmIsSet,omitempty"`
	Alarm      json.RawMessage `json:"alarm,omitempty"`
}

// ExportJSON 将全部列表写为 JSON 数组 / ExportJSON writes every list as a JSON array
func ExportJSON(ctx context.Context, store Store, w io.Writer) (int, error) {
	out := []wireList{}
	for list, err := range store.All(ctx) {
		if err != nil {
			return 0, fmt.Errorf("read lists: %w", err)
		}
		out = append(out, toWire(list))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return 0, fmt.Errorf("encode lists: %w", err)
	}
	return len(out), nil
}

// ImportJSON 从 JSON 数组导入列表（包括旧版导出），每个列表获得新 id；单条失败记录后跳过
// ImportJSON imports lists from a JSON array (legacy exports included). Every list gets a
// fresh id; a list that fails to import is logged and skipped.
func ImportJSON(ctx context.Context, store Store, r io.Reader, logger *log.Logger) (int, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("read import: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return 0, nil
	}

	var lists []wireList
	if err := json.Unmarshal(data, &lists); err != nil {
		return 0, fmt.Errorf("parse import: %w", err)
	}

	imported := 0
	var errs []error
	for i, wl := range lists {
		list := fromWire(wl)
		list.ID = 0
		if _, err := store.Put(ctx, list); err != nil {
			logger.Printf("skip import of list %d (%q): %v", i, list.Title, err)
			errs = append(errs, err)
			continue
		}
		imported++
	}
	if imported == 0 && len(errs) > 0 {
		return 0, fmt.Errorf("import: no list could be stored: %w", errors.Join(errs...))
	}
	return imported, nil
}

func toWire(list model.List) wireList {
	wl := wireList{
		ID:       list.ID,
		Title:    list.Title,
		Created:  list.Created.UnixMilli(),
		Modified: list.Modified.UnixMilli(),
		Items:    make([]wireItem, 0, len(list.Items)),
	}
	for _, it := range list.Items {
		wi := wireItem{
			ID:              it.ID,
			Content:         it.Content,
			Notes:           it.Notes,
			Completed:       it.Completed,
			ReminderEnabled: it.ReminderEnabled,
		}
		if it.ReminderAt != nil {
			wi.ReminderAt = it.ReminderAt.UnixMilli()
		}
		wl.Items = append(wl.Items, wi)
	}
	return wl
}

// fromWire 转为模型；提醒句柄不随导入迁移，需要重新调度
// fromWire converts to the model. Reminder handles never travel; reminders must be rescheduled.
func fromWire(wl wireList) model.List {
	now := time.Now()
	list := model.List{
		Title:    strings.TrimSpace(wl.Title),
		Created:  msOrNow(wl.Created, now),
		Modified: msOrNow(wl.Modified, now),
		Items:    make([]model.Item, 0, len(wl.Items)),
	}
	if list.Title == "" {
		list.Title = model.DefaultListTitle
	}
	for _, wi := range wl.Items {
		it := model.Item{
			ID:              strings.TrimSpace(wi.ID),
			Content:         wi.Content,
			Notes:           wi.Notes,
			Completed:       wi.Completed,
			ReminderEnabled: wi.ReminderEnabled,
		}
		if _, err := uuid.Parse(it.ID); err != nil {
			it.ID = uuid.NewString()
		}
		if strings.TrimSpace(it.Content) == "" {
			it.Content = model.DefaultItemContent
		}
		if wi.ReminderAt > 0 {
			at := time.UnixMilli(wi.ReminderAt)
			it.ReminderAt = &at
		}
		if wi.AlarmIsSet != nil {
			it.ReminderEnabled = *wi.AlarmIsSet
			if at, ok := parseLegacyAlarm(wi.Alarm); ok {
				it.ReminderAt = &at
			}
		}
		if !it.ReminderEnabled || it.ReminderAt == nil {
			it.ClearReminder()
		}
		list.Items = append(list.Items, it)
	}
	return list
}

func msOrNow(ms int64, now time.Time) time.Time {
	if ms <= 0 {
		return model.Millis(now)
	}
	return time.UnixMilli(ms)
}

// parseLegacyAlarm 旧版 alarm 可能是毫秒数或日期字符串
// parseLegacyAlarm accepts either a millisecond number or a date string
func parseLegacyAlarm(raw json.RawMessage) (time.Time, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return time.Time{}, false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		ms, err := strconv.ParseInt(string(raw), 10, 64)
		if err != nil || ms <= 0 {
			return time.Time{}, false
		}
		return time.UnixMilli(ms), true
	}
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return model.Millis(t), true
		}
	}
	return time.Time{}, false
}
