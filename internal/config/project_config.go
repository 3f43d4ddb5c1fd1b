package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// settableKeys maps "section.key" to the value kind accepted by SetProjectValue.
var settableKeys = map[string]string{
	"storage.base_dir":              "string",
	"storage.db_file":               "string",
	"storage.busy_timeout_ms":       "int",
	"storage.seed_sample":           "bool",
	"persist.ready_timeout_ms":      "int",
	"reminder.default_lead_minutes": "int",
	"ui.locale":                     "string",
	"ui.theme":                      "string",
	"ui.width":                      "int",
}

// InitProjectConfig 在 projectDir 下初始化项目级配置模板（.listkeeper/config.json）。
// InitProjectConfig writes a project config scaffold (.listkeeper/config.json)
// under projectDir. An existing file is left untouched. It returns the path.
func InitProjectConfig(projectDir string) (string, error) {
	dir := filepath.Join(strings.TrimSpace(projectDir), ".listkeeper")
	path := filepath.Join(dir, "config.json")

	// 若项目已经有配置文件，则尊重用户现有配置。
	info, err := os.Stat(path)
	if err == nil {
		if info.IsDir() {
			return "", fmt.Errorf("project config path is a directory: %s", path)
		}
		return path, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("stat project config: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir .listkeeper: %w", err)
	}

	data, err := json.MarshalIndent(Default(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write project config: %w", err)
	}
	return path, nil
}

// SetProjectValue 将 section.key 写入项目配置（.listkeeper/config.json）；目录不存在则创建。
// SetProjectValue writes section.key into the project config
// (.listkeeper/config.json), creating it if needed. Other keys are kept.
func SetProjectValue(projectDir, key, value string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	kind, ok := settableKeys[key]
	if !ok {
		return fmt.Errorf("unknown config key %q", key)
	}
	section, name, _ := strings.Cut(key, ".")

	var typed any
	switch kind {
	case "int":
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%s: %q is not an integer", key, value)
		}
		typed = n
	case "bool":
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%s: %q is not a boolean", key, value)
		}
		typed = b
	default:
		typed = value
	}

	dir := filepath.Join(strings.TrimSpace(projectDir), ".listkeeper")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir .listkeeper: %w", err)
	}
	path := filepath.Join(dir, "config.json")
	var root map[string]any
	data, err := os.ReadFile(path)
	if err == nil {
		if err := json.Unmarshal(stripJSONComments(data), &root); err != nil {
			root = nil
		}
	}
	if root == nil {
		root = make(map[string]any)
	}
	sectionMap, _ := root[section].(map[string]any)
	if sectionMap == nil {
		sectionMap = make(map[string]any)
	}
	sectionMap[name] = typed
	root[section] = sectionMap
	data, err = json.MarshalIndent(root, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
