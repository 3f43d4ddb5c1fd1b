package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type StorageConfig struct {
	// BaseDir 存放数据库与全局配置的目录。
	// BaseDir holds the database and the global config file.
	BaseDir string `json:"base_dir" toml:"base_dir"`
	// DBFile 为相对 BaseDir 的文件名，也可以是绝对路径。
	// DBFile is relative to BaseDir unless absolute.
	DBFile        string `json:"db_file" toml:"db_file"`
	BusyTimeoutMS int    `json:"busy_timeout_ms" toml:"busy_timeout_ms"`
	SeedSample    bool   `json:"seed_sample" toml:"seed_sample"`
}

type PersistConfig struct {
	ReadyTimeoutMS int `json:"ready_timeout_ms" toml:"ready_timeout_ms"`
}

type ReminderConfig struct {
	DefaultLeadMinutes int `json:"default_lead_minutes" toml:"default_lead_minutes"`
}

type UIConfig struct {
	Locale string `json:"locale" toml:"locale"`
	Theme  string `json:"theme" toml:"theme"`
	Width  int    `json:"width" toml:"width"`
}

type Config struct {
	Storage  StorageConfig  `json:"storage" toml:"storage"`
	Persist  PersistConfig  `json:"persist" toml:"persist"`
	Reminder ReminderConfig `json:"reminder" toml:"reminder"`
	UI       UIConfig       `json:"ui" toml:"ui"`
}

type fileStorageConfig struct {
	BaseDir       *string `json:"base_dir" toml:"base_dir"`
	DBFile        *string `json:"db_file" toml:"db_file"`
	BusyTimeoutMS *int    `json:"busy_timeout_ms" toml:"busy_timeout_ms"`
	SeedSample    *bool   `json:"seed_sample" toml:"seed_sample"`
}

type fileConfig struct {
	Storage  *fileStorageConfig `json:"storage" toml:"storage"`
	Persist  *PersistConfig     `json:"persist" toml:"persist"`
	Reminder *ReminderConfig    `json:"reminder" toml:"reminder"`
	UI       *UIConfig          `json:"ui" toml:"ui"`
}

func Default() Config {
	return Config{
		Storage: StorageConfig{
			BaseDir:       DefaultBaseDir,
			DBFile:        DefaultDBFile,
			BusyTimeoutMS: DefaultBusyTimeoutMS,
			SeedSample:    true,
		},
		Reminder: ReminderConfig{
			DefaultLeadMinutes: DefaultReminderLeadMinutes,
		},
		UI: UIConfig{
			Theme: "auto",
			Width: DefaultUIWidth,
		},
	}
}

// Load 按 默认值 → 全局配置 → 项目配置（或显式路径）→ 环境变量 的顺序合并配置。
// Load merges defaults, the global file, the project file (or an explicit
// path) and environment overrides, in that order.
func Load(path string) (Config, error) {
	cfg := Default()

	for _, globalPath := range globalConfigPaths() {
		if err := mergeFromFile(&cfg, globalPath); err != nil {
			return Config{}, err
		}
	}

	resolvedPath := strings.TrimSpace(path)
	if envPath := strings.TrimSpace(os.Getenv("LISTKEEPER_CONFIG")); envPath != "" && resolvedPath == "" {
		resolvedPath = envPath
	}
	if resolvedPath == "" {
		resolvedPath = findProjectConfigPath()
	}
	if err := mergeFromFile(&cfg, resolvedPath); err != nil {
		return Config{}, err
	}

	if err := normalize(&cfg); err != nil {
		return Config{}, err
	}
	return applyEnv(cfg)
}

// DBPath resolves the database file against the base directory.
func (c Config) DBPath() string {
	if filepath.IsAbs(c.Storage.DBFile) {
		return c.Storage.DBFile
	}
	return filepath.Join(c.Storage.BaseDir, c.Storage.DBFile)
}

func (c Config) BusyTimeout() time.Duration {
	return time.Duration(c.Storage.BusyTimeoutMS) * time.Millisecond
}

func (c Config) ReadyTimeout() time.Duration {
	return time.Duration(c.Persist.ReadyTimeoutMS) * time.Millisecond
}

func (c Config) ReminderLead() time.Duration {
	return time.Duration(c.Reminder.DefaultLeadMinutes) * time.Minute
}

func globalConfigPaths() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	dir := filepath.Join(home, ".listkeeper")
	return []string{
		filepath.Join(dir, "config.json"),
		filepath.Join(dir, "config.toml"),
	}
}

func findProjectConfigPath() string {
	candidates := []string{
		"listkeeper.json",
		".listkeeper/config.json",
		"listkeeper.toml",
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

func mergeFromFile(cfg *Config, path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}

	resolved, err := expandPath(path)
	if err != nil {
		return fmt.Errorf("expand config path %q: %w", path, err)
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %q: %w", resolved, err)
	}

	var fileCfg fileConfig
	if strings.EqualFold(filepath.Ext(resolved), ".toml") {
		if _, err := toml.Decode(string(data), &fileCfg); err != nil {
			return fmt.Errorf("parse config %q: %w", resolved, err)
		}
	} else {
		cleaned := stripJSONComments(data)
		if err := json.Unmarshal(cleaned, &fileCfg); err != nil {
			return fmt.Errorf("parse config %q: %w", resolved, err)
		}
	}
	applyFileConfig(cfg, fileCfg)
	return nil
}

func applyFileConfig(cfg *Config, fc fileConfig) {
	if fc.Storage != nil {
		if fc.Storage.BaseDir != nil && strings.TrimSpace(*fc.Storage.BaseDir) != "" {
			cfg.Storage.BaseDir = *fc.Storage.BaseDir
		}
		if fc.Storage.DBFile != nil && strings.TrimSpace(*fc.Storage.DBFile) != "" {
			cfg.Storage.DBFile = *fc.Storage.DBFile
		}
		if fc.Storage.BusyTimeoutMS != nil && *fc.Storage.BusyTimeoutMS > 0 {
			cfg.Storage.BusyTimeoutMS = *fc.Storage.BusyTimeoutMS
		}
		if fc.Storage.SeedSample != nil {
			cfg.Storage.SeedSample = *fc.Storage.SeedSample
		}
	}
	if fc.Persist != nil {
		cfg.Persist = mergePersist(cfg.Persist, *fc.Persist)
	}
	if fc.Reminder != nil {
		cfg.Reminder = mergeReminder(cfg.Reminder, *fc.Reminder)
	}
	if fc.UI != nil {
		cfg.UI = mergeUI(cfg.UI, *fc.UI)
	}
}

func mergePersist(base PersistConfig, override PersistConfig) PersistConfig {
	if override.ReadyTimeoutMS > 0 {
		base.ReadyTimeoutMS = override.ReadyTimeoutMS
	}
	return base
}

func mergeReminder(base ReminderConfig, override ReminderConfig) ReminderConfig {
	if override.DefaultLeadMinutes > 0 {
		base.DefaultLeadMinutes = override.DefaultLeadMinutes
	}
	return base
}

func mergeUI(base UIConfig, override UIConfig) UIConfig {
	if strings.TrimSpace(override.Locale) != "" {
		base.Locale = override.Locale
	}
	if strings.TrimSpace(override.Theme) != "" {
		base.Theme = override.Theme
	}
	if override.Width > 0 {
		base.Width = override.Width
	}
	return base
}

func normalize(cfg *Config) error {
	if strings.TrimSpace(cfg.Storage.BaseDir) == "" {
		cfg.Storage.BaseDir = Default().Storage.BaseDir
	}
	baseDir, err := expandPath(cfg.Storage.BaseDir)
	if err != nil {
		return err
	}
	cfg.Storage.BaseDir = baseDir

	cfg.Storage.DBFile = strings.TrimSpace(cfg.Storage.DBFile)
	if cfg.Storage.DBFile == "" {
		cfg.Storage.DBFile = Default().Storage.DBFile
	}
	if strings.HasPrefix(cfg.Storage.DBFile, "~") {
		dbFile, err := expandPath(cfg.Storage.DBFile)
		if err != nil {
			return err
		}
		cfg.Storage.DBFile = dbFile
	}
	if cfg.Storage.BusyTimeoutMS <= 0 {
		cfg.Storage.BusyTimeoutMS = Default().Storage.BusyTimeoutMS
	}

	if cfg.Persist.ReadyTimeoutMS < 0 {
		cfg.Persist.ReadyTimeoutMS = 0
	}
	if cfg.Reminder.DefaultLeadMinutes <= 0 {
		cfg.Reminder.DefaultLeadMinutes = Default().Reminder.DefaultLeadMinutes
	}

	cfg.UI.Locale = strings.TrimSpace(cfg.UI.Locale)
	switch strings.ToLower(strings.TrimSpace(cfg.UI.Theme)) {
	case "dark", "light", "auto":
		cfg.UI.Theme = strings.ToLower(strings.TrimSpace(cfg.UI.Theme))
	case "":
		cfg.UI.Theme = Default().UI.Theme
	default:
		return fmt.Errorf("invalid ui.theme %q (want dark, light or auto)", cfg.UI.Theme)
	}
	if cfg.UI.Width <= 0 {
		cfg.UI.Width = Default().UI.Width
	}
	return nil
}

func applyEnv(cfg Config) (Config, error) {
	if v := strings.TrimSpace(os.Getenv("LISTKEEPER_HOME")); v != "" {
		cfg.Storage.BaseDir = v
	}
	if v := strings.TrimSpace(os.Getenv("LISTKEEPER_DB")); v != "" {
		abs, err := expandPath(v)
		if err != nil {
			return Config{}, err
		}
		cfg.Storage.DBFile = abs
	}
	if v := strings.TrimSpace(os.Getenv("LISTKEEPER_LANG")); v != "" {
		cfg.UI.Locale = v
	}
	if v := strings.TrimSpace(os.Getenv("LISTKEEPER_READY_TIMEOUT_MS")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("invalid LISTKEEPER_READY_TIMEOUT_MS: %q", v)
		}
		cfg.Persist.ReadyTimeoutMS = n
	}

	return cfg, normalize(&cfg)
}

func expandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		if path == "~" {
			path = home
		} else {
			path = filepath.Join(home, strings.TrimPrefix(path, "~/"))
		}
	}
	return filepath.Abs(path)
}

func stripJSONComments(data []byte) []byte {
	const (
		stateNormal = iota
		stateString
		stateLineComment
		stateBlockComment
	)

	state := stateNormal
	escaped := false
	out := bytes.Buffer{}

	for i := 0; i < len(data); i++ {
		c := data[i]
		next := byte(0)
		if i+1 < len(data) {
			next = data[i+1]
		}

		switch state {
		case stateNormal:
			if c == '"' {
				state = stateString
				out.WriteByte(c)
				continue
			}
			if c == '/' && next == '/' {
				state = stateLineComment
				i++
				continue
			}
			if c == '/' && next == '*' {
				state = stateBlockComment
				i++
				continue
			}
			out.WriteByte(c)
		case stateString:
			out.WriteByte(c)
			if escaped {
				escaped = false
				continue
			}
			if c == '\\' {
				escaped = true
				continue
			}
			if c == '"' {
				state = stateNormal
			}
		case stateLineComment:
			if c == '\n' {
				state = stateNormal
				out.WriteByte(c)
			}
		case stateBlockComment:
			if c == '*' && next == '/' {
				state = stateNormal
				i++
			}
		}
	}

	return out.Bytes()
}
