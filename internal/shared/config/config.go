package config

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/samber/lo"
	"github.com/samber/oops"

	"github.com/reshetovitsme/channel-editor-bot/internal/shared/errors"
)

// TimeMode selects how timestamps found in posts are shifted.
type TimeMode string

const (
	// TimeModeOffset adds a fixed duration to every clock time, wrapping
	// hours modulo 24.
	TimeModeOffset TimeMode = "offset"
	// TimeModeTimezone converts clock times between two named timezones.
	TimeModeTimezone TimeMode = "timezone"
)

// StaticRule is a substitution rule fixed at configuration time. Static
// rules are applied before user-defined rules and cannot be changed at
// runtime.
type StaticRule struct {
	Pattern     string `koanf:"pattern"`
	Replacement string `koanf:"replacement"`
}

// TimeConfig holds the timestamp conversion policy.
type TimeConfig struct {
	Mode           TimeMode `koanf:"mode"`
	OffsetHours    int      `koanf:"offset_hours"`
	OffsetMinutes  int      `koanf:"offset_minutes"`
	SourceTimezone string   `koanf:"source_timezone"`
	TargetTimezone string   `koanf:"target_timezone"`
	Marker         string   `koanf:"marker"`
}

type Config struct {
	TelegramBotToken   string       `koanf:"telegram_bot_token"`
	StoragePath        string       `koanf:"storage_path"`
	HTTPPort           string       `koanf:"http_port"`
	AllowedUsers       []int64      `koanf:"allowed_users"`
	DefaultChannel     string       `koanf:"channel_id"`
	ProcessText        bool         `koanf:"process_text"`
	ProcessCaptions    bool         `koanf:"process_captions"`
	ReplyOnEditFailure bool         `koanf:"reply_on_edit_failure"`
	StaticRules        []StaticRule `koanf:"static_rules"`
	Time               TimeConfig   `koanf:"time"`
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try to load config file from various formats
	configFiles := []string{
		"config.yaml",
		"config.yml",
		"config.json",
		"config.toml",
	}

	configFile, found := lo.Find(configFiles, func(file string) bool {
		_, err := os.Stat(file)
		return err == nil
	})

	if found {
		var parser koanf.Parser
		ext := filepath.Ext(configFile)

		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		case ".toml":
			parser = toml.Parser()
		default:
			return nil, oops.Errorf("unsupported config file extension: %s", ext)
		}

		if err := k.Load(file.Provider(configFile), parser); err != nil {
			return nil, oops.With("config_file", configFile).Wrap(err)
		}
	}

	// Environment variables override config file values
	if err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(s)
	}), nil); err != nil {
		return nil, oops.With("context", "loading environment variables").Wrap(err)
	}

	// Set defaults
	if !k.Exists("storage_path") {
		k.Set("storage_path", "./data")
	}
	if !k.Exists("http_port") {
		k.Set("http_port", "8080")
	}
	if !k.Exists("process_text") {
		k.Set("process_text", true)
	}
	if !k.Exists("process_captions") {
		k.Set("process_captions", true)
	}
	if !k.Exists("reply_on_edit_failure") {
		k.Set("reply_on_edit_failure", true)
	}
	if !k.Exists("time.mode") {
		k.Set("time.mode", string(TimeModeOffset))
	}
	if !k.Exists("time.offset_hours") {
		k.Set("time.offset_hours", 3)
	}
	if !k.Exists("time.offset_minutes") {
		k.Set("time.offset_minutes", 30)
	}
	if !k.Exists("time.marker") {
		k.Set("time.marker", "⏰")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.With("context", "unmarshaling config").Wrap(err)
	}

	// Parse AllowedUsers from a comma-separated string if it came from the
	// environment
	if allowedUsers := k.Get("allowed_users"); allowedUsers != nil {
		if s, ok := allowedUsers.(string); ok {
			cfg.AllowedUsers = ParseAllowedUsers(s)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.TelegramBotToken == "" {
		return errors.ErrMissingBotToken
	}

	for _, rule := range c.StaticRules {
		if _, err := regexp.Compile(rule.Pattern); err != nil {
			return oops.With("pattern", rule.Pattern, "context", "invalid static rule pattern").Wrap(err)
		}
	}

	switch c.Time.Mode {
	case TimeModeOffset:
		// Any offset is accepted; the converter wraps hours modulo 24.
	case TimeModeTimezone:
		if _, err := time.LoadLocation(c.Time.SourceTimezone); err != nil {
			return oops.With("timezone", c.Time.SourceTimezone, "context", "invalid source timezone").Wrap(err)
		}
		if _, err := time.LoadLocation(c.Time.TargetTimezone); err != nil {
			return oops.With("timezone", c.Time.TargetTimezone, "context", "invalid target timezone").Wrap(err)
		}
	default:
		return oops.Errorf("unsupported time mode: %s", c.Time.Mode)
	}

	return nil
}

// ParseAllowedUsers parses a comma-separated user ID string into []int64
func ParseAllowedUsers(s string) []int64 {
	if s == "" {
		return []int64{}
	}
	parts := strings.Split(s, ",")
	return lo.FilterMap(parts, func(part string, _ int) (int64, bool) {
		part = strings.TrimSpace(part)
		if part == "" {
			return 0, false
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return 0, false
		}
		return id, true
	})
}
