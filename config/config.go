package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// AutoplayParams holds the parameters for the autoplay bot.
type AutoplayParams struct {
	Name               string `json:"name" toml:"name"`
	DelayMinMS         int    `json:"delay_min_ms" toml:"delay_min_ms"`
	DelayMaxMS         int    `json:"delay_max_ms" toml:"delay_max_ms"`
	UseKnownPairChance int    `json:"use_known_pair_chance" toml:"use_known_pair_chance"` // 0-100, probability to play a remembered pair when one is available
	ForgetChance       int    `json:"forget_chance" toml:"forget_chance"`                 // 0-100, probability to forget one remembered card each turn
}

// Config holds all configurable game and server parameters.
type Config struct {
	StartWidth  int `json:"start_width" toml:"start_width"`
	StartHeight int `json:"start_height" toml:"start_height"`

	// PreferredAspect is the target width:height ratio of the whole board.
	PreferredAspect float64 `json:"preferred_aspect" toml:"preferred_aspect"`
	// ScaleAspectByCard makes board growth account for the card image's own aspect ratio.
	ScaleAspectByCard bool `json:"scale_aspect_by_card" toml:"scale_aspect_by_card"`
	CardWidthPx       int  `json:"card_width_px" toml:"card_width_px"`
	CardHeightPx      int  `json:"card_height_px" toml:"card_height_px"`
	CardMarginPx      int  `json:"card_margin_px" toml:"card_margin_px"`

	// RevealDurationMS is how long a resolved pair stays face up. 0 hides it on the next input only.
	RevealDurationMS    int `json:"reveal_duration_ms" toml:"reveal_duration_ms"`
	ReconnectTimeoutSec int `json:"reconnect_timeout_sec" toml:"reconnect_timeout_sec"`
	MaxNameLength       int `json:"max_name_length" toml:"max_name_length"`
	WSPort              int `json:"ws_port" toml:"ws_port"`

	AssetsDir   string `json:"assets_dir" toml:"assets_dir"`
	DatabaseURL string `json:"database_url" toml:"database_url"`
	SQLitePath  string `json:"sqlite_path" toml:"sqlite_path"`
	AuthBaseURL string `json:"auth_base_url" toml:"auth_base_url"`
	JWTSecret   string `json:"jwt_secret" toml:"jwt_secret"`
	LogLevel    string `json:"log_level" toml:"log_level"`

	Autoplay AutoplayParams `json:"autoplay" toml:"autoplay"`
}

// Defaults returns a Config with all default values.
func Defaults() *Config {
	return &Config{
		StartWidth:          3,
		StartHeight:         2,
		PreferredAspect:     16.0 / 9.0,
		ScaleAspectByCard:   false,
		CardWidthPx:         150,
		CardHeightPx:        225,
		CardMarginPx:        6,
		RevealDurationMS:    1000,
		ReconnectTimeoutSec: 120,
		MaxNameLength:       24,
		WSPort:              8080,
		AssetsDir:           "images",
		LogLevel:            "info",
		Autoplay: AutoplayParams{
			Name:               "Mnemosyne",
			DelayMinMS:         150,
			DelayMaxMS:         400,
			UseKnownPairChance: 90,
			ForgetChance:       5,
		},
	}
}

// Aspect returns the width:height ratio, in cells, that board growth aims for.
// With ScaleAspectByCard the preferred ratio is corrected by the card's pixel shape
// so that the drawn board, not the cell grid, approaches PreferredAspect.
func (c *Config) Aspect() float64 {
	ratio := 0.0
	if c.CardWidthPx > 0 && c.CardHeightPx > 0 {
		ratio = float64(c.CardHeightPx) / float64(c.CardWidthPx)
	}
	return c.AspectFor(ratio)
}

// AspectFor is Aspect with the card shape given as a height/width ratio, e.g. that
// of the loaded back image. A non-positive PreferredAspect falls back to 16:9 and a
// non-positive cardRatio leaves it unscaled.
func (c *Config) AspectFor(cardRatio float64) float64 {
	aspect := c.PreferredAspect
	if aspect <= 0 {
		aspect = 16.0 / 9.0
	}
	if c.ScaleAspectByCard && cardRatio > 0 {
		aspect *= cardRatio
	}
	return aspect
}

// Load reads configuration from an optional config.json or config.toml file in the
// working directory, then applies environment variable overrides. Fields not set
// in either source retain their default values.
func Load() *Config {
	for _, name := range []string{"config.json", "config.toml"} {
		if _, err := os.Stat(name); err == nil {
			cfg, err := LoadFile(name)
			if err != nil {
				slog.Warn("failed to parse config file", "tag", "config", "file", name, "err", err)
				break
			}
			return cfg
		}
	}
	cfg := Defaults()
	applyEnv(cfg)
	return cfg
}

// LoadFile reads configuration from the given JSON or TOML file (chosen by extension)
// on top of the defaults, then applies environment variable overrides.
func LoadFile(path string) (*Config, error) {
	cfg := Defaults()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
	case ".json":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		if err := json.NewDecoder(f).Decode(cfg); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	overrideInt(&cfg.StartWidth, "START_WIDTH")
	overrideInt(&cfg.StartHeight, "START_HEIGHT")
	overrideFloat(&cfg.PreferredAspect, "PREFERRED_ASPECT")
	overrideBool(&cfg.ScaleAspectByCard, "SCALE_ASPECT_BY_CARD")
	overrideInt(&cfg.CardWidthPx, "CARD_WIDTH_PX")
	overrideInt(&cfg.CardHeightPx, "CARD_HEIGHT_PX")
	overrideInt(&cfg.RevealDurationMS, "REVEAL_DURATION_MS")
	overrideInt(&cfg.ReconnectTimeoutSec, "RECONNECT_TIMEOUT_SEC")
	overrideInt(&cfg.MaxNameLength, "MAX_NAME_LENGTH")
	overrideInt(&cfg.WSPort, "WS_PORT")
	overrideString(&cfg.AssetsDir, "ASSETS_DIR")
	overrideString(&cfg.DatabaseURL, "DATABASE_URL")
	overrideString(&cfg.SQLitePath, "SQLITE_PATH")
	overrideString(&cfg.AuthBaseURL, "AUTH_BASE_URL")
	overrideString(&cfg.JWTSecret, "JWT_SECRET")
	overrideString(&cfg.LogLevel, "LOG_LEVEL")
	overrideString(&cfg.Autoplay.Name, "AUTOPLAY_NAME")
	overrideInt(&cfg.Autoplay.DelayMinMS, "AUTOPLAY_DELAY_MIN_MS")
	overrideInt(&cfg.Autoplay.DelayMaxMS, "AUTOPLAY_DELAY_MAX_MS")
	overrideInt(&cfg.Autoplay.UseKnownPairChance, "AUTOPLAY_USE_KNOWN_PAIR_CHANCE")
	overrideInt(&cfg.Autoplay.ForgetChance, "AUTOPLAY_FORGET_CHANCE")
}

func overrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			*field = n
		} else {
			slog.Warn("invalid integer in environment", "tag", "config", "key", envKey, "value", val)
		}
	}
}

func overrideFloat(field *float64, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil && f > 0 {
			*field = f
		} else {
			slog.Warn("invalid number in environment", "tag", "config", "key", envKey, "value", val)
		}
	}
}

func overrideBool(field *bool, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*field = b
		} else {
			slog.Warn("invalid boolean in environment", "tag", "config", "key", envKey, "value", val)
		}
	}
}

func overrideString(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}
