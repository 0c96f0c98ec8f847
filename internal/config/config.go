// Package config loads the kiosk's configuration from defaults, an optional
// YAML file and KIOSK_ environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	LogLevel   string         `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	StartScene string         `mapstructure:"start_scene" validate:"required"`
	Window     WindowConfig   `mapstructure:"window"`
	Assets     AssetsConfig   `mapstructure:"assets"`
	Tracking   TrackingConfig `mapstructure:"tracking"`
	Memory     MemoryConfig   `mapstructure:"memory"`
	Menu       MenuConfig     `mapstructure:"menu"`
	Debug      DebugConfig    `mapstructure:"debug"`
}

// WindowConfig sets up the game window.
type WindowConfig struct {
	Title      string `mapstructure:"title"`
	Width      int    `mapstructure:"width" validate:"gt=0"`
	Height     int    `mapstructure:"height" validate:"gt=0"`
	Fullscreen bool   `mapstructure:"fullscreen"`
	HideCursor bool   `mapstructure:"hide_cursor"`
	// DirectInput enables mouse and touch clicks next to gesture input.
	DirectInput bool `mapstructure:"direct_input"`
}

// AssetsConfig locates static assets.
type AssetsConfig struct {
	Dir string `mapstructure:"dir" validate:"required"`
}

// TrackingConfig configures the hand tracker connection.
type TrackingConfig struct {
	// Addr is the websocket listen address; empty disables the server.
	Addr string `mapstructure:"addr" validate:"omitempty,hostname_port"`
	// Buffer is how many samples may queue between ticks.
	Buffer int `mapstructure:"buffer" validate:"gte=1"`
	// DwellFrames > 0 derives clicks from dwell instead of trusting the
	// tracker's click flag.
	DwellFrames uint64  `mapstructure:"dwell_frames"`
	DwellRadius float64 `mapstructure:"dwell_radius" validate:"gte=0,lte=1"`
	Script      string  `mapstructure:"script"`
	ScriptLoop  bool    `mapstructure:"script_loop"`
}

// MemoryConfig overrides the memory game's constants.
type MemoryConfig struct {
	TimeBudget  int           `mapstructure:"time_budget" validate:"gt=0"`
	MatchAward  int           `mapstructure:"match_award" validate:"gte=0"`
	RevealDelay time.Duration `mapstructure:"reveal_delay" validate:"gte=0"`
	Symbols     []string      `mapstructure:"symbols" validate:"min=1,dive,required"`
}

// MenuConfig configures the start menu.
type MenuConfig struct {
	Title   string      `mapstructure:"title"`
	Entries []MenuEntry `mapstructure:"entries" validate:"dive"`
}

// MenuEntry is one start menu button.
type MenuEntry struct {
	Label string `mapstructure:"label" validate:"required"`
	Scene string `mapstructure:"scene" validate:"required"`
}

// DebugConfig enables diagnostics.
type DebugConfig struct {
	// StatsAddr serves runtime statistics when set.
	StatsAddr string `mapstructure:"stats_addr" validate:"omitempty,hostname_port"`
	ShowFPS   bool   `mapstructure:"show_fps"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("start_scene", "StartMenu")

	v.SetDefault("window.title", "Baltazar")
	v.SetDefault("window.width", 1920)
	v.SetDefault("window.height", 1080)
	v.SetDefault("window.fullscreen", false)
	v.SetDefault("window.hide_cursor", false)
	v.SetDefault("window.direct_input", true)

	v.SetDefault("assets.dir", "public")

	v.SetDefault("tracking.addr", "127.0.0.1:8765")
	v.SetDefault("tracking.buffer", 256)
	v.SetDefault("tracking.dwell_frames", 0)
	v.SetDefault("tracking.dwell_radius", 0.02)
	v.SetDefault("tracking.script", "")
	v.SetDefault("tracking.script_loop", false)

	v.SetDefault("memory.time_budget", 120)
	v.SetDefault("memory.match_award", 10)
	v.SetDefault("memory.reveal_delay", "800ms")
	v.SetDefault("memory.symbols", []string{
		"mem-card1", "mem-card2", "mem-card3", "mem-card4", "mem-card5", "mem-card6",
	})

	v.SetDefault("menu.title", "Baltazar")
	v.SetDefault("menu.entries", []map[string]any{
		{"label": "Crtanje", "scene": "Drawing"},
		{"label": "Memory", "scene": "Memory"},
		{"label": "KSP", "scene": "KSP"},
	})

	v.SetDefault("debug.stats_addr", "")
	v.SetDefault("debug.show_fps", false)
}

// Load reads the configuration. configFile may be empty to use defaults and
// the environment only. Environment variables use the KIOSK_ prefix with
// dots replaced by underscores (KIOSK_WINDOW_WIDTH).
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("KIOSK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %q: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
