package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-remote/internal/mines"
)

type Duration struct{ time.Duration }

// [Duration] implements [json.Marshaler]
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		var err error
		d.Duration, err = time.ParseDuration(value)
		if err != nil {
			return err
		}
		return nil
	default:
		return errors.New("invalid duration")
	}
}

type BoardConfig struct {
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	MineCount  int    `json:"mine_count"`
	LayoutPath string `json:"layout_path"`
}

func (b BoardConfig) Params() mines.Params {
	return mines.Params{Width: b.Width, Height: b.Height, MineCount: b.MineCount}
}

type RemoteConfig struct {
	Enabled    bool     `json:"enabled"`
	Port       string   `json:"port"`
	BaudRate   int      `json:"baud_rate"`
	RetryDelay Duration `json:"retry_delay"`
}

type SpectateConfig struct {
	Addr            string   `json:"addr"` /* empty disables the server */
	AllowedOrigins  []string `json:"allowed_origins"`
	ShutdownTimeout Duration `json:"shutdown_timeout"`
}

type LogConfig struct {
	File       string `json:"file"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
}

type Config struct {
	Mode     string         `json:"mode"`
	TickRate int            `json:"tick_rate"`
	Board    BoardConfig    `json:"board"`
	Remote   RemoteConfig   `json:"remote"`
	Spectate SpectateConfig `json:"spectate"`
	Log      LogConfig      `json:"log"`
}

func Default() *Config {
	return &Config{
		Mode:     "production",
		TickRate: 30,
		Board: BoardConfig{
			Width:     mines.Beginner.Width,
			Height:    mines.Beginner.Height,
			MineCount: mines.Beginner.MineCount,
		},
		Remote: RemoteConfig{
			BaudRate:   9600,
			RetryDelay: Duration{2 * time.Second},
		},
		Spectate: SpectateConfig{
			ShutdownTimeout: Duration{5 * time.Second},
		},
		Log: LogConfig{
			File:       "sweeper.log",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Load reads the JSON file at path over the defaults. An empty path
// yields the defaults. A DEVELOPMENT env variable other than "0" forces
// development mode.
func Load(path string) (*Config, error) {
	config := Default()
	if path != "" {
		if err := ReadConfig(path, config); err != nil {
			return nil, fmt.Errorf("unable to read config %s: %w", path, err)
		}
	}
	if development, ok := os.LookupEnv("DEVELOPMENT"); ok && development != "0" {
		config.Mode = "development"
	}
	return config, nil
}

func ReadConfig(path string, config *Config) error {
	if b, err := os.ReadFile(path); err != nil {
		return err
	} else {
		return json.Unmarshal(b, config)
	}
}

// LoadEnv loads .env style files into the environment, skipping the ones
// that do not exist.
func LoadEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("unable to load %s: %w", f, err)
		}
	}
	return nil
}

func (c Config) Validate() error {
	if c.TickRate < 1 || c.TickRate > 240 {
		return fmt.Errorf("tick_rate must be within [1, 240], got %d", c.TickRate)
	}
	if c.Board.LayoutPath == "" {
		if err := c.Board.Params().Validate(); err != nil {
			return err
		}
	}
	if c.Remote.BaudRate < 0 {
		return fmt.Errorf("baud_rate must not be negative")
	}
	return nil
}

func (c Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}

func (c Config) Production() bool {
	return c.Mode == "production"
}

func (c Config) Development() bool {
	return c.Mode != "production"
}

func (c Config) Fields() logrus.Fields {
	return map[string]any{
		"mode":             c.Mode,
		"tick_rate":        c.TickRate,
		"board":            c.Board.Params().Seed(),
		"layout_path":      c.Board.LayoutPath,
		"remote_enabled":   c.Remote.Enabled,
		"remote_port":      c.Remote.Port,
		"remote_baud_rate": c.Remote.BaudRate,
		"spectate_addr":    c.Spectate.Addr,
		"log_file":         c.Log.File,
	}
}
