// Package config loads runtime settings from the environment and an optional .env file.
package config

import (
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"chronicle-builder/internal/logger"
)

const EnvPrefix = "CHRONICLE_"

type Config struct {
	LogLevel        string  `env:"LOG_LEVEL" envDefault:"info"`
	JSONLogs        bool    `env:"JSON_LOGS" envDefault:"false"`
	WindowWidth     float32 `env:"WINDOW_WIDTH" envDefault:"1280"`
	WindowHeight    float32 `env:"WINDOW_HEIGHT" envDefault:"800"`
	EventBufferSize int     `env:"EVENT_BUFFER_SIZE" envDefault:"256"`
	IPC             IPC     `envPrefix:"IPC_"`
}

// DevFrontendOrigin is the dev server the web front-end runs on.
const DevFrontendOrigin = "http://localhost:5173"

// IPC configures the loopback endpoint that lets a web front-end invoke commands.
// Only AllowedOrigins may call it from a browser.
type IPC struct {
	Enabled        bool     `env:"ENABLED" envDefault:"true"`
	Addr           string   `env:"ADDR" envDefault:"127.0.0.1:1430"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
}

// Load reads the given .env files (default ".env") if present, then the environment.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, errors.Wrapf(err, "load %s", f)
		}
	}

	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, errors.Wrap(err, "parse env")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "invalid CHRONICLE_LOG_LEVEL")
	}
	if c.WindowWidth <= 0 || c.WindowHeight <= 0 {
		return errors.Errorf("window size must be positive, got %.0fx%.0f", c.WindowWidth, c.WindowHeight)
	}
	if c.EventBufferSize <= 0 {
		return errors.Errorf("event buffer size must be positive, got %d", c.EventBufferSize)
	}
	if c.IPC.Enabled && c.IPC.Addr == "" {
		return errors.New("ipc address is required when ipc is enabled")
	}
	return nil
}
