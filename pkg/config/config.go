package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	env "github.com/caarlos0/env/v7"
	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL    string        `env:"API_BASE_URL" envDefault:"http://localhost:3005/api"`
	APITimeout    time.Duration `env:"API_TIMEOUT" envDefault:"30s"`
	RetryAttempts int           `env:"API_RETRY_ATTEMPTS" envDefault:"3"`
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`
	SessionDir    string        `env:"SESSION_DIR"`
	PollInterval  time.Duration `env:"WA_POLL_INTERVAL" envDefault:"30s"`
}

func New(envPath string) (Config, error) {
	var c Config

	err := godotenv.Load(envPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}

	err = env.Parse(&c)
	if err != nil {
		return Config{}, err
	}

	if c.SessionDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, err
		}

		c.SessionDir = filepath.Join(home, ".drgestao-admcli")
	}

	return c, nil
}
