package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by LoadSettings.
const EnvPrefix = "AANBIEDERS"

const envFileVar = EnvPrefix + "_ENV_FILE"

// Settings are the values read from the environment and the config file.
type Settings struct {
	Key      string        `mapstructure:"key"`
	Secret   string        `mapstructure:"secret"`
	Host     string        `mapstructure:"host"`
	Output   string        `mapstructure:"output"`
	Timeout  time.Duration `mapstructure:"timeout"`
	RedisURL string        `mapstructure:"redis_url"`
	Profile  string        `mapstructure:"profile"`
}

var settingKeys = []string{"key", "secret", "host", "output", "timeout", "redis_url", "profile"}

// DefaultConfigPath returns "$XDG_CONFIG_HOME/aanbieders/config.yaml" or
// the platform equivalent.
func DefaultConfigPath() (string, error) {
	dir, err := userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, serviceName, "config.yaml"), nil
}

// LoadSettings reads AANBIEDERS_* variables and the YAML config file. An
// explicit path must exist; the default path is optional. Environment
// variables win over the file.
func LoadSettings(path string) (Settings, error) {
	vip := viper.New()
	vip.SetConfigType("yaml")
	vip.SetEnvPrefix(EnvPrefix)
	vip.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range settingKeys {
		if err := vip.BindEnv(key); err != nil {
			return Settings{}, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		if p, err := DefaultConfigPath(); err == nil {
			path = p
		}
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil || explicit {
			vip.SetConfigFile(path)
			if err := vip.ReadInConfig(); err != nil {
				var notFound viper.ConfigFileNotFoundError
				if !errors.As(err, &notFound) || explicit {
					return Settings{}, fmt.Errorf("failed to read config file: %w", err)
				}
			}
		}
	}

	var s Settings
	if err := vip.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return s, nil
}

// LoadDotEnv loads path, or $AANBIEDERS_ENV_FILE, or ./.env into the process
// environment. Variables that are already set are kept. A missing default
// file is not an error.
func LoadDotEnv(path string) error {
	explicit := true
	if strings.TrimSpace(path) == "" {
		path = firstNonBlankEnv(envFileVar)
	}
	if path == "" {
		path = ".env"
		explicit = false
	}
	if _, err := os.Stat(path); err != nil {
		if !explicit && os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read env file %q: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %q: %w", path, err)
	}
	return nil
}
