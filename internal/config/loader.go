package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "REIBUN"

// Load loads and validates configuration from:
//  1. Default values
//  2. A .env file in the working directory, if present
//  3. config.yaml (or the file given by path)
//  4. REIBUN_* environment variables and the legacy variable names
func Load(path string) (*Config, error) {
	cfg, v, err := read(path)
	if err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	slog.Debug("configuration loaded",
		"config_file", v.ConfigFileUsed(),
		"ai_provider", cfg.AI.Provider,
		"ai_model", cfg.AI.Model,
		"db_driver", cfg.Database.Driver,
		"prefix", cfg.Discord.Prefix)

	return cfg, nil
}

// LoadDatabase loads configuration from the same sources as Load but only
// validates the log and database sections. Offline tools that never reach
// Discord or the AI backend use it.
func LoadDatabase(path string) (*Config, error) {
	cfg, v, err := read(path)
	if err != nil {
		return nil, err
	}

	validate := validator.New()
	if err := validate.Struct(&cfg.Log); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	if err := validate.Struct(&cfg.Database); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	slog.Debug("database configuration loaded",
		"config_file", v.ConfigFileUsed(),
		"db_driver", cfg.Database.Driver)

	return cfg, nil
}

// read merges every configuration source into an unvalidated Config.
func read(path string) (*Config, *viper.Viper, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, nil, fmt.Errorf("%w: failed to load .env file: %v", ErrConfiguration, err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, legacy := range envBindings {
		names := append([]string{key, envName(key)}, legacy...)
		if err := v.BindEnv(names...); err != nil {
			return nil, nil, fmt.Errorf("%w: failed to bind %s: %v", ErrConfiguration, key, err)
		}
	}

	if err := readConfigFile(v, path); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, nil, fmt.Errorf("%w: failed to parse config: %v", ErrConfiguration, err)
	}

	normalize(cfg)
	return cfg, v, nil
}

// readConfigFile reads path when given. Without a path, a missing
// ./config.yaml is not an error.
func readConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		return nil
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return nil
}

func envName(key string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// normalize fills values derived from other settings.
func normalize(cfg *Config) {
	cfg.Discord.Prefix = strings.TrimSpace(cfg.Discord.Prefix)
	cfg.AI.Provider = strings.ToLower(cfg.AI.Provider)
	cfg.Database.Driver = strings.ToLower(cfg.Database.Driver)
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = DriverFromDSN(cfg.Database.DSN)
	}
}

// DriverFromDSN infers the database driver from the DSN scheme. Anything
// without a recognised scheme is treated as a SQLite path.
func DriverFromDSN(dsn string) string {
	lower := strings.ToLower(dsn)
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return "postgres"
	case strings.HasPrefix(lower, "mysql://"), strings.HasPrefix(lower, "mariadb://"):
		return "mysql"
	default:
		return "sqlite"
	}
}

// IsAdmin reports whether userID is the configured bot administrator.
func (c *DiscordConfig) IsAdmin(userID string) bool {
	return c.AdminUserID != "" && userID == c.AdminUserID
}
