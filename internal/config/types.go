// Package config manages application configuration from environment variables,
// an optional .env file, config files, and default values.
package config

import (
	"errors"
	"time"
)

// ErrConfiguration wraps every failure to produce a usable Config.
var ErrConfiguration = errors.New("configuration error")

// Config defines the application configuration. Values can be set via environment
// variables prefixed with REIBUN_ (e.g., REIBUN_AI_TOKEN) or through config.yaml.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Discord   DiscordConfig   `mapstructure:"discord"`
	AI        AIConfig        `mapstructure:"ai"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Messages  MessagesConfig  `mapstructure:"messages"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// DiscordConfig holds gateway credentials and command routing settings.
type DiscordConfig struct {
	Token          string        `mapstructure:"token"            validate:"required"`
	Prefix         string        `mapstructure:"prefix"           validate:"required"`
	AdminUserID    string        `mapstructure:"admin_user_id"    validate:"omitempty,numeric"`
	AutoChannelIDs []string      `mapstructure:"auto_channel_ids" validate:"dive,numeric"`
	CommandTimeout time.Duration `mapstructure:"command_timeout"  validate:"min=1s,max=10m"`
}

// AIConfig selects and configures the completion provider.
type AIConfig struct {
	Provider     string        `mapstructure:"provider"      validate:"required,oneof=openai gemini"`
	BaseURL      string        `mapstructure:"base_url"      validate:"omitempty,url"`
	Token        string        `mapstructure:"token"         validate:"required"`
	Model        string        `mapstructure:"model"         validate:"required"`
	SystemPrompt string        `mapstructure:"system_prompt" validate:"required"`
	Temperature  *float32      `mapstructure:"temperature"   validate:"omitempty,min=0,max=2"`
	Timeout      time.Duration `mapstructure:"timeout"       validate:"min=1s,max=10m"`
}

// DatabaseConfig describes the relational store holding server history.
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"            validate:"required,oneof=sqlite postgres mysql"`
	DSN             string        `mapstructure:"dsn"               validate:"required"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"    validate:"min=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"    validate:"min=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// SchedulerConfig lists the background tasks by name.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks" validate:"dive"`
}

// TaskConfig enables a task and gives its cron schedule (with seconds field).
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule" validate:"required_if=Enabled true"`
}

// MessagesConfig holds every user-facing reply string.
type MessagesConfig struct {
	Pong           string `mapstructure:"pong"            validate:"required"`
	NotFound       string `mapstructure:"not_found"       validate:"required"`
	NotAuthorized  string `mapstructure:"not_authorized"  validate:"required"`
	ServerOnly     string `mapstructure:"server_only"     validate:"required"`
	HistoryCleared string `mapstructure:"history_cleared" validate:"required"`
	DatabaseError  string `mapstructure:"database_error"  validate:"required"`
	GeneralError   string `mapstructure:"general_error"   validate:"required"`
	Timeout        string `mapstructure:"timeout"         validate:"required"`
}
