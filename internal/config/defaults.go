package config

import "time"

// Default values for configuration
const (
	DefaultLogLevel = "info"

	DefaultPrefix         = "!"
	DefaultCommandTimeout = 2 * time.Minute

	DefaultAIProvider = "openai"
	DefaultAIBaseURL  = "https://api.openai.com/v1"
	DefaultAIModel    = "deepseek-ai/DeepSeek-R1"
	DefaultAITimeout  = 90 * time.Second

	DefaultDBMaxOpenConns    = 10
	DefaultDBMaxIdleConns    = 2
	DefaultDBConnMaxLifetime = time.Hour

	// SQLMaintenanceTask is the scheduler key of the database maintenance task.
	SQLMaintenanceTask        = "sql_maintenance"
	DefaultSQLMaintenanceCron = "0 0 4 * * *"
)

// DefaultMessages are the replies used when config.yaml does not override them.
var DefaultMessages = MessagesConfig{
	Pong:           "Pong",
	NotFound:       "Command Not Found",
	NotAuthorized:  "no.",
	ServerOnly:     "This command only works in a server.",
	HistoryCleared: "History cleared.",
	DatabaseError:  "Couldn't clear the history, database error.",
	GeneralError:   "Something went wrong, please try again later.",
	Timeout:        "That took too long, please try again later.",
}

var defaults = map[string]any{
	"log.level": DefaultLogLevel,
	"log.json":  false,

	"discord.prefix":           DefaultPrefix,
	"discord.admin_user_id":    "",
	"discord.auto_channel_ids": []string{},
	"discord.command_timeout":  DefaultCommandTimeout,

	"ai.provider": DefaultAIProvider,
	"ai.base_url": DefaultAIBaseURL,
	"ai.model":    DefaultAIModel,
	"ai.timeout":  DefaultAITimeout,

	"database.driver":            "",
	"database.max_open_conns":    DefaultDBMaxOpenConns,
	"database.max_idle_conns":    DefaultDBMaxIdleConns,
	"database.conn_max_lifetime": DefaultDBConnMaxLifetime,

	"scheduler.tasks." + SQLMaintenanceTask + ".enabled":  true,
	"scheduler.tasks." + SQLMaintenanceTask + ".schedule": DefaultSQLMaintenanceCron,

	"messages.pong":            DefaultMessages.Pong,
	"messages.not_found":       DefaultMessages.NotFound,
	"messages.not_authorized":  DefaultMessages.NotAuthorized,
	"messages.server_only":     DefaultMessages.ServerOnly,
	"messages.history_cleared": DefaultMessages.HistoryCleared,
	"messages.database_error":  DefaultMessages.DatabaseError,
	"messages.general_error":   DefaultMessages.GeneralError,
	"messages.timeout":         DefaultMessages.Timeout,
}

// envBindings lists keys without defaults plus the variable names the bot
// historically read from its .env file.
var envBindings = map[string][]string{
	"discord.token":    {"API_TOKEN", "DISCORD_TOKEN"},
	"database.dsn":     {"DATABASE_URL"},
	"ai.base_url":      {"AI_URL"},
	"ai.token":         {"AI_TOKEN"},
	"ai.model":         {"AI_MODEL"},
	"ai.system_prompt": {"SYSTEM_PROMPT"},
	"ai.temperature":   nil,
}
