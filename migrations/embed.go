// Package migrations embeds SQL migration files for database schema management.
// Each supported driver has its own directory of dialect-specific files.
package migrations

import "embed"

// FS holds the embedded SQL migration files.
//
//go:embed sqlite/*.sql postgres/*.sql mysql/*.sql
var FS embed.FS
