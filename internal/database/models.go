package database

import "database/sql"

// ServerData is one stored history turn for a Discord server. JSON holds a
// serialized {"role","content"} pair; rows are append-only and ordered by ID.
type ServerData struct {
	ID       int64          `db:"id"`
	ServerID int64          `db:"server_id"`
	JSON     sql.NullString `db:"json"`
}
