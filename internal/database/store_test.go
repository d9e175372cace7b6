package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/go-sql-driver/mysql"

	"github.com/reibun/reibunbot/internal/config"
)

func newTestStore(t *testing.T) Store {
	t.Helper()

	db, err := NewDB(config.DatabaseConfig{
		Driver: DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "history.db"),
	})
	if err != nil {
		t.Fatalf("NewDB() error = %v", err)
	}
	t.Cleanup(func() { CloseDB(db) })

	return NewStore(db, DriverSQLite, nil)
}

func TestServerHistoryLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t)

	const serverA, serverB int64 = 1261060300979834965, 42

	rows, err := store.GetServerHistory(ctx, serverA)
	if err != nil {
		t.Fatalf("GetServerHistory() on empty table error = %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("GetServerHistory() on empty table returned %d rows", len(rows))
	}

	blobs := []string{
		`{"role":"assistant","content":"猫です"}`,
		`{"role":"assistant","content":"犬がいます"}`,
		`{"role":"assistant","content":"雨が降っています"}`,
	}
	for _, blob := range blobs {
		if err := store.AppendServerHistory(ctx, serverA, blob); err != nil {
			t.Fatalf("AppendServerHistory() error = %v", err)
		}
	}
	if err := store.AppendServerHistory(ctx, serverB, `{"role":"assistant","content":"本を読む"}`); err != nil {
		t.Fatalf("AppendServerHistory() error = %v", err)
	}

	rows, err = store.GetServerHistory(ctx, serverA)
	if err != nil {
		t.Fatalf("GetServerHistory() error = %v", err)
	}
	if len(rows) != len(blobs) {
		t.Fatalf("GetServerHistory() returned %d rows, want %d", len(rows), len(blobs))
	}
	for i, row := range rows {
		if row.ServerID != serverA {
			t.Errorf("row %d server_id = %d, want %d", i, row.ServerID, serverA)
		}
		if !row.JSON.Valid || row.JSON.String != blobs[i] {
			t.Errorf("row %d json = %q, want %q", i, row.JSON.String, blobs[i])
		}
		if i > 0 && row.ID <= rows[i-1].ID {
			t.Errorf("rows not in insertion order: id %d after %d", row.ID, rows[i-1].ID)
		}
	}

	deleted, err := store.DeleteServerHistory(ctx, serverA)
	if err != nil {
		t.Fatalf("DeleteServerHistory() error = %v", err)
	}
	if deleted != int64(len(blobs)) {
		t.Errorf("DeleteServerHistory() = %d, want %d", deleted, len(blobs))
	}

	rows, err = store.GetServerHistory(ctx, serverA)
	if err != nil {
		t.Fatalf("GetServerHistory() after delete error = %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("server A still has %d rows after delete", len(rows))
	}

	rows, err = store.GetServerHistory(ctx, serverB)
	if err != nil {
		t.Fatalf("GetServerHistory() for server B error = %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("server B has %d rows, want 1 untouched row", len(rows))
	}
}

func TestZeroServerIDRejected(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t)

	if _, err := store.GetServerHistory(ctx, 0); err == nil {
		t.Error("GetServerHistory(0) succeeded")
	}
	if err := store.AppendServerHistory(ctx, 0, "{}"); err == nil {
		t.Error("AppendServerHistory(0) succeeded")
	}
	if _, err := store.DeleteServerHistory(ctx, 0); err == nil {
		t.Error("DeleteServerHistory(0) succeeded")
	}
}

func TestRunSQLMaintenance(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t)

	if err := store.Ping(ctx); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
	if err := store.RunSQLMaintenance(ctx); err != nil {
		t.Fatalf("RunSQLMaintenance() error = %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := store.RunSQLMaintenance(cancelled); err == nil {
		t.Error("RunSQLMaintenance() with cancelled context succeeded")
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "twice.db")
	for i := 0; i < 2; i++ {
		db, err := NewDB(config.DatabaseConfig{Driver: DriverSQLite, DSN: path})
		if err != nil {
			t.Fatalf("NewDB() attempt %d error = %v", i+1, err)
		}
		CloseDB(db)
	}
}

func TestMySQLDSN(t *testing.T) {
	t.Parallel()

	passthrough := "bot:pw@tcp(localhost:3306)/reibun"
	got, err := MySQLDSN(passthrough)
	if err != nil || got != passthrough {
		t.Fatalf("MySQLDSN(%q) = %q, %v; want unchanged", passthrough, got, err)
	}

	tests := []struct {
		name   string
		in     string
		user   string
		passwd string
		addr   string
		dbName string
		params map[string]string
	}{
		{
			name:   "url with credentials",
			in:     "mysql://bot:pw@db.example.com:3306/reibun",
			user:   "bot",
			passwd: "pw",
			addr:   "db.example.com:3306",
			dbName: "reibun",
		},
		{
			name:   "url with params",
			in:     "mysql://bot@db.example.com:3306/reibun?sql_mode=ANSI",
			user:   "bot",
			addr:   "db.example.com:3306",
			dbName: "reibun",
			params: map[string]string{"sql_mode": "ANSI"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dsn, err := MySQLDSN(tt.in)
			if err != nil {
				t.Fatalf("MySQLDSN() error = %v", err)
			}
			cfg, err := mysql.ParseDSN(dsn)
			if err != nil {
				t.Fatalf("converted DSN %q does not parse: %v", dsn, err)
			}
			if cfg.User != tt.user || cfg.Passwd != tt.passwd || cfg.Addr != tt.addr || cfg.DBName != tt.dbName {
				t.Errorf("parsed %+v from %q", cfg, dsn)
			}
			if !cfg.ParseTime {
				t.Errorf("parseTime not enabled in %q", dsn)
			}
			for key, want := range tt.params {
				if cfg.Params[key] != want {
					t.Errorf("param %s = %q, want %q", key, cfg.Params[key], want)
				}
			}
		})
	}
}
