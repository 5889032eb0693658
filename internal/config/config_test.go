package config

import (
	"os"
	"path/filepath"
	"testing"

	"flight_dwh/internal/warehouse"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(old) })
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for explicitly named missing file")
	}

	// With no explicit path and no file present, defaults apply.
	chdir(t, t.TempDir())
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	if cfg.Driver != warehouse.DriverPostgres {
		t.Errorf("driver = %q, want %q", cfg.Driver, warehouse.DriverPostgres)
	}
	if cfg.Postgres.Port != 5432 {
		t.Errorf("port = %d, want 5432", cfg.Postgres.Port)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flightdwh.yaml")
	data := []byte(`driver: sqlite
postgres:
  host: db.internal
  database: warehouse
sqlite:
  path: /var/lib/dwh/flights.db
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Driver != warehouse.DriverSQLite {
		t.Errorf("driver = %q, want sqlite", cfg.Driver)
	}
	if cfg.Postgres.Host != "db.internal" {
		t.Errorf("host = %q, want db.internal", cfg.Postgres.Host)
	}
	// Unset file fields keep their defaults.
	if cfg.Postgres.Port != 5432 {
		t.Errorf("port = %d, want default 5432", cfg.Postgres.Port)
	}
	if cfg.SQLite.Path != "/var/lib/dwh/flights.db" {
		t.Errorf("sqlite path = %q", cfg.SQLite.Path)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "pg.example.net")
	t.Setenv("DB_PORT", "6432")
	t.Setenv("DB_NAME", "dwh_prod")
	t.Setenv("DB_USER", "loader")
	t.Setenv("DB_PASSWORD", "secret")

	chdir(t, t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Postgres.Host != "pg.example.net" {
		t.Errorf("host = %q, want pg.example.net", cfg.Postgres.Host)
	}
	if cfg.Postgres.Port != 6432 {
		t.Errorf("port = %d, want 6432", cfg.Postgres.Port)
	}
	if cfg.Postgres.Database != "dwh_prod" || cfg.Postgres.User != "loader" || cfg.Postgres.Password != "secret" {
		t.Errorf("postgres = %+v", cfg.Postgres)
	}
}

func TestWarehouseConversion(t *testing.T) {
	cfg := Default()
	cfg.Driver = warehouse.DriverSQLite
	cfg.SQLite.Path = "x.db"

	w := cfg.Warehouse()
	if w.Driver != warehouse.DriverSQLite {
		t.Errorf("driver = %q, want sqlite", w.Driver)
	}
	if w.SQLite.Path != "x.db" {
		t.Errorf("path = %q, want x.db", w.SQLite.Path)
	}
	if w.Postgres.Host != cfg.Postgres.Host {
		t.Errorf("host = %q, want %q", w.Postgres.Host, cfg.Postgres.Host)
	}
}
