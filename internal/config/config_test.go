package config

import "testing"

func TestPostgresDSN(t *testing.T) {
	cfg := PostgresConfig{
		Host: "db", Port: "5433", User: "u", Password: "p", DBName: "wedding", SSLMode: "disable",
	}
	want := "host=db port=5433 user=u password=p dbname=wedding sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr == "" {
		t.Error("Addr default missing")
	}
	if cfg.StoreDriver != "sheets" {
		t.Errorf("StoreDriver = %q, want sheets", cfg.StoreDriver)
	}
	if cfg.LodgingCapacity <= 0 {
		t.Errorf("LodgingCapacity = %d, want a positive default", cfg.LodgingCapacity)
	}
}
