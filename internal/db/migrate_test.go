package db

import (
	"strings"
	"testing"
)

func TestEmbeddedMigrationsCreateTables(t *testing.T) {
	files, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}
	var all strings.Builder
	for _, f := range files {
		b, err := migrationsFS.ReadFile("migrations/" + f.Name())
		if err != nil {
			t.Fatalf("read %s: %v", f.Name(), err)
		}
		all.Write(b)
	}
	sql := all.String()
	for _, table := range []string{"payment_confirmations", "orders", "pickup_orders", "staff_users", "audit_logs"} {
		if !strings.Contains(sql, "CREATE TABLE IF NOT EXISTS "+table+" (") {
			t.Errorf("no migration creates %s", table)
		}
	}
}
