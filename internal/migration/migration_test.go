package migration

import (
	"database/sql"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/ticktock/migrations"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func migrationFS(files map[string]string) fstest.MapFS {
	out := fstest.MapFS{}
	for name, body := range files {
		out[name] = &fstest.MapFile{Data: []byte(body)}
	}
	return out
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", name).Scan(&n); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	return n == 1
}

func TestGetCurrentVersion(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, migrationFS(map[string]string{
		"001_test.sql": "CREATE TABLE test (id INTEGER);",
	}))

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("expected version 0, got %d", version)
	}

	if err := runner.SetVersion(5); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}
	version, err = runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 5 {
		t.Errorf("expected version 5, got %d", version)
	}
}

func TestReadMigrationFiles(t *testing.T) {
	runner := NewRunner(setupTestDB(t), migrationFS(map[string]string{
		"002_history.sql": "CREATE TABLE history (id TEXT);",
		"001_init.sql":    "CREATE TABLE kv (key TEXT);",
		"README.md":       "not a migration",
	}))

	all, err := runner.ReadMigrationFiles()
	if err != nil {
		t.Fatalf("ReadMigrationFiles failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 migrations, got %d", len(all))
	}
	if all[0].Version != 1 || all[0].Name != "init" {
		t.Errorf("first migration = %+v", all[0])
	}
	if all[1].Version != 2 || all[1].Name != "history" {
		t.Errorf("second migration = %+v", all[1])
	}
}

func TestApplyMigrationsFromScratch(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, migrationFS(map[string]string{
		"001_init.sql":    "CREATE TABLE kv (key TEXT PRIMARY KEY, value BLOB);",
		"002_history.sql": "CREATE TABLE history (id TEXT PRIMARY KEY);",
	}))

	var logged []string
	count, err := runner.ApplyMigrations(func(msg string) { logged = append(logged, msg) })
	if err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 migrations applied, got %d", count)
	}
	if len(logged) == 0 {
		t.Error("expected progress messages")
	}

	version, _ := runner.GetCurrentVersion()
	if version != 2 {
		t.Errorf("expected version 2, got %d", version)
	}
	if !tableExists(t, db, "kv") || !tableExists(t, db, "history") {
		t.Error("tables were not created")
	}
}

func TestApplyMigrationsIncremental(t *testing.T) {
	db := setupTestDB(t)
	files := migrationFS(map[string]string{
		"001_init.sql": "CREATE TABLE kv (key TEXT PRIMARY KEY);",
	})
	runner := NewRunner(db, files)

	if count, err := runner.ApplyMigrations(nil); err != nil || count != 1 {
		t.Fatalf("first ApplyMigrations = %d, %v", count, err)
	}

	files["002_history.sql"] = &fstest.MapFile{Data: []byte("CREATE TABLE history (id TEXT);")}
	if count, err := runner.ApplyMigrations(nil); err != nil || count != 1 {
		t.Fatalf("second ApplyMigrations = %d, %v", count, err)
	}

	if version, _ := runner.GetCurrentVersion(); version != 2 {
		t.Errorf("expected version 2, got %d", version)
	}
}

func TestApplyMigrationsNoOp(t *testing.T) {
	runner := NewRunner(setupTestDB(t), migrationFS(map[string]string{
		"001_init.sql": "CREATE TABLE kv (key TEXT PRIMARY KEY);",
	}))

	if _, err := runner.ApplyMigrations(nil); err != nil {
		t.Fatalf("ApplyMigrations (1st) failed: %v", err)
	}
	count, err := runner.ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("ApplyMigrations (2nd) failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 migrations applied on second run, got %d", count)
	}
}

func TestMigrationRollbackOnError(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, migrationFS(map[string]string{
		"001_init.sql": `
			CREATE TABLE kv (key TEXT PRIMARY KEY);
			THIS IS INVALID SQL;
		`,
	}))

	if _, err := runner.ApplyMigrations(nil); err == nil {
		t.Fatal("ApplyMigrations should have failed with invalid SQL")
	}

	if version, _ := runner.GetCurrentVersion(); version != 0 {
		t.Errorf("expected version 0 after failed migration, got %d", version)
	}
	if tableExists(t, db, "kv") {
		t.Error("table should not exist after failed migration")
	}
}

func TestValidateVersionNewerDatabase(t *testing.T) {
	runner := NewRunner(setupTestDB(t), migrationFS(map[string]string{
		"001_init.sql": "CREATE TABLE kv (key TEXT PRIMARY KEY);",
	}))

	if err := runner.SetVersion(10); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}

	err := runner.ValidateVersion()
	if err == nil || !strings.Contains(err.Error(), "newer than supported") {
		t.Fatalf("ValidateVersion() error = %v, want newer-schema error", err)
	}
	if _, err := runner.ApplyMigrations(nil); err == nil {
		t.Fatal("ApplyMigrations should have failed with newer database version")
	}
}

func TestGetLatestVersion(t *testing.T) {
	runner := NewRunner(setupTestDB(t), migrationFS(map[string]string{
		"001_init.sql":   "CREATE TABLE kv (id INTEGER);",
		"003_posts.sql":  "CREATE TABLE posts (id INTEGER);",
		"002_update.sql": "ALTER TABLE kv ADD COLUMN name TEXT;",
	}))

	latest, err := runner.GetLatestVersion()
	if err != nil {
		t.Fatalf("GetLatestVersion failed: %v", err)
	}
	if latest != 3 {
		t.Errorf("expected latest version 3, got %d", latest)
	}
}

func TestReadMigrationFiles_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		wantErr string
	}{
		{"no underscore", map[string]string{"001init.sql": "SELECT 1;"}, "invalid migration filename"},
		{"not a number", map[string]string{"abc_init.sql": "SELECT 1;"}, "invalid version number"},
		{"zero version", map[string]string{"000_init.sql": "SELECT 1;"}, "version must be at least 1"},
		{"duplicate", map[string]string{"001_init.sql": "SELECT 1;", "001_other.sql": "SELECT 1;"}, "duplicate migration version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := NewRunner(setupTestDB(t), migrationFS(tt.files))
			_, err := runner.ReadMigrationFiles()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ReadMigrationFiles() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestEmbeddedSQLiteMigrations(t *testing.T) {
	sub, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		t.Fatal(err)
	}
	db := setupTestDB(t)
	runner := NewRunner(db, sub)

	if _, err := runner.ApplyMigrations(nil); err != nil {
		t.Fatalf("embedded migrations failed: %v", err)
	}
	if !tableExists(t, db, "kv") {
		t.Error("kv table missing after embedded migrations")
	}
	if err := runner.ValidateVersion(); err != nil {
		t.Errorf("ValidateVersion() = %v", err)
	}
}

func TestEmbeddedPostgresMigrationsParse(t *testing.T) {
	sub, err := fs.Sub(migrations.FS, "postgres")
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(nil, sub).WithDialect(DialectPostgres)

	all, err := runner.ReadMigrationFiles()
	if err != nil {
		t.Fatalf("ReadMigrationFiles failed: %v", err)
	}
	if len(all) == 0 || all[0].Version != 1 {
		t.Errorf("postgres migrations = %+v", all)
	}
	if !strings.Contains(runner.insertVersionSQL(), "$1") {
		t.Errorf("postgres dialect uses %q", runner.insertVersionSQL())
	}
}
