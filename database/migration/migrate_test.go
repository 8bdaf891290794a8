package migration

import (
	"context"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/librosapp/authkit/database"
	"github.com/librosapp/authkit/logger"
)

var testMigrations = fstest.MapFS{
	"sql/1_create_books.up.sql":   {Data: []byte("CREATE TABLE books (id TEXT PRIMARY KEY, title TEXT NOT NULL);")},
	"sql/1_create_books.down.sql": {Data: []byte("DROP TABLE books;")},
	"sql/2_add_author.up.sql":     {Data: []byte("ALTER TABLE books ADD COLUMN author TEXT;")},
	"sql/2_add_author.down.sql":   {Data: []byte("ALTER TABLE books DROP COLUMN author;")},
}

func openTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Open(context.Background(), database.Config{
		DSN:        filepath.Join(t.TempDir(), "migrate.db"),
		MaxRetries: 1,
		LogLevel:   "silent",
	}, logger.NewNop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestMigrateUpDown(t *testing.T) {
	db := openTestDB(t)

	v, dirty, err := MigrateVersion(db.GormDB, testMigrations, "sql", SQLite)
	if err != nil || v != 0 || dirty {
		t.Fatalf("fresh database: version=%d dirty=%v err=%v", v, dirty, err)
	}

	if err := MigrateUp(db.GormDB, testMigrations, "sql", SQLite); err != nil {
		t.Fatalf("MigrateUp: %v", err)
	}
	if err := db.GormDB.Exec("INSERT INTO books (id, title, author) VALUES ('1', 'Rayuela', 'Cortázar')").Error; err != nil {
		t.Fatalf("insert after migrate: %v", err)
	}

	v, dirty, err = MigrateVersion(db.GormDB, testMigrations, "sql", SQLite)
	if err != nil || v != 2 || dirty {
		t.Fatalf("after up: version=%d dirty=%v err=%v", v, dirty, err)
	}

	// A second run has nothing to apply.
	if err := MigrateUp(db.GormDB, testMigrations, "sql", SQLite); err != nil {
		t.Fatalf("MigrateUp (no change): %v", err)
	}

	if err := MigrateDown(db.GormDB, testMigrations, "sql", SQLite); err != nil {
		t.Fatalf("MigrateDown: %v", err)
	}
	if db.GormDB.Migrator().HasTable("books") {
		t.Error("expected books table to be dropped")
	}
}

func TestMigrateUp_BadPath(t *testing.T) {
	db := openTestDB(t)
	if err := MigrateUp(db.GormDB, testMigrations, "missing", SQLite); err == nil {
		t.Fatal("expected error for missing migrations directory")
	}
}
