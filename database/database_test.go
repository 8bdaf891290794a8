package database

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	apperrors "github.com/librosapp/authkit/errors"
	"github.com/librosapp/authkit/logger"
)

type book struct {
	BaseModel
	Title string `gorm:"size:200;not null;uniqueIndex"`
}

func openTestDB(t *testing.T, log *logger.Logger) *DB {
	t.Helper()
	db, err := Open(context.Background(), Config{
		DSN:        filepath.Join(t.TempDir(), "test.db"),
		MaxRetries: 1,
		LogLevel:   "silent",
	}, log)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := db.AutoMigrate(&book{}); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	return db
}

func TestOpen_RejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "mysql"}, logger.NewNop())
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestOpen_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Open(ctx, Config{DSN: filepath.Join(t.TempDir(), "x.db")}, logger.NewNop())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestConnect_ClosesPoolWhenChecksFail(t *testing.T) {
	sqlDB, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "attempt.db"))
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := Config{}
	cfg.ApplyDefaults()
	db, err := connect(ctx, &sqlite.Dialector{Conn: sqlDB}, &gorm.Config{}, cfg)
	if err == nil || db != nil {
		t.Fatalf("expected failed attempt, got db=%v err=%v", db, err)
	}
	if err := sqlDB.Ping(); err == nil {
		t.Fatal("expected the failed attempt's pool to be closed")
	}
}

func TestDB_PingAndClose(t *testing.T) {
	db := openTestDB(t, logger.NewNop())
	ctx := context.Background()

	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("PingContext: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if err := db.PingContext(ctx); err == nil {
		t.Fatal("expected ping on closed database to fail")
	}
}

func TestBaseModel_GeneratesID(t *testing.T) {
	db := openTestDB(t, logger.NewNop())
	b := &book{Title: "Cien años de soledad"}
	if err := db.WithContext(context.Background()).Create(b).Error; err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(b.ID) != 36 {
		t.Fatalf("expected uuid id, got %q", b.ID)
	}
	if b.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestDuplicateAndNotFound(t *testing.T) {
	db := openTestDB(t, logger.NewNop())
	ctx := context.Background()

	if err := db.WithContext(ctx).Create(&book{Title: "Ficciones"}).Error; err != nil {
		t.Fatalf("Create: %v", err)
	}
	err := db.WithContext(ctx).Create(&book{Title: "Ficciones"}).Error
	if !IsDuplicateError(err) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if appErr := FromDatabase(err, "book"); appErr.HTTPStatus != http.StatusConflict {
		t.Errorf("expected 409, got %d", appErr.HTTPStatus)
	}

	var missing book
	err = db.WithContext(ctx).Where("title = ?", "Aleph").First(&missing).Error
	if !IsNotFoundError(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if appErr := FromDatabase(err, "book"); appErr.Code != apperrors.ErrCodeNotFound {
		t.Errorf("expected NOT_FOUND, got %s", appErr.Code)
	}
	if FromDatabase(nil, "book") != nil {
		t.Error("expected nil for nil error")
	}
	if appErr := FromDatabase(errors.New("disk I/O error"), "book"); appErr.Code != apperrors.ErrCodeDatabaseError {
		t.Errorf("expected DATABASE_ERROR, got %s", appErr.Code)
	}
}

func TestWithTransaction(t *testing.T) {
	db := openTestDB(t, logger.NewNop())
	ctx := context.Background()

	boom := errors.New("boom")
	err := db.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&book{Title: "Rayuela"}).Error; err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	var count int64
	db.WithContext(ctx).Model(&book{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected rollback, found %d rows", count)
	}

	err = db.WithTransaction(ctx, func(tx *gorm.DB) error {
		return tx.Create(&book{Title: "Rayuela"}).Error
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	db.WithContext(ctx).Model(&book{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 row after commit, got %d", count)
	}
}

func TestWithTransaction_PanicRollsBack(t *testing.T) {
	db := openTestDB(t, logger.NewNop())
	ctx := context.Background()

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic to propagate")
			}
		}()
		_ = db.WithTransaction(ctx, func(tx *gorm.DB) error {
			tx.Create(&book{Title: "Pedro Páramo"})
			panic("boom")
		})
	}()

	var count int64
	db.WithContext(ctx).Model(&book{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected rollback after panic, found %d rows", count)
	}
}

func TestGormLogger_DoesNotLogBoundValues(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, "test", &buf)

	db, err := Open(context.Background(), Config{
		DSN:        filepath.Join(t.TempDir(), "log.db"),
		MaxRetries: 1,
		LogLevel:   "info",
	}, log)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()
	if err := db.AutoMigrate(&book{}); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}

	secret := "$argon2id$v=19$m=65536,t=3,p=1$c2FsdA$aGFzaA"
	if err := db.WithContext(context.Background()).Create(&book{Title: secret}).Error; err != nil {
		t.Fatalf("Create: %v", err)
	}

	out := buf.String()
	if strings.Contains(out, secret) {
		t.Fatal("query log leaked a bound value")
	}
	if !strings.Contains(out, "INSERT INTO books") {
		t.Errorf("expected statement summary in log, got:\n%s", out)
	}
}

func TestStatementSummary(t *testing.T) {
	tests := map[string]string{
		"SELECT * FROM `users` WHERE email = 'a@b.com' LIMIT 1": "SELECT FROM users",
		`INSERT INTO "users" ("id","email") VALUES ('1','a')`:    "INSERT INTO users",
		"UPDATE `users` SET `password`='x'":                      "UPDATE users",
		"CREATE TABLE `books` (`id` text)":                       "CREATE TABLE books",
		"PRAGMA foreign_keys":                                    "PRAGMA",
		"":                                                       "",
	}
	for in, want := range tests {
		if got := statementSummary(in); got != want {
			t.Errorf("statementSummary(%q) = %q, want %q", in, got, want)
		}
	}
}
