package users

import (
	"context"
	"embed"
	"fmt"
	"time"

	"github.com/librosapp/authkit/database"
	"github.com/librosapp/authkit/database/migration"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// userRecord is the users table row.
type userRecord struct {
	database.BaseModel
	Email        string `gorm:"size:320;not null;uniqueIndex"`
	Name         string `gorm:"size:200;not null"`
	PasswordHash string `gorm:"size:255;not null"`
}

func (userRecord) TableName() string { return "users" }

func (r *userRecord) toUser() *User {
	return &User{
		ID:           r.ID,
		Email:        r.Email,
		Name:         r.Name,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
	}
}

// GormStore persists users in a SQL database through GORM.
type GormStore struct {
	db *database.DB
}

// NewGormStore prepares the users table, either with GORM auto-migration
// or with the embedded versioned migrations, and returns the store.
func NewGormStore(db *database.DB) (*GormStore, error) {
	if db.Config().AutoMigrate {
		if err := db.AutoMigrate(&userRecord{}); err != nil {
			return nil, err
		}
	} else if err := migration.MigrateUp(db.GormDB, migrationsFS, "migrations", migration.SQLite); err != nil {
		return nil, fmt.Errorf("users: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Create(ctx context.Context, u *User) error {
	rec := &userRecord{Email: u.Email, Name: u.Name, PasswordHash: u.PasswordHash}
	rec.ID = u.ID
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		if database.IsDuplicateError(err) {
			return s.duplicateCause(ctx, u)
		}
		return fmt.Errorf("users: create: %w", err)
	}
	*u = *rec.toUser()
	return nil
}

// duplicateCause tells which unique key a failed insert collided with. The
// translated driver error does not name the column.
func (s *GormStore) duplicateCause(ctx context.Context, u *User) error {
	if u.ID == "" {
		return ErrEmailTaken
	}
	if _, err := s.FindByEmail(ctx, u.Email); err == nil {
		return ErrEmailTaken
	}
	if _, err := s.FindByID(ctx, u.ID); err == nil {
		return ErrIDTaken
	}
	return ErrEmailTaken
}

func (s *GormStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	return s.first(ctx, "email = ?", email)
}

func (s *GormStore) FindByID(ctx context.Context, id string) (*User, error) {
	return s.first(ctx, "id = ?", id)
}

func (s *GormStore) first(ctx context.Context, query string, arg string) (*User, error) {
	var rec userRecord
	if err := s.db.WithContext(ctx).Where(query, arg).First(&rec).Error; err != nil {
		if database.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("users: find: %w", err)
	}
	return rec.toUser(), nil
}

func (s *GormStore) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	res := s.db.WithContext(ctx).Model(&userRecord{}).Where("id = ?", id).
		Updates(map[string]interface{}{"password_hash": hash, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return fmt.Errorf("users: update password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
