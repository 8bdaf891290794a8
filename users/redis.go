package users

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/librosapp/authkit/redis"
)

// redisUser is the JSON document stored per user. User itself hides the
// hash from JSON, so the stored shape is separate.
type redisUser struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (r *redisUser) toUser() *User {
	u := User(*r)
	return &u
}

// RedisStore keeps each user as a JSON document at <prefix>:users:<id>
// with an email index at <prefix>:users:email:<email> claimed via SETNX.
type RedisStore struct {
	client  *redis.Client
	records *redis.TypedStore[redisUser]
	now     func() time.Time
}

// NewRedisStore returns a store backed by client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client:  client,
		records: redis.NewTypedStore[redisUser](client, "users"),
		now:     time.Now,
	}
}

func (s *RedisStore) emailKey(email string) string {
	return s.client.Key("users", "email", email)
}

func (s *RedisStore) Create(ctx context.Context, u *User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	claimed, err := s.client.SetNX(ctx, s.emailKey(u.Email), u.ID, 0)
	if err != nil {
		return fmt.Errorf("users: claim email: %w", err)
	}
	if !claimed {
		return ErrEmailTaken
	}

	now := s.now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	rec := redisUser(*u)
	created, err := s.records.Create(ctx, u.ID, &rec, 0)
	if err != nil || !created {
		_ = s.client.Del(ctx, s.emailKey(u.Email))
	}
	if err != nil {
		return fmt.Errorf("users: create: %w", err)
	}
	if !created {
		return ErrIDTaken
	}
	return nil
}

func (s *RedisStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	id, err := s.client.Get(ctx, s.emailKey(email))
	if err != nil {
		if redis.IsNil(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("users: find: %w", err)
	}
	return s.FindByID(ctx, id)
}

func (s *RedisStore) FindByID(ctx context.Context, id string) (*User, error) {
	rec, err := s.records.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("users: find: %w", err)
	}
	if rec == nil {
		return nil, ErrNotFound
	}
	return rec.toUser(), nil
}

func (s *RedisStore) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	err := s.records.Update(ctx, id, 0, func(rec *redisUser) error {
		rec.PasswordHash = hash
		rec.UpdatedAt = s.now().UTC()
		return nil
	})
	if redis.IsNil(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("users: update password: %w", err)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}
