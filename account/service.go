// Package account implements the register, login and profile flows on top
// of the credential codec, the token service and the user store.
package account

import (
	"context"
	"errors"
	"sync"

	"github.com/librosapp/authkit/auth/jwt"
	apperrors "github.com/librosapp/authkit/errors"
	"github.com/librosapp/authkit/logger"
	"github.com/librosapp/authkit/server/middleware"
	"github.com/librosapp/authkit/users"
	"github.com/librosapp/authkit/util"
	"github.com/librosapp/authkit/validation"
)

// Client-facing messages.
const (
	MsgEmailTaken         = "El email ya está registrado"
	MsgInvalidCredentials = "Credenciales inválidas"
)

// Codec hashes and verifies passwords. *password.Argon2Hasher satisfies it.
type Codec interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) bool
	NeedsRehash(encodedHash string) bool
}

// TokenIssuer signs tokens. *jwt.Service satisfies it.
type TokenIssuer interface {
	Issue(id jwt.Identity) (string, error)
}

// RegisterInput is the register request body.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=320"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

// LoginInput is the login request body.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Session is returned by a successful register or login.
type Session struct {
	Token string        `json:"token"`
	User  users.Profile `json:"user"`
}

// Service runs the account flows. It is safe for concurrent use.
type Service struct {
	store  users.Store
	codec  Codec
	tokens TokenIssuer
	log    *logger.Logger

	dummyOnce sync.Once
	dummyHash string
}

// NewService wires the account flows.
func NewService(store users.Store, codec Codec, tokens TokenIssuer, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{store: store, codec: codec, tokens: tokens, log: log.WithComponent("account")}
}

// Register creates an account and returns a session for it.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	in.Name = util.CleanText(in.Name)
	in.Email = util.NormalizeEmail(in.Email)
	if err := validation.Validate(in); err != nil {
		return nil, err
	}

	// Checked up front so duplicates skip the hashing cost; Create still
	// enforces uniqueness for concurrent registrations.
	if _, err := s.store.FindByEmail(ctx, in.Email); err == nil {
		return nil, apperrors.AlreadyExists(MsgEmailTaken)
	} else if !errors.Is(err, users.ErrNotFound) {
		return nil, apperrors.DatabaseError(err)
	}

	hash, err := s.codec.Hash(in.Password)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	u := &users.User{Email: in.Email, Name: in.Name, PasswordHash: hash}
	if err := s.store.Create(ctx, u); err != nil {
		if errors.Is(err, users.ErrEmailTaken) {
			return nil, apperrors.AlreadyExists(MsgEmailTaken)
		}
		return nil, apperrors.DatabaseError(err)
	}

	s.log.WithContext(ctx).Info("User registered", map[string]interface{}{
		logger.FieldUserID: u.ID,
	})
	return s.session(u)
}

// Login checks credentials and returns a session. Unknown emails and wrong
// passwords produce the same error.
func (s *Service) Login(ctx context.Context, in LoginInput) (*Session, error) {
	in.Email = util.NormalizeEmail(in.Email)
	if err := validation.Validate(in); err != nil {
		return nil, err
	}

	u, err := s.store.FindByEmail(ctx, in.Email)
	if err != nil {
		if !errors.Is(err, users.ErrNotFound) {
			return nil, apperrors.DatabaseError(err)
		}
		// Spend the same hashing work as a real comparison.
		s.codec.Verify(in.Password, s.dummy())
		return nil, apperrors.Unauthorized(MsgInvalidCredentials)
	}

	if !s.codec.Verify(in.Password, u.PasswordHash) {
		s.log.WithContext(ctx).Debug("Login rejected", map[string]interface{}{
			logger.FieldUserID: u.ID,
			logger.FieldReason: "password mismatch",
		})
		return nil, apperrors.Unauthorized(MsgInvalidCredentials)
	}

	if s.codec.NeedsRehash(u.PasswordHash) {
		s.rehash(ctx, u, in.Password)
	}
	return s.session(u)
}

// Profile loads the account the claims were issued for.
func (s *Service) Profile(ctx context.Context, claims *jwt.Claims) (users.Profile, error) {
	if !claims.Complete() {
		return users.Profile{}, apperrors.Unauthorized(middleware.MsgTokenInvalid)
	}
	// Every stored id is a UUID; anything else cannot name an account.
	id, err := util.ValidateUUID(logger.FieldUserID, claims.UserID)
	if err != nil {
		return users.Profile{}, apperrors.NotFound("usuario", claims.UserID)
	}
	u, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return users.Profile{}, apperrors.NotFound("usuario", claims.UserID)
		}
		return users.Profile{}, apperrors.DatabaseError(err)
	}
	return u.Public(), nil
}

// rehash upgrades a stored hash to the current parameters. Failures are
// logged and do not affect the login.
func (s *Service) rehash(ctx context.Context, u *users.User, plain string) {
	log := s.log.WithContext(ctx)
	hash, err := s.codec.Hash(plain)
	if err == nil {
		err = s.store.UpdatePasswordHash(ctx, u.ID, hash)
	}
	if err != nil {
		log.Warn("Password rehash failed", map[string]interface{}{
			logger.FieldUserID: u.ID,
			"error":            err.Error(),
		})
		return
	}
	u.PasswordHash = hash
	log.Info("Password hash upgraded", map[string]interface{}{
		logger.FieldUserID: u.ID,
	})
}

func (s *Service) session(u *users.User) (*Session, error) {
	token, err := s.tokens.Issue(jwt.Identity{ID: u.ID, Email: u.Email, Name: u.Name})
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &Session{Token: token, User: u.Public()}, nil
}

// fallbackDummyHash is a well-formed argon2id hash at the default cost,
// used when the codec cannot produce a dummy of its own.
const fallbackDummyHash = "$argon2id$v=19$m=65536,t=3,p=1$bGlicm9zLWR1bW15LXNsdA$AAECAwQFBgcICQoLDA0ODxAREhMUFRYXGBkaGxwdHh8"

func (s *Service) dummy() string {
	s.dummyOnce.Do(func() {
		hash, err := s.codec.Hash(util.NewID())
		if err != nil {
			s.log.Warn("Dummy hash failed, using fallback", logger.ErrorFields("dummy_hash", err))
			hash = fallbackDummyHash
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}
