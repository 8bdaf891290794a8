// Package password hashes and verifies user passwords with argon2id.
//
// Hashes are encoded in PHC string format:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
//
// Cost parameters come from Config and are embedded in every hash, so
// changing the config never invalidates stored hashes; NeedsRehash reports
// which ones should be upgraded on the next successful login.
//
// Password policy (length, complexity) is enforced by input validation
// upstream. Hash accepts any string, including the empty one.
//
// Usage:
//
//	hasher, err := password.NewHasher(password.Config{})
//	hash, err := hasher.Hash("my-password")
//	ok := hasher.Verify("my-password", hash)
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	algorithmID = "argon2id"

	// Upper bounds applied when parsing stored hashes.
	maxMemoryKiB  uint32 = 1 << 20
	maxTimeCost   uint32 = 64
	maxKeyLength         = 1024
	maxSaltLength        = 1024
)

// ErrHashFailed is returned when a password could not be hashed.
// The underlying cause is deliberately not exposed.
var ErrHashFailed = errors.New("password: unable to process password")

// Hasher defines the interface for password hashing and verification.
type Hasher interface {
	// Hash returns an encoded one-way hash of the password.
	Hash(password string) (string, error)

	// Verify reports whether password matches the encoded hash.
	// It returns false for malformed or foreign hashes.
	Verify(password, encodedHash string) bool
}

// Option configures an Argon2Hasher.
type Option func(*Argon2Hasher)

// WithRandom overrides the salt source (default: crypto/rand.Reader).
func WithRandom(r io.Reader) Option {
	return func(h *Argon2Hasher) { h.random = r }
}

// Argon2Hasher implements Hasher using argon2id.
// It is immutable after construction and safe for concurrent use.
type Argon2Hasher struct {
	cfg    Config
	random io.Reader
}

var _ Hasher = (*Argon2Hasher)(nil)

// NewHasher creates an argon2id hasher from configuration.
// Zero-valued fields fall back to the defaults (m=65536, t=3, p=1).
func NewHasher(cfg Config, opts ...Option) (*Argon2Hasher, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("password: %w", err)
	}
	h := &Argon2Hasher{cfg: cfg, random: rand.Reader}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Config returns the effective configuration.
func (h *Argon2Hasher) Config() Config {
	return h.cfg
}

// Hash returns a salted argon2id hash. Two calls with the same password
// produce different strings.
func (h *Argon2Hasher) Hash(password string) (encoded string, err error) {
	defer func() {
		if r := recover(); r != nil {
			encoded, err = "", ErrHashFailed
		}
	}()

	salt := make([]byte, h.cfg.SaltLength)
	if _, err := io.ReadFull(h.random, salt); err != nil {
		return "", ErrHashFailed
	}

	key := argon2.IDKey([]byte(password), salt, h.cfg.Time, h.cfg.Memory, h.cfg.Parallelism, h.cfg.KeyLength)

	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		algorithmID,
		argon2.Version,
		h.cfg.Memory, h.cfg.Time, h.cfg.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify re-derives the digest with the parameters embedded in encodedHash
// and compares in constant time. Any parse or runtime failure yields false.
func (h *Argon2Hasher) Verify(password, encodedHash string) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()

	parsed, err := parsePHC(encodedHash)
	if err != nil {
		return false
	}

	key := argon2.IDKey([]byte(password), parsed.salt, parsed.time, parsed.memory, parsed.parallelism, uint32(len(parsed.key)))
	return subtle.ConstantTimeCompare(key, parsed.key) == 1
}

// NeedsRehash reports whether encodedHash was produced with weaker or
// different parameters than the current configuration. Unparsable hashes
// always need a rehash.
func (h *Argon2Hasher) NeedsRehash(encodedHash string) bool {
	parsed, err := parsePHC(encodedHash)
	if err != nil {
		return true
	}
	return parsed.memory < h.cfg.Memory ||
		parsed.time < h.cfg.Time ||
		parsed.parallelism < h.cfg.Parallelism ||
		uint32(len(parsed.key)) != h.cfg.KeyLength
}

type phc struct {
	memory      uint32
	time        uint32
	parallelism uint8
	salt        []byte
	key         []byte
}

func parsePHC(encodedHash string) (*phc, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[0] != "" {
		return nil, errors.New("invalid PHC format")
	}
	if parts[1] != algorithmID {
		return nil, errors.New("unsupported algorithm")
	}

	version, ok := strings.CutPrefix(parts[2], "v=")
	if !ok {
		return nil, errors.New("missing argon2 version")
	}
	if v, err := strconv.Atoi(version); err != nil || v != argon2.Version {
		return nil, errors.New("unsupported argon2 version")
	}

	p, err := parseParams(parts[3])
	if err != nil {
		return nil, err
	}

	p.salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(p.salt) < int(minSaltLength) || len(p.salt) > maxSaltLength {
		return nil, errors.New("invalid salt")
	}
	p.key, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(p.key) < int(minKeyLength) || len(p.key) > maxKeyLength {
		return nil, errors.New("invalid hash")
	}
	return p, nil
}

func parseParams(part string) (*phc, error) {
	pairs := strings.Split(part, ",")
	if len(pairs) != 3 {
		return nil, errors.New("invalid parameter format")
	}

	var (
		p                   phc
		seenM, seenT, seenP bool
	)
	for _, pair := range pairs {
		k, v, found := strings.Cut(pair, "=")
		if !found {
			return nil, errors.New("invalid parameter entry")
		}
		switch k {
		case "m":
			n, err := strconv.ParseUint(v, 10, 32)
			if err != nil || n > uint64(maxMemoryKiB) {
				return nil, errors.New("invalid memory parameter")
			}
			p.memory, seenM = uint32(n), true
		case "t":
			n, err := strconv.ParseUint(v, 10, 32)
			if err != nil || n < uint64(minTimeCost) || n > uint64(maxTimeCost) {
				return nil, errors.New("invalid time parameter")
			}
			p.time, seenT = uint32(n), true
		case "p":
			n, err := strconv.ParseUint(v, 10, 8)
			if err != nil || n < uint64(minParallelism) {
				return nil, errors.New("invalid parallelism parameter")
			}
			p.parallelism, seenP = uint8(n), true
		default:
			return nil, errors.New("unsupported parameter")
		}
	}
	if !seenM || !seenT || !seenP {
		return nil, errors.New("missing parameters")
	}
	if p.memory < 8*uint32(p.parallelism) {
		return nil, errors.New("invalid memory parameter")
	}
	return &p, nil
}
