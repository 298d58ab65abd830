// Package auth checks a participant's username and the shared password.
//
// This is not access control: every participant knows the same password and
// the error messages reveal which usernames exist. It exists so each person
// edits only their own row.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/sadopc/woolywalk/internal/challenge"
)

var (
	ErrUnknownUser   = errors.New("unknown username")
	ErrWrongPassword = errors.New("incorrect password")
	ErrBadHash       = errors.New("invalid argon2id hash")
)

// Checker decides whether a password is acceptable.
type Checker interface {
	Check(password string) bool
}

// SharedPassword accepts exactly one plain-text password.
type SharedPassword string

func (p SharedPassword) Check(password string) bool {
	return subtle.ConstantTimeCompare([]byte(password), []byte(p)) == 1
}

// Message returns the copy shown to the person at the login prompt.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrUnknownUser):
		return "Unknown username. Try again."
	case errors.Is(err, ErrWrongPassword):
		return "Incorrect password. Give it another go."
	case err != nil:
		return err.Error()
	}
	return ""
}

// NormalizeUsername trims and lowercases a typed username.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// Authenticate resolves username against the roster and then checks the
// password.
func Authenticate(roster challenge.Roster, c Checker, username, password string) (challenge.Participant, error) {
	p, ok := roster.Find(NormalizeUsername(username))
	if !ok {
		return challenge.Participant{}, ErrUnknownUser
	}
	if !c.Check(password) {
		return challenge.Participant{}, ErrWrongPassword
	}
	return p, nil
}

// Argon2 parameters for newly generated hashes.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
	argonSaltLen = 16
)

// Argon2Hash checks passwords against an encoded argon2id hash of the form
// $argon2id$v=19$m=65536,t=1,p=4$<salt>$<key> with raw base64 salt and key.
type Argon2Hash struct {
	memory  uint32
	time    uint32
	threads uint8
	salt    []byte
	key     []byte
}

// ParseArgon2Hash decodes an encoded argon2id hash.
func ParseArgon2Hash(encoded string) (*Argon2Hash, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return nil, ErrBadHash
	}
	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return nil, ErrBadHash
	}
	h := &Argon2Hash{}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &h.memory, &h.time, &h.threads); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadHash, err)
	}
	var err error
	if h.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return nil, fmt.Errorf("%w: salt: %v", ErrBadHash, err)
	}
	if h.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return nil, fmt.Errorf("%w: key: %v", ErrBadHash, err)
	}
	if len(h.key) == 0 {
		return nil, ErrBadHash
	}
	return h, nil
}

func (h *Argon2Hash) Check(password string) bool {
	key := argon2.IDKey([]byte(password), h.salt, h.time, h.memory, h.threads, uint32(len(h.key)))
	return subtle.ConstantTimeCompare(key, h.key) == 1
}

// HashPassword produces an encoded argon2id hash for use in the config file.
func HashPassword(password string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}
