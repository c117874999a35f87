package auth

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const (
	SchemeMD5    = "md5"
	SchemeBcrypt = "bcrypt"

	MinPasswordLen = 8
	MaxPasswordLen = 72 // bcrypt input limit

	specialChars = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`
)

// Hasher turns a plaintext password into its stored form and verifies
// candidates against stored values.
type Hasher interface {
	Hash(password string) (string, error)
	Compare(stored, password string) bool
	Scheme() string
}

// NewHasher selects the digest scheme. The default is the legacy MD5
// digest every existing row was written with; bcrypt is opt-in and needs
// a rehash migration because it changes stored values.
func NewHasher(scheme string) (Hasher, error) {
	switch scheme {
	case SchemeMD5:
		return MD5Hasher{}, nil
	case SchemeBcrypt:
		return BcryptHasher{Cost: bcrypt.DefaultCost}, nil
	}
	return nil, fmt.Errorf("unknown hash scheme %q", scheme)
}

// MD5Hasher renders the MD5 digest of the UTF-8 password bytes as 32
// lowercase hex characters. Deterministic, one-way, never reversed.
type MD5Hasher struct{}

func (MD5Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	sum := md5.Sum([]byte(password))
	return hex.EncodeToString(sum[:]), nil
}

func (h MD5Hasher) Compare(stored, password string) bool {
	digest, err := h.Hash(password)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(digest)) == 1
}

func (MD5Hasher) Scheme() string { return SchemeMD5 }

// BcryptHasher is the upgrade path once stored digests are migrated.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func (BcryptHasher) Compare(stored, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}

func (BcryptHasher) Scheme() string { return SchemeBcrypt }

// ValidatePassword enforces the password policy: at least 8 characters
// with an uppercase letter, a lowercase letter, a digit, and a special
// character from the accepted set.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLen)
	}
	if len(password) > MaxPasswordLen {
		return fmt.Errorf("password must be at most %d characters", MaxPasswordLen)
	}

	hasUpper := false
	hasLower := false
	hasDigit := false
	hasSpecial := false

	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(specialChars, r):
			hasSpecial = true
		}
	}

	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !hasDigit {
		return fmt.Errorf("password must contain at least one digit")
	}
	if !hasSpecial {
		return fmt.Errorf("password must contain at least one special character")
	}

	return nil
}
