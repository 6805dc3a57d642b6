package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"

	"golang.org/x/crypto/argon2"
)

const (
	saltLength   = 16
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

// GenerateSalt returns a fresh random salt for password hashing.
func GenerateSalt() (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(salt), nil
}

// GeneratePassword derives the storable argon2id hash of password under salt.
func GeneratePassword(password, salt string) (string, error) {
	rawSalt, err := base64.RawURLEncoding.DecodeString(salt)
	if err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(password), rawSalt, argonTime, argonMemory, argonThreads, argonKeyLen)
	return base64.RawURLEncoding.EncodeToString(hash), nil
}

// ValidatePassword reports whether password hashes to the stored value under salt.
func ValidatePassword(password, hash, salt string) bool {
	expected, err := base64.RawURLEncoding.DecodeString(hash)
	if err != nil {
		return false
	}

	rawSalt, err := base64.RawURLEncoding.DecodeString(salt)
	if err != nil {
		return false
	}

	computed := argon2.IDKey([]byte(password), rawSalt, argonTime, argonMemory, argonThreads, uint32(len(expected)))
	return subtle.ConstantTimeCompare(computed, expected) == 1
}
