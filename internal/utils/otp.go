package utils

import (
	"crypto/rand"
	"math/big"
	"time"
)

// GenerateOtp returns a six digit verification code and its expiry.
func GenerateOtp(ttl time.Duration) (int, time.Time, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return 0, time.Time{}, err
	}
	return int(n.Int64()) + 100000, time.Now().Add(ttl), nil
}
