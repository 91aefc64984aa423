package utils

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

// NewActionToken returns a random single-use token and the hash to store for it.
func NewActionToken() (token, tokenHash string) {
	token = uuid.NewString()
	return token, HashActionToken(token)
}

func HashActionToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
