package utils

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

var (
	hashPepper = generatePepper()
)

func generatePepper() string {
	return uuid.New().String() + "-" + uuid.New().String()
}

// HashSHA256 returns a process-local keyed digest of input, used to correlate
// emails in logs without writing them out.
func HashSHA256(input string) string {
	input = strings.ToLower(strings.TrimSpace(input))

	mac := hmac.New(sha256.New, []byte(hashPepper))
	mac.Write([]byte(input))

	return hex.EncodeToString(mac.Sum(nil))
}

// GenerateRandomString generates a cryptographically secure random string
// using the provided charset and length
func GenerateRandomString(length int, charset string) string {
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			panic(fmt.Sprintf("failed to generate random string: %v", err))
		}
		b[i] = charset[n.Int64()]
	}
	return string(b)
}
