package claims

import (
	"crypto/rand"
	"math/big"
)

// Pickup codes are 8 characters drawn uniformly from the 36-symbol uppercase
// alphanumeric alphabet. They are exchanged verbally in person, so the
// alphabet avoids lowercase.
const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	CodeLength   = 8
)

// maxCodeAttempts bounds the collision-retry loop in Decide. With 36^8
// possible codes a single retry is already improbable; hitting the bound
// means something is wrong with the random source or the table.
const maxCodeAttempts = 100

// GenerateCode returns a random pickup code.
func GenerateCode() (string, error) {
	result := make([]byte, CodeLength)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			return "", err
		}
		result[i] = codeAlphabet[n.Int64()]
	}
	return string(result), nil
}
