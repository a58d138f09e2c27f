// utils/response.go
package utils

import (
	"crypto/rand"
	"math/big"

	"github.com/gin-gonic/gin"
)

// RespondWithError sends a JSON error envelope with the given status
func RespondWithError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

const randomChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateRandomString returns a random string of the given length,
// used for backup file suffixes
func GenerateRandomString(length int) string {
	out := make([]byte, length)
	max := big.NewInt(int64(len(randomChars)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			out[i] = randomChars[0]
			continue
		}
		out[i] = randomChars[n.Int64()]
	}
	return string(out)
}
