package identity

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns the bcrypt hash stored for new accounts.
func HashPassword(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// CheckPassword compares plain against a stored password. Besides bcrypt
// hashes it accepts the two legacy formats still found in older rows: a
// hex SHA-256 digest and the plaintext itself.
func CheckPassword(stored, plain string) bool {
	if stored == "" {
		return false
	}
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(plain)) == nil
	}
	if isHexDigest(stored) {
		sum := sha256.Sum256([]byte(plain))
		digest := hex.EncodeToString(sum[:])
		if subtle.ConstantTimeCompare([]byte(strings.ToLower(stored)), []byte(digest)) == 1 {
			return true
		}
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(plain)) == 1
}

func isHexDigest(s string) bool {
	if len(s) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
