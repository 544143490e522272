package utils

import "golang.org/x/crypto/bcrypt"

// HashSecret returns the bcrypt hash of the shared admin secret using
// the given cost.  Only the hash is ever stored.
func HashSecret(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifySecret compares a stored bcrypt hash against a presented
// secret.  bcrypt's comparison is constant-time, so a mismatch leaks
// nothing about how close the guess was.
func VerifySecret(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
