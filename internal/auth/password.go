package auth

import "golang.org/x/crypto/bcrypt"

// dummyHash is compared against when login hits an unknown email, so the
// request costs the same bcrypt work whether or not the account exists.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("contacts-api-dummy"), bcrypt.DefaultCost)

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored bcrypt hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// CheckDummyPassword burns the same bcrypt work as a real comparison without
// authenticating anything.
func CheckDummyPassword(password string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}
