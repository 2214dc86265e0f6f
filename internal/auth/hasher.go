// Package auth holds the operator-authentication edge this rebuild adds on
// top of the recognition core (SPEC_FULL.md §2.3): password hashing and a
// scoped-down JWT bearer token, enough to keep the HTTP/WS surface from
// being wide open without bringing in the teacher's full tenant/RBAC
// model, which is explicitly out of scope here.
package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword returns a bcrypt hash suitable for storing alongside an
// operator account.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
