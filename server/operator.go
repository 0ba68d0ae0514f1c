package server

import "golang.org/x/crypto/bcrypt"

// OperatorCredential is one bcrypt-hashed username/password pair an OPER
// attempt is checked against.
type OperatorCredential struct {
	UsernameHash []byte
	PasswordHash []byte
}

// Matches reports whether the plaintext pair verifies against both
// hashes.
func (oc OperatorCredential) Matches(username, password string) bool {
	if err := bcrypt.CompareHashAndPassword(oc.UsernameHash, []byte(username)); err != nil {
		return false
	}
	return bcrypt.CompareHashAndPassword(oc.PasswordHash, []byte(password)) == nil
}
