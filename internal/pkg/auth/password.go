package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor for stored password hashes
const BcryptCost = 12

// HashPassword returns a salted bcrypt hash of password
func HashPassword(password string) (string, error) {
	return HashPasswordWithCost(password, BcryptCost)
}

// HashPasswordWithCost lets tests and tools pick a cheaper cost
func HashPasswordWithCost(password string, cost int) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// CheckPassword reports whether password matches the stored hash
func CheckPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

// PasswordHasher lets services swap the hashing cost
type PasswordHasher interface {
	Hash(password string) (string, error)
	Check(hash, password string) bool
}

// BcryptHasher implements PasswordHasher with a fixed cost
type BcryptHasher struct {
	Cost int
}

// Hash implements PasswordHasher
func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = BcryptCost
	}
	return HashPasswordWithCost(password, cost)
}

// Check implements PasswordHasher
func (h BcryptHasher) Check(hash, password string) bool {
	return CheckPassword(hash, password)
}
