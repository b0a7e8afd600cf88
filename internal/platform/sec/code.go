// Copyright (c) 2026 Critika. All rights reserved.
// Author: dev@critika.app

package sec

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// GenerateConfirmationCode returns a cryptographically random numeric code
// of the given digit length, zero-padded (e.g. "048213").
//
// Numeric codes survive email clients and manual typing better than opaque
// base64 tokens.
func GenerateConfirmationCode(digits int) (string, error) {
	bound := big.NewInt(1)
	for i := 0; i < digits; i++ {
		bound.Mul(bound, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, bound)
	if err != nil {
		return "", fmt.Errorf("sec: failed to generate confirmation code: %w", err)
	}

	return fmt.Sprintf("%0*d", digits, n), nil
}

// HashCode hashes a confirmation code with bcrypt before storage.
//
// Codes are short-lived but still secrets. They are never persisted in
// plaintext so a leaked volatile store cannot be replayed.
func HashCode(plainCode string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainCode), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash code: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckCodeHash compares a plain-text confirmation code with its stored hash.
func CheckCodeHash(plainCode, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainCode))
	return err == nil
}
