package model

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
)

var idPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// NewID returns a new opaque 24-character hex identifier.
func NewID() string {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand only fails when the OS entropy source is broken.
		panic(err)
	}
	return hex.EncodeToString(b)
}

// IsValidID reports whether s is a well-formed 24-character hex identifier.
func IsValidID(s string) bool {
	return idPattern.MatchString(s)
}
