// Package internal holds helpers shared by the engine packages.
package internal

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

const refreshTokenBytes = 32

// NewRefreshToken returns a 256-bit random token in unpadded base64url.
// The token is opaque: it carries no claims and means nothing outside
// the registry.
func NewRefreshToken() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("refresh token entropy unavailable: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
