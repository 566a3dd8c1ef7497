// Package password implements the engine's Hasher on bcrypt.
package password

import "golang.org/x/crypto/bcrypt"

// Bcrypt hashes secrets with the bcrypt KDF. The zero cost means
// bcrypt.DefaultCost.
type Bcrypt struct {
	cost int
}

// NewBcrypt returns a hasher with the given cost. Costs outside the
// bcrypt range fall back to the default.
func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost}
}

// Hash returns the salted bcrypt hash of the secret.
func (b *Bcrypt) Hash(secret string) (string, error) {
	out, err := bcrypt.GenerateFromPassword([]byte(secret), b.cost)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Verify reports whether the secret matches the stored hash.
func (b *Bcrypt) Verify(secret, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}
