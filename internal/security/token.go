package security

import "time"

const (
	ScopeCatalogWrite = "catalog:write"
	ScopeCatalogAdmin = "catalog:admin"
)

// Maker makes a new token
type Maker interface {

	// CreateToken creates a new token for a subject, valid for duration
	CreateToken(subject string, duration time.Duration, scope string) (string, *Payload, error)

	// VerifyToken checks if the token is valid or not
	VerifyToken(token string) (*Payload, error)
}

// Config holds token settings. Write routes are unauthenticated when SymmetricKey is empty.
type Config struct {
	SymmetricKey string        `env:"SYMMETRIC_KEY" env-default:"" sensitive:"true" validate:"omitempty,len=32"`
	TokenTTL     time.Duration `env:"TOKEN_TTL" env-default:"24h"`
}

// Enabled reports whether a key is configured.
func (c Config) Enabled() bool {
	return c.SymmetricKey != ""
}
