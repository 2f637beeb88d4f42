package security

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Different types of error that returned from the VerifyToken
var (
	ErrExpiredToken = errors.New("token has expired")
	ErrInvalidToken = errors.New("invalid token")
	ErrInvalidKey   = errors.New("invalid symmetric key")
)

// Payload contains the payload data of the token
type Payload struct {
	ID        uuid.UUID `json:"id"`
	Subject   string    `json:"sub"`
	Scope     string    `json:"scope"`
	IssuedAt  time.Time `json:"iat"`
	ExpiredAt time.Time `json:"exp"`
}

// NewPayload creates a new token payload for a subject and duration
func NewPayload(subject string, duration time.Duration, scope string) (*Payload, error) {
	tokenID, err := uuid.NewRandom()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	payload := &Payload{
		ID:        tokenID,
		Subject:   subject,
		Scope:     scope,
		IssuedAt:  now,
		ExpiredAt: now.Add(duration),
	}

	return payload, nil
}

func (p *Payload) Valid() error {
	if time.Now().After(p.ExpiredAt) {
		return ErrExpiredToken
	}
	return nil
}

// HasScope reports whether the payload grants scope. The admin scope grants everything.
func (p *Payload) HasScope(scope string) bool {
	return p.Scope == scope || p.Scope == ScopeCatalogAdmin
}
