package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
)

// UserInfo is the provider-agnostic identity we keep after an OAuth exchange.
// ID is the provider's own identifier, stable across email changes.
type UserInfo struct {
	Email     string
	Name      string
	AvatarURL string
	ID        string
	Provider  string
}

// Provider abstracts a single OAuth2 identity provider.
type Provider interface {
	GetConsentURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*UserInfo, error)
	Name() string
}

// GenerateState returns a random state parameter for the consent redirect.
func GenerateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
