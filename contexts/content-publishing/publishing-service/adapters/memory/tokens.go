package memory

import (
	"context"
	"strings"
	"sync"

	"brandcast/contexts/content-publishing/publishing-service/ports"
)

// TokenVault is an in-memory AccessTokenProvider keyed by brand and platform.
type TokenVault struct {
	mu     sync.RWMutex
	tokens map[string]string
}

func NewTokenVault(tokens map[string]string) *TokenVault {
	vault := &TokenVault{tokens: make(map[string]string, len(tokens))}
	for key, token := range tokens {
		vault.tokens[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(token)
	}
	return vault
}

func (v *TokenVault) SetToken(brandID string, platformKey string, token string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.tokens[vaultKey(brandID, platformKey)] = strings.TrimSpace(token)
}

func (v *TokenVault) RevokeToken(brandID string, platformKey string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.tokens, vaultKey(brandID, platformKey))
}

func (v *TokenVault) ValidAccessToken(
	_ context.Context,
	brandID string,
	platformKey string,
) (string, bool, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	token, exists := v.tokens[vaultKey(brandID, platformKey)]
	if !exists || token == "" {
		return "", false, nil
	}
	return token, true, nil
}

func vaultKey(brandID string, platformKey string) string {
	return strings.ToLower(strings.TrimSpace(brandID)) + "|" + strings.ToLower(strings.TrimSpace(platformKey))
}

var _ ports.AccessTokenProvider = (*TokenVault)(nil)
