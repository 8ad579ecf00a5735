package auth

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"mercator-hq/verdict/pkg/config"
)

var (
	// ErrMissingKey is returned when a request carries no API key.
	ErrMissingKey = errors.New("missing API key")

	// ErrInvalidKey is returned for an unknown API key.
	ErrInvalidKey = errors.New("invalid API key")

	// ErrDisabledKey is returned for a known but disabled API key.
	ErrDisabledKey = errors.New("API key disabled")
)

// APIKey is an accepted key. The key itself is not retained.
type APIKey struct {
	Name     string
	Disabled bool
}

type digest [sha256.Size]byte

// APIKeyValidator validates API keys against a configured set of keys.
type APIKeyValidator struct {
	mu   sync.RWMutex
	keys map[digest]*APIKey
}

// NewAPIKeyValidator creates a validator accepting the given keys, indexed by
// the key string.
func NewAPIKeyValidator(keys map[string]APIKey) *APIKeyValidator {
	v := &APIKeyValidator{keys: make(map[digest]*APIKey, len(keys))}
	for key, info := range keys {
		v.Add(key, info)
	}
	return v
}

// NewValidatorFromConfig builds a validator from the server.auth section,
// resolving key_env entries from the environment.
func NewValidatorFromConfig(cfg *config.AuthConfig) (*APIKeyValidator, error) {
	v := NewAPIKeyValidator(nil)
	for _, k := range cfg.Keys {
		key := k.Key
		if k.KeyEnv != "" {
			key = os.Getenv(k.KeyEnv)
			if key == "" {
				return nil, fmt.Errorf("API key %q: environment variable %s is not set", k.Name, k.KeyEnv)
			}
		}
		if key == "" {
			return nil, fmt.Errorf("API key %q is empty", k.Name)
		}
		v.Add(key, APIKey{Name: k.Name, Disabled: k.Disabled})
	}
	return v, nil
}

// Validate checks if the given API key is valid and returns its info.
func (v *APIKeyValidator) Validate(key string) (*APIKey, error) {
	if key == "" {
		return nil, ErrMissingKey
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	info, ok := v.keys[sha256.Sum256([]byte(key))]
	if !ok {
		return nil, ErrInvalidKey
	}
	if info.Disabled {
		return nil, ErrDisabledKey
	}
	return info, nil
}

// Add accepts a new key, replacing any key with the same value.
func (v *APIKeyValidator) Add(key string, info APIKey) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.keys[sha256.Sum256([]byte(key))] = &info
}

// Remove stops accepting a key.
func (v *APIKeyValidator) Remove(key string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.keys, sha256.Sum256([]byte(key)))
}

// Names returns the names of all configured keys, sorted.
func (v *APIKeyValidator) Names() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()

	names := make([]string, 0, len(v.keys))
	for _, info := range v.keys {
		names = append(names, info.Name)
	}
	sort.Strings(names)
	return names
}
