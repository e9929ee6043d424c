// internal/config/secrets.go
//
// Resolution of `vault:` references.
//
// A value such as `vault:kv/linkbio/db#password` is replaced with the string
// stored under key `password` in KV-v2 secret `kv/linkbio/db`.  Plain values
// pass through untouched, so development setups need no Vault at all.

package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const vaultPrefix = "vault:"

// SecretResolver fetches one secret by reference.  *vault.Client satisfies it.
type SecretResolver interface {
	Resolve(ctx context.Context, ref string) (string, error)
}

// ErrWeakSecret is returned when the resolved JWT secret is too short.
var ErrWeakSecret = errors.New("auth.jwt_secret must be at least 32 bytes")

// NeedsVault reports whether any secret-bearing field holds a Vault reference.
func (c *Config) NeedsVault() bool {
	for _, p := range c.secretFields() {
		if strings.HasPrefix(*p, vaultPrefix) {
			return true
		}
	}
	return false
}

// ResolveSecrets swaps every `vault:` reference for its value.  r may be nil
// when NeedsVault is false.
func (c *Config) ResolveSecrets(ctx context.Context, r SecretResolver) error {
	for _, p := range c.secretFields() {
		if !strings.HasPrefix(*p, vaultPrefix) {
			continue
		}
		if r == nil {
			return fmt.Errorf("config: %q needs vault but no client is configured", *p)
		}
		val, err := r.Resolve(ctx, strings.TrimPrefix(*p, vaultPrefix))
		if err != nil {
			return fmt.Errorf("config: resolve secret: %w", err)
		}
		*p = val
	}
	if len(c.Auth.JWTSecret) < 32 {
		return ErrWeakSecret
	}
	return nil
}

// DatabaseDSN returns the DSN with the password placeholder filled in.
func (c *Config) DatabaseDSN() string {
	return strings.Replace(c.Database.DSN, "{password}", c.Database.Password, 1)
}

func (c *Config) secretFields() []*string {
	return []*string{
		&c.Database.Password,
		&c.Auth.JWTSecret,
		&c.Redis.Password,
	}
}
