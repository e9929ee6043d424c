// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `Load` calls `validateStruct` immediately after it unmarshals the merged
// Koanf tree into a `Config` instance.  Any tag mismatch aborts startup, so
// the binary never runs with partial or malformed configuration.
//
// Secrets are validated twice: once for presence (tags), and again after
// Vault resolution in `ResolveSecrets`, where the JWT secret length is
// enforced.

package config

import "github.com/go-playground/validator/v10"

//
// validator instance (package-level singleton)
//

var v = validator.New()

//
// public API
//

// validateStruct returns the first validation error, or nil on success.
func validateStruct(c *Config) error {
	return v.Struct(c)
}
