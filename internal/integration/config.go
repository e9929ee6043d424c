// internal/integration/config.go

package integration

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Config is a flat string map stored as a JSON object.
type Config map[string]string

// Scan implements sql.Scanner.
func (c *Config) Scan(src any) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		*c = Config{}
		return nil
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("integration: cannot scan %T into Config", src)
	}
	m := Config{}
	if err := json.Unmarshal(b, &m); err != nil {
		return fmt.Errorf("integration: config column: %w", err)
	}
	*c = m
	return nil
}

// Value implements driver.Valuer.
func (c Config) Value() (driver.Value, error) {
	if c == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(c)
}
