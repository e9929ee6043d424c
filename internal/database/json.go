// internal/database/json.go
//
// JSON is a raw JSON column value.  Page themes and block or integration
// configs are stored as MySQL JSON and passed through to the API untouched.

package database

import (
	"database/sql/driver"
	"fmt"
)

// JSON holds an encoded JSON document.  Empty encodes as {} on write and as
// null in API output.
type JSON []byte

// Scan implements sql.Scanner.  The driver buffer is copied.
func (j *JSON) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*j = nil
	case []byte:
		*j = append((*j)[:0], v...)
	case string:
		*j = JSON(v)
	default:
		return fmt.Errorf("database: cannot scan %T into JSON", src)
	}
	return nil
}

// Value implements driver.Valuer.
func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return []byte("{}"), nil
	}
	return []byte(j), nil
}

// MarshalJSON emits the stored document verbatim.
func (j JSON) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return j, nil
}

// UnmarshalJSON keeps a copy of the raw document.
func (j *JSON) UnmarshalJSON(b []byte) error {
	*j = append((*j)[:0], b...)
	return nil
}
