package store

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// JSONMap stores a free-form key/value map as a JSON-encoded TEXT column.
// SQLite has no native JSON type, so Scan/Value round-trip the map through
// a plain TEXT column holding JSON text.
type JSONMap map[string]any

// Scan implements sql.Scanner.
func (m *JSONMap) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("store.JSONMap: cannot scan non-string/[]byte value")
	}

	if len(raw) == 0 {
		*m = nil
		return nil
	}
	return json.Unmarshal(raw, m)
}

// Value implements driver.Valuer.
func (m JSONMap) Value() (driver.Value, error) {
	if len(m) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(map[string]any(m))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// StringList stores an ordered string list as a JSON array in a TEXT
// column. SQLite has no native array column type, so the substitute is a
// JSON round-trip, keeping the Go-side type a plain []string.
type StringList []string

// Scan implements sql.Scanner.
func (s *StringList) Scan(value any) error {
	if value == nil {
		*s = nil
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("store.StringList: cannot scan non-string/[]byte value")
	}

	if len(raw) == 0 {
		*s = nil
		return nil
	}
	return json.Unmarshal(raw, s)
}

// Value implements driver.Valuer.
func (s StringList) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
