// Package ident holds the opaque identifier assigned by the remote store.
package ident

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// ErrEmpty is returned when an identifier is required but blank.
var ErrEmpty = errors.New("identifier is empty")

// ID is an opaque, remote-assigned identifier. The remote store may encode it
// as a JSON number or a JSON string; both decode to the same value.
type ID string

// Parse trims raw and rejects blank identifiers.
func Parse(raw string) (ID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmpty
	}
	return ID(raw), nil
}

// String returns the identifier as text.
func (id ID) String() string { return string(id) }

// IsZero reports whether the identifier is unset.
func (id ID) IsZero() bool { return strings.TrimSpace(string(id)) == "" }

// Int64 returns the numeric form for stores that key rows by integer.
func (id ID) Int64() (int64, error) {
	return strconv.ParseInt(string(id), 10, 64)
}

// FromInt64 formats an integer key as an identifier.
func FromInt64(v int64) ID { return ID(strconv.FormatInt(v, 10)) }

// MarshalJSON keeps canonical integer identifiers numeric on the wire. Any
// other text, "007" or "+5" included, stays a JSON string.
func (id ID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// UnmarshalJSON accepts numbers, strings and null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}
