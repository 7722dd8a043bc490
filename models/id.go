package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ID is an opaque identifier issued by the marketplace API. The API sends
// numbers for some resources and strings for others; both decode to the same
// textual token and always encode back as a JSON string.
type ID string

func (id ID) String() string { return string(id) }

// IsZero reports whether the identifier is absent.
func (id ID) IsZero() bool { return id == "" }

func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(id))
}

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
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Amount decodes a JSON number or a numeric string. Laravel serialises
// decimal columns as strings, so prices show up both ways.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*a = 0
			return nil
		}
		data = []byte(s)
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("amount must be numeric: %w", err)
	}
	*a = Amount(f)
	return nil
}

// Count decodes a JSON integer or a numeric string. Anything else reads as 0.
type Count int

func (n *Count) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	if v, err := strconv.Atoi(s); err == nil {
		*n = Count(v)
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		*n = Count(int(f))
		return nil
	}
	*n = 0
	return nil
}

// Flag decodes a JSON boolean, a tinyint (0/1) or their string forms, which
// is how MySQL-backed APIs tend to send boolean columns. Anything else reads
// as false.
type Flag bool

func (b *Flag) UnmarshalJSON(data []byte) error {
	s := strings.ToLower(strings.Trim(string(bytes.TrimSpace(data)), `"`))
	switch s {
	case "true", "1":
		*b = true
	default:
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			*b = f != 0
			return nil
		}
		*b = false
	}
	return nil
}
