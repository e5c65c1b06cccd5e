package types

import (
	"bytes"

	jsoniter "github.com/json-iterator/go"
)

// Quantity holds a numeric amount that processes report either as a JSON
// number or as a string.
type Quantity string

func (q *Quantity) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*q = ""
	case b[0] == '"':
		var s string
		if err := jsoniter.Unmarshal(b, &s); err != nil {
			return err
		}
		*q = Quantity(s)
	default:
		*q = Quantity(b)
	}
	return nil
}

func (q Quantity) String() string {
	return string(q)
}

// IsZero reports whether the quantity is empty or numerically zero.
func (q Quantity) IsZero() bool {
	s := string(q)
	if s == "" {
		return true
	}
	for _, c := range s {
		if c != '0' && c != '.' {
			return false
		}
	}
	return true
}

// Object is the decoded form of a JSON object exchanged with processes.
type Object = map[string]interface{}
