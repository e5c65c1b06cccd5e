package utils

import (
	"regexp"
)

var addressRegex = regexp.MustCompile(`(?i)^[a-z0-9_-]{43}$`)

// CheckValidAddress reports whether s has the shape of a ledger address or
// process id: 43 characters of [a-zA-Z0-9_-].
func CheckValidAddress(s string) bool {
	return addressRegex.MatchString(s)
}

// IsAddressValue is CheckValidAddress for decoded JSON values.
func IsAddressValue(v interface{}) bool {
	s, ok := v.(string)
	return ok && CheckValidAddress(s)
}

func FormatAddress(address string, wrap bool) string {
	if address == "" {
		return ""
	}
	if !CheckValidAddress(address) {
		return address
	}
	formatted := address[:5] + "..." + address[36:]
	if wrap {
		return "(" + formatted + ")"
	}
	return formatted
}
