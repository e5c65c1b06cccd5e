package utils

import (
	"regexp"
	"strings"
)

var (
	bracketRegex = regexp.MustCompile(`\[|\]`)
	dataURLRegex = regexp.MustCompile(`^data:([a-zA-Z0-9]+/[a-zA-Z0-9-.+]+);base64,`)
)

// CleanProcessField strips brackets and wraps value as a Lua long string.
func CleanProcessField(value string) string {
	return "[[" + bracketRegex.ReplaceAllString(value, "") + "]]"
}

func CleanTagValue(value string) string {
	return bracketRegex.ReplaceAllString(value, "")
}

// GetDataURLContentType returns the media type of a base64 data URL.
func GetDataURLContentType(dataURL string) (string, bool) {
	m := dataURLRegex.FindStringSubmatch(dataURL)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func GetBase64Data(dataURL string) string {
	parts := strings.SplitN(dataURL, ",", 2)
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

func IsValidMediaData(data string) bool {
	return CheckValidAddress(data) || strings.HasPrefix(data, "data")
}
