package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckValidAddress(t *testing.T) {
	tests := []struct {
		address string
		valid   bool
	}{
		{"M9G2B9Uvk8VK1pxloESeT4XScguRKSzLyd4as1HFOJ8", true},
		{"_GQ33BkPtZrqxA84vM8Zk-N2aO0toNNu_C-l-rawrBA", true},
		{strings.Repeat("a", 43), true},
		{strings.Repeat("a", 42), false},
		{strings.Repeat("a", 44), false},
		{strings.Repeat("a", 42) + "!", false},
		{"", false},
	}

	for _, test := range tests {
		require.Equal(t, test.valid, CheckValidAddress(test.address), test.address)
	}
}

func TestFormatAddress(t *testing.T) {
	address := "M9G2B9Uvk8VK1pxloESeT4XScguRKSzLyd4as1HFOJ8"
	require.Equal(t, "M9G2B...s1HFOJ8", FormatAddress(address, false))
	require.Equal(t, "(M9G2B...s1HFOJ8)", FormatAddress(address, true))
	require.Equal(t, "not-an-address", FormatAddress("not-an-address", true))
	require.Equal(t, "", FormatAddress("", false))
}
