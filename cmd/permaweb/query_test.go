package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/permaweb/permaweb-go/types"
)

func TestParseTags(t *testing.T) {
	filters, err := parseTags([]string{"Data-Protocol=Zone", "Zone-Type=User,Org"})
	require.NoError(t, err)
	require.Equal(t, []types.TagFilter{
		{Name: "Data-Protocol", Values: []string{"Zone"}},
		{Name: "Zone-Type", Values: []string{"User", "Org"}},
	}, filters)

	filters, err = parseTags(nil)
	require.NoError(t, err)
	require.Nil(t, filters)

	_, err = parseTags([]string{"no-value"})
	require.Error(t, err)
	_, err = parseTags([]string{"=x"})
	require.Error(t, err)
}
