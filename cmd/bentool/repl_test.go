package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize_SplitsOnWhitespace(t *testing.T) {
	args, err := tokenize("bonding home --bda 4A:A0:D4:FF:C8:57")
	require.NoError(t, err)
	assert.Equal(t, []string{"bonding", "home", "--bda", "4A:A0:D4:FF:C8:57"}, args)
}

func TestTokenize_HonoursQuotedSubstrings(t *testing.T) {
	args, err := tokenize(`bonding "front door" --bda 4A:A0:D4:FF:C8:57`)
	require.NoError(t, err)
	assert.Equal(t, []string{"bonding", "front door", "--bda", "4A:A0:D4:FF:C8:57"}, args)
}

func TestTokenize_CollapsesRepeatedSpaces(t *testing.T) {
	args, err := tokenize("dev   hci0")
	require.NoError(t, err)
	assert.Equal(t, []string{"dev", "hci0"}, args)
}

func TestTokenize_UnterminatedQuoteErrors(t *testing.T) {
	_, err := tokenize(`bonding "front door`)
	assert.Error(t, err)
}

func TestTokenize_EmptyLineErrors(t *testing.T) {
	_, err := tokenize("")
	assert.Error(t, err)
}
