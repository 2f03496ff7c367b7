package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSymbolInput(t *testing.T) {
	assert.NoError(t, validateSymbolInput("AAPL"))
	assert.NoError(t, validateSymbolInput("brk.b"))
	assert.NoError(t, validateSymbolInput("700-HK"))

	assert.Error(t, validateSymbolInput(""))
	assert.Error(t, validateSymbolInput("   "))
	assert.Error(t, validateSymbolInput("TOOLONGSYMBOL"))
	assert.Error(t, validateSymbolInput("AAPL$"))
	assert.Error(t, validateSymbolInput("AA PL"))
}

func TestValidateDateInput(t *testing.T) {
	assert.NoError(t, validateDateInput("2024-01-15"))
	assert.NoError(t, validateDateInput(" 2024-01-15 "))
	assert.NoError(t, validateDateInput(""))

	assert.Error(t, validateDateInput("15-01-2024"))
	assert.Error(t, validateDateInput("2024/01/15"))
	assert.Error(t, validateDateInput("yesterday"))
}
