package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	off, lim := Calculate(0, 0)
	assert.Equal(t, 0, off)
	assert.Equal(t, DefaultPageSize, lim)

	off, lim = Calculate(3, 10)
	assert.Equal(t, 20, off)
	assert.Equal(t, 10, lim)

	_, lim = Calculate(1, 1000)
	assert.Equal(t, MaxPageSize, lim)
}

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 7, ParseIntDefault("", 7))
	assert.Equal(t, 7, ParseIntDefault("x", 7))
	assert.Equal(t, 3, ParseIntDefault("3", 7))
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 20))
	assert.Equal(t, 1, TotalPages(20, 20))
	assert.Equal(t, 2, TotalPages(21, 20))
}
