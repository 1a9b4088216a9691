package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name       string
		page, size int
		from, lim  int
	}{
		{name: "first page", page: 1, size: 10, from: 0, lim: 10},
		{name: "second page", page: 2, size: 10, from: 10, lim: 10},
		{name: "page zero clamps", page: 0, size: 10, from: 0, lim: 10},
		{name: "negative page clamps", page: -3, size: 10, from: 0, lim: 10},
		{name: "zero size defaults", page: 2, size: 0, from: 10, lim: 10},
		{name: "oversized clamps", page: 1, size: 500, from: 0, lim: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, lim := Calculate(tt.page, tt.size)
			assert.Equal(t, tt.from, from)
			assert.Equal(t, tt.lim, lim)
		})
	}
}

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 7, ParseIntDefault("", 7))
	assert.Equal(t, 3, ParseIntDefault("3", 7))
	assert.Equal(t, 7, ParseIntDefault("abc", 7))
}
