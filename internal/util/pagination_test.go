package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		page, size         int
		wantOffset, wantLimit int
	}{
		{page: 1, size: 10, wantOffset: 0, wantLimit: 10},
		{page: 3, size: 10, wantOffset: 20, wantLimit: 10},
		{page: 0, size: 0, wantOffset: 0, wantLimit: DefaultPageSize},
		{page: 2, size: 1000, wantOffset: DefaultPageSize, wantLimit: DefaultPageSize},
	}
	for _, tt := range tests {
		offset, limit := Calculate(tt.page, tt.size)
		assert.Equal(t, tt.wantOffset, offset)
		assert.Equal(t, tt.wantLimit, limit)
	}
}

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 5, ParseIntDefault("5", 1))
	assert.Equal(t, 1, ParseIntDefault("", 1))
	assert.Equal(t, 1, ParseIntDefault("x", 1))
}
