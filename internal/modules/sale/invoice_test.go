package sale

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatInvoiceNumber(t *testing.T) {
	tests := []struct {
		seq  int
		want string
	}{
		{1, "202506150001"},
		{42, "202506150042"},
		{9999, "202506159999"},
		{10000, "2025061510000"},
		{123456, "20250615123456"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatInvoiceNumber("20250615", tt.seq))
	}
}
