package payment

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestMinorUnits(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"100", 10000},
		{"89.5", 8950},
		{"0.015", 2},
		{"12.344", 1234},
	}
	for _, tt := range tests {
		if got := MinorUnits(decimal.RequireFromString(tt.in)); got != tt.want {
			t.Fatalf("MinorUnits(%s) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
