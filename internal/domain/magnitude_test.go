package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeMagnitude(t *testing.T) {
	tests := []struct {
		name        string
		coefficient float64
		code        string
		expected    float64
	}{
		{"billions upper", 2.5, "B", 2.5e9},
		{"billions lower", 2.5, "b", 2.5e9},
		{"billions word", 1, "Billion", 1e9},
		{"millions", 3, "M", 3e6},
		{"millions lower", 3, "m", 3e6},
		{"millions word", 3, "million", 3e6},
		{"thousands", 10, "K", 10000},
		{"thousands lower", 10, "k", 10000},
		{"thousands word", 2, "Thousand", 2000},
		{"hundreds", 4, "H", 400},
		{"hundreds lower", 4, "h", 400},
		{"digit zero", 7, "0", 7},
		{"digit five", 2, "5", 200000},
		{"digit nine", 1, "9", 1e9},
		{"empty code", 25, "", 0},
		{"whitespace only", 25, "   ", 0},
		{"question mark", 25, "?", 0},
		{"plus", 25, "+", 0},
		{"minus", 25, "-", 0},
		{"greater than", 25, ">", 0},
		{"less than", 25, "<", 0},
		{"padded letter code", 5, " k ", 5000},
		{"multi-digit literal exponent", 2, "10", 2e10},
		{"garbage code", 25, "xyz", 0},
		{"negative coefficient clamped", -3, "K", 0},
		{"zero coefficient", 0, "B", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DecodeMagnitude(tt.coefficient, tt.code))
		})
	}
}

// Decoding is total: any code string yields a finite, non-negative number.
func TestDecodeMagnitude_NeverFails(t *testing.T) {
	codes := []string{"", "B", "bb", "?!", "1e3", "NaN", "Inf", "-Inf", "\t\n", "十", "K K", "-5"}
	for _, code := range codes {
		v := DecodeMagnitude(123.45, code)
		assert.False(t, math.IsNaN(v), "code %q produced NaN", code)
		assert.False(t, math.IsInf(v, 0), "code %q produced Inf", code)
		assert.GreaterOrEqual(t, v, 0.0, "code %q produced a negative magnitude", code)
	}
}

func TestDecodeMagnitude_NonFiniteCoefficient(t *testing.T) {
	assert.Equal(t, 0.0, DecodeMagnitude(math.NaN(), "K"))
	assert.Equal(t, 0.0, DecodeMagnitude(math.Inf(1), "B"))
}
