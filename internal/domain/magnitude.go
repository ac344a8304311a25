package domain

import (
	"math"
	"strconv"
	"strings"
)

// DecodeMagnitude converts a damage coefficient and its exponent code into a
// single dollar value. The code is interpreted case-insensitively, rules
// evaluated top to bottom, first match wins:
//
//  1. "b"/"billion"  -> coefficient × 1e9
//  2. "m"/"million"  -> coefficient × 1e6
//  3. "k"/"thousand" -> coefficient × 1e3
//  4. "h"/"hundred"  -> coefficient × 1e2
//  5. single digit d -> coefficient × 10^d
//  6. "+" "-" "?" ">" "<" or blank -> 0 (low-confidence entry, discarded)
//  7. any other numeric token n    -> coefficient × 10^n
//  8. anything else                -> 0
//
// Decoding never fails: unparseable or non-finite input degrades to a zero
// contribution rather than aborting the pipeline, and negative results are
// clamped to zero because damage magnitudes cannot be negative.
func DecodeMagnitude(coefficient float64, code string) float64 {
	v := coefficient * decodeMultiplier(code)
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// decodeMultiplier maps an exponent code to its power-of-ten scale factor.
// Qualifier tokens and unrecognized codes map to 0, zeroing the magnitude.
func decodeMultiplier(code string) float64 {
	c := strings.ToLower(strings.TrimSpace(code))

	switch c {
	case "b", "billion":
		return 1e9
	case "m", "million":
		return 1e6
	case "k", "thousand":
		return 1e3
	case "h", "hundred":
		return 1e2
	}

	if len(c) == 1 && c[0] >= '0' && c[0] <= '9' {
		return math.Pow(10, float64(c[0]-'0'))
	}

	switch c {
	case "", "+", "-", "?", ">", "<":
		return 0
	}

	// Multi-character codes are occasionally a literal exponent value.
	if e, err := strconv.ParseFloat(c, 64); err == nil {
		return math.Pow(10, e)
	}
	return 0
}
