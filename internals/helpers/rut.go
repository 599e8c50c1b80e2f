// file: internals/helpers/rut.go
package helper

import (
	"strings"
)

// NormalizeRUT strips dots/spaces and upper-cases the verifier digit,
// e.g. "12.345.678-k" → "12345678-K".
func NormalizeRUT(rut string) string {
	rut = strings.ToUpper(strings.TrimSpace(rut))
	rut = strings.ReplaceAll(rut, ".", "")
	rut = strings.ReplaceAll(rut, " ", "")
	return rut
}

// ValidateRUT checks a Chilean RUT (national tax id) with its modulo-11
// verifier digit. Expects the normalized "NNNNNNNN-V" form.
func ValidateRUT(rut string) bool {
	rut = NormalizeRUT(rut)
	parts := strings.Split(rut, "-")
	if len(parts) != 2 || len(parts[0]) < 7 || len(parts[1]) != 1 {
		return false
	}
	body, dv := parts[0], parts[1]

	sum := 0
	factor := 2
	for i := len(body) - 1; i >= 0; i-- {
		ch := body[i]
		if ch < '0' || ch > '9' {
			return false
		}
		sum += int(ch-'0') * factor
		factor++
		if factor > 7 {
			factor = 2
		}
	}

	rest := 11 - (sum % 11)
	var expected string
	switch rest {
	case 11:
		expected = "0"
	case 10:
		expected = "K"
	default:
		expected = string(rune('0' + rest))
	}
	return dv == expected
}
