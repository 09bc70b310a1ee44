// Package cpf validates Brazilian CPF numbers (Cadastro de Pessoas
// Físicas), the national identification number used as a unique user
// attribute.
//
// A CPF is eleven digits: nine base digits followed by two check digits
// computed from them with a weighted sum modulo 11. The algorithm here is
// the published national standard, so the validator agrees with every
// other correct implementation on the same inputs.
package cpf

import "strings"

// Clean strips every non-digit character from raw. An empty input yields
// an empty string.
func Clean(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsValid reports whether value is a valid CPF. The value is cleaned
// first, so punctuation is accepted.
//
// A CPF is rejected when the cleaned form is not exactly 11 digits, when
// all 11 digits are identical ("00000000000" and friends are formally
// checksum-valid but reserved), or when either check digit is wrong.
func IsValid(value string) bool {
	digits := Clean(value)
	if len(digits) != 11 {
		return false
	}
	if allSame(digits) {
		return false
	}

	d1 := checkDigit(digits[:9])
	d2 := checkDigit(digits[:9] + d1)

	return strings.HasSuffix(digits, d1+d2)
}

// Format returns the canonical NNN.NNN.NNN-NN rendering of value, or ""
// when the cleaned value is not 11 digits. It does not checksum-validate.
func Format(value string) string {
	digits := Clean(value)
	if len(digits) != 11 {
		return ""
	}
	return digits[0:3] + "." + digits[3:6] + "." + digits[6:9] + "-" + digits[9:11]
}

// checkDigit computes one check digit over numbers. The weight starts at
// len(numbers)+1 and descends to 2; the digit is 11 minus the weighted
// sum mod 11, mapped to 0 when that result is 10 or 11.
func checkDigit(numbers string) string {
	total := 0
	factor := len(numbers) + 1
	for _, r := range numbers {
		total += int(r-'0') * factor
		factor--
	}
	digit := 11 - total%11
	if digit >= 10 {
		return "0"
	}
	return string(rune('0' + digit))
}

func allSame(digits string) bool {
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			return false
		}
	}
	return true
}
