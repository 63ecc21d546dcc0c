// Package passgen generates random passwords for new account records.
// This is a convenience generator for the form controller, not a
// cryptographic primitive.
package passgen

import (
	"math/rand"
	"strings"
)

const (
	lower   = "abcdefghijklmnopqrstuvwxyz"
	upper   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits  = "0123456789"
	symbols = "!@#$%^&*()_+"
	charset = lower + upper + digits + symbols

	// Length is the fixed size of generated passwords.
	Length = 16
)

// Generate returns a 16-character password containing at least one
// lowercase letter, one uppercase letter, one digit and one symbol, the
// remainder drawn uniformly from the full charset, with the result
// shuffled so the guaranteed characters sit at random positions.
func Generate() string {
	buf := make([]byte, 0, Length)
	buf = append(buf, lower[rand.Intn(len(lower))])
	buf = append(buf, upper[rand.Intn(len(upper))])
	buf = append(buf, digits[rand.Intn(len(digits))])
	buf = append(buf, symbols[rand.Intn(len(symbols))])

	for len(buf) < Length {
		buf = append(buf, charset[rand.Intn(len(charset))])
	}

	rand.Shuffle(len(buf), func(i, j int) {
		buf[i], buf[j] = buf[j], buf[i]
	})
	return string(buf)
}

// HasRequiredClasses reports whether a password contains at least one
// character from each required class.
func HasRequiredClasses(p string) bool {
	return strings.ContainsAny(p, lower) &&
		strings.ContainsAny(p, upper) &&
		strings.ContainsAny(p, digits) &&
		strings.ContainsAny(p, symbols)
}
