package asciicaptcha

import "math/rand"

// Alphabet is the character set challenge codes are drawn from. Verifiers
// are expected to compare case-insensitively.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateCode draws length characters independently and uniformly from
// alphabet using the supplied random source.
func GenerateCode(length int, alphabet string, rng *rand.Rand) (string, error) {
	if length <= 0 {
		return "", &ConfigError{Field: "code_length", Reason: "must be positive"}
	}
	if alphabet == "" {
		return "", &ConfigError{Field: "alphabet", Reason: "must not be empty"}
	}
	chars := []rune(alphabet)
	code := make([]rune, length)
	for i := range code {
		code[i] = chars[rng.Intn(len(chars))]
	}
	return string(code), nil
}
