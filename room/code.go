package room

import "math/rand"

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateCode produces a random room code of the given length, re-rolling
// until taken reports it free. Callers pass a check spanning every
// registry a code must be unique across.
func GenerateCode(length int, taken func(string) bool) string {
	for {
		buf := make([]byte, length)
		for i := range buf {
			buf[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
		}
		code := string(buf)
		if !taken(code) {
			return code
		}
	}
}
