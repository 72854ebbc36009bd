package pkceflow

import (
	"crypto/rand"
	"net/url"
	"strings"
)

// RFC 7636: 43..128 chars from ALPHA / DIGIT / "-" / "." / "_" / "~"
// https://datatracker.ietf.org/doc/html/rfc7636#section-4.1
const (
	MinVerifierLength = 43
	MaxVerifierLength = 128
)

const verifierAlphabet = "0123456789abcdef"

// GenerateVerifier returns a fresh PKCE code verifier. A prefix shorter than
// MinVerifierLength is padded with random hex characters up to that length;
// the result is percent-encoded and truncated to MaxVerifierLength. A prefix
// already at or above MinVerifierLength gets no random suffix, so callers
// passing overlong prefixes can collide with each other.
//
// Randomness comes from crypto/rand. A failing random source is fatal and
// aborts the process, never a weaker verifier.
func GenerateVerifier(prefix string) string {
	verifier := prefix
	if n := MinVerifierLength - len(verifier); n > 0 {
		buf := make([]byte, n)
		if _, err := rand.Read(buf); err != nil {
			panic("pkceflow: secure random source unavailable: " + err.Error())
		}
		for i := range buf {
			buf[i] = verifierAlphabet[int(buf[i])%len(verifierAlphabet)]
		}
		verifier += string(buf)
	}
	encoded := percentEncode(verifier)
	if len(encoded) > MaxVerifierLength {
		encoded = encoded[:MaxVerifierLength]
	}
	return encoded
}

// percentEncode escapes s for use as a query or storage value. QueryEscape
// emits '+' for spaces, which is not in the verifier alphabet.
func percentEncode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
