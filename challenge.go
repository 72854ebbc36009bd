package pkceflow

import (
	"crypto/sha256"
	"encoding/base64"
)

// ComputeChallenge derives the S256 code challenge for a verifier:
// base64url(SHA-256(verifier)), unpadded. The derivation is deterministic so
// the authorization server can re-derive the challenge from the verifier it
// receives at token time.
func ComputeChallenge(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
