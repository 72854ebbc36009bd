package pkceflow

import (
	"testing"

	. "github.com/onsi/gomega"
)

func TestComputeChallenge(t *testing.T) {
	g := NewWithT(t)

	// Reference vector from RFC 7636 appendix B.
	const verifier = "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
	g.Expect(ComputeChallenge(verifier)).To(Equal("E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM"))
}

func TestComputeChallenge_deterministic(t *testing.T) {
	g := NewWithT(t)

	verifier := GenerateVerifier("")

	first := ComputeChallenge(verifier)
	second := ComputeChallenge(verifier)

	g.Expect(first).To(Equal(second))
	g.Expect(first).To(MatchRegexp(`^[A-Za-z0-9_-]+$`))
	g.Expect(ComputeChallenge(GenerateVerifier(""))).ToNot(Equal(first))
}
