package pkceflow

import (
	"strings"
	"testing"

	. "github.com/onsi/gomega"
)

func TestGenerateVerifier(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		check  func(g *WithT, verifier string)
	}{
		{
			name:   "no prefix pads to minimum length with hex characters",
			prefix: "",
			check: func(g *WithT, verifier string) {
				g.Expect(verifier).To(HaveLen(MinVerifierLength))
				g.Expect(verifier).To(MatchRegexp(`^[0-9a-f]+$`))
			},
		},
		{
			name:   "short prefix is kept and padded to minimum length",
			prefix: "myapp-",
			check: func(g *WithT, verifier string) {
				g.Expect(verifier).To(HavePrefix("myapp-"))
				g.Expect(verifier).To(HaveLen(MinVerifierLength))
			},
		},
		{
			name:   "prefix at minimum length gets no random suffix",
			prefix: strings.Repeat("a", MinVerifierLength),
			check: func(g *WithT, verifier string) {
				g.Expect(verifier).To(Equal(strings.Repeat("a", MinVerifierLength)))
			},
		},
		{
			name:   "prefix above minimum length is returned as-is",
			prefix: strings.Repeat("a", 50),
			check: func(g *WithT, verifier string) {
				g.Expect(verifier).To(Equal(strings.Repeat("a", 50)))
			},
		},
		{
			name:   "overlong prefix is truncated to maximum length",
			prefix: strings.Repeat("a", 200),
			check: func(g *WithT, verifier string) {
				g.Expect(verifier).To(Equal(strings.Repeat("a", MaxVerifierLength)))
			},
		},
		{
			name:   "unsafe characters are percent-encoded",
			prefix: strings.Repeat("a b", 20),
			check: func(g *WithT, verifier string) {
				g.Expect(verifier).ToNot(ContainSubstring(" "))
				g.Expect(verifier).ToNot(ContainSubstring("+"))
				g.Expect(verifier).To(ContainSubstring("%20"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)
			tt.check(g, GenerateVerifier(tt.prefix))
		})
	}
}

func TestGenerateVerifier_random(t *testing.T) {
	g := NewWithT(t)

	g.Expect(GenerateVerifier("")).ToNot(Equal(GenerateVerifier("")))
}
