package pkceflow

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"
	. "github.com/onsi/gomega"
)

func TestVerifyIDToken(t *testing.T) {
	g := NewWithT(t)

	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	g.Expect(err).ToNot(HaveOccurred())
	key, err := jwk.Import(priv)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(key.Set(jwk.KeyIDKey, "test-key")).To(Succeed())
	g.Expect(key.Set(jwk.AlgorithmKey, jwa.RS256())).To(Succeed())
	public, err := key.PublicKey()
	g.Expect(err).ToNot(HaveOccurred())

	set := jwk.NewSet()
	g.Expect(set.AddKey(public)).To(Succeed())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(set); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	conf := &Config{
		ClientID: "abc",
		Issuer:   srv.URL,
		JWKSURL:  srv.URL + "/v1/keys",
	}

	now := time.Now()
	buildToken := func(iss, aud string, exp time.Time) string {
		tok, err := jwt.NewBuilder().
			Issuer(iss).
			Subject("user@example.com").
			Audience([]string{aud}).
			IssuedAt(now).
			Expiration(exp).
			Build()
		g.Expect(err).ToNot(HaveOccurred())
		b, err := jwt.Sign(tok, jwt.WithKey(jwa.RS256(), key))
		g.Expect(err).ToNot(HaveOccurred())
		return string(b)
	}

	tests := []struct {
		name     string
		rawToken string
		valid    bool
	}{
		{
			name:     "valid token",
			rawToken: buildToken(srv.URL, "abc", now.Add(time.Hour)),
			valid:    true,
		},
		{
			name:     "wrong issuer",
			rawToken: buildToken("https://evil.example.com", "abc", now.Add(time.Hour)),
		},
		{
			name:     "wrong audience",
			rawToken: buildToken(srv.URL, "other-client", now.Add(time.Hour)),
		},
		{
			name:     "expired token",
			rawToken: buildToken(srv.URL, "abc", now.Add(-time.Hour)),
		},
		{
			name:     "garbage token",
			rawToken: "not-a-jwt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)

			token, err := VerifyIDToken(context.Background(), tt.rawToken, conf)

			if tt.valid {
				g.Expect(err).ToNot(HaveOccurred())
				sub, ok := token.Subject()
				g.Expect(ok).To(BeTrue())
				g.Expect(sub).To(Equal("user@example.com"))
			} else {
				g.Expect(err).To(HaveOccurred())
				g.Expect(token).To(BeNil())
			}
		})
	}
}
