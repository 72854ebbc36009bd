package pkceflow

import (
	"context"
	"fmt"

	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

// VerifyIDToken parses and validates the id_token returned by the exchange
// against the authorization server's published JWKS. It checks the
// signature, the issuer, the audience (the client ID) and the standard time
// claims. Token caching and refresh are out of scope; this is a one-shot
// verification of the exchange result.
func VerifyIDToken(ctx context.Context, rawToken string, conf *Config) (jwt.Token, error) {
	keys, err := jwk.Fetch(ctx, conf.JWKSURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch JWKS from %s: %w", conf.JWKSURL, err)
	}
	token, err := jwt.Parse([]byte(rawToken),
		jwt.WithKeySet(keys),
		jwt.WithValidate(true),
		jwt.WithIssuer(conf.Issuer),
		jwt.WithAudience(conf.ClientID))
	if err != nil {
		return nil, fmt.Errorf("failed to verify id_token: %w", err)
	}
	return token, nil
}
