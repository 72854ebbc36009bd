package pkceflow

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/oauth2kit/pkceflow/internal/metrics"
)

// HTTPDoer issues the token endpoint request. *http.Client satisfies it.
// The default client carries no cookie jar, so the exchange is authenticated
// by the code/verifier pair alone and never rides on ambient credentials.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// TokenRequestParams are the inputs for one code-for-tokens exchange.
// Exactly one of AuthorizationCode and InteractionCode is expected; when
// both are set, the interaction code wins.
type TokenRequestParams struct {
	ClientID          string
	RedirectURI       string
	AuthorizationCode string
	InteractionCode   string
	CodeVerifier      string
}

// TokenResponse carries the token endpoint's parsed JSON payload. The known
// OAuth fields are decoded for convenience; Raw holds everything the
// endpoint sent, untouched.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	IDToken      string `json:"id_token"`
	Scope        string `json:"scope"`

	raw map[string]any
}

// Raw returns every field the endpoint sent, including ones not modeled on
// TokenResponse.
func (t *TokenResponse) Raw() map[string]any { return t.raw }

// Token adapts the response for use with golang.org/x/oauth2 token sources.
func (t *TokenResponse) Token() *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  t.AccessToken,
		TokenType:    t.TokenType,
		RefreshToken: t.RefreshToken,
	}
	if t.ExpiresIn > 0 {
		tok.Expiry = time.Now().Add(time.Duration(t.ExpiresIn) * time.Second)
	}
	return tok.WithExtra(t.raw)
}

// Client performs token endpoint exchanges.
type Client struct {
	httpClient HTTPDoer
}

// NewClient returns a Client using httpClient for the exchange call, or a
// jar-less default client when nil.
func NewClient(httpClient HTTPDoer) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{httpClient: httpClient}
}

func (p TokenRequestParams) validate() error {
	switch {
	case p.ClientID == "":
		return &ConfigurationError{Field: "clientId"}
	case p.RedirectURI == "":
		return &ConfigurationError{Field: "redirectUri"}
	case p.AuthorizationCode == "" && p.InteractionCode == "":
		return &PreconditionError{Field: "authorizationCode or interactionCode"}
	case p.CodeVerifier == "":
		return &PreconditionError{Field: "codeVerifier"}
	}
	return nil
}

// formValues builds the token request body. Unset optional parameters are
// omitted entirely, never sent as empty strings.
func (p TokenRequestParams) formValues() url.Values {
	v := url.Values{}
	v.Set(FormParamClientID, p.ClientID)
	v.Set(FormParamRedirectURI, p.RedirectURI)
	if p.InteractionCode != "" {
		v.Set(FormParamGrantType, GrantTypeInteractionCode)
		v.Set(FormParamInteractionCode, p.InteractionCode)
	} else {
		v.Set(FormParamGrantType, GrantTypeAuthorizationCode)
		v.Set(FormParamAuthorizationCode, p.AuthorizationCode)
	}
	v.Set(FormParamCodeVerifier, p.CodeVerifier)
	return v
}

// ExchangeCodeForTokens redeems an authorization or interaction code plus
// the PKCE verifier at the token endpoint. Validation failures surface
// before any network I/O with a distinct error per cause, first violation
// only. Network and HTTP failures surface as *TransportError. The exchange
// is attempted exactly once, with no internal retries.
func (c *Client) ExchangeCodeForTokens(ctx context.Context, params TokenRequestParams, tokenURL string) (*TokenResponse, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	body := params.formValues().Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveExchange(tokenURL, 0, time.Since(start))
		return nil, &TransportError{Endpoint: tokenURL, Err: err}
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ObserveExchange(tokenURL, 0, time.Since(start))
		return nil, &TransportError{Endpoint: tokenURL, Err: err}
	}
	metrics.ObserveExchange(tokenURL, resp.StatusCode, time.Since(start))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &TransportError{Endpoint: tokenURL, StatusCode: resp.StatusCode, Body: b}
	}

	var tr TokenResponse
	if err := json.Unmarshal(b, &tr); err != nil {
		return nil, fmt.Errorf("failed to parse token response: %w", err)
	}
	if err := json.Unmarshal(b, &tr.raw); err != nil {
		return nil, fmt.Errorf("failed to parse token response: %w", err)
	}
	return &tr, nil
}
