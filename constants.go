package pkceflow

const (
	// DefaultCodeChallengeMethod is the only code challenge method this
	// package supports. There is deliberately no fallback to "plain".
	DefaultCodeChallengeMethod = "S256"

	FormParamClientID          = "client_id"
	FormParamRedirectURI       = "redirect_uri"
	FormParamGrantType         = "grant_type"
	FormParamAuthorizationCode = "code"
	FormParamInteractionCode   = "interaction_code"
	FormParamCodeVerifier      = "code_verifier"

	GrantTypeAuthorizationCode = "authorization_code"
	GrantTypeInteractionCode   = "interaction_code"

	QueryParamCodeChallenge       = "code_challenge"
	QueryParamCodeChallengeMethod = "code_challenge_method"
	QueryParamState               = "state"
)
