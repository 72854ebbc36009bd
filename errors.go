package pkceflow

import "fmt"

// ConfigurationError reports an SDK configuration value missing at exchange
// time (client ID, redirect URI). Retrying the same call cannot succeed.
type ConfigurationError struct {
	Field string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("unable to exchange code for tokens: %s is not configured", e.Field)
}

// PreconditionError reports a missing flow value at exchange time: neither
// code was supplied, or the code verifier is absent.
type PreconditionError struct {
	Field string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("unable to exchange code for tokens: %s is missing", e.Field)
}

// StateNotFoundError is returned by LoadMeta when neither storage tier holds
// an in-flight flow record. It signals that the callback was handled twice,
// or that a concurrent flow already consumed the state. Retrying the load
// cannot help; the authorization flow must be restarted from the beginning.
type StateNotFoundError struct{}

func (e *StateNotFoundError) Error() string {
	return "no in-flight PKCE flow state found: the callback may have been handled already, or a concurrent flow cleared it"
}

// TransportError wraps a network or HTTP-level failure of the token endpoint
// call. StatusCode is zero when the request never produced a response.
type TransportError struct {
	Endpoint   string
	StatusCode int
	Body       []byte
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("token request to %s failed: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("token request to %s failed with status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

func (e *TransportError) Unwrap() error { return e.Err }
