package pkceflow

import "github.com/google/uuid"

// GenerateState returns a random value for the OAuth state parameter.
// Callers typically carry it in FlowMeta.Params across the redirect and
// compare it against the state echoed back on the callback.
func GenerateState() string {
	return uuid.NewString()
}
