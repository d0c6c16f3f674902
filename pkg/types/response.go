package types

import pkgerrors "github.com/angelmondragon/catalog-pricing/pkg/errors"

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// ValidationEnvelope is the body of a field-addressable validation failure.
type ValidationEnvelope struct {
	Errors pkgerrors.FieldErrors `json:"errors"`
}
