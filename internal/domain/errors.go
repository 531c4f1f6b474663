// Package domain provides shared domain-level sentinel errors.
package domain

import "errors"

// ErrDuplicateIdentity indicates a registration attempt with an identity
// that is already present in the registry. Identities are generated
// uniquely per connection, so hitting this is a defensive signal, not a
// normal outcome.
var ErrDuplicateIdentity = errors.New("duplicate client identity")

// ErrMalformedPayload indicates an inbound webhook body that fails
// required-field validation.
var ErrMalformedPayload = errors.New("malformed webhook payload")

// ErrNotConfigured is returned when an outbound integration is used
// without the configuration it needs.
var ErrNotConfigured = errors.New("not configured")
