package errors

import "errors"

var (
	ErrRedundantProvision   = errors.New("actor is already trusted for the role")
	ErrNotCurrentActor      = errors.New("actor is not a current member of the role")
	ErrUntrustedActor       = errors.New("actor is not trusted for the required role")
	ErrUntrustedProvider    = errors.New("provider is not trusted for the trust")
	ErrUnapprovedAmount     = errors.New("withdrawal allowance is insufficient")
	ErrInvalidKey           = errors.New("key does not resolve to a trust")
	ErrKeyNotRoot           = errors.New("key is not the trust root key")
	ErrSizeMismatch         = errors.New("destination keys and amounts differ in length")
	ErrMissingRequiredEntry = errors.New("at least one destination key is required")
	ErrInvalidInput         = errors.New("permission broker input is invalid")
)
