package errors

import "errors"

var (
	ErrKeyNotHeld       = errors.New("caller does not hold the required key")
	ErrKeyNotRoot       = errors.New("key is not the trust root key")
	ErrTrustNotFound    = errors.New("trust is unknown")
	ErrTrustKeyNotFound = errors.New("key does not belong to the trust")
	ErrInvalidKeyOnRing = errors.New("ring contains a key that was never minted")
	ErrNonTrustKey      = errors.New("ring contains a key from another trust")
	ErrRootOnRing       = errors.New("ring must not contain the trust root key")
	ErrInvalidInput     = errors.New("trust service input is invalid")
)
