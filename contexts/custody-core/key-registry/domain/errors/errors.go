package errors

import "errors"

var (
	ErrNotAuthorizedIssuer = errors.New("caller is not the registered key issuer")
	ErrKeyNotFound         = errors.New("key id was never registered")
	ErrKeyExists           = errors.New("key id is already registered")
	ErrInsufficientBalance = errors.New("holder balance is insufficient")
	ErrSoulBreach          = errors.New("transfer would drop holder below soulbound floor")
	ErrFloorExceedsBalance = errors.New("soulbound floor cannot exceed holder balance")
	ErrInvalidInput        = errors.New("key registry input is invalid")
)
