package models

import "errors"

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrWrongChat          = errors.New("wrong chat")
	ErrMalformedPayload   = errors.New("malformed payload")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrDeliveryFailed     = errors.New("delivery failed")
	ErrRateLimited        = errors.New("rate limited")
)

var errorKinds = []struct {
	err  error
	kind string
}{
	{ErrUnauthorized, "unauthorized"},
	{ErrNotFound, "not_found"},
	{ErrAlreadyExists, "already_exists"},
	{ErrInvalidArgument, "invalid_argument"},
	{ErrWrongChat, "wrong_chat"},
	{ErrMalformedPayload, "malformed_payload"},
	{ErrStorageUnavailable, "storage_unavailable"},
	{ErrDeliveryFailed, "delivery_failed"},
	{ErrRateLimited, "rate_limited"},
}

// ErrorKind returns the taxonomy label of err, or "internal" for anything unclassified.
func ErrorKind(err error) string {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return "internal"
}
