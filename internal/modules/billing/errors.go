package billing

import "errors"

var (
	ErrInvalidSignature = errors.New("invalid signature")
	ErrInvalidPayload   = errors.New("invalid payload")
)
