package service

import "errors"

var (
	ErrInvalidRequest        = errors.New("invalid request")
	ErrMissingPriceReference = errors.New("price reference is required")
	ErrInvalidPriceReference = errors.New("price reference is not recognized")
	ErrGatewayUnavailable    = errors.New("payment gateway unavailable")
	ErrEventRejected         = errors.New("event rejected")
	ErrReconcileFailed       = errors.New("event reconciliation failed")
	ErrAPIKeyNotFound        = errors.New("api key not found")
	ErrAPIKeyExpired         = errors.New("api key expired")
	ErrInsufficientScope     = errors.New("api key scope insufficient")
)
