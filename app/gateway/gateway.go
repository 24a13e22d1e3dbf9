package gateway

import (
	"context"
	"errors"
)

var (
	ErrInvalidPriceReference = errors.New("price reference is not known to the payment provider")
	ErrGatewayUnavailable    = errors.New("payment provider is unavailable")
	ErrInvalidSignature      = errors.New("invalid event signature")
)

type CreateSessionInput struct {
	PriceID       string
	SuccessURL    string
	CancelURL     string
	CustomerEmail string
	Metadata      map[string]string
}

type CreateSessionOutput struct {
	SessionID   string
	RedirectURL string
}

// Gateway isolates all direct interaction with the payment provider.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, input *CreateSessionInput) (*CreateSessionOutput, error)
	VerifyEvent(payload []byte, signatureHeader string) (*Event, error)
}
