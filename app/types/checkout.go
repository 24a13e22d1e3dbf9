package types

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
)

type CreateCheckoutSessionRequest struct {
	PriceID       string            `json:"price_id"`
	CustomerEmail string            `json:"customer_email"`
	Metadata      map[string]string `json:"metadata"`
}

func NewCreateCheckoutSessionRequestFromContext(ctx echo.Context) (*CreateCheckoutSessionRequest, error) {
	var body CreateCheckoutSessionRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}

	body.PriceID = strings.TrimSpace(body.PriceID)
	body.CustomerEmail = strings.ToLower(strings.TrimSpace(body.CustomerEmail))

	return &body, nil
}

func (r *CreateCheckoutSessionRequest) Validate() error {
	if r.PriceID == "" {
		return errors.New("price_id is required")
	}
	if r.CustomerEmail != "" && !strings.Contains(r.CustomerEmail, "@") {
		return errors.New("customer_email is invalid")
	}
	return nil
}

type CheckoutSessionResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

type WebhookAckResponse struct {
	Received bool `json:"received"`
}
