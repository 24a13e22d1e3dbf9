package types

import (
	"errors"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

type ListOrdersRequest struct {
	CustomerEmail string
	Limit         int32
	Offset        int32
}

func NewListOrdersRequestFromContext(ctx echo.Context) (*ListOrdersRequest, error) {
	req := &ListOrdersRequest{
		CustomerEmail: strings.ToLower(strings.TrimSpace(ctx.QueryParam("customer_email"))),
		Limit:         50,
		Offset:        0,
	}

	if limitRaw := strings.TrimSpace(ctx.QueryParam("limit")); limitRaw != "" {
		limit, err := strconv.ParseInt(limitRaw, 10, 32)
		if err != nil {
			return nil, err
		}
		req.Limit = int32(limit)
	}

	if offsetRaw := strings.TrimSpace(ctx.QueryParam("offset")); offsetRaw != "" {
		offset, err := strconv.ParseInt(offsetRaw, 10, 32)
		if err != nil {
			return nil, err
		}
		req.Offset = int32(offset)
	}

	return req, nil
}

func (r *ListOrdersRequest) Validate() error {
	if r.CustomerEmail == "" {
		return errors.New("customer_email is required")
	}
	if r.Limit <= 0 || r.Limit > 200 {
		return errors.New("limit must be between 1 and 200")
	}
	if r.Offset < 0 {
		return errors.New("offset must be >= 0")
	}
	return nil
}

type OrderResponse struct {
	ID                    uint64            `json:"id"`
	StripeSessionID       string            `json:"stripe_session_id"`
	StripePaymentIntentID *string           `json:"stripe_payment_intent_id,omitempty"`
	CustomerEmail         *string           `json:"customer_email,omitempty"`
	AmountTotal           int64             `json:"amount_total"`
	Currency              string            `json:"currency"`
	Status                string            `json:"status"`
	Metadata              map[string]string `json:"metadata,omitempty"`
	CreatedAt             string            `json:"created_at"`
	UpdatedAt             string            `json:"updated_at"`
}

type ListOrdersResponse struct {
	Orders []*OrderResponse `json:"orders"`
	Limit  int32            `json:"limit"`
	Offset int32            `json:"offset"`
}

type PaymentResponse struct {
	ID                    uint64  `json:"id"`
	StripePaymentIntentID string  `json:"stripe_payment_intent_id"`
	OrderID               *uint64 `json:"order_id,omitempty"`
	Amount                int64   `json:"amount"`
	Currency              string  `json:"currency"`
	Status                string  `json:"status"`
	ReceiptEmail          *string `json:"receipt_email,omitempty"`
	FailureReason         *string `json:"failure_reason,omitempty"`
	CreatedAt             string  `json:"created_at"`
	UpdatedAt             string  `json:"updated_at"`
}

type ListPaymentsResponse struct {
	Payments []*PaymentResponse `json:"payments"`
	Limit    int32              `json:"limit"`
	Offset   int32              `json:"offset"`
}
