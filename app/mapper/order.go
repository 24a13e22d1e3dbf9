package mapper

import (
	"time"

	"github.com/kliqtmedia/ms-go-billing/app/entity"
	"github.com/kliqtmedia/ms-go-billing/app/types"
)

func OrderToResponse(order *entity.Order) *types.OrderResponse {
	return &types.OrderResponse{
		ID:                    order.ID,
		StripeSessionID:       order.StripeSessionID,
		StripePaymentIntentID: order.StripePaymentIntentID,
		CustomerEmail:         order.CustomerEmail,
		AmountTotal:           order.AmountTotal,
		Currency:              order.Currency,
		Status:                order.Status,
		Metadata:              order.Metadata,
		CreatedAt:             formatTime(order.CreatedAt),
		UpdatedAt:             formatTime(order.UpdatedAt),
	}
}

func OrdersToResponse(orders []*entity.Order) []*types.OrderResponse {
	out := make([]*types.OrderResponse, 0, len(orders))
	for _, order := range orders {
		out = append(out, OrderToResponse(order))
	}
	return out
}

func PaymentToResponse(payment *entity.Payment) *types.PaymentResponse {
	return &types.PaymentResponse{
		ID:                    payment.ID,
		StripePaymentIntentID: payment.StripePaymentIntentID,
		OrderID:               payment.OrderID,
		Amount:                payment.Amount,
		Currency:              payment.Currency,
		Status:                payment.Status,
		ReceiptEmail:          payment.ReceiptEmail,
		FailureReason:         payment.FailureReason,
		CreatedAt:             formatTime(payment.CreatedAt),
		UpdatedAt:             formatTime(payment.UpdatedAt),
	}
}

func PaymentsToResponse(payments []*entity.Payment) []*types.PaymentResponse {
	out := make([]*types.PaymentResponse, 0, len(payments))
	for _, payment := range payments {
		out = append(out, PaymentToResponse(payment))
	}
	return out
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}
