package service

import (
	"context"

	"github.com/kliqtmedia/ms-go-billing/app/entity"
	"github.com/kliqtmedia/ms-go-billing/app/types"
)

type orderListRepository interface {
	ListByCustomerEmail(ctx context.Context, email string, limit, offset int32) ([]*entity.Order, error)
}

type paymentListRepository interface {
	ListByReceiptEmail(ctx context.Context, email string, limit, offset int32) ([]*entity.Payment, error)
}

// OrderService serves the read side of the dashboard: orders and payments
// reconciled from provider events, scoped to one customer email.
type OrderService struct {
	orderRepo   orderListRepository
	paymentRepo paymentListRepository
}

func NewOrderService(orderRepo orderListRepository, paymentRepo paymentListRepository) *OrderService {
	return &OrderService{orderRepo: orderRepo, paymentRepo: paymentRepo}
}

func (s *OrderService) ListOrders(ctx context.Context, req *types.ListOrdersRequest) ([]*entity.Order, error) {
	return s.orderRepo.ListByCustomerEmail(ctx, req.CustomerEmail, req.Limit, req.Offset)
}

func (s *OrderService) ListPayments(ctx context.Context, req *types.ListOrdersRequest) ([]*entity.Payment, error) {
	return s.paymentRepo.ListByReceiptEmail(ctx, req.CustomerEmail, req.Limit, req.Offset)
}
