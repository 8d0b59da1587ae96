package services

import (
	"context"
	"errors"

	"github.com/shopkart-dev/shopkart-api/models"
	"github.com/shopkart-dev/shopkart-api/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrInvalidStatus = errors.New("invalid order status")

type OrderService struct {
	orders repositories.OrderRepository
}

func NewOrderService(orders repositories.OrderRepository) *OrderService {
	return &OrderService{orders: orders}
}

func (s *OrderService) ListByBuyer(ctx context.Context, buyer primitive.ObjectID) ([]models.Order, error) {
	return s.orders.FindByBuyer(ctx, buyer)
}

func (s *OrderService) ListAll(ctx context.Context) ([]models.Order, error) {
	return s.orders.FindAll(ctx)
}

// SetStatus overwrites the fulfilment status. The vocabulary is closed
// but transitions are unconstrained: an admin may move any status to any
// other, which covers corrections.
func (s *OrderService) SetStatus(ctx context.Context, orderID primitive.ObjectID, status string) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, ErrInvalidStatus
	}
	return s.orders.UpdateStatus(ctx, orderID, status)
}
