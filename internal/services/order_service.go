package services

import (
	"context"
	"errors"
	"strconv"

	"github.com/baharkarakas/storefront-backend/internal/models"
	repo "github.com/baharkarakas/storefront-backend/internal/repository"
)

// OrderService exposes read access to the delivery and pickup order tables.
type OrderService struct {
	orders  repo.Orders
	pickups repo.Orders
}

func NewOrderService(orders, pickups repo.Orders) *OrderService {
	return &OrderService{orders: orders, pickups: pickups}
}

func (s *OrderService) Get(ctx context.Context, t models.OrderType, id int64) (models.Order, error) {
	store := s.orders
	if t == models.OrderPickup {
		store = s.pickups
	}
	o, err := store.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return models.Order{}, &NotFoundError{Entity: "order", ID: strconv.FormatInt(id, 10)}
	}
	if err != nil {
		return models.Order{}, persistence("get order", err)
	}
	return o, nil
}
