package services

import (
	"context"
	"fmt"
	"time"

	"waiter/internal/models"
	"waiter/internal/repositories"
	"waiter/pkg/logger"

	"github.com/google/uuid"
)

type OrderService interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	Update(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*models.Order, error)

	// FilterOrders returns the orders created inside the inclusive range
	// together with their total_check and total_tip sums.
	FilterOrders(ctx context.Context, dateRange models.DateRange) (*models.OrderFilterResult, error)
	// DeletePaidOrders removes the PAID orders created inside the inclusive
	// range and returns how many were deleted.
	DeletePaidOrders(ctx context.Context, dateRange models.DateRange) (int64, error)
}

type orderService struct {
	orderRepo repositories.OrderRepository
	log       *logger.Logger
	now       func() time.Time
}

func NewOrderService(orderRepo repositories.OrderRepository, log *logger.Logger) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		log:       log.WithComponent("order_service"),
		now:       time.Now,
	}
}

func (s *orderService) prepare(order *models.Order) error {
	if order.State == "" {
		order.State = models.OrderStateOrdering
	}
	if !order.State.Valid() {
		return newValidationError("state", "\"%s\" is not a valid choice.", order.State)
	}
	if order.State == models.OrderStatePaid && order.DatePaid == nil {
		today := models.NewDate(s.now())
		order.DatePaid = &today
	}
	return nil
}

func (s *orderService) Create(ctx context.Context, order *models.Order) error {
	if err := s.prepare(order); err != nil {
		return err
	}
	order.ID = uuid.New()
	order.DateCreated = models.NewDate(s.now())
	return mapRepoError(s.orderRepo.Create(ctx, order))
}

func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return order, nil
}

// Update writes every mutable field. date_created is kept as stored.
func (s *orderService) Update(ctx context.Context, order *models.Order) error {
	if err := s.prepare(order); err != nil {
		return err
	}
	return mapRepoError(s.orderRepo.Update(ctx, order))
}

func (s *orderService) Delete(ctx context.Context, id uuid.UUID) error {
	return mapRepoError(s.orderRepo.Delete(ctx, id))
}

func (s *orderService) List(ctx context.Context) ([]*models.Order, error) {
	return s.orderRepo.List(ctx)
}

func (s *orderService) FilterOrders(ctx context.Context, dateRange models.DateRange) (*models.OrderFilterResult, error) {
	result, err := s.orderRepo.FilterByDateRange(ctx, dateRange)
	if err != nil {
		return nil, fmt.Errorf("filter orders: %w", err)
	}
	return result, nil
}

func (s *orderService) DeletePaidOrders(ctx context.Context, dateRange models.DateRange) (int64, error) {
	deleted, err := s.orderRepo.DeleteByStateAndDateRange(ctx, models.OrderStatePaid, dateRange)
	if err != nil {
		return 0, fmt.Errorf("delete paid orders: %w", err)
	}
	s.log.Info("deleted paid orders",
		"start_date", dateRange.Start.String(),
		"end_date", dateRange.End.String(),
		"orders_deleted", deleted,
	)
	return deleted, nil
}
