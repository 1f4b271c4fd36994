package services

import (
	"context"
	"errors"

	"waiter/internal/models"
	"waiter/internal/repositories"

	"github.com/google/uuid"
)

type QuantityService interface {
	Create(ctx context.Context, quantity *models.Quantity) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Quantity, error)
	Update(ctx context.Context, quantity *models.Quantity) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*models.Quantity, error)
}

type quantityService struct {
	quantityRepo repositories.QuantityRepository
	orderRepo    repositories.OrderRepository
	productRepo  repositories.ProductRepository
}

func NewQuantityService(quantityRepo repositories.QuantityRepository, orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository) QuantityService {
	return &quantityService{
		quantityRepo: quantityRepo,
		orderRepo:    orderRepo,
		productRepo:  productRepo,
	}
}

func invalidPK(field string, id uuid.UUID) *ValidationError {
	return newValidationError(field, "Invalid pk \"%s\" - object does not exist.", id)
}

// checkReferences makes sure the order and product the quantity points at
// exist. The foreign keys still guard against a concurrent delete.
func (s *quantityService) checkReferences(ctx context.Context, quantity *models.Quantity) error {
	if _, err := s.orderRepo.GetByID(ctx, quantity.OrderID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return invalidPK("order", quantity.OrderID)
		}
		return err
	}
	if _, err := s.productRepo.GetByID(ctx, quantity.ProductID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return invalidPK("product", quantity.ProductID)
		}
		return err
	}
	return nil
}

func (s *quantityService) Create(ctx context.Context, quantity *models.Quantity) error {
	if err := s.checkReferences(ctx, quantity); err != nil {
		return err
	}
	quantity.ID = uuid.New()
	return mapRepoError(s.quantityRepo.Create(ctx, quantity))
}

func (s *quantityService) GetByID(ctx context.Context, id uuid.UUID) (*models.Quantity, error) {
	quantity, err := s.quantityRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return quantity, nil
}

func (s *quantityService) Update(ctx context.Context, quantity *models.Quantity) error {
	if err := s.checkReferences(ctx, quantity); err != nil {
		return err
	}
	return mapRepoError(s.quantityRepo.Update(ctx, quantity))
}

func (s *quantityService) Delete(ctx context.Context, id uuid.UUID) error {
	return mapRepoError(s.quantityRepo.Delete(ctx, id))
}

func (s *quantityService) List(ctx context.Context) ([]*models.Quantity, error) {
	return s.quantityRepo.List(ctx)
}
