package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopease/shopease-backend/pkg/db/models"
	"github.com/shopease/shopease-backend/pkg/enums"
	pkgerrors "github.com/shopease/shopease-backend/pkg/errors"
)

type orderRepository interface {
	WithTx(tx *gorm.DB) *Repository
	FindByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*models.Order, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
}

// Service exposes order reads and the status transition.
type Service interface {
	Get(ctx context.Context, ownerID, orderID uuid.UUID) (*OrderDTO, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]OrderDTO, error)
	SetStatus(ctx context.Context, ownerID, orderID uuid.UUID, status string) (*OrderDTO, error)
}

// ServiceParams bundles the dependencies required to build an order service.
type ServiceParams struct {
	OrderRepo orderRepository
}

type service struct {
	orders orderRepository
}

// NewService constructs an order service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.OrderRepo == nil {
		return nil, fmt.Errorf("order repository is required")
	}
	return &service{orders: params.OrderRepo}, nil
}

func (s *service) Get(ctx context.Context, ownerID, orderID uuid.UUID) (*OrderDTO, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	order, err := s.orders.FindByIDAndOwner(ctx, orderID, ownerID)
	if err != nil {
		return nil, err
	}
	return ToDTO(order), nil
}

func (s *service) List(ctx context.Context, ownerID uuid.UUID) ([]OrderDTO, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	rows, err := s.orders.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	dtos := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *ToDTO(&rows[i]))
	}
	return dtos, nil
}

// SetStatus overwrites the order status with any valid enum value. Arbitrary
// transitions are allowed on purpose; only enum membership is enforced.
func (s *service) SetStatus(ctx context.Context, ownerID, orderID uuid.UUID, status string) (*OrderDTO, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	parsed, err := enums.ParseOrderStatus(status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidStatus, "invalid status").
			WithDetails(map[string]any{"status": status, "allowed": enums.OrderStatusValues()})
	}

	order, err := s.orders.FindByIDAndOwner(ctx, orderID, ownerID)
	if err != nil {
		return nil, err
	}
	if err := s.orders.UpdateStatus(ctx, order.ID, parsed); err != nil {
		return nil, err
	}
	order.Status = parsed
	return ToDTO(order), nil
}
