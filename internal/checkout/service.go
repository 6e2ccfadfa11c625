package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopease/shopease-backend/internal/cart"
	"github.com/shopease/shopease-backend/internal/inventory"
	"github.com/shopease/shopease-backend/internal/orders"
	"github.com/shopease/shopease-backend/internal/products"
	"github.com/shopease/shopease-backend/pkg/db/models"
	"github.com/shopease/shopease-backend/pkg/enums"
	pkgerrors "github.com/shopease/shopease-backend/pkg/errors"
	"github.com/shopease/shopease-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Request is the payload accepted when placing an order.
type Request struct {
	ShippingAddress types.Address `json:"shipping_address" validate:"required"`
	PaymentMethod   string        `json:"payment_method" validate:"required"`
}

// Service turns a cart into an order. The whole flow runs inside one
// transaction: stock is taken with conditional decrements, line items are
// frozen, and the cart is emptied. Any failure rolls everything back.
type Service interface {
	Execute(ctx context.Context, ownerID uuid.UUID, req Request) (*orders.OrderDTO, error)
}

// ServiceParams bundles the dependencies required to build a checkout service.
type ServiceParams struct {
	CartRepo      *cart.Repository
	ProductRepo   *products.Repository
	InventoryRepo *inventory.Repository
	OrderRepo     *orders.Repository
	Tx            txRunner
}

type service struct {
	carts     *cart.Repository
	products  *products.Repository
	inventory *inventory.Repository
	orders    *orders.Repository
	tx        txRunner
}

// NewService constructs a checkout service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.CartRepo == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if params.ProductRepo == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	if params.InventoryRepo == nil {
		return nil, fmt.Errorf("inventory repository is required")
	}
	if params.OrderRepo == nil {
		return nil, fmt.Errorf("order repository is required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	return &service{
		carts:     params.CartRepo,
		products:  params.ProductRepo,
		inventory: params.InventoryRepo,
		orders:    params.OrderRepo,
		tx:        params.Tx,
	}, nil
}

func (s *service) Execute(ctx context.Context, ownerID uuid.UUID, req Request) (*orders.OrderDTO, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !req.ShippingAddress.Validate() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping address is incomplete")
	}
	if req.PaymentMethod == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment method is required")
	}

	var placed *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.carts.WithTx(tx)
		productRepo := s.products.WithTx(tx)
		inventoryRepo := s.inventory.WithTx(tx)
		orderRepo := s.orders.WithTx(tx)

		current, err := cartRepo.FindByOwner(ctx, ownerID)
		if err != nil {
			if appErr := pkgerrors.As(err); appErr != nil && appErr.Code() == pkgerrors.CodeNotFound {
				return pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
			}
			return err
		}
		if len(current.Items) == 0 {
			return pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
		}

		ids := make([]uuid.UUID, 0, len(current.Items))
		for _, item := range current.Items {
			ids = append(ids, item.ProductID)
		}
		catalog, err := productRepo.FindByIDs(ctx, ids)
		if err != nil {
			return err
		}

		// take stock line by line; the conditional update refuses oversells
		// even when two checkouts race on the same product
		for _, item := range current.Items {
			product, known := catalog[item.ProductID]
			name := "unknown product"
			if known {
				name = product.Name
			}
			if !known {
				return insufficientStock(name, item.ProductID, item.Quantity)
			}
			ok, err := inventoryRepo.Decrement(ctx, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return insufficientStock(name, item.ProductID, item.Quantity)
			}
		}

		items := make([]models.OrderItem, 0, len(current.Items))
		for i, item := range current.Items {
			productID := item.ProductID
			items = append(items, models.OrderItem{
				ProductID: &productID,
				Name:      catalog[item.ProductID].Name,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
				Position:  i,
			})
		}

		placed, err = orderRepo.Create(ctx, &models.Order{
			OwnerID:         ownerID,
			Total:           cart.ComputeTotal(current.Items),
			Status:          enums.OrderStatusPending,
			ShippingAddress: req.ShippingAddress,
			PaymentMethod:   req.PaymentMethod,
			PaymentStatus:   enums.PaymentStatusPending,
			Items:           items,
		})
		if err != nil {
			return err
		}

		if err := cartRepo.DeleteItems(ctx, current.ID); err != nil {
			return err
		}
		return cartRepo.UpdateTotal(ctx, current.ID, cart.ComputeTotal(nil))
	})
	if err != nil {
		return nil, err
	}

	return orders.ToDTO(placed), nil
}

func insufficientStock(name string, productID uuid.UUID, requested int) error {
	return pkgerrors.New(pkgerrors.CodeInsufficientStock, fmt.Sprintf("insufficient stock for %s", name)).
		WithDetails(map[string]any{"product_id": productID, "requested": requested})
}
