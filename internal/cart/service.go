package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopease/shopease-backend/pkg/db/models"
	pkgerrors "github.com/shopease/shopease-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartRepository interface {
	WithTx(tx *gorm.DB) *Repository
	FindByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Cart, error)
	GetOrCreate(ctx context.Context, ownerID uuid.UUID) (*models.Cart, error)
}

type productFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error)
}

type stockReader interface {
	GetAvailable(ctx context.Context, productID uuid.UUID) (int, error)
}

// Service owns cart mutations. Every change recomputes the cached total from
// the resulting lines inside one transaction.
type Service interface {
	Get(ctx context.Context, ownerID uuid.UUID) (*CartDTO, error)
	AddLine(ctx context.Context, ownerID uuid.UUID, req AddLineRequest) (*CartDTO, error)
	SetLineQuantity(ctx context.Context, ownerID, productID uuid.UUID, qty int) (*CartDTO, error)
	RemoveLine(ctx context.Context, ownerID, productID uuid.UUID) (*CartDTO, error)
	Clear(ctx context.Context, ownerID uuid.UUID) error
}

// ServiceParams bundles the dependencies required to build a cart service.
type ServiceParams struct {
	CartRepo    cartRepository
	ProductRepo productFinder
	Inventory   stockReader
	Tx          txRunner
}

type service struct {
	carts    cartRepository
	products productFinder
	stock    stockReader
	tx       txRunner
}

// NewService constructs a cart service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.CartRepo == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if params.ProductRepo == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	if params.Inventory == nil {
		return nil, fmt.Errorf("stock reader is required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	return &service{
		carts:    params.CartRepo,
		products: params.ProductRepo,
		stock:    params.Inventory,
		tx:       params.Tx,
	}, nil
}

func (s *service) Get(ctx context.Context, ownerID uuid.UUID) (*CartDTO, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	cart, err := s.carts.FindByOwner(ctx, ownerID)
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil && appErr.Code() == pkgerrors.CodeNotFound {
			return emptyCartDTO(), nil
		}
		return nil, err
	}
	return s.render(ctx, cart)
}

func (s *service) AddLine(ctx context.Context, ownerID uuid.UUID, req AddLineRequest) (*CartDTO, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if req.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	product, err := s.products.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	var result *models.Cart
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.carts.WithTx(tx)

		cart, err := repo.GetOrCreate(ctx, ownerID)
		if err != nil {
			return err
		}

		existing := 0
		for _, item := range cart.Items {
			if item.ProductID == req.ProductID {
				existing = item.Quantity
				break
			}
		}

		available, err := s.stock.GetAvailable(ctx, req.ProductID)
		if err != nil {
			return err
		}
		if existing+req.Quantity > available {
			return pkgerrors.New(pkgerrors.CodeInsufficientStock, fmt.Sprintf("insufficient stock for %s", product.Name))
		}

		if existing > 0 {
			if err := repo.UpdateItemQuantity(ctx, cart.ID, req.ProductID, existing+req.Quantity); err != nil {
				return err
			}
		} else {
			position, err := repo.NextPosition(ctx, cart.ID)
			if err != nil {
				return err
			}
			if err := repo.AddItem(ctx, &models.CartItem{
				CartID:    cart.ID,
				ProductID: req.ProductID,
				Quantity:  req.Quantity,
				UnitPrice: product.Price,
				Position:  position,
			}); err != nil {
				return err
			}
		}

		result, err = s.refreshTotal(ctx, repo, ownerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.render(ctx, result)
}

func (s *service) SetLineQuantity(ctx context.Context, ownerID, productID uuid.UUID, qty int) (*CartDTO, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	// zero or negative quantity drops the line
	if qty < 1 {
		return s.RemoveLine(ctx, ownerID, productID)
	}

	var result *models.Cart
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.carts.WithTx(tx)

		cart, err := repo.FindByOwner(ctx, ownerID)
		if err != nil {
			return err
		}
		if err := repo.UpdateItemQuantity(ctx, cart.ID, productID, qty); err != nil {
			return err
		}

		result, err = s.refreshTotal(ctx, repo, ownerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.render(ctx, result)
}

func (s *service) RemoveLine(ctx context.Context, ownerID, productID uuid.UUID) (*CartDTO, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var result *models.Cart
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.carts.WithTx(tx)

		cart, err := repo.FindByOwner(ctx, ownerID)
		if err != nil {
			return err
		}
		if err := repo.DeleteItem(ctx, cart.ID, productID); err != nil {
			return err
		}

		result, err = s.refreshTotal(ctx, repo, ownerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.render(ctx, result)
}

func (s *service) Clear(ctx context.Context, ownerID uuid.UUID) error {
	if ownerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.carts.WithTx(tx)

		cart, err := repo.FindByOwner(ctx, ownerID)
		if err != nil {
			// clearing an absent cart is a no-op
			if appErr := pkgerrors.As(err); appErr != nil && appErr.Code() == pkgerrors.CodeNotFound {
				return nil
			}
			return err
		}
		if err := repo.DeleteItems(ctx, cart.ID); err != nil {
			return err
		}
		return repo.UpdateTotal(ctx, cart.ID, ComputeTotal(nil))
	})
}

// refreshTotal reloads the cart and persists the total derived from its lines.
func (s *service) refreshTotal(ctx context.Context, repo *Repository, ownerID uuid.UUID) (*models.Cart, error) {
	cart, err := repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	total := ComputeTotal(cart.Items)
	if err := repo.UpdateTotal(ctx, cart.ID, total); err != nil {
		return nil, err
	}
	cart.Total = total
	return cart, nil
}

func (s *service) render(ctx context.Context, cart *models.Cart) (*CartDTO, error) {
	ids := make([]uuid.UUID, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}
	found, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(found))
	for id, product := range found {
		names[id] = product.Name
	}
	return toDTO(cart, names), nil
}
