package wishlist

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopease/shopease-backend/pkg/db/models"
	pkgerrors "github.com/shopease/shopease-backend/pkg/errors"
)

type wishlistRepository interface {
	Add(ctx context.Context, ownerID, productID uuid.UUID) error
	Remove(ctx context.Context, ownerID, productID uuid.UUID) error
	Contains(ctx context.Context, ownerID, productID uuid.UUID) (bool, error)
	ClearByOwner(ctx context.Context, ownerID uuid.UUID) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.WishlistItem, error)
}

type productFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error)
}

// EntryDTO is one saved product with its current catalog data.
type EntryDTO struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"image_url"`
	SavedAt   time.Time       `json:"saved_at"`
}

// Service exposes wishlist operations.
type Service interface {
	Add(ctx context.Context, ownerID, productID uuid.UUID) error
	Remove(ctx context.Context, ownerID, productID uuid.UUID) error
	Contains(ctx context.Context, ownerID, productID uuid.UUID) (bool, error)
	Clear(ctx context.Context, ownerID uuid.UUID) error
	List(ctx context.Context, ownerID uuid.UUID) ([]EntryDTO, error)
}

// ServiceParams bundles the dependencies required to build a wishlist service.
type ServiceParams struct {
	WishlistRepo wishlistRepository
	ProductRepo  productFinder
}

type service struct {
	wishlist wishlistRepository
	products productFinder
}

// NewService constructs a wishlist service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.WishlistRepo == nil {
		return nil, fmt.Errorf("wishlist repository is required")
	}
	if params.ProductRepo == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	return &service{wishlist: params.WishlistRepo, products: params.ProductRepo}, nil
}

func (s *service) Add(ctx context.Context, ownerID, productID uuid.UUID) error {
	if ownerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return err
	}
	return s.wishlist.Add(ctx, ownerID, productID)
}

func (s *service) Remove(ctx context.Context, ownerID, productID uuid.UUID) error {
	if ownerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	return s.wishlist.Remove(ctx, ownerID, productID)
}

func (s *service) Contains(ctx context.Context, ownerID, productID uuid.UUID) (bool, error) {
	if ownerID == uuid.Nil {
		return false, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	return s.wishlist.Contains(ctx, ownerID, productID)
}

func (s *service) Clear(ctx context.Context, ownerID uuid.UUID) error {
	if ownerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	return s.wishlist.ClearByOwner(ctx, ownerID)
}

func (s *service) List(ctx context.Context, ownerID uuid.UUID) ([]EntryDTO, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	items, err := s.wishlist.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	catalog, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	entries := make([]EntryDTO, 0, len(items))
	for _, item := range items {
		product, ok := catalog[item.ProductID]
		if !ok {
			// the product was deleted; skip the stale entry
			continue
		}
		entries = append(entries, EntryDTO{
			ProductID: item.ProductID,
			Name:      product.Name,
			Price:     product.Price,
			ImageURL:  product.ImageURL,
			SavedAt:   item.CreatedAt,
		})
	}
	return entries, nil
}
