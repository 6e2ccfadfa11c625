package products

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopease/shopease-backend/internal/inventory"
	"github.com/shopease/shopease-backend/pkg/db/models"
	pkgerrors "github.com/shopease/shopease-backend/pkg/errors"
	"github.com/shopease/shopease-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productRepository interface {
	WithTx(tx *gorm.DB) *Repository
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, filter ListFilter) ([]models.Product, error)
}

type inventoryRepository interface {
	WithTx(tx *gorm.DB) *inventory.Repository
	GetAvailable(ctx context.Context, productID uuid.UUID) (int, error)
	GetAvailableBatch(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]int, error)
	Upsert(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error)
}

// Service exposes catalog management and browsing.
type Service interface {
	Create(ctx context.Context, req CreateProductRequest) (*ProductDTO, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	List(ctx context.Context, req ListRequest) (*ListResponse, error)
}

// ServiceParams bundles the dependencies required to build a product service.
type ServiceParams struct {
	ProductRepo   productRepository
	InventoryRepo inventoryRepository
	Tx            txRunner
}

type service struct {
	products  productRepository
	inventory inventoryRepository
	tx        txRunner
}

// NewService constructs a product service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.ProductRepo == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	if params.InventoryRepo == nil {
		return nil, fmt.Errorf("inventory repository is required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	return &service{
		products:  params.ProductRepo,
		inventory: params.InventoryRepo,
		tx:        params.Tx,
	}, nil
}

func (s *service) Create(ctx context.Context, req CreateProductRequest) (*ProductDTO, error) {
	if req.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if req.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}

	product := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		Tags:        req.Tags,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		created, err := s.products.WithTx(tx).Create(ctx, product)
		if err != nil {
			return err
		}
		_, err = s.inventory.WithTx(tx).Upsert(ctx, &models.InventoryItem{
			ProductID:    created.ID,
			AvailableQty: req.Stock,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	dto := toDTO(product, req.Stock)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if req.Price != nil && req.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if req.Stock != nil && *req.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}

	var updated *models.Product
	var stock int
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		productRepo := s.products.WithTx(tx)
		inventoryRepo := s.inventory.WithTx(tx)

		current, err := productRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		applyUpdates(current, req)

		updated, err = productRepo.Update(ctx, current)
		if err != nil {
			return err
		}

		if req.Stock != nil {
			if _, err := inventoryRepo.Upsert(ctx, &models.InventoryItem{
				ProductID:    id,
				AvailableQty: *req.Stock,
			}); err != nil {
				return err
			}
			stock = *req.Stock
			return nil
		}
		stock, err = inventoryRepo.GetAvailable(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	dto := toDTO(updated, stock)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	return s.products.Delete(ctx, id)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	stock, err := s.inventory.GetAvailable(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toDTO(product, stock)
	return &dto, nil
}

func (s *service) List(ctx context.Context, req ListRequest) (*ListResponse, error) {
	cursor, err := pagination.ParseCursor(req.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(req.Limit)

	rows, err := s.products.List(ctx, ListFilter{
		Category: req.Category,
		Query:    req.Query,
		Cursor:   cursor,
		Limit:    limit,
	})
	if err != nil {
		return nil, err
	}

	nextCursor := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	stocks, err := s.inventory.GetAvailableBatch(ctx, ids)
	if err != nil {
		return nil, err
	}

	dtos := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, toDTO(&rows[i], stocks[rows[i].ID]))
	}

	return &ListResponse{Products: dtos, NextCursor: nextCursor}, nil
}

func applyUpdates(product *models.Product, req UpdateProductRequest) {
	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}
	if req.Tags != nil {
		product.Tags = req.Tags
	}
	if req.Rating != nil {
		product.Rating = *req.Rating
	}
}
