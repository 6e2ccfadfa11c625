package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shopease/shopease-backend/internal/inventory"
	"github.com/shopease/shopease-backend/pkg/db"
	"github.com/shopease/shopease-backend/pkg/db/models"
	pkgerrors "github.com/shopease/shopease-backend/pkg/errors"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:products_"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Product{}, &models.InventoryItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	svc, err := NewService(ServiceParams{
		ProductRepo:   NewRepository(conn),
		InventoryRepo: inventory.NewRepository(conn),
		Tx:            db.NewWithConn(conn),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func mustCreate(t *testing.T, svc Service, name, category string, stock int) *ProductDTO {
	t.Helper()
	dto, err := svc.Create(context.Background(), CreateProductRequest{
		Name:     name,
		Price:    decimal.NewFromFloat(19.99),
		Category: category,
		Tags:     []string{"tag-a", "tag-b"},
		Stock:    stock,
	})
	if err != nil {
		t.Fatalf("create product %s: %v", name, err)
	}
	return dto
}

func TestCreateSeedsInventory(t *testing.T) {
	svc := newTestService(t)
	dto := mustCreate(t, svc, "Laptop Stand", "accessories", 7)

	got, err := svc.Get(context.Background(), dto.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Stock != 7 {
		t.Fatalf("expected stock 7, got %d", got.Stock)
	}
	if !got.Price.Equal(decimal.NewFromFloat(19.99)) {
		t.Fatalf("unexpected price %s", got.Price)
	}
}

func TestUpdateAdjustsStockAndFields(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	dto := mustCreate(t, svc, "Mug", "kitchen", 3)

	name := "Enamel Mug"
	price := decimal.NewFromFloat(24.50)
	stock := 11
	updated, err := svc.Update(ctx, dto.ID, UpdateProductRequest{
		Name:  &name,
		Price: &price,
		Stock: &stock,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Enamel Mug" || !updated.Price.Equal(price) || updated.Stock != 11 {
		t.Fatalf("unexpected update result %+v", updated)
	}

	// fields not in the request are preserved
	if updated.Category != "kitchen" {
		t.Fatalf("category should be untouched, got %q", updated.Category)
	}
}

func TestUpdateUnknownProduct(t *testing.T) {
	svc := newTestService(t)
	name := "x"
	_, err := svc.Update(context.Background(), uuid.New(), UpdateProductRequest{Name: &name})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteRemovesProduct(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	dto := mustCreate(t, svc, "Chair", "furniture", 2)

	if err := svc.Delete(ctx, dto.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, dto.ID); err == nil {
		t.Fatal("expected get after delete to fail")
	}
	if err := svc.Delete(ctx, dto.ID); err == nil {
		t.Fatal("expected second delete to report not found")
	}
}

func TestListFiltersByCategory(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	mustCreate(t, svc, "Desk", "furniture", 1)
	mustCreate(t, svc, "Lamp", "lighting", 1)
	mustCreate(t, svc, "Stool", "furniture", 1)

	resp, err := svc.List(ctx, ListRequest{Category: "furniture"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(resp.Products) != 2 {
		t.Fatalf("expected 2 furniture products, got %d", len(resp.Products))
	}
	for _, p := range resp.Products {
		if p.Category != "furniture" {
			t.Fatalf("unexpected category %q", p.Category)
		}
	}
}

func TestListSearchMatchesName(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	mustCreate(t, svc, "Walnut Desk", "furniture", 1)
	mustCreate(t, svc, "Office Chair", "furniture", 1)

	resp, err := svc.List(ctx, ListRequest{Query: "desk"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(resp.Products) != 1 || resp.Products[0].Name != "Walnut Desk" {
		t.Fatalf("unexpected search result %+v", resp.Products)
	}
}

func TestListPaginatesWithCursor(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		mustCreate(t, svc, "Item", "bulk", 1)
	}

	first, err := svc.List(ctx, ListRequest{Limit: 2})
	if err != nil {
		t.Fatalf("first page: %v", err)
	}
	if len(first.Products) != 2 || first.NextCursor == "" {
		t.Fatalf("expected full first page with cursor, got %d items cursor=%q", len(first.Products), first.NextCursor)
	}

	seen := map[uuid.UUID]bool{}
	for _, p := range first.Products {
		seen[p.ID] = true
	}

	cursor := first.NextCursor
	total := len(first.Products)
	for cursor != "" {
		page, err := svc.List(ctx, ListRequest{Limit: 2, Cursor: cursor})
		if err != nil {
			t.Fatalf("next page: %v", err)
		}
		for _, p := range page.Products {
			if seen[p.ID] {
				t.Fatalf("product %s returned twice", p.ID)
			}
			seen[p.ID] = true
		}
		total += len(page.Products)
		cursor = page.NextCursor
	}
	if total != 5 {
		t.Fatalf("expected 5 products across pages, got %d", total)
	}
}

func TestListRejectsBadCursor(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.List(context.Background(), ListRequest{Cursor: "garbage!!"})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateRejectsNegativePrice(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Create(context.Background(), CreateProductRequest{
		Name:     "Bad",
		Price:    decimal.NewFromInt(-1),
		Category: "misc",
	})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
