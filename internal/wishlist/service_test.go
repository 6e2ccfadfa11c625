package wishlist

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shopease/shopease-backend/internal/products"
	"github.com/shopease/shopease-backend/pkg/db/models"
	pkgerrors "github.com/shopease/shopease-backend/pkg/errors"
)

type fixture struct {
	svc      Service
	products *products.Repository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:wishlist_"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Product{}, &models.WishlistItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	productRepo := products.NewRepository(conn)
	svc, err := NewService(ServiceParams{
		WishlistRepo: NewRepository(conn),
		ProductRepo:  productRepo,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return &fixture{svc: svc, products: productRepo}
}

func (f *fixture) seedProduct(t *testing.T, name string) uuid.UUID {
	t.Helper()
	product := &models.Product{Name: name, Price: decimal.NewFromFloat(5.00), Category: "test"}
	if _, err := f.products.Create(context.Background(), product); err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product.ID
}

func TestAddAndList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ownerID := uuid.New()
	productID := f.seedProduct(t, "Poster")

	if err := f.svc.Add(ctx, ownerID, productID); err != nil {
		t.Fatalf("add: %v", err)
	}

	entries, err := f.svc.List(ctx, ownerID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "Poster" {
		t.Fatalf("unexpected entries %+v", entries)
	}
}

func TestAddDuplicateIsConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ownerID := uuid.New()
	productID := f.seedProduct(t, "Poster")

	if err := f.svc.Add(ctx, ownerID, productID); err != nil {
		t.Fatalf("first add: %v", err)
	}
	err := f.svc.Add(ctx, ownerID, productID)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestAddUnknownProduct(t *testing.T) {
	f := newFixture(t)
	err := f.svc.Add(context.Background(), uuid.New(), uuid.New())
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRemove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ownerID := uuid.New()
	productID := f.seedProduct(t, "Poster")

	if err := f.svc.Add(ctx, ownerID, productID); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := f.svc.Remove(ctx, ownerID, productID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := f.svc.Remove(ctx, ownerID, productID); err == nil {
		t.Fatal("expected second remove to report not found")
	}

	entries, err := f.svc.List(ctx, ownerID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty wishlist, got %d", len(entries))
	}
}

func TestContains(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ownerID := uuid.New()
	productID := f.seedProduct(t, "Poster")

	saved, err := f.svc.Contains(ctx, ownerID, productID)
	if err != nil {
		t.Fatalf("contains: %v", err)
	}
	if saved {
		t.Fatal("expected product to be absent before add")
	}

	if err := f.svc.Add(ctx, ownerID, productID); err != nil {
		t.Fatalf("add: %v", err)
	}
	saved, err = f.svc.Contains(ctx, ownerID, productID)
	if err != nil {
		t.Fatalf("contains: %v", err)
	}
	if !saved {
		t.Fatal("expected product to be present after add")
	}
}

func TestClear(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ownerID := uuid.New()
	other := uuid.New()
	first := f.seedProduct(t, "First")
	second := f.seedProduct(t, "Second")

	for _, id := range []uuid.UUID{first, second} {
		if err := f.svc.Add(ctx, ownerID, id); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	if err := f.svc.Add(ctx, other, first); err != nil {
		t.Fatalf("add for other owner: %v", err)
	}

	if err := f.svc.Clear(ctx, ownerID); err != nil {
		t.Fatalf("clear: %v", err)
	}
	// clearing an already empty wishlist succeeds
	if err := f.svc.Clear(ctx, ownerID); err != nil {
		t.Fatalf("second clear: %v", err)
	}

	entries, err := f.svc.List(ctx, ownerID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty wishlist, got %d", len(entries))
	}
	theirs, err := f.svc.List(ctx, other)
	if err != nil {
		t.Fatalf("list other: %v", err)
	}
	if len(theirs) != 1 {
		t.Fatalf("expected other owner's wishlist untouched, got %d", len(theirs))
	}
}

func TestListSkipsDeletedProducts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ownerID := uuid.New()
	keep := f.seedProduct(t, "Keep")
	gone := f.seedProduct(t, "Gone")

	for _, id := range []uuid.UUID{keep, gone} {
		if err := f.svc.Add(ctx, ownerID, id); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	if err := f.products.Delete(ctx, gone); err != nil {
		t.Fatalf("delete product: %v", err)
	}

	entries, err := f.svc.List(ctx, ownerID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 || entries[0].ProductID != keep {
		t.Fatalf("expected only surviving product, got %+v", entries)
	}
}
