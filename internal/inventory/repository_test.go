package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shopease/shopease-backend/pkg/db/models"
	pkgerrors "github.com/shopease/shopease-backend/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:inventory_"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.InventoryItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func seedStock(t *testing.T, repo *Repository, qty int) uuid.UUID {
	t.Helper()
	productID := uuid.New()
	if _, err := repo.Upsert(context.Background(), &models.InventoryItem{ProductID: productID, AvailableQty: qty}); err != nil {
		t.Fatalf("seed stock: %v", err)
	}
	return productID
}

func TestDecrementSucceedsWhenStockSuffices(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()
	productID := seedStock(t, repo, 5)

	ok, err := repo.Decrement(ctx, productID, 3)
	if err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if !ok {
		t.Fatal("expected decrement to succeed")
	}

	qty, err := repo.GetAvailable(ctx, productID)
	if err != nil {
		t.Fatalf("get available: %v", err)
	}
	if qty != 2 {
		t.Fatalf("expected 2 remaining, got %d", qty)
	}
}

func TestDecrementRefusesWhenStockInsufficient(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()
	productID := seedStock(t, repo, 2)

	ok, err := repo.Decrement(ctx, productID, 3)
	if err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if ok {
		t.Fatal("expected decrement to refuse")
	}

	qty, err := repo.GetAvailable(ctx, productID)
	if err != nil {
		t.Fatalf("get available: %v", err)
	}
	if qty != 2 {
		t.Fatalf("refused decrement must not change stock, got %d", qty)
	}
}

func TestDecrementExactTake(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()
	productID := seedStock(t, repo, 4)

	ok, err := repo.Decrement(ctx, productID, 4)
	if err != nil || !ok {
		t.Fatalf("expected exact take to succeed, ok=%v err=%v", ok, err)
	}
	qty, _ := repo.GetAvailable(ctx, productID)
	if qty != 0 {
		t.Fatalf("expected 0 remaining, got %d", qty)
	}

	ok, err = repo.Decrement(ctx, productID, 1)
	if err != nil {
		t.Fatalf("decrement after exhaustion: %v", err)
	}
	if ok {
		t.Fatal("expected decrement from zero to refuse")
	}
}

func TestDecrementUnknownProduct(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ok, err := repo.Decrement(context.Background(), uuid.New(), 1)
	if err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if ok {
		t.Fatal("unknown product must report insufficient stock")
	}
}

func TestDecrementRejectsNonPositiveQty(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	_, err := repo.Decrement(context.Background(), uuid.New(), 0)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestIncrementRestoresStock(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()
	productID := seedStock(t, repo, 1)

	if err := repo.Increment(ctx, productID, 4); err != nil {
		t.Fatalf("increment: %v", err)
	}
	qty, _ := repo.GetAvailable(ctx, productID)
	if qty != 5 {
		t.Fatalf("expected 5, got %d", qty)
	}
}

func TestIncrementUnknownProduct(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	err := repo.Increment(context.Background(), uuid.New(), 1)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestGetAvailableMissingRowIsZero(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	qty, err := repo.GetAvailable(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("get available: %v", err)
	}
	if qty != 0 {
		t.Fatalf("expected 0 for missing row, got %d", qty)
	}
}

func TestUpsertOverwritesQuantity(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()
	productID := seedStock(t, repo, 3)

	if _, err := repo.Upsert(ctx, &models.InventoryItem{ProductID: productID, AvailableQty: 9}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	qty, _ := repo.GetAvailable(ctx, productID)
	if qty != 9 {
		t.Fatalf("expected 9 after upsert, got %d", qty)
	}
}
