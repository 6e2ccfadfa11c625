package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shopease/shopease-backend/internal/inventory"
	"github.com/shopease/shopease-backend/internal/products"
	"github.com/shopease/shopease-backend/pkg/db"
	"github.com/shopease/shopease-backend/pkg/db/models"
	pkgerrors "github.com/shopease/shopease-backend/pkg/errors"
)

type cartFixture struct {
	svc       Service
	conn      *gorm.DB
	products  *products.Repository
	inventory *inventory.Repository
}

func newFixture(t *testing.T) *cartFixture {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:cart_"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Product{}, &models.InventoryItem{}, &models.Cart{}, &models.CartItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	productRepo := products.NewRepository(conn)
	inventoryRepo := inventory.NewRepository(conn)
	svc, err := NewService(ServiceParams{
		CartRepo:    NewRepository(conn),
		ProductRepo: productRepo,
		Inventory:   inventoryRepo,
		Tx:          db.NewWithConn(conn),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return &cartFixture{svc: svc, conn: conn, products: productRepo, inventory: inventoryRepo}
}

func (f *cartFixture) seedProduct(t *testing.T, name string, price float64) uuid.UUID {
	t.Helper()
	return f.seedProductWithStock(t, name, price, 100)
}

func (f *cartFixture) seedProductWithStock(t *testing.T, name string, price float64, stock int) uuid.UUID {
	t.Helper()
	product := &models.Product{
		Name:     name,
		Price:    decimal.NewFromFloat(price),
		Category: "test",
	}
	if _, err := f.products.Create(context.Background(), product); err != nil {
		t.Fatalf("seed product: %v", err)
	}
	item := &models.InventoryItem{ProductID: product.ID, AvailableQty: stock}
	if _, err := f.inventory.Upsert(context.Background(), item); err != nil {
		t.Fatalf("seed inventory: %v", err)
	}
	return product.ID
}

func TestGetMissingCartIsEmpty(t *testing.T) {
	f := newFixture(t)

	dto, err := f.svc.Get(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(dto.Items) != 0 {
		t.Fatalf("expected no items, got %d", len(dto.Items))
	}
	if !dto.Total.IsZero() {
		t.Fatalf("expected zero total, got %s", dto.Total)
	}
}

func TestAddLineSnapshotsPriceAndComputesTotal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ownerID := uuid.New()
	productID := f.seedProduct(t, "Mug", 4.50)

	dto, err := f.svc.AddLine(ctx, ownerID, AddLineRequest{ProductID: productID, Quantity: 2})
	if err != nil {
		t.Fatalf("add line: %v", err)
	}
	if len(dto.Items) != 1 {
		t.Fatalf("expected one line, got %d", len(dto.Items))
	}
	line := dto.Items[0]
	if line.Name != "Mug" || line.Quantity != 2 {
		t.Fatalf("unexpected line %+v", line)
	}
	if !line.UnitPrice.Equal(decimal.NewFromFloat(4.50)) {
		t.Fatalf("unexpected unit price %s", line.UnitPrice)
	}
	if !dto.Total.Equal(decimal.NewFromFloat(9.00)) {
		t.Fatalf("expected total 9.00, got %s", dto.Total)
	}
}

func TestAddLineMergesDuplicateProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ownerID := uuid.New()
	productID := f.seedProduct(t, "Mug", 4.50)

	if _, err := f.svc.AddLine(ctx, ownerID, AddLineRequest{ProductID: productID, Quantity: 2}); err != nil {
		t.Fatalf("first add: %v", err)
	}
	dto, err := f.svc.AddLine(ctx, ownerID, AddLineRequest{ProductID: productID, Quantity: 3})
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if len(dto.Items) != 1 {
		t.Fatalf("duplicate product must merge into one line, got %d", len(dto.Items))
	}
	if dto.Items[0].Quantity != 5 {
		t.Fatalf("expected merged quantity 5, got %d", dto.Items[0].Quantity)
	}
}

func TestAddLinePreservesInsertionOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ownerID := uuid.New()
	first := f.seedProduct(t, "First", 1.00)
	second := f.seedProduct(t, "Second", 2.00)
	third := f.seedProduct(t, "Third", 3.00)

	for _, id := range []uuid.UUID{first, second, third} {
		if _, err := f.svc.AddLine(ctx, ownerID, AddLineRequest{ProductID: id, Quantity: 1}); err != nil {
			t.Fatalf("add line: %v", err)
		}
	}
	// bumping the first line must not move it
	if _, err := f.svc.SetLineQuantity(ctx, ownerID, first, 4); err != nil {
		t.Fatalf("set quantity: %v", err)
	}

	dto, err := f.svc.Get(ctx, ownerID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	wantOrder := []uuid.UUID{first, second, third}
	for i, want := range wantOrder {
		if dto.Items[i].ProductID != want {
			t.Fatalf("line %d out of order: got %s want %s", i, dto.Items[i].ProductID, want)
		}
	}
}

func TestAddLineUnknownProduct(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.AddLine(context.Background(), uuid.New(), AddLineRequest{ProductID: uuid.New(), Quantity: 1})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSetLineQuantityRecomputesTotal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ownerID := uuid.New()
	productID := f.seedProduct(t, "Lamp", 10.00)

	if _, err := f.svc.AddLine(ctx, ownerID, AddLineRequest{ProductID: productID, Quantity: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}
	dto, err := f.svc.SetLineQuantity(ctx, ownerID, productID, 3)
	if err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	if !dto.Total.Equal(decimal.NewFromFloat(30.00)) {
		t.Fatalf("expected total 30.00, got %s", dto.Total)
	}
}

func TestSetLineQuantityMissingLine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ownerID := uuid.New()
	productID := f.seedProduct(t, "Lamp", 10.00)
	other := f.seedProduct(t, "Other", 5.00)

	if _, err := f.svc.AddLine(ctx, ownerID, AddLineRequest{ProductID: productID, Quantity: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}
	_, err := f.svc.SetLineQuantity(ctx, ownerID, other, 2)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSetLineQuantityZeroRemovesLine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ownerID := uuid.New()
	productID := f.seedProduct(t, "Lamp", 10.00)

	if _, err := f.svc.AddLine(ctx, ownerID, AddLineRequest{ProductID: productID, Quantity: 2}); err != nil {
		t.Fatalf("add: %v", err)
	}
	dto, err := f.svc.SetLineQuantity(ctx, ownerID, productID, 0)
	if err != nil {
		t.Fatalf("set quantity to zero: %v", err)
	}
	if len(dto.Items) != 0 || !dto.Total.IsZero() {
		t.Fatalf("expected empty cart after zero quantity, got %+v", dto)
	}
}

func TestAddLineRespectsAvailableStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ownerID := uuid.New()
	productID := f.seedProductWithStock(t, "Lamp", 10.00, 3)

	if _, err := f.svc.AddLine(ctx, ownerID, AddLineRequest{ProductID: productID, Quantity: 2}); err != nil {
		t.Fatalf("add within stock: %v", err)
	}
	// the merged quantity would exceed stock
	_, err := f.svc.AddLine(ctx, ownerID, AddLineRequest{ProductID: productID, Quantity: 2})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeInsufficientStock {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
	if appErr.Message() != "insufficient stock for Lamp" {
		t.Fatalf("unexpected message %q", appErr.Message())
	}
}

func TestAddLineWithoutLedgerRowIsInsufficient(t *testing.T) {
	f := newFixture(t)
	product := &models.Product{Name: "Ghost", Price: decimal.NewFromFloat(1.00), Category: "test"}
	if _, err := f.products.Create(context.Background(), product); err != nil {
		t.Fatalf("seed product: %v", err)
	}

	_, err := f.svc.AddLine(context.Background(), uuid.New(), AddLineRequest{ProductID: product.ID, Quantity: 1})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeInsufficientStock {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
}

func TestRemoveLine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ownerID := uuid.New()
	first := f.seedProduct(t, "First", 1.00)
	second := f.seedProduct(t, "Second", 2.00)

	for _, id := range []uuid.UUID{first, second} {
		if _, err := f.svc.AddLine(ctx, ownerID, AddLineRequest{ProductID: id, Quantity: 1}); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	dto, err := f.svc.RemoveLine(ctx, ownerID, first)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(dto.Items) != 1 || dto.Items[0].ProductID != second {
		t.Fatalf("unexpected items after remove: %+v", dto.Items)
	}
	if !dto.Total.Equal(decimal.NewFromFloat(2.00)) {
		t.Fatalf("expected total 2.00, got %s", dto.Total)
	}

	if _, err := f.svc.RemoveLine(ctx, ownerID, first); err == nil {
		t.Fatal("expected second remove to report not found")
	}
}

func TestClearEmptiesCartAndTotal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ownerID := uuid.New()
	productID := f.seedProduct(t, "Lamp", 10.00)

	if _, err := f.svc.AddLine(ctx, ownerID, AddLineRequest{ProductID: productID, Quantity: 2}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := f.svc.Clear(ctx, ownerID); err != nil {
		t.Fatalf("clear: %v", err)
	}

	dto, err := f.svc.Get(ctx, ownerID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(dto.Items) != 0 || !dto.Total.IsZero() {
		t.Fatalf("expected empty cart, got %+v", dto)
	}
}

func TestClearAbsentCartIsNoOp(t *testing.T) {
	f := newFixture(t)
	if err := f.svc.Clear(context.Background(), uuid.New()); err != nil {
		t.Fatalf("clear on absent cart: %v", err)
	}
}

func TestComputeTotalEmptyIsZero(t *testing.T) {
	if !ComputeTotal(nil).IsZero() {
		t.Fatal("empty cart total must be zero")
	}
}
