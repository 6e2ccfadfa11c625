package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	checkoutsvc "github.com/shopease/shopease-backend/internal/checkout"
	ordersvc "github.com/shopease/shopease-backend/internal/orders"
	"github.com/shopease/shopease-backend/pkg/enums"
	pkgerrors "github.com/shopease/shopease-backend/pkg/errors"
)

type stubCheckoutService struct {
	order *ordersvc.OrderDTO
	err   error
}

func (s stubCheckoutService) Execute(ctx context.Context, ownerID uuid.UUID, req checkoutsvc.Request) (*ordersvc.OrderDTO, error) {
	return s.order, s.err
}

const checkoutBody = `{
	"shipping_address": {"street":"1 Main St","city":"Springfield","state":"IL","zip_code":"62701","country":"US"},
	"payment_method": "card"
}`

func TestCheckoutCreatesOrder(t *testing.T) {
	order := &ordersvc.OrderDTO{
		ID:     uuid.New(),
		Status: enums.OrderStatusPending,
		Total:  decimal.RequireFromString("29.00"),
	}
	handler := Checkout(stubCheckoutService{order: order}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/orders", checkoutBody))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	var envelope struct {
		Data ordersvc.OrderDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ID != order.ID {
		t.Fatalf("unexpected order id %s", envelope.Data.ID)
	}
}

func TestCheckoutRequiresAuth(t *testing.T) {
	handler := Checkout(stubCheckoutService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCheckoutSurfacesEmptyCart(t *testing.T) {
	handler := Checkout(stubCheckoutService{err: pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/orders", checkoutBody))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if payload.Error.Code != string(pkgerrors.CodeEmptyCart) {
		t.Fatalf("unexpected code %s", payload.Error.Code)
	}
}

func TestCheckoutNamesProductOnStockFailure(t *testing.T) {
	err := pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock for Lamp")
	handler := Checkout(stubCheckoutService{err: err}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/orders", checkoutBody))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if payload.Error.Message != "insufficient stock for Lamp" {
		t.Fatalf("unexpected message %q", payload.Error.Message)
	}
}
