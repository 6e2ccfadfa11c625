package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopease/shopease-backend/api/middleware"
	cartsvc "github.com/shopease/shopease-backend/internal/cart"
	pkgerrors "github.com/shopease/shopease-backend/pkg/errors"
)

type stubCartService struct {
	cart *cartsvc.CartDTO
	err  error
}

func (s stubCartService) Get(ctx context.Context, ownerID uuid.UUID) (*cartsvc.CartDTO, error) {
	return s.cart, s.err
}

func (s stubCartService) AddLine(ctx context.Context, ownerID uuid.UUID, req cartsvc.AddLineRequest) (*cartsvc.CartDTO, error) {
	return s.cart, s.err
}

func (s stubCartService) SetLineQuantity(ctx context.Context, ownerID, productID uuid.UUID, qty int) (*cartsvc.CartDTO, error) {
	return s.cart, s.err
}

func (s stubCartService) RemoveLine(ctx context.Context, ownerID, productID uuid.UUID) (*cartsvc.CartDTO, error) {
	return s.cart, s.err
}

func (s stubCartService) Clear(ctx context.Context, ownerID uuid.UUID) error {
	return s.err
}

func authedRequest(method, target string, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
}

func TestCartGetSuccess(t *testing.T) {
	cart := &cartsvc.CartDTO{Items: []cartsvc.LineDTO{}, Total: decimal.Zero}
	handler := CartGet(stubCartService{cart: cart}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/v1/cart", ""))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data cartsvc.CartDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(envelope.Data.Items))
	}
}

func TestCartGetRequiresUserContext(t *testing.T) {
	handler := CartGet(stubCartService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCartAddItemRejectsBadPayload(t *testing.T) {
	handler := CartAddItem(stubCartService{}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart/items", `{"quantity":0}`))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartRemoveItemNotFound(t *testing.T) {
	handler := CartRemoveItem(stubCartService{err: pkgerrors.New(pkgerrors.CodeNotFound, "line not found")}, nil)

	req := authedRequest(http.MethodDelete, "/api/v1/cart/items/"+uuid.NewString(), "")
	req = withURLParam(req, "productID", uuid.NewString())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
