package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	productsvc "github.com/shopease/shopease-backend/internal/products"
	"github.com/shopease/shopease-backend/pkg/pagination"
)

type stubProductService struct {
	product  *productsvc.ProductDTO
	list     *productsvc.ListResponse
	err      error
	lastList productsvc.ListRequest
}

func (s *stubProductService) Create(ctx context.Context, req productsvc.CreateProductRequest) (*productsvc.ProductDTO, error) {
	return s.product, s.err
}

func (s *stubProductService) Update(ctx context.Context, id uuid.UUID, req productsvc.UpdateProductRequest) (*productsvc.ProductDTO, error) {
	return s.product, s.err
}

func (s *stubProductService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.err
}

func (s *stubProductService) Get(ctx context.Context, id uuid.UUID) (*productsvc.ProductDTO, error) {
	return s.product, s.err
}

func (s *stubProductService) List(ctx context.Context, req productsvc.ListRequest) (*productsvc.ListResponse, error) {
	s.lastList = req
	return s.list, s.err
}

func TestProductListDefaultsLimit(t *testing.T) {
	svc := &stubProductService{list: &productsvc.ListResponse{Products: []productsvc.ProductDTO{}}}
	handler := ProductList(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?category=lighting&q=lamp", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastList.Limit != pagination.DefaultLimit {
		t.Fatalf("expected default limit %d got %d", pagination.DefaultLimit, svc.lastList.Limit)
	}
	if svc.lastList.Category != "lighting" || svc.lastList.Query != "lamp" {
		t.Fatalf("filters not forwarded: %+v", svc.lastList)
	}
}

func TestProductListRejectsOversizedLimit(t *testing.T) {
	handler := ProductList(&stubProductService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?limit=5000", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestProductDetailRejectsMalformedID(t *testing.T) {
	handler := ProductDetail(&stubProductService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/oops", nil)
	req = withURLParam(req, "productID", "oops")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestProductCreateReturnsCreated(t *testing.T) {
	product := &productsvc.ProductDTO{ID: uuid.New(), Name: "Lamp"}
	handler := ProductCreate(&stubProductService{product: product}, nil)

	body := `{"name":"Lamp","price":"19.99","category":"lighting","stock":5}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/products", body))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	var envelope struct {
		Data productsvc.ProductDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Name != "Lamp" {
		t.Fatalf("unexpected product %+v", envelope.Data)
	}
}

func TestProductCreateRejectsMissingName(t *testing.T) {
	handler := ProductCreate(&stubProductService{}, nil)

	body := `{"price":"19.99","category":"lighting"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/products", body))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
