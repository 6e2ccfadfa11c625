package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopease/shopease-backend/pkg/db/models"
)

// AddLineRequest is the payload for adding a product to the cart.
type AddLineRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gte=1"`
}

// SetQuantityRequest is the payload for changing a line's quantity. Zero
// removes the line.
type SetQuantityRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

// LineDTO is one cart line as returned to clients.
type LineDTO struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// CartDTO is the cart as returned to clients. Owners without a persisted
// cart receive the empty representation.
type CartDTO struct {
	Items []LineDTO       `json:"items"`
	Total decimal.Decimal `json:"total"`
}

func emptyCartDTO() *CartDTO {
	return &CartDTO{Items: []LineDTO{}, Total: decimal.Zero}
}

func toDTO(cart *models.Cart, names map[uuid.UUID]string) *CartDTO {
	lines := make([]LineDTO, 0, len(cart.Items))
	for _, item := range cart.Items {
		lines = append(lines, LineDTO{
			ProductID: item.ProductID,
			Name:      names[item.ProductID],
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))),
		})
	}
	return &CartDTO{Items: lines, Total: ComputeTotal(cart.Items)}
}
