package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopease/shopease-backend/pkg/db/models"
	"github.com/shopease/shopease-backend/pkg/enums"
	"github.com/shopease/shopease-backend/pkg/types"
)

// SetStatusRequest carries the status to write.
type SetStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ItemDTO is one order line as frozen at checkout.
type ItemDTO struct {
	ProductID *uuid.UUID      `json:"product_id,omitempty"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// OrderDTO is the order as returned to clients.
type OrderDTO struct {
	ID              uuid.UUID           `json:"id"`
	Items           []ItemDTO           `json:"items"`
	Total           decimal.Decimal     `json:"total"`
	Status          enums.OrderStatus   `json:"status"`
	ShippingAddress types.Address       `json:"shipping_address"`
	PaymentMethod   string              `json:"payment_method"`
	PaymentStatus   enums.PaymentStatus `json:"payment_status"`
	CreatedAt       time.Time           `json:"created_at"`
}

// ToDTO converts a stored order for API responses.
func ToDTO(order *models.Order) *OrderDTO {
	items := make([]ItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, ItemDTO{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return &OrderDTO{
		ID:              order.ID,
		Items:           items,
		Total:           order.Total,
		Status:          order.Status,
		ShippingAddress: order.ShippingAddress,
		PaymentMethod:   order.PaymentMethod,
		PaymentStatus:   order.PaymentStatus,
		CreatedAt:       order.CreatedAt,
	}
}
