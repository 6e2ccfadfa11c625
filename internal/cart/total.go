package cart

import (
	"github.com/shopspring/decimal"

	"github.com/shopease/shopease-backend/pkg/db/models"
)

// ComputeTotal derives the cart total from its lines. The total column is a
// cache; this function is the single source of truth for its value.
func ComputeTotal(items []models.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}
