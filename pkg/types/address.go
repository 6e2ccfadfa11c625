package types

import "strings"

// Address is the shipping address snapshot stored on orders. Persisted as a
// jsonb column via the gorm json serializer.
type Address struct {
	Street  string `json:"street" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	ZipCode string `json:"zip_code" validate:"required"`
	Country string `json:"country" validate:"required"`
}

// Validate reports whether every field carries a non-blank value.
func (a Address) Validate() bool {
	for _, field := range []string{a.Street, a.City, a.State, a.ZipCode, a.Country} {
		if strings.TrimSpace(field) == "" {
			return false
		}
	}
	return true
}
