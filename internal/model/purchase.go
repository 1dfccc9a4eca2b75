package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase records quantity acquired for an asset at a base. Immutable.
type Purchase struct {
	ID                  int64           `json:"id" db:"id"`
	PurchaseNumber      string          `json:"purchase_number" db:"purchase_number"`
	BaseID              int64           `json:"base_id" db:"base_id"`
	EquipmentType       string          `json:"equipment_type" db:"equipment_type"`
	AssetID             int64           `json:"asset_id" db:"asset_id"`
	Quantity            int             `json:"quantity" db:"quantity"`
	UnitPrice           decimal.Decimal `json:"unit_price" db:"unit_price"`
	TotalAmount         decimal.Decimal `json:"total_amount" db:"total_amount"`
	PurchaseDate        time.Time       `json:"purchase_date" db:"purchase_date"`
	Vendor              string          `json:"vendor,omitempty" db:"vendor"`
	PurchaseOrderNumber string          `json:"purchase_order_number,omitempty" db:"purchase_order_number"`
	Notes               string          `json:"notes,omitempty" db:"notes"`
	PurchasedBy         int64           `json:"purchased_by" db:"purchased_by"`
	CreatedAt           time.Time       `json:"created_at" db:"created_at"`

	// Joined fields (not always populated).
	AssetName       string `json:"asset_name,omitempty" db:"asset_name"`
	AssetNumber     string `json:"asset_number,omitempty" db:"asset_number"`
	BaseName        string `json:"base_name,omitempty" db:"base_name"`
	PurchasedByName string `json:"purchased_by_name,omitempty" db:"purchased_by_name"`
}
