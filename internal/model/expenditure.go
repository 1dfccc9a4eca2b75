package model

import "time"

// Expenditure permanently removes quantity of an asset from inventory.
type Expenditure struct {
	ID                int64     `json:"id" db:"id"`
	ExpenditureNumber string    `json:"expenditure_number" db:"expenditure_number"`
	AssetID           int64     `json:"asset_id" db:"asset_id"`
	EquipmentType     string    `json:"equipment_type" db:"equipment_type"`
	BaseID            int64     `json:"base_id" db:"base_id"`
	Quantity          int       `json:"quantity" db:"quantity"`
	ExpenditureDate   time.Time `json:"expenditure_date" db:"expenditure_date"`
	Reason            string    `json:"reason" db:"reason"`
	ExpendedBy        int64     `json:"expended_by" db:"expended_by"`
	Notes             string    `json:"notes,omitempty" db:"notes"`

	// Joined fields (not always populated).
	AssetName      string `json:"asset_name,omitempty" db:"asset_name"`
	AssetNumber    string `json:"asset_number,omitempty" db:"asset_number"`
	BaseName       string `json:"base_name,omitempty" db:"base_name"`
	ExpendedByName string `json:"expended_by_name,omitempty" db:"expended_by_name"`
}
