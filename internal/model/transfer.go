package model

import "time"

// Transfer moves quantity of an asset from one base to another through an
// approval workflow.
type Transfer struct {
	ID             int64      `json:"id" db:"id"`
	TransferNumber string     `json:"transfer_number" db:"transfer_number"`
	AssetID        int64      `json:"asset_id" db:"asset_id"`
	DestAssetID    *int64     `json:"dest_asset_id,omitempty" db:"dest_asset_id"`
	EquipmentType  string     `json:"equipment_type" db:"equipment_type"`
	Quantity       int        `json:"quantity" db:"quantity"`
	FromBaseID     int64      `json:"from_base_id" db:"from_base_id"`
	ToBaseID       int64      `json:"to_base_id" db:"to_base_id"`
	TransferDate   time.Time  `json:"transfer_date" db:"transfer_date"`
	Status         string     `json:"status" db:"status"`
	InitiatedBy    int64      `json:"initiated_by" db:"initiated_by"`
	ApprovedBy     *int64     `json:"approved_by,omitempty" db:"approved_by"`
	RejectedBy     *int64     `json:"rejected_by,omitempty" db:"rejected_by"`
	RejectedAt     *time.Time `json:"rejected_at,omitempty" db:"rejected_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	Notes          string     `json:"notes,omitempty" db:"notes"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`

	// Joined fields (not always populated).
	AssetName       string `json:"asset_name,omitempty" db:"asset_name"`
	AssetNumber     string `json:"asset_number,omitempty" db:"asset_number"`
	FromBaseName    string `json:"from_base_name,omitempty" db:"from_base_name"`
	ToBaseName      string `json:"to_base_name,omitempty" db:"to_base_name"`
	InitiatedByName string `json:"initiated_by_name,omitempty" db:"initiated_by_name"`
	ApprovedByName  string `json:"approved_by_name,omitempty" db:"approved_by_name"`
}

// Transfer statuses.
const (
	TransferPending   = "pending"
	TransferApproved  = "approved"
	TransferCompleted = "completed"
	TransferRejected  = "rejected"
)

// transferTransitions lists the legal next states for each state. Completed
// and rejected are terminal.
var transferTransitions = map[string][]string{
	TransferPending:  {TransferApproved, TransferRejected},
	TransferApproved: {TransferCompleted},
}

// CanTransition reports whether a transfer may move from one status to another.
func CanTransition(from, to string) bool {
	for _, next := range transferTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
