package model

import "github.com/shopspring/decimal"

// Dashboard is the aggregate balance report for a filter.
//
// ClosingBalance is read from the registry's current quantities, not derived
// from OpeningBalance and NetMovement, so the two can disagree if the
// registry and the ledger history ever drift.
type Dashboard struct {
	OpeningBalance int             `json:"opening_balance"`
	ClosingBalance int             `json:"closing_balance"`
	NetMovement    NetMovement     `json:"net_movement"`
	Assigned       int             `json:"assigned"`
	Expended       int             `json:"expended"`
	PurchaseValue  decimal.Decimal `json:"purchase_value"`
}

// NetMovement is purchases plus transfers in minus transfers out.
type NetMovement struct {
	Total        int `json:"total"`
	Purchases    int `json:"purchases"`
	TransfersIn  int `json:"transfers_in"`
	TransfersOut int `json:"transfers_out"`
}

// Drift is an asset whose recorded quantity differs from the quantity
// implied by its ledger history.
type Drift struct {
	AssetID     int64  `json:"asset_id" db:"asset_id"`
	AssetNumber string `json:"asset_number" db:"asset_number"`
	Recorded    int    `json:"recorded" db:"recorded"`
	Expected    int    `json:"expected" db:"expected"`
}
