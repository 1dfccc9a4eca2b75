package model

import (
	"strings"
	"time"
)

// Asset is a named, typed quantity of equipment held at one base.
type Asset struct {
	ID              int64     `json:"id" db:"id"`
	AssetNumber     string    `json:"asset_number" db:"asset_number"`
	EquipmentType   string    `json:"equipment_type" db:"equipment_type"`
	Name            string    `json:"name" db:"name"`
	Description     string    `json:"description,omitempty" db:"description"`
	BaseID          int64     `json:"base_id" db:"base_id"`
	Status          string    `json:"status" db:"status"`
	OpeningBalance  int       `json:"opening_balance" db:"opening_balance"`
	CurrentQuantity int       `json:"current_quantity" db:"current_quantity"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`

	// Joined fields (not always populated).
	BaseName string `json:"base_name,omitempty" db:"base_name"`
	BaseCode string `json:"base_code,omitempty" db:"base_code"`
}

// Equipment types.
const (
	EquipmentWeapon     = "weapon"
	EquipmentVehicle    = "vehicle"
	EquipmentAmmunition = "ammunition"
	EquipmentEquipment  = "equipment"
)

// Asset statuses. The status is a display hint set by whichever ledger
// operation touched the asset last; quantities are the source of truth.
const (
	AssetStatusAvailable       = "available"
	AssetStatusAssigned        = "assigned"
	AssetStatusExpended        = "expended"
	AssetStatusTransferPending = "transfer_pending"
)

// ValidEquipmentType reports whether t is a known equipment type.
func ValidEquipmentType(t string) bool {
	switch t {
	case EquipmentWeapon, EquipmentVehicle, EquipmentAmmunition, EquipmentEquipment:
		return true
	}
	return false
}

// EquipmentPrefix returns the upper-cased three letter prefix used in
// generated asset numbers, e.g. "WEA" for weapons.
func EquipmentPrefix(t string) string {
	p := strings.ToUpper(t)
	if len(p) > 3 {
		p = p[:3]
	}
	return p
}
