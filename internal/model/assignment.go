package model

import "time"

// Assignment checks quantity of an asset out to a named person. Returning it
// is a one-way latch; assignments are never deleted.
type Assignment struct {
	ID               int64      `json:"id" db:"id"`
	AssignmentNumber string     `json:"assignment_number" db:"assignment_number"`
	AssetID          int64      `json:"asset_id" db:"asset_id"`
	EquipmentType    string     `json:"equipment_type" db:"equipment_type"`
	BaseID           int64      `json:"base_id" db:"base_id"`
	Quantity         int        `json:"quantity" db:"quantity"`
	AssignedTo       string     `json:"assigned_to" db:"assigned_to"`
	PersonnelID      string     `json:"personnel_id,omitempty" db:"personnel_id"`
	AssignmentDate   time.Time  `json:"assignment_date" db:"assignment_date"`
	IsReturned       bool       `json:"is_returned" db:"is_returned"`
	ReturnDate       *time.Time `json:"return_date,omitempty" db:"return_date"`
	ReturnedBy       *int64     `json:"returned_by,omitempty" db:"returned_by"`
	AssignedBy       int64      `json:"assigned_by" db:"assigned_by"`
	Notes            string     `json:"notes,omitempty" db:"notes"`

	// Joined fields (not always populated).
	AssetName      string `json:"asset_name,omitempty" db:"asset_name"`
	AssetNumber    string `json:"asset_number,omitempty" db:"asset_number"`
	BaseName       string `json:"base_name,omitempty" db:"base_name"`
	AssignedByName string `json:"assigned_by_name,omitempty" db:"assigned_by_name"`
}
