package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS bases (
    id         INTEGER PRIMARY KEY,
    name       TEXT NOT NULL UNIQUE,
    code       TEXT NOT NULL UNIQUE,
    location   TEXT NOT NULL,
    is_active  INTEGER NOT NULL DEFAULT 1,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL UNIQUE,
    full_name     TEXT NOT NULL DEFAULT '',
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'logistics_officer'
                  CHECK (role IN ('admin', 'base_commander', 'logistics_officer')),
    base_id       INTEGER REFERENCES bases(id),
    is_active     INTEGER NOT NULL DEFAULT 1,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS assets (
    id               INTEGER PRIMARY KEY,
    asset_number     TEXT NOT NULL UNIQUE,
    equipment_type   TEXT NOT NULL CHECK (equipment_type IN ('weapon', 'vehicle', 'ammunition', 'equipment')),
    name             TEXT NOT NULL,
    description      TEXT NOT NULL DEFAULT '',
    base_id          INTEGER NOT NULL REFERENCES bases(id),
    status           TEXT NOT NULL DEFAULT 'available'
                     CHECK (status IN ('available', 'assigned', 'expended', 'transfer_pending')),
    opening_balance  INTEGER NOT NULL DEFAULT 0 CHECK (opening_balance >= 0),
    current_quantity INTEGER NOT NULL DEFAULT 0 CHECK (current_quantity >= 0),
    created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_assets_identity
    ON assets(name, equipment_type, base_id);
CREATE INDEX IF NOT EXISTS idx_assets_base_type
    ON assets(base_id, equipment_type);

CREATE TABLE IF NOT EXISTS purchases (
    id                    INTEGER PRIMARY KEY,
    purchase_number       TEXT NOT NULL UNIQUE,
    base_id               INTEGER NOT NULL REFERENCES bases(id),
    equipment_type        TEXT NOT NULL,
    asset_id              INTEGER NOT NULL REFERENCES assets(id),
    quantity              INTEGER NOT NULL CHECK (quantity >= 1),
    unit_price            TEXT NOT NULL,
    total_amount          TEXT NOT NULL,
    purchase_date         DATETIME NOT NULL,
    vendor                TEXT NOT NULL DEFAULT '',
    purchase_order_number TEXT NOT NULL DEFAULT '',
    notes                 TEXT NOT NULL DEFAULT '',
    purchased_by          INTEGER NOT NULL REFERENCES users(id),
    created_at            DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_purchases_base_date ON purchases(base_id, purchase_date);

CREATE TABLE IF NOT EXISTS transfers (
    id              INTEGER PRIMARY KEY,
    transfer_number TEXT NOT NULL UNIQUE,
    asset_id        INTEGER NOT NULL REFERENCES assets(id),
    dest_asset_id   INTEGER REFERENCES assets(id),
    equipment_type  TEXT NOT NULL,
    quantity        INTEGER NOT NULL CHECK (quantity >= 1),
    from_base_id    INTEGER NOT NULL REFERENCES bases(id),
    to_base_id      INTEGER NOT NULL REFERENCES bases(id),
    transfer_date   DATETIME NOT NULL,
    status          TEXT NOT NULL DEFAULT 'pending'
                    CHECK (status IN ('pending', 'approved', 'completed', 'rejected')),
    initiated_by    INTEGER NOT NULL REFERENCES users(id),
    approved_by     INTEGER REFERENCES users(id),
    rejected_by     INTEGER REFERENCES users(id),
    rejected_at     DATETIME,
    completed_at    DATETIME,
    notes           TEXT NOT NULL DEFAULT '',
    created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_transfers_from ON transfers(from_base_id, transfer_date);
CREATE INDEX IF NOT EXISTS idx_transfers_to ON transfers(to_base_id, transfer_date);
CREATE INDEX IF NOT EXISTS idx_transfers_status ON transfers(status);

CREATE TABLE IF NOT EXISTS assignments (
    id                INTEGER PRIMARY KEY,
    assignment_number TEXT NOT NULL UNIQUE,
    asset_id          INTEGER NOT NULL REFERENCES assets(id),
    equipment_type    TEXT NOT NULL,
    base_id           INTEGER NOT NULL REFERENCES bases(id),
    quantity          INTEGER NOT NULL CHECK (quantity >= 1),
    assigned_to       TEXT NOT NULL,
    personnel_id      TEXT NOT NULL DEFAULT '',
    assignment_date   DATETIME NOT NULL,
    is_returned       INTEGER NOT NULL DEFAULT 0,
    return_date       DATETIME,
    returned_by       INTEGER REFERENCES users(id),
    assigned_by       INTEGER NOT NULL REFERENCES users(id),
    notes             TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_assignments_base_date ON assignments(base_id, assignment_date);

CREATE TABLE IF NOT EXISTS expenditures (
    id                 INTEGER PRIMARY KEY,
    expenditure_number TEXT NOT NULL UNIQUE,
    asset_id           INTEGER NOT NULL REFERENCES assets(id),
    equipment_type     TEXT NOT NULL,
    base_id            INTEGER NOT NULL REFERENCES bases(id),
    quantity           INTEGER NOT NULL CHECK (quantity >= 1),
    expenditure_date   DATETIME NOT NULL,
    reason             TEXT NOT NULL CHECK (reason <> ''),
    expended_by        INTEGER NOT NULL REFERENCES users(id),
    notes              TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_expenditures_base_date ON expenditures(base_id, expenditure_date);

CREATE TABLE IF NOT EXISTS sequences (
    name  TEXT PRIMARY KEY,
    value INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sqlx.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
