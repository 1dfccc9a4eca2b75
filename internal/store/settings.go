package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// GetJWTSecret returns the persisted token signing secret, generating and
// storing one on first use. Concurrent first calls converge on one value
// because the insert is INSERT OR IGNORE and the value is always read back.
func GetJWTSecret(ctx context.Context, q sqlx.ExtContext) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating jwt secret: %w", err)
	}
	return settingOrDefault(ctx, q, "jwt_secret", hex.EncodeToString(buf))
}

// settingOrDefault stores fallback under key unless a value exists, then
// returns the stored value.
func settingOrDefault(ctx context.Context, q sqlx.ExtContext, key, fallback string) (string, error) {
	if _, err := q.ExecContext(ctx,
		`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`, key, fallback,
	); err != nil {
		return "", fmt.Errorf("storing setting %s: %w", key, err)
	}

	var value string
	if err := sqlx.GetContext(ctx, q, &value, `SELECT value FROM settings WHERE key = ?`, key); err != nil {
		return "", fmt.Errorf("reading setting %s: %w", key, err)
	}
	return value, nil
}
