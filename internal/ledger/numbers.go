package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/arsenal/internal/model"
	"github.com/erazemk/arsenal/internal/store"
)

// Record number prefixes.
const (
	prefixPurchase    = "PUR"
	prefixTransfer    = "TRF"
	prefixAssignment  = "ASN"
	prefixExpenditure = "EXP"
)

// recordNumber formats <PREFIX>-<unix ms>-<seq> with seq drawn from the
// record type's counter.
func recordNumber(ctx context.Context, q sqlx.ExtContext, prefix, seqName string, at time.Time) (string, error) {
	seq, err := store.NextSequence(ctx, q, seqName)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%d-%d", prefix, at.UnixMilli(), seq), nil
}

// uniqueAssetNumber returns base, or base suffixed with -2, -3, ... until it
// names no existing asset.
func uniqueAssetNumber(ctx context.Context, q sqlx.ExtContext, base string) (string, error) {
	candidate := base
	for i := 2; ; i++ {
		taken, err := store.AssetNumberTaken(ctx, q, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

// purchasedAssetNumber numbers an asset first seen in a purchase.
func purchasedAssetNumber(ctx context.Context, q sqlx.ExtContext, equipmentType string, at time.Time) (string, error) {
	return uniqueAssetNumber(ctx, q, fmt.Sprintf("%s-%d", model.EquipmentPrefix(equipmentType), at.UnixMilli()))
}

// transferredAssetNumber numbers an asset created at a transfer destination.
func transferredAssetNumber(ctx context.Context, q sqlx.ExtContext, source string, at time.Time) (string, error) {
	return uniqueAssetNumber(ctx, q, fmt.Sprintf("%s-%d", strings.TrimSpace(source), at.UnixMilli()))
}
