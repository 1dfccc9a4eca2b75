// Package ledger implements the asset ledger: purchases, transfers,
// assignments and expenditures against the asset registry, plus the
// dashboard and consistency reports built from their history.
//
// Every mutating operation runs its read, validate and write steps in one
// database transaction, and quantity decrements are conditional on the
// quantity still being available.
package ledger

import (
	"context"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/arsenal/internal/model"
	"github.com/erazemk/arsenal/internal/store"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Service runs ledger operations against the record store.
type Service struct {
	db     *sqlx.DB
	clock  Clock
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces the wall clock, mostly for tests.
func WithClock(c Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithLogger sets the logger used for mutation records.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates a ledger service backed by db.
func NewService(db *sqlx.DB, opts ...Option) *Service {
	s := &Service{
		db:     db,
		clock:  realClock{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) now() time.Time {
	return s.clock.Now().UTC()
}

// inTx runs fn in a transaction and classifies whatever it returns.
func (s *Service) inTx(ctx context.Context, op string, fn func(tx *sqlx.Tx) error) error {
	return classify(op, store.WithTx(ctx, s.db, fn))
}

// activeBase loads a base and requires it to exist and be active.
func activeBase(ctx context.Context, q sqlx.ExtContext, id int64, role string) (*model.Base, error) {
	if id <= 0 {
		return nil, badRequest("%s base is required", role)
	}
	b, err := store.GetBase(ctx, q, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, notFound("%s base not found", role)
	}
	if !b.IsActive {
		return nil, conflict("%s base %s is not active", role, b.Code)
	}
	return b, nil
}

// requireActor checks that the acting user exists.
func requireActor(ctx context.Context, q sqlx.ExtContext, id int64) error {
	if id <= 0 {
		return badRequest("actor is required")
	}
	u, err := store.GetUser(ctx, q, id)
	if err != nil {
		return err
	}
	if u == nil || !u.IsActive {
		return notFound("user not found")
	}
	return nil
}

// requireAsset loads an asset, failing with NotFound when it is absent.
func requireAsset(ctx context.Context, q sqlx.ExtContext, id int64) (*model.Asset, error) {
	if id <= 0 {
		return nil, badRequest("asset is required")
	}
	a, err := store.GetAsset(ctx, q, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, notFound("asset not found")
	}
	return a, nil
}

// takeQuantity maps the store's conditional decrement onto ledger errors.
func takeQuantity(ctx context.Context, q sqlx.ExtContext, assetID int64, n int, status string) error {
	switch err := store.TakeAssetQuantity(ctx, q, assetID, n, status); err {
	case nil:
		return nil
	case store.ErrInsufficientQuantity:
		return ErrInsufficientQuantity
	case store.ErrNotFound:
		return notFound("asset not found")
	default:
		return err
	}
}

// dateOr returns *t when set, otherwise fallback.
func dateOr(t *time.Time, fallback time.Time) time.Time {
	if t == nil || t.IsZero() {
		return fallback
	}
	return t.UTC()
}
