package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/etnz/wealth"
	"github.com/etnz/wealth/logger"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrNotFound is returned when no asset has the requested ID.
var ErrNotFound = errors.New("asset not found")

// Book is the list of assets of a portfolio, persisted in a Slot.
//
// Every modification loads the list, applies the change and saves the whole
// list back. Modifications are serialized; concurrent processes writing the
// same slot follow last write wins.
type Book struct {
	mu   sync.Mutex
	slot Slot
	log  zerolog.Logger
	now  func() time.Time
}

// Option configures a Book.
type Option func(*Book)

// WithLogger sets the book logger.
func WithLogger(log zerolog.Logger) Option {
	return func(b *Book) { b.log = logger.Component(log, "store") }
}

// WithClock sets the clock used to stamp CreatedAt and UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(b *Book) { b.now = now }
}

// NewBook returns a book persisted in slot.
func NewBook(slot Slot, opts ...Option) *Book {
	b := &Book{
		slot: slot,
		log:  zerolog.Nop(),
		now:  func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Assets returns all assets, in insertion order.
func (b *Book) Assets(ctx context.Context) ([]wealth.Asset, error) {
	return b.slot.Load(ctx)
}

// Asset returns the asset with the given ID.
func (b *Book) Asset(ctx context.Context, id string) (wealth.Asset, error) {
	assets, err := b.slot.Load(ctx)
	if err != nil {
		return nil, err
	}
	i := index(assets, id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return assets[i], nil
}

// Add appends a new asset to the book and returns it as stored.
//
// A missing ID is generated, missing CreatedAt and UpdatedAt are set to now.
func (b *Book) Add(ctx context.Context, a wealth.Asset) (wealth.Asset, error) {
	now := b.now()
	a = wealth.WithBase(a, func(base *wealth.Base) {
		if base.ID == "" {
			base.ID = uuid.NewString()
		}
		if base.CreatedAt.IsZero() {
			base.CreatedAt = now
		}
		if base.UpdatedAt.IsZero() {
			base.UpdatedAt = now
		}
	})
	if err := wealth.ValidateAsset(a); err != nil {
		return nil, fmt.Errorf("invalid asset: %w", err)
	}

	err := b.modify(ctx, func(assets []wealth.Asset) ([]wealth.Asset, error) {
		if index(assets, a.Common().ID) >= 0 {
			return nil, fmt.Errorf("asset %q already exists", a.Common().ID)
		}
		return append(assets, a), nil
	})
	if err != nil {
		return nil, err
	}
	b.log.Info().Str("id", a.Common().ID).Str("kind", string(a.Kind())).Msg("asset added")
	return a, nil
}

// Update replaces the asset with the same ID and returns it as stored, with
// UpdatedAt set to now.
func (b *Book) Update(ctx context.Context, a wealth.Asset) (wealth.Asset, error) {
	a = wealth.WithBase(a, func(base *wealth.Base) { base.UpdatedAt = b.now() })
	if err := wealth.ValidateAsset(a); err != nil {
		return nil, fmt.Errorf("invalid asset: %w", err)
	}
	id := a.Common().ID
	err := b.modify(ctx, func(assets []wealth.Asset) ([]wealth.Asset, error) {
		i := index(assets, id)
		if i < 0 {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
		}
		assets[i] = a
		return assets, nil
	})
	if err != nil {
		return nil, err
	}
	b.log.Info().Str("id", id).Msg("asset updated")
	return a, nil
}

// Remove deletes the asset with the given ID.
func (b *Book) Remove(ctx context.Context, id string) error {
	err := b.modify(ctx, func(assets []wealth.Asset) ([]wealth.Asset, error) {
		i := index(assets, id)
		if i < 0 {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
		}
		return slices.Delete(assets, i, i+1), nil
	})
	if err != nil {
		return err
	}
	b.log.Info().Str("id", id).Msg("asset removed")
	return nil
}

// AddTransaction appends tx to the ledger of the asset with the given ID and
// returns the updated asset.
//
// A legacy asset is migrated to the recorded ledger first, so that its
// initial purchase is not lost.
func (b *Book) AddTransaction(ctx context.Context, id string, tx wealth.Transaction) (wealth.Asset, error) {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	var updated wealth.Asset
	var migrated bool
	err := b.modify(ctx, func(assets []wealth.Asset) ([]wealth.Asset, error) {
		i := index(assets, id)
		if i < 0 {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
		}
		a := assets[i]
		cur := a.Common().Currency
		if tx.Amount.Currency() == "" {
			tx.Amount = tx.Amount.In(cur)
		}
		if tx.PricePerUnit.Currency() == "" && !tx.PricePerUnit.IsZero() {
			tx.PricePerUnit = tx.PricePerUnit.In(cur)
		}
		if err := wealth.ValidateTransaction(a, tx); err != nil {
			return nil, fmt.Errorf("invalid transaction: %w", err)
		}
		migrated = len(a.Common().Transactions) == 0
		updated = wealth.AppendTransaction(a, tx, b.now())
		assets[i] = updated
		return assets, nil
	})
	if err != nil {
		return nil, err
	}
	ev := b.log.Info().Str("id", id).Str("tx", tx.ID).Str("type", string(tx.Type))
	if migrated {
		ev = ev.Bool("migrated", true)
	}
	ev.Msg("transaction added")
	return updated, nil
}

// Rewrite validates every stored asset and saves them back in canonical
// form. Nothing is saved when an asset is invalid.
func (b *Book) Rewrite(ctx context.Context) (n int, err error) {
	err = b.modify(ctx, func(assets []wealth.Asset) ([]wealth.Asset, error) {
		var errs []error
		for _, a := range assets {
			if err := wealth.ValidateAsset(a); err != nil {
				errs = append(errs, fmt.Errorf("asset %q: %w", a.Common().ID, err))
			}
		}
		n = len(assets)
		return assets, errors.Join(errs...)
	})
	return n, err
}

// modify applies fn to the stored list and saves the result.
func (b *Book) modify(ctx context.Context, fn func([]wealth.Asset) ([]wealth.Asset, error)) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	assets, err := b.slot.Load(ctx)
	if err != nil {
		return err
	}
	assets, err = fn(assets)
	if err != nil {
		return err
	}
	if err := b.slot.Save(ctx, assets); err != nil {
		b.log.Error().Err(err).Msg("failed to save assets")
		return err
	}
	return nil
}

func index(assets []wealth.Asset, id string) int {
	return slices.IndexFunc(assets, func(a wealth.Asset) bool { return a.Common().ID == id })
}
