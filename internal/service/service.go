// Package service holds the marketplace core: the offer and transfer
// lifecycle managers and the read-side queries. Every handler loads the
// records it needs, validates all preconditions before touching anything,
// then applies its writes and emits its instructions last, so a failure
// anywhere leaves the store untouched.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/voltbridge/ev-charging-marketplace/internal/bank"
	"github.com/voltbridge/ev-charging-marketplace/internal/cloud"
	"github.com/voltbridge/ev-charging-marketplace/internal/domain"
	"github.com/voltbridge/ev-charging-marketplace/internal/events"
	"github.com/voltbridge/ev-charging-marketplace/internal/store"
)

// Services aggregates the marketplace components over one entity store.
type Services struct {
	Offers    *OfferService
	Transfers *TransferService
	Queries   *QueryService

	store store.Store
}

// Option adjusts optional service collaborators.
type Option func(*Services)

// WithClock overrides the time source used for paid_date stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Services) { s.Transfers.now = now }
}

// WithAccountValidator overrides the driver account-id validator. The default
// only checks syntax; deployments can plug in the external validator here.
func WithAccountValidator(valid func(string) bool) Option {
	return func(s *Services) { s.Transfers.validAccount = valid }
}

// WithSNS attaches a settlement notification client.
func WithSNS(c *cloud.SNSClient) Option {
	return func(s *Services) { s.Transfers.sns = c }
}

// New wires the lifecycle managers and queries over the given collaborators.
func New(st store.Store, ledger bank.Ledger, emitter *events.Emitter, opts ...Option) *Services {
	offers := &OfferService{store: st, emitter: emitter}
	s := &Services{
		Offers: offers,
		Transfers: &TransferService{
			store:        st,
			ledger:       ledger,
			emitter:      emitter,
			offers:       offers,
			validAccount: domain.ValidAccountID,
			now:          time.Now,
		},
		Queries: &QueryService{store: st},
		store:   st,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init seeds the denomination and zeroes both id counters. Idempotent for a
// matching denomination; the denomination is immutable once set.
func (s *Services) Init(ctx context.Context, denom string) error {
	if denom == "" {
		return &domain.ValidationError{Msg: "denom must not be empty"}
	}
	current, err := s.store.Denom(ctx)
	switch {
	case errors.Is(err, store.ErrNotFound):
		if err := s.store.SetDenom(ctx, denom); err != nil {
			return fmt.Errorf("set denom: %w", err)
		}
		if err := s.store.SetOfferCount(ctx, 0); err != nil {
			return fmt.Errorf("init offer count: %w", err)
		}
		if err := s.store.SetTransferCount(ctx, 0); err != nil {
			return fmt.Errorf("init transfer count: %w", err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("load denom: %w", err)
	case current != denom:
		return fmt.Errorf("market already initialized with denom %q", current)
	}
	return nil
}
