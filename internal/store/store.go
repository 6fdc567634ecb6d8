package store

import (
	"context"
	"errors"

	"github.com/voltbridge/ev-charging-marketplace/internal/domain"
)

// ErrNotFound is returned for any key with no record behind it.
var ErrNotFound = errors.New("record not found")

// Store is the durable entity store for the marketplace: two id-keyed record
// collections, two auto-increment counters and the immutable denomination.
// List methods return records in ascending id order. The store holds no
// business logic; every invariant lives in the service layer.
type Store interface {
	Denom(ctx context.Context) (string, error)
	SetDenom(ctx context.Context, denom string) error

	OfferCount(ctx context.Context) (uint64, error)
	SetOfferCount(ctx context.Context, n uint64) error
	GetOffer(ctx context.Context, id uint64) (domain.EnergyTransferOffer, error)
	PutOffer(ctx context.Context, offer domain.EnergyTransferOffer) error
	DeleteOffer(ctx context.Context, id uint64) error
	ListOffers(ctx context.Context) ([]domain.EnergyTransferOffer, error)

	TransferCount(ctx context.Context) (uint64, error)
	SetTransferCount(ctx context.Context, n uint64) error
	GetTransfer(ctx context.Context, id uint64) (domain.EnergyTransfer, error)
	PutTransfer(ctx context.Context, transfer domain.EnergyTransfer) error
	DeleteTransfer(ctx context.Context, id uint64) error
	ListTransfers(ctx context.Context) ([]domain.EnergyTransfer, error)

	Close() error
}
