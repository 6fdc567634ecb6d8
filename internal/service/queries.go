package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/voltbridge/ev-charging-marketplace/internal/domain"
	"github.com/voltbridge/ev-charging-marketplace/internal/store"
)

// QueryService is the read side: unfiltered or filtered projections over the
// entity store, always in ascending id order.
type QueryService struct {
	store store.Store
}

func (q *QueryService) Denom(ctx context.Context) (string, error) {
	denom, err := q.store.Denom(ctx)
	if err != nil {
		return "", fmt.Errorf("load denom: %w", err)
	}
	return denom, nil
}

func (q *QueryService) GetOffer(ctx context.Context, id uint64) (domain.EnergyTransferOffer, error) {
	offer, err := q.store.GetOffer(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.EnergyTransferOffer{}, &domain.NotFoundError{Kind: "energy offer", ID: id}
	}
	return offer, err
}

func (q *QueryService) ListOffers(ctx context.Context) ([]domain.EnergyTransferOffer, error) {
	return q.store.ListOffers(ctx)
}

func (q *QueryService) OffersByOwner(ctx context.Context, owner string) ([]domain.EnergyTransferOffer, error) {
	all, err := q.store.ListOffers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.EnergyTransferOffer, 0, len(all))
	for _, offer := range all {
		if offer.Owner == owner {
			out = append(out, offer)
		}
	}
	return out, nil
}

func (q *QueryService) GetTransfer(ctx context.Context, id uint64) (domain.EnergyTransfer, error) {
	transfer, err := q.store.GetTransfer(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.EnergyTransfer{}, &domain.NotFoundError{Kind: "energy transfer", ID: id}
	}
	return transfer, err
}

func (q *QueryService) ListTransfers(ctx context.Context) ([]domain.EnergyTransfer, error) {
	return q.store.ListTransfers(ctx)
}

func (q *QueryService) TransfersByOwner(ctx context.Context, owner string) ([]domain.EnergyTransfer, error) {
	all, err := q.store.ListTransfers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.EnergyTransfer, 0, len(all))
	for _, transfer := range all {
		if transfer.Owner == owner {
			out = append(out, transfer)
		}
	}
	return out, nil
}

func (q *QueryService) TransfersByDriverAndStatus(ctx context.Context, driver string, status domain.TransferStatus) ([]domain.EnergyTransfer, error) {
	all, err := q.store.ListTransfers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.EnergyTransfer, 0, len(all))
	for _, transfer := range all {
		if transfer.Driver == driver && transfer.Status == status {
			out = append(out, transfer)
		}
	}
	return out, nil
}
