package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/voltbridge/ev-charging-marketplace/internal/domain"
	"github.com/voltbridge/ev-charging-marketplace/internal/events"
	"github.com/voltbridge/ev-charging-marketplace/internal/store"
)

// OfferService manages the offer lifecycle: publishing and removal. Charger
// status transitions between Active and Busy are driven exclusively by the
// transfer lifecycle through lockCharger and unlockCharger.
type OfferService struct {
	store   store.Store
	emitter *events.Emitter
}

// PublishParams carries the fields of a new offer listing.
type PublishParams struct {
	Owner     string
	ChargerID string
	Latitude  float64
	Longitude float64
	Tariff    uint64
	Name      string
	PlugType  domain.PlugType
}

// Publish creates a new Active offer and returns its assigned id. A zero
// tariff is accepted; pricing floors are not this layer's concern.
func (s *OfferService) Publish(ctx context.Context, p PublishParams) (uint64, error) {
	if p.ChargerID == "" || p.Name == "" {
		return 0, &domain.ValidationError{Msg: "charger_id and name must not be empty"}
	}
	if p.Owner == "" {
		return 0, &domain.ValidationError{Msg: "owner must not be empty"}
	}

	count, err := s.store.OfferCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("load offer count: %w", err)
	}
	id := count + 1

	offer := domain.EnergyTransferOffer{
		ID:            id,
		Owner:         p.Owner,
		ChargerID:     p.ChargerID,
		ChargerStatus: domain.ChargerStatusActive,
		Latitude:      p.Latitude,
		Longitude:     p.Longitude,
		Tariff:        p.Tariff,
		Name:          p.Name,
		PlugType:      p.PlugType,
	}

	if err := s.store.SetOfferCount(ctx, id); err != nil {
		return 0, fmt.Errorf("save offer count: %w", err)
	}
	if err := s.store.PutOffer(ctx, offer); err != nil {
		return 0, fmt.Errorf("save offer: %w", err)
	}

	s.emitter.Emit(ctx, events.Event{
		Type: events.TypeOfferPublished,
		Attrs: map[string]string{
			"energy_transfer_offer_id": strconv.FormatUint(id, 10),
			"owner":                    p.Owner,
			"charger_id":               p.ChargerID,
			"tariff":                   strconv.FormatUint(p.Tariff, 10),
			"name":                     p.Name,
			"plug_type":                string(p.PlugType),
		},
	})
	return id, nil
}

// Remove deletes an offer. Only the owner may remove it, and only while no
// transfer holds the charger (status Active or Inactive).
func (s *OfferService) Remove(ctx context.Context, requester string, id uint64) error {
	offer, err := s.store.GetOffer(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return &domain.NotFoundError{Kind: "energy offer", ID: id}
	}
	if err != nil {
		return fmt.Errorf("load offer: %w", err)
	}

	if offer.Owner != requester {
		return &domain.UnauthorizedError{Signer: requester}
	}
	if offer.ChargerStatus != domain.ChargerStatusActive && offer.ChargerStatus != domain.ChargerStatusInactive {
		return &domain.ChargerStatusError{
			Expected: []domain.ChargerStatus{domain.ChargerStatusActive, domain.ChargerStatusInactive},
			Actual:   offer.ChargerStatus,
		}
	}

	if err := s.store.DeleteOffer(ctx, id); err != nil {
		return fmt.Errorf("delete offer: %w", err)
	}

	s.emitter.Emit(ctx, events.Event{
		Type: events.TypeOfferRemoved,
		Attrs: map[string]string{
			"energy_offer_id": strconv.FormatUint(id, 10),
			"owner":           offer.Owner,
		},
	})
	return nil
}

// lockCharger marks the offer's charger as taken by a reservation. Pure copy;
// the caller persists it as part of its own effect set.
func (s *OfferService) lockCharger(offer domain.EnergyTransferOffer) domain.EnergyTransferOffer {
	offer.ChargerStatus = domain.ChargerStatusBusy
	return offer
}

// unlockCharger returns the offer's charger to the reservable pool.
func (s *OfferService) unlockCharger(offer domain.EnergyTransferOffer) domain.EnergyTransferOffer {
	offer.ChargerStatus = domain.ChargerStatusActive
	return offer
}
