package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/voltbridge/ev-charging-marketplace/internal/bank"
	"github.com/voltbridge/ev-charging-marketplace/internal/cloud"
	"github.com/voltbridge/ev-charging-marketplace/internal/domain"
	"github.com/voltbridge/ev-charging-marketplace/internal/events"
	"github.com/voltbridge/ev-charging-marketplace/internal/store"
)

// TransferService is the reservation state machine: Requested -> Ongoing ->
// Paid, with Requested -> Cancelled as the only abort path. It snapshots the
// offer tariff at reservation time and settles against that snapshot only.
type TransferService struct {
	store        store.Store
	ledger       bank.Ledger
	emitter      *events.Emitter
	offers       *OfferService
	validAccount func(string) bool
	now          func() time.Time
	sns          *cloud.SNSClient
}

// Start reserves an Active offer for a driver, escrowing funds equal to
// tariff * energy. All preconditions are checked before any write.
func (s *TransferService) Start(ctx context.Context, driver string, offerID, energy uint64, funds domain.Funds) (uint64, error) {
	if driver == "" || !s.validAccount(driver) {
		return 0, domain.ErrInvalidDriver
	}
	if energy == 0 {
		return 0, domain.ErrZeroEnergy
	}

	offer, err := s.store.GetOffer(ctx, offerID)
	if errors.Is(err, store.ErrNotFound) {
		return 0, &domain.NotFoundError{Kind: "energy offer", ID: offerID}
	}
	if err != nil {
		return 0, fmt.Errorf("load offer: %w", err)
	}
	if offer.ChargerStatus != domain.ChargerStatusActive {
		return 0, &domain.ChargerStatusError{
			Expected: []domain.ChargerStatus{domain.ChargerStatusActive},
			Actual:   offer.ChargerStatus,
		}
	}

	denom, err := s.store.Denom(ctx)
	if err != nil {
		return 0, fmt.Errorf("load denom: %w", err)
	}
	collateral := offer.Tariff * energy
	required := domain.Funds{Amount: collateral, Denom: denom}
	if funds != required {
		return 0, &domain.FundsMismatchError{Expected: required, Got: funds}
	}

	count, err := s.store.TransferCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("load transfer count: %w", err)
	}
	id := count + 1

	transfer := domain.EnergyTransfer{
		ID:               id,
		OfferID:          offerID,
		ChargerID:        offer.ChargerID,
		Owner:            offer.Owner,
		Driver:           driver,
		OfferedTariff:    offer.Tariff,
		Status:           domain.TransferStatusRequested,
		Collateral:       collateral,
		EnergyToTransfer: energy,
		PaidDate:         s.now(),
	}

	if err := s.store.PutOffer(ctx, s.offers.lockCharger(offer)); err != nil {
		return 0, fmt.Errorf("save offer: %w", err)
	}
	if err := s.store.SetTransferCount(ctx, id); err != nil {
		return 0, fmt.Errorf("save transfer count: %w", err)
	}
	if err := s.store.PutTransfer(ctx, transfer); err != nil {
		return 0, fmt.Errorf("save transfer: %w", err)
	}

	s.emitter.Emit(ctx, events.Event{
		Type: events.TypeTransferRequested,
		Attrs: map[string]string{
			"energy_transfer_id":       strconv.FormatUint(id, 10),
			"energy_transfer_offer_id": strconv.FormatUint(offerID, 10),
			"charger_id":               offer.ChargerID,
			"driver":                   driver,
			"collateral":               required.String(),
		},
	})
	return id, nil
}

// MarkStarted records that the connector began delivering energy.
func (s *TransferService) MarkStarted(ctx context.Context, id uint64) error {
	transfer, err := s.loadTransfer(ctx, id)
	if err != nil {
		return err
	}
	if transfer.Status != domain.TransferStatusRequested {
		return &domain.TransferStatusError{
			Expected: []domain.TransferStatus{domain.TransferStatusRequested},
			Actual:   transfer.Status,
		}
	}

	transfer.Status = domain.TransferStatusOngoing
	if err := s.store.PutTransfer(ctx, transfer); err != nil {
		return fmt.Errorf("save transfer: %w", err)
	}

	s.emitter.Emit(ctx, events.Event{
		Type: events.TypeTransferStarted,
		Attrs: map[string]string{
			"energy_transfer_id":       strconv.FormatUint(id, 10),
			"energy_transfer_offer_id": strconv.FormatUint(transfer.OfferID, 10),
		},
	})
	return nil
}

// Complete settles a transfer against reported usage: the owner is paid for
// the energy delivered, the driver refunded the rest of the collateral.
// Usage beyond the reservation is clamped, never charged. Zero-amount legs
// are suppressed.
func (s *TransferService) Complete(ctx context.Context, id, usedServiceUnits uint64) error {
	transfer, err := s.loadTransfer(ctx, id)
	if err != nil {
		return err
	}
	if transfer.Status != domain.TransferStatusRequested && transfer.Status != domain.TransferStatusOngoing {
		return &domain.TransferStatusError{
			Expected: []domain.TransferStatus{domain.TransferStatusRequested, domain.TransferStatusOngoing},
			Actual:   transfer.Status,
		}
	}

	offer, err := s.store.GetOffer(ctx, transfer.OfferID)
	if errors.Is(err, store.ErrNotFound) {
		return &domain.NotFoundError{Kind: "energy offer", ID: transfer.OfferID}
	}
	if err != nil {
		return fmt.Errorf("load offer: %w", err)
	}
	denom, err := s.store.Denom(ctx)
	if err != nil {
		return fmt.Errorf("load denom: %w", err)
	}

	ownerPayout, driverRefund := domain.Settle(transfer.Collateral, transfer.OfferedTariff, transfer.EnergyToTransfer, usedServiceUnits)

	transfer.Status = domain.TransferStatusPaid
	transfer.EnergyTransferred = usedServiceUnits
	transfer.PaidDate = s.now()

	if err := s.store.PutTransfer(ctx, transfer); err != nil {
		return fmt.Errorf("save transfer: %w", err)
	}
	if err := s.store.PutOffer(ctx, s.offers.unlockCharger(offer)); err != nil {
		return fmt.Errorf("save offer: %w", err)
	}

	if driverRefund > 0 {
		if err := s.ledger.Send(ctx, bank.Instruction{ToAddress: transfer.Driver, Amount: driverRefund, Denom: denom}); err != nil {
			return fmt.Errorf("refund driver: %w", err)
		}
	}
	if ownerPayout > 0 {
		if err := s.ledger.Send(ctx, bank.Instruction{ToAddress: transfer.Owner, Amount: ownerPayout, Denom: denom}); err != nil {
			return fmt.Errorf("pay owner: %w", err)
		}
	}

	s.emitter.Emit(ctx, events.Event{
		Type: events.TypeTransferCompleted,
		Attrs: map[string]string{
			"energy_transfer_id": strconv.FormatUint(id, 10),
			"energy_transferred": strconv.FormatUint(usedServiceUnits, 10),
		},
	})

	if s.sns != nil {
		if err := s.sns.SendSettlementAlert(ctx, id, ownerPayout, driverRefund, denom); err != nil {
			log.Error().Err(err).Uint64("transfer_id", id).Msg("settlement alert failed")
		}
	}
	return nil
}

// Cancel aborts a Requested transfer, refunding the full collateral to the
// driver and returning the charger to the pool. Ongoing transfers cannot be
// cancelled.
func (s *TransferService) Cancel(ctx context.Context, id uint64) error {
	transfer, err := s.loadTransfer(ctx, id)
	if err != nil {
		return err
	}
	if transfer.Status != domain.TransferStatusRequested {
		return &domain.TransferStatusError{
			Expected: []domain.TransferStatus{domain.TransferStatusRequested},
			Actual:   transfer.Status,
		}
	}

	offer, err := s.store.GetOffer(ctx, transfer.OfferID)
	if errors.Is(err, store.ErrNotFound) {
		return &domain.NotFoundError{Kind: "energy offer", ID: transfer.OfferID}
	}
	if err != nil {
		return fmt.Errorf("load offer: %w", err)
	}
	denom, err := s.store.Denom(ctx)
	if err != nil {
		return fmt.Errorf("load denom: %w", err)
	}

	transfer.Status = domain.TransferStatusCancelled
	if err := s.store.PutTransfer(ctx, transfer); err != nil {
		return fmt.Errorf("save transfer: %w", err)
	}
	if err := s.store.PutOffer(ctx, s.offers.unlockCharger(offer)); err != nil {
		return fmt.Errorf("save offer: %w", err)
	}

	if err := s.ledger.Send(ctx, bank.Instruction{ToAddress: transfer.Driver, Amount: transfer.Collateral, Denom: denom}); err != nil {
		return fmt.Errorf("refund driver: %w", err)
	}

	s.emitter.Emit(ctx, events.Event{
		Type: events.TypeTransferCancelled,
		Attrs: map[string]string{
			"energy_transfer_id": strconv.FormatUint(id, 10),
			"charger_id":         transfer.ChargerID,
			"status":             string(domain.TransferStatusCancelled),
		},
	})
	return nil
}

// Remove deletes a settled or cancelled transfer record.
func (s *TransferService) Remove(ctx context.Context, id uint64) error {
	transfer, err := s.loadTransfer(ctx, id)
	if err != nil {
		return err
	}
	if transfer.Status != domain.TransferStatusPaid && transfer.Status != domain.TransferStatusCancelled {
		return &domain.TransferStatusError{
			Expected: []domain.TransferStatus{domain.TransferStatusPaid, domain.TransferStatusCancelled},
			Actual:   transfer.Status,
		}
	}

	if err := s.store.DeleteTransfer(ctx, id); err != nil {
		return fmt.Errorf("delete transfer: %w", err)
	}

	s.emitter.Emit(ctx, events.Event{
		Type: events.TypeTransferRemoved,
		Attrs: map[string]string{
			"energy_transfer_id": strconv.FormatUint(id, 10),
			"status":             string(transfer.Status),
		},
	})
	return nil
}

func (s *TransferService) loadTransfer(ctx context.Context, id uint64) (domain.EnergyTransfer, error) {
	transfer, err := s.store.GetTransfer(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.EnergyTransfer{}, &domain.NotFoundError{Kind: "energy transfer", ID: id}
	}
	if err != nil {
		return domain.EnergyTransfer{}, fmt.Errorf("load transfer: %w", err)
	}
	return transfer, nil
}
