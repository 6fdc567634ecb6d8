package domain

import (
	"fmt"
	"time"
)

// TransferStatus is the lifecycle state of a reservation. Transitions only
// move forward: Requested -> Ongoing -> Paid, or Requested -> Cancelled.
type TransferStatus string

const (
	TransferStatusRequested   TransferStatus = "Requested"
	TransferStatusOngoing     TransferStatus = "Ongoing"
	TransferStatusPaid        TransferStatus = "Paid"
	TransferStatusCancelled   TransferStatus = "Cancelled"
	TransferStatusUnspecified TransferStatus = "Unspecified"
)

// ParseTransferStatus maps transport input to a transfer status. Unknown
// values come back as Unspecified together with an error so callers can
// reject them.
func ParseTransferStatus(s string) (TransferStatus, error) {
	switch TransferStatus(s) {
	case TransferStatusRequested, TransferStatusOngoing, TransferStatusPaid, TransferStatusCancelled:
		return TransferStatus(s), nil
	}
	return TransferStatusUnspecified, fmt.Errorf("unknown transfer status %q", s)
}

// EnergyTransfer is one reservation-to-settlement record binding a driver to
// an offer. Tariff and collateral are snapshots taken at reservation time and
// never re-read from the offer.
type EnergyTransfer struct {
	ID                uint64         `db:"id" json:"id"`
	OfferID           uint64         `db:"offer_id" json:"energy_transfer_offer_id"`
	ChargerID         string         `db:"charger_id" json:"charger_id"`
	Owner             string         `db:"owner" json:"owner"`
	Driver            string         `db:"driver" json:"driver"`
	OfferedTariff     uint64         `db:"offered_tariff" json:"offered_tariff"`
	Status            TransferStatus `db:"status" json:"status"`
	Collateral        uint64         `db:"collateral" json:"collateral"`
	EnergyToTransfer  uint64         `db:"energy_to_transfer" json:"energy_to_transfer"`
	EnergyTransferred uint64         `db:"energy_transferred" json:"energy_transferred"`
	PaidDate          time.Time      `db:"paid_date" json:"paid_date"`
}

// Funds is an amount of the market denomination attached to a request.
type Funds struct {
	Amount uint64 `json:"amount"`
	Denom  string `json:"denom"`
}

func (f Funds) String() string {
	return fmt.Sprintf("%d%s", f.Amount, f.Denom)
}
