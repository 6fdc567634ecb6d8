package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDriver rejects an empty or malformed driver account id.
	ErrInvalidDriver = errors.New("invalid driver")

	// ErrZeroEnergy rejects a reservation for zero energy units.
	ErrZeroEnergy = errors.New("energy to transfer is zero")
)

// ValidationError reports malformed input. Callers must correct the input;
// retrying the same request cannot succeed.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// NotFoundError reports a missing offer or transfer record.
type NotFoundError struct {
	Kind string // "energy offer" or "energy transfer"
	ID   uint64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %d not found", e.Kind, e.ID)
}

// UnauthorizedError reports a signer without the required relationship to the
// resource, e.g. a non-owner removing an offer.
type UnauthorizedError struct {
	Signer string
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("invalid signer: %s", e.Signer)
}

// ChargerStatusError reports a charger-status precondition failure, carrying
// both the acceptable and the actual status for diagnostics.
type ChargerStatusError struct {
	Expected []ChargerStatus
	Actual   ChargerStatus
}

func (e *ChargerStatusError) Error() string {
	if len(e.Expected) == 2 {
		return fmt.Sprintf("invalid charger status: expected %s or %s, got %s", e.Expected[0], e.Expected[1], e.Actual)
	}
	return fmt.Sprintf("invalid charger status: expected %s, got %s", e.Expected[0], e.Actual)
}

// TransferStatusError reports a transfer-status precondition failure, carrying
// both the acceptable and the actual status for diagnostics.
type TransferStatusError struct {
	Expected []TransferStatus
	Actual   TransferStatus
}

func (e *TransferStatusError) Error() string {
	if len(e.Expected) == 2 {
		return fmt.Sprintf("invalid energy transfer status: expected %s or %s, got %s", e.Expected[0], e.Expected[1], e.Actual)
	}
	return fmt.Sprintf("invalid energy transfer status: expected %s, got %s", e.Expected[0], e.Actual)
}

// FundsMismatchError reports attached funds that do not exactly equal the
// required collateral in the market denomination.
type FundsMismatchError struct {
	Expected Funds
	Got      Funds
}

func (e *FundsMismatchError) Error() string {
	return fmt.Sprintf("invalid funds: expected %s, got %s", e.Expected, e.Got)
}
