package service

import (
	"context"
	"errors"
	"testing"

	"github.com/voltbridge/ev-charging-marketplace/internal/domain"
)

func TestPublishOffer(t *testing.T) {
	svcs, _, _ := newTestServices(t)
	ctx := context.Background()

	id := publishTestOffer(t, svcs, 50)
	if id != 1 {
		t.Errorf("offer id = %d, want 1", id)
	}

	offer, err := svcs.Queries.GetOffer(ctx, id)
	if err != nil {
		t.Fatalf("get offer: %v", err)
	}
	if offer.ChargerStatus != domain.ChargerStatusActive {
		t.Errorf("charger status = %s, want Active", offer.ChargerStatus)
	}
	if offer.Owner != "owner1" || offer.ChargerID != "charger-001" {
		t.Errorf("unexpected offer fields: %+v", offer)
	}

	if next := publishTestOffer(t, svcs, 60); next != 2 {
		t.Errorf("second offer id = %d, want 2", next)
	}
}

func TestPublishOfferValidation(t *testing.T) {
	svcs, _, _ := newTestServices(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		params PublishParams
	}{
		{"empty charger id", PublishParams{Owner: "owner1", ChargerID: "", Name: "x", Tariff: 50}},
		{"empty name", PublishParams{Owner: "owner1", ChargerID: "charger-001", Name: "", Tariff: 50}},
		{"empty owner", PublishParams{Owner: "", ChargerID: "charger-001", Name: "x", Tariff: 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svcs.Offers.Publish(ctx, tt.params)
			var vErr *domain.ValidationError
			if !errors.As(err, &vErr) {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}

	// Zero tariff is allowed; pricing floors are not enforced here.
	if _, err := svcs.Offers.Publish(ctx, PublishParams{
		Owner: "owner1", ChargerID: "charger-free", Name: "Free Charger",
	}); err != nil {
		t.Errorf("zero tariff publish failed: %v", err)
	}
}

func TestRemoveOffer(t *testing.T) {
	svcs, _, _ := newTestServices(t)
	ctx := context.Background()
	id := publishTestOffer(t, svcs, 50)

	if err := svcs.Offers.Remove(ctx, "owner1", id); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := svcs.Queries.GetOffer(ctx, id); err == nil {
		t.Error("expected offer to be gone")
	}

	var nf *domain.NotFoundError
	if err := svcs.Offers.Remove(ctx, "owner1", id); !errors.As(err, &nf) {
		t.Errorf("expected NotFoundError on second remove, got %v", err)
	}
}

func TestRemoveOfferUnauthorized(t *testing.T) {
	svcs, _, _ := newTestServices(t)
	ctx := context.Background()
	id := publishTestOffer(t, svcs, 50)

	err := svcs.Offers.Remove(ctx, "intruder", id)
	var unauth *domain.UnauthorizedError
	if !errors.As(err, &unauth) {
		t.Fatalf("expected UnauthorizedError, got %v", err)
	}
	if _, err := svcs.Queries.GetOffer(ctx, id); err != nil {
		t.Error("offer must survive unauthorized removal")
	}
}

func TestRemoveBusyOfferFails(t *testing.T) {
	svcs, _, _ := newTestServices(t)
	ctx := context.Background()
	offerID := publishTestOffer(t, svcs, 50)
	id := startTestTransfer(t, svcs, offerID, 50, 10)

	// A Busy charger cannot be removed, not even by its owner.
	err := svcs.Offers.Remove(ctx, "owner1", offerID)
	var statusErr *domain.ChargerStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected ChargerStatusError, got %v", err)
	}
	if statusErr.Actual != domain.ChargerStatusBusy {
		t.Errorf("actual status in error = %s, want Busy", statusErr.Actual)
	}

	// Once the reservation settles, removal works again.
	if err := svcs.Transfers.Complete(ctx, id, 10); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if err := svcs.Offers.Remove(ctx, "owner1", offerID); err != nil {
		t.Errorf("remove after settlement: %v", err)
	}
}

func TestInitIdempotent(t *testing.T) {
	svcs, _, _ := newTestServices(t)
	ctx := context.Background()

	if err := svcs.Init(ctx, testDenom); err != nil {
		t.Fatalf("re-init with same denom: %v", err)
	}
	if err := svcs.Init(ctx, "uatom"); err == nil {
		t.Error("expected error re-initializing with different denom")
	}
	denom, err := svcs.Queries.Denom(ctx)
	if err != nil || denom != testDenom {
		t.Errorf("denom = %q, %v; want %q", denom, err, testDenom)
	}
}
