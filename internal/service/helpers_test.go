package service

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/voltbridge/ev-charging-marketplace/internal/bank"
	"github.com/voltbridge/ev-charging-marketplace/internal/domain"
	"github.com/voltbridge/ev-charging-marketplace/internal/events"
	"github.com/voltbridge/ev-charging-marketplace/internal/store"
)

const testDenom = "uvolt"

// recordingLedger captures emitted fund-transfer instructions.
type recordingLedger struct {
	mu   sync.Mutex
	sent []bank.Instruction
}

func (l *recordingLedger) Send(ctx context.Context, instr bank.Instruction) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sent = append(l.sent, instr)
	return nil
}

func (l *recordingLedger) instructions() []bank.Instruction {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]bank.Instruction(nil), l.sent...)
}

func newTestServices(t *testing.T) (*Services, *store.MemoryStore, *recordingLedger) {
	t.Helper()
	st := store.NewMemoryStore()
	ledger := &recordingLedger{}
	svcs := New(st, ledger, events.NewEmitter(zerolog.Nop()))
	if err := svcs.Init(context.Background(), testDenom); err != nil {
		t.Fatalf("init: %v", err)
	}
	return svcs, st, ledger
}

func publishTestOffer(t *testing.T, svcs *Services, tariff uint64) uint64 {
	t.Helper()
	id, err := svcs.Offers.Publish(context.Background(), PublishParams{
		Owner:     "owner1",
		ChargerID: "charger-001",
		Latitude:  52.52,
		Longitude: 13.405,
		Tariff:    tariff,
		Name:      "Main Street Charger",
		PlugType:  domain.PlugTypeType2,
	})
	if err != nil {
		t.Fatalf("publish offer: %v", err)
	}
	return id
}

func startTestTransfer(t *testing.T, svcs *Services, offerID, tariff, energy uint64) uint64 {
	t.Helper()
	id, err := svcs.Transfers.Start(context.Background(), "driver1", offerID, energy,
		domain.Funds{Amount: tariff * energy, Denom: testDenom})
	if err != nil {
		t.Fatalf("start transfer: %v", err)
	}
	return id
}
