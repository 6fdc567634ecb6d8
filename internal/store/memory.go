package store

import (
	"context"
	"sort"
	"sync"

	"github.com/voltbridge/ev-charging-marketplace/internal/domain"
)

// MemoryStore implements Store with in-process maps. Used for tests and for
// running the API without a database.
type MemoryStore struct {
	mu            sync.RWMutex
	denom         string
	denomSet      bool
	offerCount    uint64
	offerCountSet bool
	xferCount     uint64
	xferCountSet  bool
	offers        map[uint64]domain.EnergyTransferOffer
	transfers     map[uint64]domain.EnergyTransfer
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		offers:    make(map[uint64]domain.EnergyTransferOffer),
		transfers: make(map[uint64]domain.EnergyTransfer),
	}
}

func (s *MemoryStore) Denom(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.denomSet {
		return "", ErrNotFound
	}
	return s.denom, nil
}

func (s *MemoryStore) SetDenom(ctx context.Context, denom string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.denom = denom
	s.denomSet = true
	return nil
}

func (s *MemoryStore) OfferCount(ctx context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.offerCountSet {
		return 0, ErrNotFound
	}
	return s.offerCount, nil
}

func (s *MemoryStore) SetOfferCount(ctx context.Context, n uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offerCount = n
	s.offerCountSet = true
	return nil
}

func (s *MemoryStore) GetOffer(ctx context.Context, id uint64) (domain.EnergyTransferOffer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	offer, ok := s.offers[id]
	if !ok {
		return domain.EnergyTransferOffer{}, ErrNotFound
	}
	return offer, nil
}

func (s *MemoryStore) PutOffer(ctx context.Context, offer domain.EnergyTransferOffer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offers[offer.ID] = offer
	return nil
}

func (s *MemoryStore) DeleteOffer(ctx context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.offers[id]; !ok {
		return ErrNotFound
	}
	delete(s.offers, id)
	return nil
}

func (s *MemoryStore) ListOffers(ctx context.Context) ([]domain.EnergyTransferOffer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.EnergyTransferOffer, 0, len(s.offers))
	for _, offer := range s.offers {
		out = append(out, offer)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) TransferCount(ctx context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.xferCountSet {
		return 0, ErrNotFound
	}
	return s.xferCount, nil
}

func (s *MemoryStore) SetTransferCount(ctx context.Context, n uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.xferCount = n
	s.xferCountSet = true
	return nil
}

func (s *MemoryStore) GetTransfer(ctx context.Context, id uint64) (domain.EnergyTransfer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	transfer, ok := s.transfers[id]
	if !ok {
		return domain.EnergyTransfer{}, ErrNotFound
	}
	return transfer, nil
}

func (s *MemoryStore) PutTransfer(ctx context.Context, transfer domain.EnergyTransfer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transfers[transfer.ID] = transfer
	return nil
}

func (s *MemoryStore) DeleteTransfer(ctx context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.transfers[id]; !ok {
		return ErrNotFound
	}
	delete(s.transfers, id)
	return nil
}

func (s *MemoryStore) ListTransfers(ctx context.Context) ([]domain.EnergyTransfer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.EnergyTransfer, 0, len(s.transfers))
	for _, transfer := range s.transfers {
		out = append(out, transfer)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }
