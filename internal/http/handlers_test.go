package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/voltbridge/ev-charging-marketplace/internal/bank"
	"github.com/voltbridge/ev-charging-marketplace/internal/domain"
	"github.com/voltbridge/ev-charging-marketplace/internal/events"
	"github.com/voltbridge/ev-charging-marketplace/internal/service"
	"github.com/voltbridge/ev-charging-marketplace/internal/store"
)

type nopLedger struct{}

func (nopLedger) Send(ctx context.Context, instr bank.Instruction) error { return nil }

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	st := store.NewMemoryStore()
	svcs := service.New(st, nopLedger{}, events.NewEmitter(zerolog.Nop()))
	if err := svcs.Init(context.Background(), "uvolt"); err != nil {
		t.Fatalf("init: %v", err)
	}
	app := fiber.New()
	Register(app, svcs)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	var req *http.Request
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		req = httptest.NewRequest(method, path, bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func publishOffer(t *testing.T, app *fiber.App) uint64 {
	t.Helper()
	resp := doJSON(t, app, fiber.MethodPost, "/offers", fiber.Map{
		"owner":      "owner1",
		"charger_id": "charger-001",
		"latitude":   52.52,
		"longitude":  13.405,
		"tariff":     50,
		"name":       "Main Street Charger",
		"plug_type":  "Type2",
	})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("publish offer status = %d", resp.StatusCode)
	}
	var out struct {
		ID uint64 `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode publish response: %v", err)
	}
	return out.ID
}

func startTransfer(t *testing.T, app *fiber.App, offerID uint64) uint64 {
	t.Helper()
	resp := doJSON(t, app, fiber.MethodPost, "/transfers", fiber.Map{
		"driver":                   "driver1",
		"energy_transfer_offer_id": offerID,
		"energy_to_transfer":       10,
		"funds":                    fiber.Map{"amount": 500, "denom": "uvolt"},
	})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("start transfer status = %d", resp.StatusCode)
	}
	var out struct {
		ID uint64 `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode start response: %v", err)
	}
	return out.ID
}

func TestDenomEndpoint(t *testing.T) {
	app := newTestApp(t)
	resp := doJSON(t, app, fiber.MethodGet, "/denom", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var out struct {
		Denom string `json:"denom"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Denom != "uvolt" {
		t.Errorf("denom = %q, want uvolt", out.Denom)
	}
}

func TestOfferLifecycleOverHTTP(t *testing.T) {
	app := newTestApp(t)
	id := publishOffer(t, app)

	resp := doJSON(t, app, fiber.MethodGet, fmt.Sprintf("/offers/%d", id), nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("get offer status = %d", resp.StatusCode)
	}
	var offer domain.EnergyTransferOffer
	if err := json.NewDecoder(resp.Body).Decode(&offer); err != nil {
		t.Fatalf("decode offer: %v", err)
	}
	if offer.ChargerStatus != domain.ChargerStatusActive {
		t.Errorf("charger status = %s, want Active", offer.ChargerStatus)
	}

	// Wrong requester is rejected, right one succeeds.
	resp = doJSON(t, app, fiber.MethodDelete, fmt.Sprintf("/offers/%d?requester=intruder", id), nil)
	if resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("unauthorized remove status = %d, want 403", resp.StatusCode)
	}
	resp = doJSON(t, app, fiber.MethodDelete, fmt.Sprintf("/offers/%d?requester=owner1", id), nil)
	if resp.StatusCode != fiber.StatusNoContent {
		t.Errorf("remove status = %d, want 204", resp.StatusCode)
	}
	resp = doJSON(t, app, fiber.MethodGet, fmt.Sprintf("/offers/%d", id), nil)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("get removed offer status = %d, want 404", resp.StatusCode)
	}
}

func TestTransferLifecycleOverHTTP(t *testing.T) {
	app := newTestApp(t)
	offerID := publishOffer(t, app)
	id := startTransfer(t, app, offerID)

	resp := doJSON(t, app, fiber.MethodPost, fmt.Sprintf("/transfers/%d/started", id), nil)
	if resp.StatusCode != fiber.StatusNoContent {
		t.Fatalf("mark started status = %d", resp.StatusCode)
	}

	resp = doJSON(t, app, fiber.MethodPost, fmt.Sprintf("/transfers/%d/complete", id), fiber.Map{
		"used_service_units": 5,
	})
	if resp.StatusCode != fiber.StatusNoContent {
		t.Fatalf("complete status = %d", resp.StatusCode)
	}

	// Settled transfers report Paid with the usage recorded.
	resp = doJSON(t, app, fiber.MethodGet, fmt.Sprintf("/transfers/%d", id), nil)
	var transfer domain.EnergyTransfer
	if err := json.NewDecoder(resp.Body).Decode(&transfer); err != nil {
		t.Fatalf("decode transfer: %v", err)
	}
	if transfer.Status != domain.TransferStatusPaid || transfer.EnergyTransferred != 5 {
		t.Errorf("transfer = %+v, want Paid with 5 units", transfer)
	}

	// Completing again conflicts.
	resp = doJSON(t, app, fiber.MethodPost, fmt.Sprintf("/transfers/%d/complete", id), fiber.Map{
		"used_service_units": 5,
	})
	if resp.StatusCode != fiber.StatusConflict {
		t.Errorf("second complete status = %d, want 409", resp.StatusCode)
	}

	resp = doJSON(t, app, fiber.MethodDelete, fmt.Sprintf("/transfers/%d", id), nil)
	if resp.StatusCode != fiber.StatusNoContent {
		t.Errorf("remove status = %d, want 204", resp.StatusCode)
	}
}

func TestErrorStatusMapping(t *testing.T) {
	app := newTestApp(t)
	offerID := publishOffer(t, app)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{
			name: "validation error", method: fiber.MethodPost, path: "/offers",
			body: fiber.Map{"owner": "owner1", "charger_id": "", "name": "", "tariff": 1},
			want: fiber.StatusBadRequest,
		},
		{
			name: "funds mismatch", method: fiber.MethodPost, path: "/transfers",
			body: fiber.Map{
				"driver": "driver1", "energy_transfer_offer_id": offerID,
				"energy_to_transfer": 10, "funds": fiber.Map{"amount": 1, "denom": "uvolt"},
			},
			want: fiber.StatusPaymentRequired,
		},
		{
			name: "invalid driver", method: fiber.MethodPost, path: "/transfers",
			body: fiber.Map{
				"driver": "", "energy_transfer_offer_id": offerID,
				"energy_to_transfer": 10, "funds": fiber.Map{"amount": 500, "denom": "uvolt"},
			},
			want: fiber.StatusBadRequest,
		},
		{
			name: "unknown transfer", method: fiber.MethodPost, path: "/transfers/99/cancel",
			want: fiber.StatusNotFound,
		},
		{
			name: "bad id", method: fiber.MethodGet, path: "/offers/abc",
			want: fiber.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, app, tt.method, tt.path, tt.body)
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestTransferQueriesOverHTTP(t *testing.T) {
	app := newTestApp(t)
	offerID := publishOffer(t, app)
	startTransfer(t, app, offerID)

	resp := doJSON(t, app, fiber.MethodGet, "/transfers?driver=driver1&status=Requested", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var transfers []domain.EnergyTransfer
	if err := json.NewDecoder(resp.Body).Decode(&transfers); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(transfers) != 1 {
		t.Errorf("len = %d, want 1", len(transfers))
	}

	resp = doJSON(t, app, fiber.MethodGet, "/transfers?driver=driver1&status=NotAStatus", nil)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("unknown status filter = %d, want 400", resp.StatusCode)
	}
}
