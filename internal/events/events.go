// Package events emits named operation events for every mutating marketplace
// command. Events are logged and, when a broker is configured, published as
// JSON for downstream consumers.
package events

import (
	"context"
	"encoding/json"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"
)

// Event types, one per mutating operation.
const (
	TypeOfferPublished    = "publish_energy_transfer_offer"
	TypeOfferRemoved      = "remove_energy_offer"
	TypeTransferRequested = "start_energy_transfer"
	TypeTransferStarted   = "energy_transfer_started"
	TypeTransferCompleted = "energy_transfer_completed"
	TypeTransferCancelled = "cancel_energy_transfer"
	TypeTransferRemoved   = "remove_energy_transfer"
)

// DefaultTopicPrefix is the MQTT topic prefix for published events; the event
// type is appended as the final topic segment.
const DefaultTopicPrefix = "market/events"

// Event is a named operation event with string attributes.
type Event struct {
	Type  string            `json:"type"`
	Attrs map[string]string `json:"attributes"`
}

// Emitter logs events and optionally publishes them over MQTT.
type Emitter struct {
	log    zerolog.Logger
	client mqtt.Client
	prefix string
}

// NewEmitter builds a log-only emitter.
func NewEmitter(log zerolog.Logger) *Emitter {
	return &Emitter{log: log, prefix: DefaultTopicPrefix}
}

// WithMQTT attaches a connected MQTT client. An empty prefix keeps
// DefaultTopicPrefix.
func (e *Emitter) WithMQTT(client mqtt.Client, prefix string) *Emitter {
	e.client = client
	if prefix != "" {
		e.prefix = prefix
	}
	return e
}

// Emit records the event. Publish failures are logged, not returned: events
// are observability output, never part of an invocation's effect set.
func (e *Emitter) Emit(ctx context.Context, evt Event) {
	entry := e.log.Info().Str("event", evt.Type)
	for k, v := range evt.Attrs {
		entry = entry.Str(k, v)
	}
	entry.Msg("event emitted")

	if e.client == nil {
		return
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		e.log.Error().Err(err).Str("event", evt.Type).Msg("event marshal failed")
		return
	}
	token := e.client.Publish(e.prefix+"/"+evt.Type, 0, false, payload)
	token.Wait()
	if err := token.Error(); err != nil {
		e.log.Error().Err(err).Str("event", evt.Type).Msg("event publish failed")
	}
}
