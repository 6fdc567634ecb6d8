// The connector bridges charger hardware to the marketplace: it subscribes to
// charger session reports over MQTT and drives the transfer state machine
// (mark-started on session start, complete on session end). It runs as the
// trusted connector role; charger authentication happens at the broker.
package main

import (
	"context"
	"encoding/json"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/voltbridge/ev-charging-marketplace/internal/bank"
	"github.com/voltbridge/ev-charging-marketplace/internal/config"
	"github.com/voltbridge/ev-charging-marketplace/internal/events"
	"github.com/voltbridge/ev-charging-marketplace/internal/service"
	"github.com/voltbridge/ev-charging-marketplace/internal/store"
)

type sessionMessage struct {
	TransferID       uint64 `json:"energy_transfer_id"`
	Event            string `json:"event"` // "started" | "completed"
	UsedServiceUnits uint64 `json:"used_service_units"`
}

func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	pg, err := store.ConnectPostgres(config.DBDSN())
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	defer pg.Close()

	broker := config.MQTTBroker()
	if broker == "" {
		log.Fatal().Msg("MQTT_BROKER is required for the connector")
	}
	opts := mqtt.NewClientOptions().AddBroker(broker)
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("mqtt connect")
	}
	defer client.Disconnect(250)

	ledger := bank.NewMQTTLedger(client, config.BankTopic())
	emitter := events.NewEmitter(log.Logger).WithMQTT(client, config.EventPrefix())
	svcs := service.New(pg, ledger, emitter)

	handler := func(_ mqtt.Client, msg mqtt.Message) {
		var sm sessionMessage
		if err := json.Unmarshal(msg.Payload(), &sm); err != nil {
			log.Error().Err(err).Str("topic", msg.Topic()).Msg("bad session message")
			return
		}
		ctx := context.Background()
		var err error
		switch sm.Event {
		case "started":
			err = svcs.Transfers.MarkStarted(ctx, sm.TransferID)
		case "completed":
			err = svcs.Transfers.Complete(ctx, sm.TransferID, sm.UsedServiceUnits)
		default:
			log.Warn().Str("event", sm.Event).Uint64("transfer_id", sm.TransferID).Msg("unknown session event")
			return
		}
		if err != nil {
			log.Error().Err(err).Uint64("transfer_id", sm.TransferID).Str("event", sm.Event).Msg("session handling failed")
		}
	}

	if token := client.Subscribe(config.SessionTopic(), 1, handler); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("subscribe failed")
	}

	log.Info().Str("topic", config.SessionTopic()).Msg("connector running; Ctrl+C to stop")
	for {
		time.Sleep(10 * time.Second)
	}
}
