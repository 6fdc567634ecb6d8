// Publishes a synthetic charger session for one transfer: a started report,
// a short delay, then a completed report with random usage. Useful for
// exercising the connector locally.
package main

import (
	"encoding/json"
	"flag"
	"math/rand"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/voltbridge/ev-charging-marketplace/internal/config"
)

type sessionMessage struct {
	TransferID       uint64 `json:"energy_transfer_id"`
	Event            string `json:"event"`
	UsedServiceUnits uint64 `json:"used_service_units"`
}

func main() {
	transferID := flag.Uint64("transfer", 1, "energy transfer id to simulate")
	reserved := flag.Uint64("reserved", 10, "reserved energy units")
	flag.Parse()

	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	opts := mqtt.NewClientOptions().AddBroker(config.MQTTBroker())
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("mqtt connect")
	}
	defer client.Disconnect(250)

	publish := func(m sessionMessage) {
		payload, _ := json.Marshal(m)
		token := client.Publish(config.SessionTopic(), 1, false, payload)
		token.Wait()
		if err := token.Error(); err != nil {
			log.Fatal().Err(err).Msg("publish failed")
		}
	}

	publish(sessionMessage{TransferID: *transferID, Event: "started"})
	log.Info().Uint64("transfer_id", *transferID).Msg("session started")

	time.Sleep(2 * time.Second)

	used := rand.Uint64() % (*reserved + 2) // occasionally over-reports usage
	publish(sessionMessage{TransferID: *transferID, Event: "completed", UsedServiceUnits: used})
	log.Info().Uint64("transfer_id", *transferID).Uint64("used", used).Msg("session completed")
}
