package bank

import (
	"context"
	"encoding/json"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// DefaultTopic is where the funds subsystem listens for instructions.
const DefaultTopic = "bank/transfers"

// MQTTLedger publishes fund-transfer instructions as JSON messages on an MQTT
// topic for the funds subsystem to execute.
type MQTTLedger struct {
	client mqtt.Client
	topic  string
}

// NewMQTTLedger wraps a connected MQTT client. An empty topic uses
// DefaultTopic.
func NewMQTTLedger(client mqtt.Client, topic string) *MQTTLedger {
	if topic == "" {
		topic = DefaultTopic
	}
	return &MQTTLedger{client: client, topic: topic}
}

func (l *MQTTLedger) Send(ctx context.Context, instr Instruction) error {
	payload, err := json.Marshal(instr)
	if err != nil {
		return fmt.Errorf("marshal instruction: %w", err)
	}
	token := l.client.Publish(l.topic, 1, false, payload)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish instruction: %w", err)
	}
	return nil
}
