package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-rainbow/internal/telemetry"
)

const connectTimeout = 5 * time.Second

// Publisher pushes sampled records to an MQTT broker as retained JSON.
type Publisher struct {
	client mqtt.Client
	topic  string
	logger zerolog.Logger
}

// New connects to broker (e.g. tcp://localhost:1883).
func New(broker, clientID, topic string, logger zerolog.Logger) (*Publisher, error) {
	options := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(connectTimeout)

	client := mqtt.NewClient(options)
	t := client.Connect()
	if !t.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("mqtt connect %s: timed out", broker)
	}
	if err := t.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", broker, err)
	}
	return NewWithClient(client, topic, logger), nil
}

// NewWithClient wraps an already connected client.
func NewWithClient(client mqtt.Client, topic string, logger zerolog.Logger) *Publisher {
	return &Publisher{client: client, topic: topic, logger: logger}
}

// Publish implements telemetry.Sink. Delivery errors are logged, never returned.
func (p *Publisher) Publish(r telemetry.Record) {
	b, err := json.Marshal(r.Payload())
	if err != nil {
		p.logger.Error().Err(err).Msg("mqtt payload")
		return
	}
	t := p.client.Publish(p.topic, 0, true, b)

	// Check for errors asynchronously
	go func() {
		_ = t.Wait()
		if err := t.Error(); err != nil {
			p.logger.Warn().Err(err).Str("topic", p.topic).Msg("mqtt publish")
		}
	}()
}

func (p *Publisher) Close() {
	p.client.Disconnect(250)
}
