package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/luxedrive/internal/config"
)

const (
	BookingCreated       = "booking.created"
	BookingStatusChanged = "booking.status_changed"
	BookingPaymentChange = "booking.payment_changed"
	CarDeleted           = "car.deleted"
	FleetStats           = "fleet.stats"
)

const publishTimeout = 5 * time.Second

// Event is a domain notification sent to subscribers.
type Event struct {
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurredAt"`
	Payload    interface{} `json:"payload"`
}

// New stamps an event of eventType with the current time.
func New(eventType string, payload interface{}) Event {
	return Event{Type: eventType, OccurredAt: time.Now().UTC(), Payload: payload}
}

// Publisher delivers events. Callers treat failures as non-fatal.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close()
}

// MQTTPublisher publishes events as JSON to "<prefix>/<event type>".
type MQTTPublisher struct {
	client mqtt.Client
	prefix string
	log    log.FieldLogger
}

// NewMQTTPublisher connects to the configured broker.
func NewMQTTPublisher(cfg config.MQTTConfig, logger log.FieldLogger) (*MQTTPublisher, error) {
	if cfg.Broker == "" {
		return nil, errors.New("mqtt broker is required")
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(10 * time.Second)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.WithError(err).Warn("MQTT connection lost")
	})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connect to mqtt broker %s: timeout", cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to mqtt broker %s: %w", cfg.Broker, err)
	}

	logger.WithField("broker", cfg.Broker).Info("Connected to MQTT broker")
	return newMQTTPublisher(client, cfg.TopicPrefix, logger), nil
}

func newMQTTPublisher(client mqtt.Client, prefix string, logger log.FieldLogger) *MQTTPublisher {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &MQTTPublisher{client: client, prefix: prefix, log: logger}
}

// Topic returns the topic an event type is published on.
func (p *MQTTPublisher) Topic(eventType string) string {
	if p.prefix == "" {
		return eventType
	}
	return p.prefix + "/" + eventType
}

func (p *MQTTPublisher) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.Type, err)
	}

	token := p.client.Publish(p.Topic(event.Type), 1, false, data)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(publishTimeout):
		return fmt.Errorf("publish %s: timeout", event.Type)
	}
	return token.Error()
}

func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}

// LogPublisher writes events to the log. It is used when no broker is
// configured.
type LogPublisher struct {
	log log.FieldLogger
}

func NewLogPublisher(logger log.FieldLogger) *LogPublisher {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &LogPublisher{log: logger}
}

func (p *LogPublisher) Publish(_ context.Context, event Event) error {
	p.log.WithFields(log.Fields{
		"event":       event.Type,
		"occurred_at": event.OccurredAt,
		"payload":     event.Payload,
	}).Info("Event")
	return nil
}

func (p *LogPublisher) Close() {}
