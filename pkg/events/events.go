// Package events publishes domain events. Publishing is best effort: callers
// log failures and carry on.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"campus-booking/pkg/utils"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

const (
	TopicBookingsCreated   = "bookings/created"
	TopicTimetableImported = "timetable/imported"
	publishTimeout         = 5 * time.Second
)

var ErrPublishTimeout = errors.New("publish timed out")

type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) error
}

// New returns an MQTT publisher when enabled, otherwise a no-op.
func New(cfg utils.MQTTConfig, log *zap.Logger) (Publisher, error) {
	if !cfg.Enabled {
		return NopPublisher{}, nil
	}
	return NewMQTTPublisher(cfg, log)
}

type MQTTPublisher struct {
	client mqtt.Client
	prefix string
	log    *zap.Logger
}

func NewMQTTPublisher(cfg utils.MQTTConfig, log *zap.Logger) (*MQTTPublisher, error) {
	log = log.With(zap.String("component", "mqtt"))

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetUsername(cfg.Username)
	opts.SetPassword(cfg.Password)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(publishTimeout)
	opts.OnConnect = func(mqtt.Client) {
		log.Info("Connected to MQTT broker", zap.String("broker", cfg.Broker))
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		log.Warn("MQTT connection lost", zap.Error(err))
	}

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(publishTimeout) {
		return nil, fmt.Errorf("connect mqtt broker %s: %w", cfg.Broker, ErrPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect mqtt broker %s: %w", cfg.Broker, err)
	}

	return &MQTTPublisher{client: client, prefix: strings.Trim(cfg.TopicPrefix, "/"), log: log}, nil
}

// Topic joins the configured prefix and topic.
func (p *MQTTPublisher) Topic(topic string) string {
	if p.prefix == "" {
		return topic
	}
	return p.prefix + "/" + topic
}

func (p *MQTTPublisher) Publish(ctx context.Context, topic string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", topic, err)
	}

	timeout := publishTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = min(timeout, time.Until(deadline))
	}

	token := p.client.Publish(p.Topic(topic), 1, false, body)
	if !token.WaitTimeout(timeout) {
		return fmt.Errorf("publish %s: %w", topic, ErrPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }
