// Package events publishes robot lifecycle notifications to a message broker.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/devghori1264/aerophoenix/robot-service/internal/models"
)

// Event types.
const (
	RobotCreated = "robot.created"
	RobotUpdated = "robot.updated"
)

// Backends accepted by Open.
const (
	BackendNone = "none"
	BackendNATS = "nats"
	BackendMQTT = "mqtt"
)

// Event is the wire payload, encoded as JSON.
type Event struct {
	Type  string       `json:"event"`
	Robot models.Robot `json:"robot"`
	Time  int64        `json:"time"`
}

func NewEvent(typ string, r models.Robot) Event {
	return Event{Type: typ, Robot: r, Time: time.Now().Unix()}
}

func (e Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close()
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close()                               {}

// Config selects the broker.
type Config struct {
	Backend string

	NATSURL     string
	NATSSubject string

	MQTTBroker   string
	MQTTClientID string
	MQTTTopic    string
	MQTTQoS      byte
}

// Open connects to the configured broker.
func Open(cfg Config, logger *zap.Logger) (Publisher, error) {
	switch cfg.Backend {
	case "", BackendNone:
		return Nop{}, nil
	case BackendNATS:
		return NewNATSPublisher(cfg.NATSURL, cfg.NATSSubject, logger)
	case BackendMQTT:
		return NewMQTTPublisher(cfg.MQTTBroker, cfg.MQTTClientID, cfg.MQTTTopic, cfg.MQTTQoS, logger)
	default:
		return nil, fmt.Errorf("unknown events backend %q", cfg.Backend)
	}
}
