package options

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/devghori1264/aerophoenix/robot-service/internal/events"
)

// EventsOptions configures robot lifecycle event publication.
type EventsOptions struct {
	Backend string `json:"backend" mapstructure:"backend"`

	NATSURL     string `json:"nats-url" mapstructure:"nats-url"`
	NATSSubject string `json:"nats-subject" mapstructure:"nats-subject"`

	MQTTBroker   string `json:"mqtt-broker" mapstructure:"mqtt-broker"`
	MQTTClientID string `json:"mqtt-client-id" mapstructure:"mqtt-client-id"`
	MQTTTopic    string `json:"mqtt-topic" mapstructure:"mqtt-topic"`
	MQTTQoS      uint8  `json:"mqtt-qos" mapstructure:"mqtt-qos"`
}

func NewEventsOptions() *EventsOptions {
	return &EventsOptions{
		Backend:      events.BackendNone,
		NATSURL:      "nats://localhost:4222",
		NATSSubject:  "robots.events",
		MQTTBroker:   "tcp://localhost:1883",
		MQTTClientID: "robotd",
		MQTTTopic:    "robots/events",
	}
}

func (o *EventsOptions) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	switch o.Backend {
	case events.BackendNone:
	case events.BackendNATS:
		if o.NATSURL == "" {
			errs = append(errs, fmt.Errorf("--events.nats-url is required for the nats backend"))
		}
		if o.NATSSubject == "" {
			errs = append(errs, fmt.Errorf("--events.nats-subject must not be empty"))
		}
	case events.BackendMQTT:
		if o.MQTTBroker == "" {
			errs = append(errs, fmt.Errorf("--events.mqtt-broker is required for the mqtt backend"))
		}
		if o.MQTTTopic == "" {
			errs = append(errs, fmt.Errorf("--events.mqtt-topic must not be empty"))
		}
		if o.MQTTQoS > 2 {
			errs = append(errs, fmt.Errorf("--events.mqtt-qos must be 0, 1 or 2"))
		}
	default:
		errs = append(errs, fmt.Errorf("--events.backend must be one of none, nats, mqtt; got %q", o.Backend))
	}
	return errs
}

func (o *EventsOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Backend, "events.backend", o.Backend, "Where to publish robot events: none, nats or mqtt.")
	fs.StringVar(&o.NATSURL, "events.nats-url", o.NATSURL, "NATS server URL.")
	fs.StringVar(&o.NATSSubject, "events.nats-subject", o.NATSSubject, "NATS subject robot events are published on.")
	fs.StringVar(&o.MQTTBroker, "events.mqtt-broker", o.MQTTBroker, "MQTT broker URL.")
	fs.StringVar(&o.MQTTClientID, "events.mqtt-client-id", o.MQTTClientID, "MQTT client identifier.")
	fs.StringVar(&o.MQTTTopic, "events.mqtt-topic", o.MQTTTopic, "MQTT topic robot events are published on.")
	fs.Uint8Var(&o.MQTTQoS, "events.mqtt-qos", o.MQTTQoS, "MQTT publish QoS level.")
}

// Config converts the options into an events.Config.
func (o *EventsOptions) Config() events.Config {
	return events.Config{
		Backend:      o.Backend,
		NATSURL:      o.NATSURL,
		NATSSubject:  o.NATSSubject,
		MQTTBroker:   o.MQTTBroker,
		MQTTClientID: o.MQTTClientID,
		MQTTTopic:    o.MQTTTopic,
		MQTTQoS:      o.MQTTQoS,
	}
}
