// Package dispatch delivers prepared configuration messages to devices over
// the pub/sub transport.
//
// The dispatcher sits on the far side of the validation pipeline: it takes a
// configmsg.PreparedMessage that is already canonical and publishes it to
// the target device's config topic. Delivery is best-effort: there is no
// acknowledgement protocol, and a publish failure is reported to the caller
// but never retried here.
package dispatch

import (
	"encoding/json"
	"fmt"

	"github.com/wattchdog/gateway-core/internal/configmsg"
	"github.com/wattchdog/gateway-core/internal/infrastructure/mqtt"
)

// Publisher is the slice of the MQTT client the dispatcher needs.
type Publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// Logger defines the logging interface used by the Dispatcher.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Dispatcher publishes prepared messages to devices/<serial>/config.
type Dispatcher struct {
	publisher Publisher
	qos       byte
	logger    Logger
}

// New creates a dispatcher that publishes through the given publisher at the
// given QoS level.
func New(publisher Publisher, qos byte) *Dispatcher {
	return &Dispatcher{
		publisher: publisher,
		qos:       qos,
		logger:    noopLogger{},
	}
}

// SetLogger sets the logger for the dispatcher.
func (d *Dispatcher) SetLogger(logger Logger) {
	d.logger = logger
}

// Send publishes msg to the target device's config topic.
//
// The message is not retained: a device that connects later should wait for
// a fresh configuration rather than replay a stale one. Send must not be
// called while holding the registry lock; publishing can block on the
// broker for up to the publish timeout.
func (d *Dispatcher) Send(targetSerial string, msg *configmsg.PreparedMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encoding prepared message: %w", err)
	}

	topic := mqtt.Topics{}.DeviceConfig(targetSerial)
	if err := d.publisher.Publish(topic, payload, d.qos, false); err != nil {
		return fmt.Errorf("publishing config message: %w", err)
	}

	d.logger.Info("config message dispatched", "serial", targetSerial, "id", msg.ID)
	return nil
}
