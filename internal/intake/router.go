package intake

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wattchdog/gateway-core/internal/device"
)

// Topic actions understood by the router.
const (
	actionHello  = "hello"
	actionStatus = "status"
)

// topicSegments is the exact segment count of a device topic.
const topicSegments = 3

// Logger defines the logging interface used by the Router.
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

// StatusRecorder receives online-state observations for history storage.
// Implementations must not block; the router calls it inline on the
// transport delivery path.
type StatusRecorder interface {
	RecordDeviceStatus(serial string, online bool)
}

// ParseTopic splits a pub/sub topic into its device serial and action.
//
// The grammar is exactly three /-separated segments with a literal "devices"
// prefix and a non-empty serial: devices/<serial>/<action>. Anything else is
// rejected with ErrInvalidTopic.
func ParseTopic(topic string) (serial, action string, err error) {
	parts := strings.Split(topic, "/")
	if len(parts) != topicSegments || parts[0] != "devices" || parts[1] == "" {
		return "", "", ErrInvalidTopic
	}
	return parts[1], parts[2], nil
}

// Router translates inbound pub/sub messages into registry mutations.
//
// It is transport-agnostic: HandleMessage takes the raw topic string and
// payload bytes, so the same entry point serves the MQTT client callback and
// the HTTP simulation endpoint with identical effects.
type Router struct {
	registry *device.Registry
	history  StatusRecorder
	logger   Logger
}

// NewRouter creates a router that mutates the given registry.
func NewRouter(registry *device.Registry) *Router {
	return &Router{
		registry: registry,
		logger:   noopLogger{},
	}
}

// SetLogger sets the logger for the router.
func (r *Router) SetLogger(logger Logger) {
	r.logger = logger
}

// SetStatusRecorder sets an optional sink that receives every accepted
// online-state observation (hello and status alike).
func (r *Router) SetStatusRecorder(rec StatusRecorder) {
	r.history = rec
}

// HandleMessage routes one inbound message.
//
// On success it returns a short description of the effect, suitable for the
// simulation endpoint's response. On rejection it returns one of the intake
// errors and guarantees no registry side effect. It never panics and never
// blocks on I/O.
func (r *Router) HandleMessage(topic string, payload []byte) (string, error) {
	serial, action, err := ParseTopic(topic)
	if err != nil {
		r.logger.Debug("dropping message with invalid topic", "topic", topic)
		return "", err
	}

	switch action {
	case actionHello:
		return r.handleHello(serial, payload)
	case actionStatus:
		return r.handleStatus(serial, payload)
	default:
		r.logger.Debug("dropping message with unsupported action", "topic", topic, "action", action)
		return "", ErrUnsupportedAction
	}
}

// handleHello upserts the device record from an announcement payload.
// A payload that fails to decode as an object is treated as an empty
// announcement rather than rejected; devices with trimmed-down firmware
// publish bare hellos.
func (r *Router) handleHello(serial string, payload []byte) (string, error) {
	obj := decodeObject(payload)

	online := true
	if v, ok := lookup(obj, "online", "on"); ok {
		online = coerceBool(v)
	}

	fields := device.Fields{Online: &online}
	if name := firstString(obj, "name", "n"); name != "" {
		fields.Name = &name
	}
	if ip := strings.TrimSpace(asString(obj["ip"])); ip != "" {
		fields.IP = &ip
	}

	r.registry.Upsert(serial, fields)
	r.record(serial, online)
	r.logger.Info("hello processed", "serial", serial, "online", online)
	return fmt.Sprintf("hello: upserted device %q", serial), nil
}

// handleStatus updates the online flag for an already-known device.
func (r *Router) handleStatus(serial string, payload []byte) (string, error) {
	var obj map[string]any
	if err := json.Unmarshal(payload, &obj); err != nil || obj == nil {
		r.logger.Warn("status payload is not an object", "serial", serial)
		return "", ErrMissingField
	}

	v, ok := lookup(obj, "online", "on")
	if !ok {
		r.logger.Warn("status payload missing 'online'/'on'", "serial", serial)
		return "", ErrMissingField
	}

	online := coerceBool(v)
	r.registry.SetOnline(serial, online)
	r.record(serial, online)
	r.logger.Info("status processed", "serial", serial, "online", online)
	return fmt.Sprintf("status: device %q online=%t", serial, online), nil
}

func (r *Router) record(serial string, online bool) {
	if r.history != nil {
		r.history.RecordDeviceStatus(serial, online)
	}
}

// decodeObject decodes a JSON object payload, falling back to an empty
// object on any decode failure.
func decodeObject(payload []byte) map[string]any {
	var obj map[string]any
	if len(payload) == 0 || json.Unmarshal(payload, &obj) != nil || obj == nil {
		return map[string]any{}
	}
	return obj
}

// lookup returns the value of the first key present in obj.
func lookup(obj map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := obj[k]; ok {
			return v, true
		}
	}
	return nil, false
}

// firstString returns the first key whose value stringifies to something
// non-empty after trimming.
func firstString(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := strings.TrimSpace(asString(obj[k])); s != "" {
			return s
		}
	}
	return ""
}
