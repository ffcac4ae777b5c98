package configmsg

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wattchdog/gateway-core/internal/device"
)

// timestampLayout is the prepared-message timestamp format: UTC, second
// precision, e.g. 2026-08-31T14:05:09Z.
const timestampLayout = "2006-01-02T15:04:05Z"

// Logger defines the logging interface used by the Validator.
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

// DeviceLister is the slice of the registry the validator needs: a snapshot
// of known devices for the unknown-serial advisory.
type DeviceLister interface {
	List() []device.Device
}

// Recipient is a normalized notification recipient. Missing fields default
// to the empty string rather than being omitted, so downstream consumers see
// a fixed shape.
type Recipient struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Number string `json:"number"`
}

// PreparedMessage is the canonical, transport-ready form of an operator's
// configuration request. It is a value object: never mutated after Prepare
// returns it.
type PreparedMessage struct {
	ID         string      `json:"id"`
	Timestamp  string      `json:"ts"`
	Serial     string      `json:"serial"`
	Recipients []Recipient `json:"recipients"`
	Events     []any       `json:"events"`
}

// Validator turns arbitrary decoded request bodies into PreparedMessages.
type Validator struct {
	devices DeviceLister
	logger  Logger
}

// NewValidator creates a validator that checks target serials against the
// given device lister.
func NewValidator(devices DeviceLister) *Validator {
	return &Validator{
		devices: devices,
		logger:  noopLogger{},
	}
}

// SetLogger sets the logger for the validator.
func (v *Validator) SetLogger(logger Logger) {
	v.logger = logger
}

// Prepare validates and normalizes a decoded configuration request.
//
// The input is whatever json.Unmarshal produced for the request body. On
// success it returns a PreparedMessage with a freshly generated ID and a UTC
// timestamp; two calls with identical input produce different IDs. On failure
// it returns one of the package's validation errors and nothing else.
//
// An unknown target serial is an advisory, not an error: the device may
// simply not have said hello yet, and blocking the operator on that would
// make first-boot configuration impossible.
func (v *Validator) Prepare(data any) (*PreparedMessage, error) {
	obj, ok := data.(map[string]any)
	if !ok {
		return nil, ErrNotAnObject
	}

	serial := strings.TrimSpace(asString(obj["serial"]))
	if serial == "" {
		return nil, ErrMissingSerial
	}

	recipients, err := v.normalizeRecipients(obj["recipients"])
	if err != nil {
		return nil, err
	}

	events, err := normalizeEvents(obj["events"])
	if err != nil {
		return nil, err
	}

	if !v.knownSerial(serial) {
		v.logger.Warn("target serial not in device registry; preparing anyway", "serial", serial)
	}

	msg := &PreparedMessage{
		ID:         uuid.NewString(),
		Timestamp:  time.Now().UTC().Format(timestampLayout),
		Serial:     serial,
		Recipients: recipients,
		Events:     events,
	}

	v.logger.Debug("config message prepared", "serial", serial, "id", msg.ID)
	return msg, nil
}

// normalizeRecipients copies name/email/number from each object entry,
// defaulting absent fields to the empty string. Non-object entries are
// dropped with a warning; they never abort the request.
func (v *Validator) normalizeRecipients(value any) ([]Recipient, error) {
	if value == nil {
		return []Recipient{}, nil
	}
	list, ok := value.([]any)
	if !ok {
		return nil, ErrInvalidRecipients
	}

	normalized := make([]Recipient, 0, len(list))
	for _, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			v.logger.Warn("skipping non-object recipient entry")
			continue
		}
		normalized = append(normalized, Recipient{
			Name:   asString(obj["name"]),
			Email:  asString(obj["email"]),
			Number: asString(obj["number"]),
		})
	}
	return normalized, nil
}

// normalizeEvents accepts any list verbatim. Event contents are deliberately
// unvalidated: the downstream consumer's schema evolves independently of the
// gateway.
func normalizeEvents(value any) ([]any, error) {
	if value == nil {
		return []any{}, nil
	}
	list, ok := value.([]any)
	if !ok {
		return nil, ErrInvalidEvents
	}
	return list, nil
}

// knownSerial reports whether the registry snapshot contains serial.
func (v *Validator) knownSerial(serial string) bool {
	if v.devices == nil {
		return true
	}
	for _, d := range v.devices.List() {
		if d.Serial == serial {
			return true
		}
	}
	return false
}

// asString converts a decoded JSON value to its string form.
// Absent values (nil) become the empty string.
func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(v)
	}
}
