package configmsg

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/wattchdog/gateway-core/internal/device"
)

// decode unmarshals a JSON literal the way the HTTP layer does.
func decode(t *testing.T, raw string) any {
	t.Helper()
	var data any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		t.Fatalf("test input does not parse: %v", err)
	}
	return data
}

func newTestValidator() (*Validator, *device.Registry) {
	reg := device.NewRegistry()
	return NewValidator(reg), reg
}

func TestPrepare_Success(t *testing.T) {
	v, reg := newTestValidator()
	reg.Upsert("ABC123", device.Fields{})

	input := decode(t, `{"serial":"ABC123","recipients":[{"name":"Op"}],"events":[{"x":1}]}`)
	msg, err := v.Prepare(input)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	if msg.Serial != "ABC123" {
		t.Errorf("Serial = %q, want %q", msg.Serial, "ABC123")
	}
	if len(msg.Recipients) != 1 {
		t.Fatalf("Recipients length = %d, want 1", len(msg.Recipients))
	}
	r := msg.Recipients[0]
	if r.Name != "Op" || r.Email != "" || r.Number != "" {
		t.Errorf("Recipient = %+v, want {Op  }", r)
	}
	if len(msg.Events) != 1 {
		t.Fatalf("Events length = %d, want 1", len(msg.Events))
	}
	if msg.ID == "" {
		t.Error("ID not generated")
	}
	if _, err := time.Parse("2006-01-02T15:04:05Z", msg.Timestamp); err != nil {
		t.Errorf("Timestamp %q does not match layout: %v", msg.Timestamp, err)
	}
}

func TestPrepare_FreshIDPerCall(t *testing.T) {
	v, _ := newTestValidator()
	input := decode(t, `{"serial":"ABC123"}`)

	first, err := v.Prepare(input)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	second, err := v.Prepare(input)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	if first.ID == second.ID {
		t.Errorf("two calls produced the same ID %q", first.ID)
	}
}

func TestPrepare_SerialNormalization(t *testing.T) {
	v, _ := newTestValidator()

	msg, err := v.Prepare(decode(t, `{"serial":"  ABC  "}`))
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if msg.Serial != "ABC" {
		t.Errorf("Serial = %q, want trimmed %q", msg.Serial, "ABC")
	}

	// Numeric serials are stringified.
	msg, err = v.Prepare(decode(t, `{"serial":123}`))
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if msg.Serial != "123" {
		t.Errorf("Serial = %q, want %q", msg.Serial, "123")
	}
}

func TestPrepare_Rejections(t *testing.T) {
	v, _ := newTestValidator()

	tests := []struct {
		raw     string
		wantErr error
	}{
		{`{}`, ErrMissingSerial},
		{`{"serial":"   "}`, ErrMissingSerial},
		{`"not an object"`, ErrNotAnObject},
		{`[1,2,3]`, ErrNotAnObject},
		{`{"serial":"X","recipients":"nope"}`, ErrInvalidRecipients},
		{`{"serial":"X","recipients":{"a":1}}`, ErrInvalidRecipients},
		{`{"serial":"X","events":"nope"}`, ErrInvalidEvents},
	}

	for _, tt := range tests {
		_, err := v.Prepare(decode(t, tt.raw))
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("Prepare(%s) error = %v, want %v", tt.raw, err, tt.wantErr)
		}
	}
}

func TestPrepare_NonObjectRecipientsDropped(t *testing.T) {
	v, _ := newTestValidator()

	input := decode(t, `{"serial":"X","recipients":[{"name":"Op","email":"op@example.com"},"junk",42,{"number":"555"}]}`)
	msg, err := v.Prepare(input)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	if len(msg.Recipients) != 2 {
		t.Fatalf("Recipients length = %d, want 2 (non-objects dropped)", len(msg.Recipients))
	}
	if msg.Recipients[0].Email != "op@example.com" {
		t.Errorf("Recipients[0].Email = %q", msg.Recipients[0].Email)
	}
	if msg.Recipients[1].Number != "555" {
		t.Errorf("Recipients[1].Number = %q, want %q", msg.Recipients[1].Number, "555")
	}
}

func TestPrepare_EventsPassedThroughVerbatim(t *testing.T) {
	v, _ := newTestValidator()

	input := decode(t, `{"serial":"X","events":[{"x":1},"string-event",17,null]}`)
	msg, err := v.Prepare(input)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	if len(msg.Events) != 4 {
		t.Errorf("Events length = %d, want 4 (no field-level validation)", len(msg.Events))
	}
}

func TestPrepare_AbsentListsDefaultToEmpty(t *testing.T) {
	v, _ := newTestValidator()

	msg, err := v.Prepare(decode(t, `{"serial":"X"}`))
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if msg.Recipients == nil || len(msg.Recipients) != 0 {
		t.Errorf("Recipients = %#v, want empty slice", msg.Recipients)
	}
	if msg.Events == nil || len(msg.Events) != 0 {
		t.Errorf("Events = %#v, want empty slice", msg.Events)
	}

	// Empty lists must marshal as [] rather than null.
	raw, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if _, ok := out["recipients"].([]any); !ok {
		t.Errorf("recipients marshals as %T, want JSON array", out["recipients"])
	}
	if _, ok := out["events"].([]any); !ok {
		t.Errorf("events marshals as %T, want JSON array", out["events"])
	}
}

func TestPrepare_UnknownSerialIsAdvisoryOnly(t *testing.T) {
	v, reg := newTestValidator()
	reg.Upsert("KNOWN", device.Fields{})

	msg, err := v.Prepare(decode(t, `{"serial":"UNKNOWN"}`))
	if err != nil {
		t.Fatalf("Prepare() error = %v, unknown serial must not block", err)
	}
	if msg.Serial != "UNKNOWN" {
		t.Errorf("Serial = %q, want %q", msg.Serial, "UNKNOWN")
	}
}

func TestIsClientError(t *testing.T) {
	for _, err := range []error{ErrNotAnObject, ErrMissingSerial, ErrInvalidRecipients, ErrInvalidEvents} {
		if !IsClientError(err) {
			t.Errorf("IsClientError(%v) = false, want true", err)
		}
	}
	if IsClientError(errors.New("something else")) {
		t.Error("IsClientError(other) = true, want false")
	}
}
