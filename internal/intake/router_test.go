package intake

import (
	"errors"
	"testing"

	"github.com/wattchdog/gateway-core/internal/device"
)

func TestParseTopic(t *testing.T) {
	tests := []struct {
		topic   string
		serial  string
		action  string
		wantErr bool
	}{
		{"devices/ABC/hello", "ABC", "hello", false},
		{"devices/ABC/status", "ABC", "status", false},
		{"devices/ABC/reboot", "ABC", "reboot", false},
		{"bad/topic", "", "", true},
		{"devices/ABC/hello/extra", "", "", true},
		{"devices//hello", "", "", true},
		{"gadgets/ABC/hello", "", "", true},
		{"", "", "", true},
	}

	for _, tt := range tests {
		serial, action, err := ParseTopic(tt.topic)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidTopic) {
				t.Errorf("ParseTopic(%q) error = %v, want ErrInvalidTopic", tt.topic, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTopic(%q) unexpected error %v", tt.topic, err)
			continue
		}
		if serial != tt.serial || action != tt.action {
			t.Errorf("ParseTopic(%q) = (%q, %q), want (%q, %q)", tt.topic, serial, action, tt.serial, tt.action)
		}
	}
}

func TestHandleMessage_Hello(t *testing.T) {
	reg := device.NewRegistry()
	r := NewRouter(reg)

	desc, err := r.HandleMessage("devices/ABC/hello", []byte(`{"name":"Node-1","ip":"10.0.0.5"}`))
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if desc == "" {
		t.Error("HandleMessage() returned empty description")
	}

	devices := reg.List()
	if len(devices) != 1 {
		t.Fatalf("registry has %d devices, want 1", len(devices))
	}
	d := devices[0]
	if d.Serial != "ABC" || d.Name != "Node-1" || d.IP != "10.0.0.5" {
		t.Errorf("record = %+v, want serial=ABC name=Node-1 ip=10.0.0.5", d)
	}
	if d.Online == nil || !*d.Online {
		t.Error("hello without online field must default to online=true")
	}
}

func TestHandleMessage_HelloShorthandKeys(t *testing.T) {
	reg := device.NewRegistry()
	r := NewRouter(reg)

	if _, err := r.HandleMessage("devices/X1/hello", []byte(`{"n":"Short","on":"no"}`)); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}

	d := reg.List()[0]
	if d.Name != "Short" {
		t.Errorf("Name = %q, want %q (from shorthand 'n')", d.Name, "Short")
	}
	if d.Online == nil || *d.Online {
		t.Error("Online = true, want false (coerced from \"no\")")
	}
}

func TestHandleMessage_HelloMalformedPayload(t *testing.T) {
	reg := device.NewRegistry()
	r := NewRouter(reg)

	// Garbage payload is treated as an empty announcement, not rejected.
	if _, err := r.HandleMessage("devices/ABC/hello", []byte(`not json`)); err != nil {
		t.Fatalf("HandleMessage() error = %v, want nil", err)
	}

	d := reg.List()[0]
	if d.Serial != "ABC" {
		t.Fatalf("record serial = %q, want ABC", d.Serial)
	}
	if d.Name != "" || d.IP != "" {
		t.Errorf("Name/IP = %q/%q, want empty", d.Name, d.IP)
	}
	if d.Online == nil || !*d.Online {
		t.Error("Online should default to true")
	}
}

func TestHandleMessage_StatusUpdatesOnlineOnly(t *testing.T) {
	reg := device.NewRegistry()
	r := NewRouter(reg)

	if _, err := r.HandleMessage("devices/ABC/hello", []byte(`{"name":"Node-1","ip":"10.0.0.5"}`)); err != nil {
		t.Fatalf("hello error = %v", err)
	}
	if _, err := r.HandleMessage("devices/ABC/status", []byte(`{"online":false}`)); err != nil {
		t.Fatalf("status error = %v", err)
	}

	d := reg.List()[0]
	if d.Online == nil || *d.Online {
		t.Error("Online = true, want false")
	}
	if d.Name != "Node-1" || d.IP != "10.0.0.5" {
		t.Errorf("Name/IP changed by status: %q/%q", d.Name, d.IP)
	}
}

func TestHandleMessage_StatusUnknownSerialNoRecord(t *testing.T) {
	reg := device.NewRegistry()
	r := NewRouter(reg)

	if _, err := r.HandleMessage("devices/GHOST/status", []byte(`{"online":true}`)); err != nil {
		t.Fatalf("status error = %v", err)
	}

	if reg.Count() != 0 {
		t.Error("status for unknown serial must not create a record")
	}
}

func TestHandleMessage_StatusCoercion(t *testing.T) {
	tests := []struct {
		payload string
		online  bool
	}{
		{`{"on":1}`, true},
		{`{"online":"no"}`, false},
		{`{"online":"Yes"}`, true},
		{`{"on":0}`, false},
		{`{"online":" true "}`, true},
	}

	for _, tt := range tests {
		reg := device.NewRegistry()
		r := NewRouter(reg)
		if _, err := r.HandleMessage("devices/ABC/hello", nil); err != nil {
			t.Fatalf("hello error = %v", err)
		}
		if _, err := r.HandleMessage("devices/ABC/status", []byte(tt.payload)); err != nil {
			t.Fatalf("status %s error = %v", tt.payload, err)
		}
		d := reg.List()[0]
		if d.Online == nil || *d.Online != tt.online {
			t.Errorf("payload %s: online = %v, want %v", tt.payload, d.Online, tt.online)
		}
	}
}

func TestHandleMessage_Rejections(t *testing.T) {
	reg := device.NewRegistry()
	r := NewRouter(reg)

	tests := []struct {
		topic   string
		payload string
		wantErr error
	}{
		{"bad/topic", `{}`, ErrInvalidTopic},
		{"devices/ABC/reboot", `{}`, ErrUnsupportedAction},
		{"devices/ABC/status", `{}`, ErrMissingField},
		{"devices/ABC/status", `"not an object"`, ErrMissingField},
		{"devices/ABC/status", `null`, ErrMissingField},
	}

	for _, tt := range tests {
		_, err := r.HandleMessage(tt.topic, []byte(tt.payload))
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("HandleMessage(%q, %s) error = %v, want %v", tt.topic, tt.payload, err, tt.wantErr)
		}
	}

	if reg.Count() != 0 {
		t.Error("rejected messages must not create records")
	}
}

type fakeRecorder struct {
	serials []string
	states  []bool
}

func (f *fakeRecorder) RecordDeviceStatus(serial string, online bool) {
	f.serials = append(f.serials, serial)
	f.states = append(f.states, online)
}

func TestHandleMessage_StatusRecorder(t *testing.T) {
	reg := device.NewRegistry()
	r := NewRouter(reg)
	rec := &fakeRecorder{}
	r.SetStatusRecorder(rec)

	if _, err := r.HandleMessage("devices/ABC/hello", nil); err != nil {
		t.Fatalf("hello error = %v", err)
	}
	if _, err := r.HandleMessage("devices/ABC/status", []byte(`{"online":false}`)); err != nil {
		t.Fatalf("status error = %v", err)
	}
	if _, err := r.HandleMessage("bad/topic", nil); !errors.Is(err, ErrInvalidTopic) {
		t.Fatalf("expected ErrInvalidTopic, got %v", err)
	}

	if len(rec.serials) != 2 {
		t.Fatalf("recorder saw %d observations, want 2", len(rec.serials))
	}
	if !rec.states[0] || rec.states[1] {
		t.Errorf("recorded states = %v, want [true false]", rec.states)
	}
}
