package device

import (
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestUpsert_CreatesRecord(t *testing.T) {
	r := NewRegistry()

	r.Upsert("ABC", Fields{Name: strPtr("Node-1"), Online: boolPtr(true)})

	devices := r.List()
	if len(devices) != 1 {
		t.Fatalf("List() returned %d devices, want 1", len(devices))
	}
	d := devices[0]
	if d.Serial != "ABC" {
		t.Errorf("Serial = %q, want %q", d.Serial, "ABC")
	}
	if d.Name != "Node-1" {
		t.Errorf("Name = %q, want %q", d.Name, "Node-1")
	}
	if d.Online == nil || !*d.Online {
		t.Error("Online = nil/false, want true")
	}
	if d.LastSeen.IsZero() {
		t.Error("LastSeen not stamped")
	}
}

func TestUpsert_MergesFields(t *testing.T) {
	r := NewRegistry()

	r.Upsert("ABC", Fields{Name: strPtr("Node-1"), IP: strPtr("10.0.0.5")})
	r.Upsert("ABC", Fields{Online: boolPtr(false)})

	devices := r.List()
	if len(devices) != 1 {
		t.Fatalf("List() returned %d devices, want 1", len(devices))
	}
	d := devices[0]
	if d.Name != "Node-1" {
		t.Errorf("Name = %q, want unchanged %q", d.Name, "Node-1")
	}
	if d.IP != "10.0.0.5" {
		t.Errorf("IP = %q, want unchanged %q", d.IP, "10.0.0.5")
	}
	if d.Online == nil || *d.Online {
		t.Error("Online not overwritten to false")
	}
}

func TestUpsert_FieldsNeverSetStayAbsent(t *testing.T) {
	r := NewRegistry()

	r.Upsert("ABC", Fields{})

	d := r.List()[0]
	if d.Name != "" || d.IP != "" {
		t.Errorf("Name/IP = %q/%q, want empty", d.Name, d.IP)
	}
	if d.Online != nil {
		t.Error("Online should stay absent until first set")
	}
}

func TestUpsert_LastSeenMonotonic(t *testing.T) {
	r := NewRegistry()

	r.Upsert("ABC", Fields{})
	first := r.List()[0].LastSeen
	time.Sleep(2 * time.Millisecond)
	r.Upsert("ABC", Fields{})
	second := r.List()[0].LastSeen

	if second.Before(first) {
		t.Errorf("LastSeen went backwards: %v then %v", first, second)
	}
}

func TestSetOnline_UnknownSerialIsNoOp(t *testing.T) {
	r := NewRegistry()
	r.Upsert("ABC", Fields{})

	r.SetOnline("UNKNOWN", true)

	if got := r.Count(); got != 1 {
		t.Errorf("Count() = %d after SetOnline on unknown serial, want 1", got)
	}
	if r.Has("UNKNOWN") {
		t.Error("SetOnline must not create a record")
	}
}

func TestSetOnline_KnownSerial(t *testing.T) {
	r := NewRegistry()
	r.Upsert("ABC", Fields{Online: boolPtr(true)})
	before := r.List()[0].LastSeen

	time.Sleep(2 * time.Millisecond)
	r.SetOnline("ABC", false)

	d := r.List()[0]
	if d.Online == nil || *d.Online {
		t.Error("Online = true/absent, want false")
	}
	if d.LastSeen.Before(before) {
		t.Error("SetOnline did not stamp LastSeen")
	}
}

func TestList_ReturnsSnapshot(t *testing.T) {
	r := NewRegistry()
	r.Upsert("ABC", Fields{Name: strPtr("Node-1"), Online: boolPtr(true)})

	snapshot := r.List()
	snapshot[0].Name = "tampered"
	*snapshot[0].Online = false

	d := r.List()[0]
	if d.Name != "Node-1" {
		t.Errorf("registry state mutated through snapshot: Name = %q", d.Name)
	}
	if d.Online == nil || !*d.Online {
		t.Error("registry state mutated through snapshot: Online changed")
	}
}

func TestList_InsertionOrder(t *testing.T) {
	r := NewRegistry()
	serials := []string{"C3", "A1", "B2"}
	for _, s := range serials {
		r.Upsert(s, Fields{})
	}
	// Updating an existing record must not change its position.
	r.Upsert("A1", Fields{Online: boolPtr(true)})

	devices := r.List()
	if len(devices) != 3 {
		t.Fatalf("List() returned %d devices, want 3", len(devices))
	}
	for i, want := range serials {
		if devices[i].Serial != want {
			t.Errorf("List()[%d].Serial = %q, want %q", i, devices[i].Serial, want)
		}
	}
}

func TestSetOnChange_FiresOnMutations(t *testing.T) {
	r := NewRegistry()
	var events []Device
	r.SetOnChange(func(d Device) {
		events = append(events, d)
	})

	r.Upsert("ABC", Fields{Online: boolPtr(true)})
	r.SetOnline("ABC", false)
	r.SetOnline("UNKNOWN", true) // no-op, must not fire

	if len(events) != 2 {
		t.Fatalf("onChange fired %d times, want 2", len(events))
	}
	if events[0].Serial != "ABC" || events[0].Online == nil || !*events[0].Online {
		t.Errorf("first event = %+v, want ABC online", events[0])
	}
	if events[1].Online == nil || *events[1].Online {
		t.Errorf("second event = %+v, want ABC offline", events[1])
	}
}
