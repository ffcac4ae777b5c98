package device

import "time"

// Device represents a field device known to the gateway.
//
// A record is created the first time a device announces itself and is never
// deleted during normal operation. Name, IP, and Online start absent and are
// filled in by whichever update supplies them.
type Device struct {
	Serial   string    `json:"serial"`
	Name     string    `json:"name,omitempty"`
	IP       string    `json:"ip,omitempty"`
	Online   *bool     `json:"online,omitempty"`
	LastSeen time.Time `json:"last_seen"`
}

// Copy returns an independent copy of the Device.
// The Online pointer is cloned so callers cannot mutate registry state.
func (d *Device) Copy() Device {
	cpy := *d
	if d.Online != nil {
		v := *d.Online
		cpy.Online = &v
	}
	return cpy
}

// Fields is a merge-patch for a device record. Nil fields are left untouched
// by Upsert; non-nil fields overwrite the stored value.
type Fields struct {
	Name   *string
	IP     *string
	Online *bool
}
