package device

import (
	"sync"
	"time"
)

// Logger defines the logging interface used by the Registry.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Registry is the in-memory device directory.
//
// It is the sole owner of the serial → Device mapping; every mutation goes
// through Upsert or SetOnline. A single mutex guards the whole map, so each
// operation (including the last-seen stamp) is atomic with respect to the
// others. Records survive for the lifetime of the process only.
//
// All public methods are thread-safe.
type Registry struct {
	mu      sync.Mutex
	records map[string]*Device
	order   []string // serials in insertion order, for stable List output

	logger   Logger
	onChange func(Device)
}

// NewRegistry creates an empty device registry.
func NewRegistry() *Registry {
	return &Registry{
		records: make(map[string]*Device),
		logger:  noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// SetOnChange registers a callback invoked with a snapshot of the record
// after every mutation. The callback runs outside the registry lock and must
// not call back into the registry's mutating methods from the same goroutine
// expecting ordering guarantees. Used by the API layer for WebSocket pushes.
func (r *Registry) SetOnChange(fn func(Device)) {
	r.onChange = fn
}

// Upsert merges fields into the record for serial, creating the record if it
// does not exist, and stamps the last-seen time. It cannot fail; callers are
// responsible for rejecting empty serials before routing here.
func (r *Registry) Upsert(serial string, fields Fields) {
	r.mu.Lock()
	rec, existed := r.records[serial]
	if !existed {
		rec = &Device{Serial: serial}
		r.records[serial] = rec
		r.order = append(r.order, serial)
	}
	if fields.Name != nil {
		rec.Name = *fields.Name
	}
	if fields.IP != nil {
		rec.IP = *fields.IP
	}
	if fields.Online != nil {
		v := *fields.Online
		rec.Online = &v
	}
	rec.LastSeen = time.Now().UTC()
	snapshot := rec.Copy()
	r.mu.Unlock()

	if existed {
		r.logger.Debug("device updated", "serial", serial)
	} else {
		r.logger.Info("device registered", "serial", serial)
	}
	r.notify(snapshot)
}

// SetOnline sets the online flag for a known serial and stamps the last-seen
// time. Unknown serials are ignored: a status update without a prior hello
// must not create a phantom record.
func (r *Registry) SetOnline(serial string, online bool) {
	r.mu.Lock()
	rec, ok := r.records[serial]
	if !ok {
		r.mu.Unlock()
		r.logger.Debug("status for unknown device ignored", "serial", serial)
		return
	}
	v := online
	rec.Online = &v
	rec.LastSeen = time.Now().UTC()
	snapshot := rec.Copy()
	r.mu.Unlock()

	r.logger.Debug("device online state set", "serial", serial, "online", online)
	r.notify(snapshot)
}

// List returns a point-in-time snapshot of all records in insertion order.
// Mutating the returned slice or its elements does not affect the registry.
func (r *Registry) List() []Device {
	r.mu.Lock()
	defer r.mu.Unlock()

	devices := make([]Device, 0, len(r.order))
	for _, serial := range r.order {
		devices = append(devices, r.records[serial].Copy())
	}
	return devices
}

// Has reports whether a record exists for serial.
func (r *Registry) Has(serial string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.records[serial]
	return ok
}

// Count returns the number of known devices.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

func (r *Registry) notify(d Device) {
	if r.onChange != nil {
		r.onChange(d)
	}
}
