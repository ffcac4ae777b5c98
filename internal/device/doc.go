// Package device holds the in-memory device directory for the gateway.
//
// Devices announce themselves over MQTT (see internal/intake) and are tracked
// here by serial number: display name, IP address, online flag, and the time
// they were last heard from. The registry is deliberately ephemeral: it is
// rebuilt from device hello messages after a restart, which the devices send
// on reconnect anyway.
//
// The Registry is constructed once at process start and passed explicitly to
// every consumer; there is no package-level instance.
package device
