package mqtt

import "fmt"

// Topic prefixes for the WATTCHdog MQTT namespace.
//
// Device-originated traffic lives under devices/<serial>/<action>; the
// gateway's own lifecycle messages live under wattchdog/gateway.
const (
	// TopicPrefixDevices is the base for all device topics.
	TopicPrefixDevices = "devices"

	// TopicPrefixGateway is the base for gateway lifecycle topics.
	TopicPrefixGateway = "wattchdog/gateway"
)

// Topics provides builders for WATTCHdog MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	configTopic := topics.DeviceConfig("ABC123")
//	// Returns: "devices/ABC123/config"
type Topics struct{}

// DeviceHello returns the announcement topic for a device.
//
// Example: devices/ABC123/hello
func (Topics) DeviceHello(serial string) string {
	return fmt.Sprintf("%s/%s/hello", TopicPrefixDevices, serial)
}

// DeviceStatus returns the online-state topic for a device.
//
// Example: devices/ABC123/status
func (Topics) DeviceStatus(serial string) string {
	return fmt.Sprintf("%s/%s/status", TopicPrefixDevices, serial)
}

// DeviceConfig returns the topic configuration messages are delivered on.
//
// Example: devices/ABC123/config
func (Topics) DeviceConfig(serial string) string {
	return fmt.Sprintf("%s/%s/config", TopicPrefixDevices, serial)
}

// GatewayStatus returns the gateway's own status topic (online/offline/LWT).
//
// Example: wattchdog/gateway/status
func (Topics) GatewayStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixGateway)
}

// AllDeviceHellos returns a pattern matching every device announcement.
//
// Pattern: devices/+/hello
func (Topics) AllDeviceHellos() string {
	return fmt.Sprintf("%s/+/hello", TopicPrefixDevices)
}

// AllDeviceStatuses returns a pattern matching every device status update.
//
// Pattern: devices/+/status
func (Topics) AllDeviceStatuses() string {
	return fmt.Sprintf("%s/+/status", TopicPrefixDevices)
}
