// Package influxdb provides the optional device status history sink.
//
// When enabled, every accepted hello/status message also records an
// online/offline point to InfluxDB so operators can see uptime history.
// The sink is strictly best-effort: the gateway runs identically with it
// disabled, and write failures never propagate into the intake path.
package influxdb
