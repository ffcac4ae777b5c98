// Package netinfo provides small network introspection helpers.
package netinfo

import "net"

// localIPFallback is returned when the LAN address cannot be determined,
// e.g. on a machine with no route to the internet.
const localIPFallback = "unknown"

// LocalIP returns the machine's LAN IP address.
//
// It opens a UDP "connection" towards a public address to let the kernel
// pick the outbound interface; no packet is actually sent.
func LocalIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return localIPFallback
	}
	defer conn.Close()

	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return localIPFallback
	}
	return addr.IP.String()
}
