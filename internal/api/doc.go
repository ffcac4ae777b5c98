// Package api provides the HTTP surface of the WATTCHdog gateway.
//
// It exposes the device inventory, accepts alert configuration payloads
// for dispatch to devices, offers a message simulation endpoint for bench
// testing, and streams live device updates to dashboards over WebSocket.
//
// All responses are JSON. Client errors return 400 with an
// {"error": "<message>"} body whose message the dashboard matches on.
package api
