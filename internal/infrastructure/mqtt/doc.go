// Package mqtt provides MQTT client connectivity for the WATTCHdog gateway.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with wildcard support
//   - Last Will and Testament (LWT) for gateway offline detection
//   - Connection health monitoring
//
// MQTT is the transport between the gateway and the embedded energy
// monitors: devices announce themselves on devices/<serial>/hello, report
// state on devices/<serial>/status, and receive configuration on
// devices/<serial>/config. Topic routing semantics live in internal/intake;
// this package only moves bytes.
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	client.Subscribe(mqtt.Topics{}.AllDeviceHellos(), 1, handler)
package mqtt
