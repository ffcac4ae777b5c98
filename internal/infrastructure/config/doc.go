// Package config handles loading and validating WATTCHdog gateway configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables
//   - Validation of required fields
//   - Default value handling
//
// The defaults match a stock deployment: a Mosquitto broker reachable at
// wattchdog.local:1883 and the HTTP API on port 8000. A gateway with no
// config file at all is a supported setup; see Default().
//
// Security Considerations:
//   - Sensitive values (broker credentials, tokens) should be set via
//     environment variables rather than the config file
//   - The config file should have restricted permissions (0600)
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.MQTT.Broker.Host)
package config
