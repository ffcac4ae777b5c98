// WATTCHdog Gateway - Energy Monitor Fleet Gateway
//
// This is the main entry point for the WATTCHdog gateway. The gateway sits
// between a fleet of mains-powered energy monitors and the operator:
//   - Devices announce themselves and report liveness over MQTT
//   - The registry keeps an in-memory inventory of every device seen
//   - Operators inspect the fleet and push alert configuration over HTTP
//
// The gateway is designed to run unattended on a Raspberry Pi next to the
// broker, surviving broker restarts and running HTTP-only when the broker
// is unreachable at boot.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/wattchdog/gateway-core/internal/api"
	"github.com/wattchdog/gateway-core/internal/configmsg"
	"github.com/wattchdog/gateway-core/internal/device"
	"github.com/wattchdog/gateway-core/internal/dispatch"
	"github.com/wattchdog/gateway-core/internal/infrastructure/config"
	"github.com/wattchdog/gateway-core/internal/infrastructure/influxdb"
	"github.com/wattchdog/gateway-core/internal/infrastructure/logging"
	"github.com/wattchdog/gateway-core/internal/infrastructure/mqtt"
	"github.com/wattchdog/gateway-core/internal/intake"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting WATTCHdog gateway",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration. A missing config file is not an error: the gateway
	// runs on built-in defaults plus environment overrides.
	cfg, err := loadConfig(log)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Initialise device registry
	registry := device.NewRegistry()
	registry.SetLogger(log)

	// Intake router translates broker deliveries into registry mutations
	intakeRouter := intake.NewRouter(registry)
	intakeRouter.SetLogger(log)

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})

		// Record every status report as a time-series point
		intakeRouter.SetStatusRecorder(influxClient)
	} else {
		log.Info("InfluxDB disabled")
	}

	// Connect to MQTT broker. Failure is not fatal: field deployments often
	// boot the gateway before the broker, so fall back to HTTP-only mode and
	// let the operator use /api/simulate until the broker comes up.
	var dispatcher api.Dispatcher
	mqttClient, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		log.Warn("MQTT unavailable, running in HTTP-only mode",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"error", err,
		)
	} else {
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		mqttClient.SetLogger(log)
		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})

		if err := subscribeIntake(mqttClient, intakeRouter, byte(cfg.MQTT.QoS), log); err != nil {
			return fmt.Errorf("subscribing to device topics: %w", err)
		}

		d := dispatch.New(mqttClient, byte(cfg.MQTT.QoS))
		d.SetLogger(log)
		dispatcher = d
	}

	// Validator for operator-submitted alert configuration
	validator := configmsg.NewValidator(registry)
	validator.SetLogger(log)

	// Start the HTTP API
	apiServer, err := api.New(api.Deps{
		Config:     cfg.API,
		WS:         cfg.WebSocket,
		Logger:     log,
		Registry:   registry,
		Intake:     intakeRouter,
		Validator:  validator,
		Dispatcher: dispatcher,
		Version:    version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := apiServer.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := apiServer.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server started", "addr", fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port))

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// 1. API server
	// 2. MQTT (if connected)
	// 3. InfluxDB (if enabled)

	log.Info("WATTCHdog gateway stopped")
	return nil
}

// loadConfig loads the config file, falling back to built-in defaults when
// no file is present. An explicit WATTCHDOG_CONFIG path must exist.
func loadConfig(log *logging.Logger) (*config.Config, error) {
	if path := os.Getenv("WATTCHDOG_CONFIG"); path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		log.Info("configuration loaded", "path", path)
		return cfg, nil
	}

	if _, err := os.Stat(defaultConfigPath); err == nil {
		cfg, err := config.Load(defaultConfigPath)
		if err != nil {
			return nil, err
		}
		log.Info("configuration loaded", "path", defaultConfigPath)
		return cfg, nil
	}

	log.Info("no config file found, using defaults")
	return config.Default(), nil
}

// subscribeIntake wires the broker's device topics into the intake router.
func subscribeIntake(client *mqtt.Client, router *intake.Router, qos byte, log *logging.Logger) error {
	topics := mqtt.Topics{}

	handler := func(topic string, payload []byte) error {
		desc, err := router.HandleMessage(topic, payload)
		if err != nil {
			return err
		}
		log.Debug("device message processed", "topic", topic, "result", desc)
		return nil
	}

	for _, topic := range []string{topics.AllDeviceHellos(), topics.AllDeviceStatuses()} {
		if err := client.Subscribe(topic, qos, handler); err != nil {
			return fmt.Errorf("subscribing to %s: %w", topic, err)
		}
		log.Info("subscribed to device topic", "topic", topic)
	}

	return nil
}
