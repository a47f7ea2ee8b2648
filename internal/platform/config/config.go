package config

import (
	"os"
	"strings"
	"time"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName  string
	HTTPPort     string
	PostgresDSN  string
	KafkaBrokers []string
	LedgerID     string

	OutboxPollInterval time.Duration

	EnableTrustOutboxRelay  bool
	EnableBrokerOutboxRelay bool
	EnableLedgerOutboxRelay bool
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "custodia"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	ledgerID := os.Getenv("LEDGER_ID")
	if ledgerID == "" {
		ledgerID = "ledger-main"
	}

	var brokers []string
	for _, value := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			brokers = append(brokers, value)
		}
	}
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}

	poll := 2 * time.Second
	if raw := strings.TrimSpace(os.Getenv("OUTBOX_POLL_INTERVAL")); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
			poll = parsed
		}
	}

	return Config{
		ServiceName:  service,
		HTTPPort:     port,
		PostgresDSN:  os.Getenv("POSTGRES_DSN"),
		KafkaBrokers: brokers,
		LedgerID:     ledgerID,

		OutboxPollInterval: poll,

		EnableTrustOutboxRelay:  envBool("ENABLE_TRUST_OUTBOX_RELAY", true),
		EnableBrokerOutboxRelay: envBool("ENABLE_BROKER_OUTBOX_RELAY", true),
		EnableLedgerOutboxRelay: envBool("ENABLE_LEDGER_OUTBOX_RELAY", true),
	}, nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}
