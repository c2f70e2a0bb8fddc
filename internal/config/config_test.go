package config

import (
	"testing"

	"github.com/spf13/viper"
)

func TestSetDefaultsUnmarshal(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		t.Fatalf("unmarshal defaults failed: %v", err)
	}
	if cfg.Order.DefaultCommissionRate != 15 {
		t.Fatalf("default commission rate want 15 got %d", cfg.Order.DefaultCommissionRate)
	}
	if cfg.Order.OrderNumberAttempts != 5 {
		t.Fatalf("order number attempts want 5 got %d", cfg.Order.OrderNumberAttempts)
	}
	if cfg.Events.Driver != "none" {
		t.Fatalf("events driver want none got %s", cfg.Events.Driver)
	}
	if len(cfg.Events.Kafka.Brokers) != 1 || cfg.Events.Kafka.Topic == "" {
		t.Fatalf("unexpected kafka defaults: %+v", cfg.Events.Kafka)
	}
	if cfg.Queue.Queues["critical"] != 5 {
		t.Fatalf("unexpected queue weights: %+v", cfg.Queue.Queues)
	}
	if cfg.Security.CheckoutRateLimit.MaxRequests != 10 {
		t.Fatalf("unexpected checkout rate limit: %+v", cfg.Security.CheckoutRateLimit)
	}
}

func TestSetDefaultsOverriddenByExplicitValue(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("database.driver", "postgres")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if cfg.Database.Driver != "postgres" {
		t.Fatalf("database driver want postgres got %s", cfg.Database.Driver)
	}
}
