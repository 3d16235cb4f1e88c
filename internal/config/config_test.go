package config

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Leganyst/booking-core/internal/model"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg := Load()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}

	p := cfg.Booking.Policy()
	if p.DefaultDuration != 2*time.Hour {
		t.Fatalf("expected 2h default duration, got %v", p.DefaultDuration)
	}
	if p.HorizonDays != 90 {
		t.Fatalf("expected 90 days horizon, got %d", p.HorizonDays)
	}
	if p.CancellationWindow != 24*time.Hour {
		t.Fatalf("expected 24h cancellation window, got %v", p.CancellationWindow)
	}
	if p.InitialStatus != model.ReservationStatusPending {
		t.Fatalf("expected pending initial status, got %q", p.InitialStatus)
	}
	if cfg.DB.Driver != DriverPostgres {
		t.Fatalf("expected postgres driver, got %q", cfg.DB.Driver)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_DSN", "file:booking.db")
	t.Setenv("BOOKING_CANCELLATION_WINDOW", "2h")
	t.Setenv("BOOKING_INITIAL_STATUS", "CONFIRMED")
	t.Setenv("BROKER_KIND", "kafka")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")

	cfg := Load()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Booking.CancellationWindow != 2*time.Hour {
		t.Fatalf("expected 2h window, got %v", cfg.Booking.CancellationWindow)
	}
	if cfg.Booking.Policy().InitialStatus != model.ReservationStatusConfirmed {
		t.Fatalf("expected confirmed initial status, got %q", cfg.Booking.InitialStatus)
	}
	if len(cfg.Broker.KafkaBrokers) != 2 || cfg.Broker.KafkaBrokers[1] != "k2:9092" {
		t.Fatalf("unexpected kafka brokers %v", cfg.Broker.KafkaBrokers)
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := Load()
	cfg.JWTSecret = ""
	cfg.DB.Driver = "oracle"
	cfg.Booking.SlotStep = 0
	cfg.Broker.Kind = "nats"

	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	msg := err.Error()
	for _, want := range []string{"JWT_SECRET", "DB_DRIVER", "BOOKING_SLOT_STEP", "BROKER_KIND"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected %q in %q", want, msg)
		}
	}

	// Повторный вызов на исправленном конфиге не видит хвостов первого.
	cfg.JWTSecret = "secret"
	cfg.DB.Driver = DriverPostgres
	cfg.Booking.SlotStep = 30 * time.Minute
	cfg.Broker.Kind = BrokerNone
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected clean config after fixes, got %v", err)
	}
}

func TestDBConfigValidate(t *testing.T) {
	err := DBConfig{Driver: DriverSQLite}.Validate()
	if err == nil {
		t.Fatalf("expected sqlite without DSN to fail")
	}
	if err := (DBConfig{Driver: DriverSQLite, DSN: ":memory:"}).Validate(); err != nil {
		t.Fatalf("expected sqlite with DSN to pass, got %v", err)
	}

	err = DBConfig{Driver: DriverPostgres, Port: 70000}.Validate()
	var joined interface{ Unwrap() []error }
	if !errors.As(err, &joined) || len(joined.Unwrap()) != 2 {
		t.Fatalf("expected two joined errors, got %v", err)
	}
}
