package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Поддерживаемые драйверы БД.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

type DBConfig struct {
	Driver          string
	DSN             string // если задан, остальные параметры подключения игнорируются
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifeTime int // минут
}

func setDBDefaults(v *viper.Viper) {
	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DB_DSN", "")
	v.SetDefault("DB_HOST", "postgres")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "booking")
	v.SetDefault("DB_PASSWORD", "booking")
	v.SetDefault("DB_NAME", "booking_db")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME_MIN", 30)
}

func loadDBConfig(v *viper.Viper) DBConfig {
	return DBConfig{
		Driver:          v.GetString("DB_DRIVER"),
		DSN:             v.GetString("DB_DSN"),
		Host:            v.GetString("DB_HOST"),
		Port:            v.GetInt("DB_PORT"),
		User:            v.GetString("DB_USER"),
		Password:        v.GetString("DB_PASSWORD"),
		Name:            v.GetString("DB_NAME"),
		SSLMode:         v.GetString("DB_SSLMODE"),
		TimeZone:        v.GetString("DB_TIMEZONE"),
		MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
		ConnMaxLifeTime: v.GetInt("DB_CONN_MAX_LIFETIME_MIN"),
	}
}

// Validate возвращает все найденные проблемы сразу.
func (c DBConfig) Validate() error {
	var errs []error
	switch c.Driver {
	case DriverPostgres, DriverMySQL:
		if c.DSN == "" && (c.Host == "" || c.User == "" || c.Name == "") {
			errs = append(errs, errors.New("DB_HOST, DB_USER and DB_NAME must not be empty"))
		}
		if c.DSN == "" && (c.Port <= 0 || c.Port > 65535) {
			errs = append(errs, fmt.Errorf("DB_PORT %d is out of range", c.Port))
		}
	case DriverSQLite:
		if c.DSN == "" {
			errs = append(errs, errors.New("DB_DSN is required for sqlite"))
		}
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER %q is not supported", c.Driver))
	}
	if c.MaxOpenConns < 0 || c.MaxIdleConns < 0 {
		errs = append(errs, errors.New("DB pool sizes must not be negative"))
	}
	return errors.Join(errs...)
}
