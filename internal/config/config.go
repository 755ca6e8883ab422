package config

import "fmt"

// Service names accepted by the serve command.
const (
	ServiceAdmin     = "admin"
	ServiceCustomers = "customers"
	ServiceInventory = "inventory"
	ServiceReviews   = "reviews"
	ServiceSales     = "sales"
)

// Services lists every deployable service in start-up order.
var Services = []string{ServiceAdmin, ServiceCustomers, ServiceInventory, ServiceReviews, ServiceSales}

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Ports     PortsConfig     `mapstructure:"ports" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth" validate:"required"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Sales     SalesConfig     `mapstructure:"sales" validate:"required"`
	Jobs      JobsConfig      `mapstructure:"jobs" validate:"required"`
}

// ServerConfig contains settings shared by every HTTP service.
type ServerConfig struct {
	LogLevel               string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
}

// PortsConfig holds the listen port of each service so they can share one config file.
type PortsConfig struct {
	Admin     int `mapstructure:"admin" validate:"required,gt=0,lt=65536"`
	Customers int `mapstructure:"customers" validate:"required,gt=0,lt=65536"`
	Inventory int `mapstructure:"inventory" validate:"required,gt=0,lt=65536"`
	Reviews   int `mapstructure:"reviews" validate:"required,gt=0,lt=65536"`
	Sales     int `mapstructure:"sales" validate:"required,gt=0,lt=65536"`
}

// For returns the port configured for the named service.
func (p PortsConfig) For(service string) (int, error) {
	switch service {
	case ServiceAdmin:
		return p.Admin, nil
	case ServiceCustomers:
		return p.Customers, nil
	case ServiceInventory:
		return p.Inventory, nil
	case ServiceReviews:
		return p.Reviews, nil
	case ServiceSales:
		return p.Sales, nil
	default:
		return 0, fmt.Errorf("unknown service %q", service)
	}
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL          string `mapstructure:"url" validate:"required,url"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gt=0"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" validate:"gte=0"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gtfield=TokenLifetimeMinutes"`
	BcryptCost                  int    `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
}

// RedisConfig configures the optional session cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string `mapstructure:"addr" validate:"omitempty,hostname_port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"gte=0"`
}

// Enabled reports whether a Redis address has been configured.
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

// TelemetryConfig configures OTLP trace export. An empty endpoint disables export.
type TelemetryConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	SampleRatio  float64 `mapstructure:"sample_ratio" validate:"gte=0,lte=1"`
}

// SalesConfig holds purchase and reversal settings.
type SalesConfig struct {
	ReversalWindowHours int `mapstructure:"reversal_window_hours" validate:"required,gt=0"`
}

// JobsConfig holds settings for scheduled background jobs.
type JobsConfig struct {
	LowStockThreshold int    `mapstructure:"low_stock_threshold" validate:"gte=0"`
	LowStockSchedule  string `mapstructure:"low_stock_schedule" validate:"required"`
}
