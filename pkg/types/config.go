package types

import "time"

// ServerConfig holds the runtime configuration of one game server. Values
// come from SEABATTLE_* environment variables and may be overridden by
// command-line flags.
type ServerConfig struct {
	Addr        string `env:"SEABATTLE_ADDR" envDefault:":1234"`
	TCPAddr     string `env:"SEABATTLE_TCP_ADDR"`
	WSPath      string `env:"SEABATTLE_WS_PATH" envDefault:"/ws"`
	MetricsPath string `env:"SEABATTLE_METRICS_PATH" envDefault:"/metrics"`
	StaticDir   string `env:"SEABATTLE_STATIC_DIR"`

	LogLevel  string `env:"SEABATTLE_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"SEABATTLE_LOG_FORMAT" envDefault:"text"`

	WriteTimeout time.Duration `env:"SEABATTLE_WRITE_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"SEABATTLE_READ_TIMEOUT" envDefault:"60s"`
	OutboxSize   int           `env:"SEABATTLE_OUTBOX_SIZE" envDefault:"256"`

	OTelEndpoint string `env:"SEABATTLE_OTEL_ENDPOINT"`

	// Seed fixes fleet placement; 0 seeds from the clock.
	Seed int64 `env:"SEABATTLE_SEED"`
}
