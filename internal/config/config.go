package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`

	// DebounceWindow is the grace period after a disconnect before the
	// participant is broadcast as having left.
	DebounceWindow time.Duration `mapstructure:"debounce_window" yaml:"debounce_window"`

	// MessageRateLimit caps inbound protocol events per connection per
	// minute. Zero disables the limit.
	MessageRateLimit int `mapstructure:"message_rate_limit" yaml:"message_rate_limit"`

	Metadata MetadataConfig `mapstructure:"metadata" yaml:"metadata"`
}

// MetadataConfig configures the external avatar/game lookup services.
type MetadataConfig struct {
	Enabled           bool          `mapstructure:"enabled" yaml:"enabled"`
	ThumbnailsBaseURL string        `mapstructure:"thumbnails_base_url" yaml:"thumbnails_base_url"`
	UniversesBaseURL  string        `mapstructure:"universes_base_url" yaml:"universes_base_url"`
	GamesBaseURL      string        `mapstructure:"games_base_url" yaml:"games_base_url"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":5158",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		DebounceWindow:    5 * time.Second,
		MessageRateLimit:  0,
		Metadata: MetadataConfig{
			Enabled:        true,
			RequestTimeout: 10 * time.Second,
		},
	}
}
