package rtcsync

import (
	"fmt"
	"time"

	"github.com/allbin/rtc-sync/serial"
)

// Config holds the tunables of a sync run
type Config struct {
	BaudRate        int
	ReadTimeout     time.Duration // serial read timeout
	SettleDelay     time.Duration // pause after open while the board resets
	ResponseTimeout time.Duration // how long to wait for a confirmation line
	PollInterval    time.Duration // sleep between input queue polls
	VerifyDelay     time.Duration // wait before reading the gettime answer
	Keywords        []string      // port description keywords, in priority order
	SuccessMarkers  []string      // confirmation phrases printed by the firmware
}

// Option is a functional option for configuring a sync run
type Option func(*Config) error

// DefaultKeywords are matched against port descriptions, in order.
// They cover the ESP32 itself and the usual USB-to-UART bridge chips.
var DefaultKeywords = []string{"ESP32", "Silicon Labs", "CH340", "CP210", "USB Serial"}

// DefaultSuccessMarkers are the firmware's phrases for "set" and
// "time synchronized".
var DefaultSuccessMarkers = []string{"встановлено", "час синхронізовано"}

// DefaultConfig returns the configuration the firmware expects
func DefaultConfig() Config {
	return Config{
		BaudRate:        115200,
		ReadTimeout:     2 * time.Second,
		SettleDelay:     2 * time.Second,
		ResponseTimeout: 5 * time.Second,
		PollInterval:    100 * time.Millisecond,
		VerifyDelay:     500 * time.Millisecond,
		Keywords:        append([]string(nil), DefaultKeywords...),
		SuccessMarkers:  append([]string(nil), DefaultSuccessMarkers...),
	}
}

// NewConfig applies opts on top of DefaultConfig
func NewConfig(opts ...Option) (Config, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}

// SerialOptions translates the config into options for serial.Open
func (c Config) SerialOptions() []serial.Option {
	return []serial.Option{
		serial.WithBaudRate(c.BaudRate),
		serial.WithReadTimeout(c.ReadTimeout),
	}
}

// WithBaudRate sets the baud rate
func WithBaudRate(rate int) Option {
	return func(c *Config) error {
		var sc serial.Config
		if err := serial.WithBaudRate(rate)(&sc); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		c.BaudRate = rate
		return nil
	}
}

// WithReadTimeout sets the serial read timeout
func WithReadTimeout(d time.Duration) Option {
	return func(c *Config) error {
		var sc serial.Config
		if err := serial.WithReadTimeout(d)(&sc); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		c.ReadTimeout = d
		return nil
	}
}

// WithSettleDelay sets the pause between opening the port and using it
func WithSettleDelay(d time.Duration) Option {
	return func(c *Config) error {
		if d < 0 {
			return ErrInvalidConfig
		}
		c.SettleDelay = d
		return nil
	}
}

// WithResponseTimeout sets how long to wait for the confirmation line
func WithResponseTimeout(d time.Duration) Option {
	return func(c *Config) error {
		if d <= 0 {
			return ErrInvalidConfig
		}
		c.ResponseTimeout = d
		return nil
	}
}

// WithPollInterval sets the sleep between input polls
func WithPollInterval(d time.Duration) Option {
	return func(c *Config) error {
		if d <= 0 {
			return ErrInvalidConfig
		}
		c.PollInterval = d
		return nil
	}
}

// WithVerifyDelay sets the wait before reading the gettime answer
func WithVerifyDelay(d time.Duration) Option {
	return func(c *Config) error {
		if d < 0 {
			return ErrInvalidConfig
		}
		c.VerifyDelay = d
		return nil
	}
}

// WithKeywords replaces the discovery keyword list
func WithKeywords(keywords ...string) Option {
	return func(c *Config) error {
		if len(keywords) == 0 {
			return ErrInvalidConfig
		}
		c.Keywords = append([]string(nil), keywords...)
		return nil
	}
}

// WithSuccessMarkers replaces the confirmation phrases
func WithSuccessMarkers(markers ...string) Option {
	return func(c *Config) error {
		if len(markers) == 0 {
			return ErrInvalidConfig
		}
		for _, m := range markers {
			if m == "" {
				return ErrInvalidConfig
			}
		}
		c.SuccessMarkers = append([]string(nil), markers...)
		return nil
	}
}
