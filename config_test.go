package rtcsync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allbin/rtc-sync/serial"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 115200, cfg.BaudRate)
	assert.Equal(t, 2*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 2*time.Second, cfg.SettleDelay)
	assert.Equal(t, 5*time.Second, cfg.ResponseTimeout)
	assert.Equal(t, 100*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, 500*time.Millisecond, cfg.VerifyDelay)
	assert.Equal(t, []string{"ESP32", "Silicon Labs", "CH340", "CP210", "USB Serial"}, cfg.Keywords)
	assert.Len(t, cfg.SuccessMarkers, 2)

	// callers may not mutate the package defaults through a config
	cfg.Keywords[0] = "changed"
	assert.Equal(t, "ESP32", DefaultKeywords[0])
}

func TestNewConfigOptions(t *testing.T) {
	cfg, err := NewConfig(
		WithBaudRate(9600),
		WithReadTimeout(time.Second),
		WithSettleDelay(0),
		WithResponseTimeout(10*time.Second),
		WithPollInterval(50*time.Millisecond),
		WithVerifyDelay(time.Second),
		WithKeywords("FTDI"),
		WithSuccessMarkers("ok"),
	)
	require.NoError(t, err)

	assert.Equal(t, 9600, cfg.BaudRate)
	assert.Equal(t, time.Second, cfg.ReadTimeout)
	assert.Zero(t, cfg.SettleDelay)
	assert.Equal(t, 10*time.Second, cfg.ResponseTimeout)
	assert.Equal(t, 50*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, time.Second, cfg.VerifyDelay)
	assert.Equal(t, []string{"FTDI"}, cfg.Keywords)
	assert.Equal(t, []string{"ok"}, cfg.SuccessMarkers)
}

func TestInvalidOptions(t *testing.T) {
	tests := []struct {
		name  string
		opt   Option
		cause error
	}{
		{"baud", WithBaudRate(1234), serial.ErrInvalidBaudRate},
		{"read timeout", WithReadTimeout(150 * time.Millisecond), serial.ErrInvalidConfig},
		{"settle", WithSettleDelay(-time.Second), nil},
		{"response timeout", WithResponseTimeout(0), nil},
		{"poll interval", WithPollInterval(0), nil},
		{"verify delay", WithVerifyDelay(-1), nil},
		{"no keywords", WithKeywords(), nil},
		{"empty marker", WithSuccessMarkers("set", ""), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConfig(tt.opt)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			if tt.cause != nil {
				assert.ErrorIs(t, err, tt.cause)
			}
		})
	}
}

func TestSerialOptions(t *testing.T) {
	cfg, err := NewConfig(WithBaudRate(57600))
	require.NoError(t, err)

	sc := serial.DefaultConfig()
	for _, opt := range cfg.SerialOptions() {
		require.NoError(t, opt(&sc))
	}
	assert.Equal(t, 57600, sc.BaudRate)
	assert.Equal(t, 2*time.Second, sc.ReadTimeout)
}
