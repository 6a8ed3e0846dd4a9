package rtcsync

import "errors"

var (
	// ErrPortNotFound means discovery found no device and no valid port was chosen
	ErrPortNotFound = errors.New("device port not found")
	// ErrConnection wraps any failure to open or prepare the serial port
	ErrConnection = errors.New("connection error")
	// ErrMalformedResponse is returned when a device line is not valid UTF-8
	ErrMalformedResponse = errors.New("malformed device response")
	// ErrNoResponse is returned by Query when the device stays silent
	ErrNoResponse = errors.New("no response from device")
	// ErrInvalidConfig is returned by options given out-of-range values
	ErrInvalidConfig = errors.New("invalid configuration")
)
