package rtcsync

import "time"

// Events receives progress notifications while a sync runs. The terminal
// front end renders them; tests record them.
type Events interface {
	Connecting(port string)
	Connected(port string)
	SystemTime(t time.Time, formatted string)
	AwaitingResponse()
	Response(line string)
	Confirmed()
	Verifying()
	DeviceTime(line string)
	Closed(port string)
}

// NopEvents discards every notification
type NopEvents struct{}

func (NopEvents) Connecting(string)            {}
func (NopEvents) Connected(string)             {}
func (NopEvents) SystemTime(time.Time, string) {}
func (NopEvents) AwaitingResponse()            {}
func (NopEvents) Response(string)              {}
func (NopEvents) Confirmed()                   {}
func (NopEvents) Verifying()                   {}
func (NopEvents) DeviceTime(string)            {}
func (NopEvents) Closed(string)                {}
