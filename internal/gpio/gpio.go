// Package gpio provides digital line access with hardware abstraction.
// The real implementations use the Linux GPIO character device or periph.io.
// The fake implementations allow testing without hardware.
package gpio

// Output drives a single digital line.
type Output interface {
	// Set drives the line high (true) or low (false).
	Set(high bool) error
}

// Input samples a single digital line.
type Input interface {
	// Get returns true when the line is high.
	Get() (bool, error)
}

// Pins hands out lines by BCM number and releases them together.
type Pins interface {
	Output(pin int) (Output, error)
	Input(pin int) (Input, error)
	Close() error
}

// Default pin map (BCM numbering).
const (
	PinLeftLatch   = 5
	PinLeftClock   = 6
	PinLeftData    = 13
	PinMiddleLatch = 19
	PinMiddleClock = 26
	PinMiddleData  = 21
	PinRightLatch  = 20
	PinRightClock  = 16
	PinRightData   = 12

	PinIrrigation = 17
	PinHeater     = 27
	PinCooler     = 22

	PinSelector2 = 23 // most significant selector bit
	PinSelector1 = 24
	PinSelector0 = 25

	PinIncrement = 9
	PinDecrement = 10
	PinFunction  = 11
)
