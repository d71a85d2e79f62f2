// Package sensor converts raw analog readings to engineering units.
package sensor

import (
	"fmt"
	"math"

	"github.com/sweeney/climate-controller/internal/adc"
	"github.com/sweeney/climate-controller/internal/logic"
)

// Scale is a linear conversion from a raw reading.
// The raw value is first corrected as round((raw - Offset) * Gain) and then
// mapped from [InMin, InMax] to [OutMin, OutMax]. Values outside the input
// domain extrapolate; nothing is clamped.
type Scale struct {
	Offset int
	Gain   float64
	InMin  int
	InMax  int
	OutMin int
	OutMax int
}

// TemperatureScale is the conversion for the temperature probe (°C).
var TemperatureScale = Scale{Offset: 20, Gain: 3.04, InMin: 0, InMax: adc.Max, OutMin: -40, OutMax: 125}

// HumidityScale is the conversion for the humidity probe (%RH).
var HumidityScale = Scale{Offset: 0, Gain: 1, InMin: 0, InMax: 876, OutMin: 0, OutMax: 100}

// Map linearly rescales x from [inMin, inMax] to [outMin, outMax] using
// integer arithmetic truncated toward zero.
func Map(x, inMin, inMax, outMin, outMax int) int {
	return (x-inMin)*(outMax-outMin)/(inMax-inMin) + outMin
}

// Convert applies the scale to a raw reading.
func (s Scale) Convert(raw int) int {
	x := int(math.Round(float64(raw-s.Offset) * s.Gain))
	return Map(x, s.InMin, s.InMax, s.OutMin, s.OutMax)
}

// Reader reads both probes.
type Reader struct {
	temperature adc.Channel
	humidity    adc.Channel
	tempScale   Scale
	humidScale  Scale
}

// NewReader creates a Reader over the two analog channels.
func NewReader(temperature, humidity adc.Channel, tempScale, humidScale Scale) *Reader {
	return &Reader{
		temperature: temperature,
		humidity:    humidity,
		tempScale:   tempScale,
		humidScale:  humidScale,
	}
}

// ReadTemperature returns the temperature in °C.
func (r *Reader) ReadTemperature() (int, error) {
	raw, err := r.temperature.Read()
	if err != nil {
		return 0, fmt.Errorf("read temperature: %w", err)
	}
	return r.tempScale.Convert(raw), nil
}

// ReadHumidity returns the relative humidity in %.
func (r *Reader) ReadHumidity() (int, error) {
	raw, err := r.humidity.Read()
	if err != nil {
		return 0, fmt.Errorf("read humidity: %w", err)
	}
	return r.humidScale.Convert(raw), nil
}

// Read samples both probes.
func (r *Reader) Read() (logic.Reading, error) {
	t, err := r.ReadTemperature()
	if err != nil {
		return logic.Reading{}, err
	}
	h, err := r.ReadHumidity()
	if err != nil {
		return logic.Reading{}, err
	}
	return logic.Reading{Temperature: t, Humidity: h}, nil
}
