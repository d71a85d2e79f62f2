// Package config loads the controller configuration from YAML with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/climate-controller/internal/adc"
	"github.com/sweeney/climate-controller/internal/gpio"
	"github.com/sweeney/climate-controller/internal/logic"
	"github.com/sweeney/climate-controller/internal/sensor"
)

// Backend names.
const (
	BackendGPIOCDev = "gpiocdev"
	BackendPeriph   = "periph"
	BackendSim      = "sim"
)

// Config represents the controller configuration.
type Config struct {
	Backend    string           `yaml:"backend"`
	Chip       string           `yaml:"chip"`
	Pins       PinsConfig       `yaml:"pins"`
	ADC        ADCConfig        `yaml:"adc"`
	Sensor     SensorConfig     `yaml:"sensor"`
	Thresholds ThresholdsConfig `yaml:"thresholds"`
	Timing     TimingConfig     `yaml:"timing"`
	MQTT       MQTTConfig       `yaml:"mqtt"`
	HTTP       HTTPConfig       `yaml:"http"`
	Sim        SimConfig        `yaml:"sim"`
}

// DisplayPins are the three lines of one shift-register display.
type DisplayPins struct {
	Latch int `yaml:"latch"`
	Clock int `yaml:"clock"`
	Data  int `yaml:"data"`
}

// PinsConfig maps every signal to a BCM line number.
type PinsConfig struct {
	Displays   []DisplayPins `yaml:"displays"` // left, middle, right
	Selector   []int         `yaml:"selector"` // most significant first
	Increment  int           `yaml:"increment"`
	Decrement  int           `yaml:"decrement"`
	Function   int           `yaml:"function"`
	Irrigation int           `yaml:"irrigation"`
	Heater     int           `yaml:"heater"`
	Cooler     int           `yaml:"cooler"`
}

// ADCConfig describes the serial link to the analog front end.
type ADCConfig struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`
}

// ScaleConfig mirrors sensor.Scale.
type ScaleConfig struct {
	Offset int     `yaml:"offset"`
	Gain   float64 `yaml:"gain"`
	InMin  int     `yaml:"in_min"`
	InMax  int     `yaml:"in_max"`
	OutMin int     `yaml:"out_min"`
	OutMax int     `yaml:"out_max"`
}

// SensorConfig holds the raw-to-unit conversion for both channels.
type SensorConfig struct {
	Temperature ScaleConfig `yaml:"temperature"`
	Humidity    ScaleConfig `yaml:"humidity"`
}

// ThresholdsConfig holds the start-up thresholds.
type ThresholdsConfig struct {
	TempMin  int `yaml:"temp_min"`
	TempMax  int `yaml:"temp_max"`
	HumidMin int `yaml:"humid_min"`
	HumidMax int `yaml:"humid_max"`
}

// TimingConfig holds the loop timings.
type TimingConfig struct {
	Dwell    time.Duration `yaml:"dwell"`     // each monitor phase
	MenuTick time.Duration `yaml:"menu_tick"` // menu refresh
	Debounce time.Duration `yaml:"debounce"`  // after an inc/dec press
	Settle   time.Duration `yaml:"settle"`    // after decoding the selector
	Hold     time.Duration `yaml:"hold"`      // function button hold to enter the menu; 0 = level sample
	Poll     time.Duration `yaml:"poll"`      // function button poll during dwell
}

// MQTTConfig holds telemetry settings. An empty broker disables MQTT.
type MQTTConfig struct {
	Broker    string        `yaml:"broker"`
	ClientID  string        `yaml:"client_id"`
	Heartbeat time.Duration `yaml:"heartbeat"`
}

// HTTPConfig holds the status page settings. An empty address disables it.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// SimConfig holds the fixed raw analog values used by the sim backend.
type SimConfig struct {
	TemperatureRaw int `yaml:"temperature_raw"`
	HumidityRaw    int `yaml:"humidity_raw"`
}

func scaleConfig(s sensor.Scale) ScaleConfig {
	return ScaleConfig{
		Offset: s.Offset,
		Gain:   s.Gain,
		InMin:  s.InMin,
		InMax:  s.InMax,
		OutMin: s.OutMin,
		OutMax: s.OutMax,
	}
}

// Default returns the stock wiring and settings.
func Default() *Config {
	backend := BackendSim
	if runtime.GOOS == "linux" {
		backend = BackendGPIOCDev
	}

	th := logic.DefaultThresholds()

	return &Config{
		Backend: backend,
		Chip:    "gpiochip0",
		Pins: PinsConfig{
			Displays: []DisplayPins{
				{Latch: gpio.PinLeftLatch, Clock: gpio.PinLeftClock, Data: gpio.PinLeftData},
				{Latch: gpio.PinMiddleLatch, Clock: gpio.PinMiddleClock, Data: gpio.PinMiddleData},
				{Latch: gpio.PinRightLatch, Clock: gpio.PinRightClock, Data: gpio.PinRightData},
			},
			Selector:   []int{gpio.PinSelector2, gpio.PinSelector1, gpio.PinSelector0},
			Increment:  gpio.PinIncrement,
			Decrement:  gpio.PinDecrement,
			Function:   gpio.PinFunction,
			Irrigation: gpio.PinIrrigation,
			Heater:     gpio.PinHeater,
			Cooler:     gpio.PinCooler,
		},
		ADC: ADCConfig{
			Port: "/dev/ttyACM0",
			Baud: adc.DefaultBaudRate,
		},
		Sensor: SensorConfig{
			Temperature: scaleConfig(sensor.TemperatureScale),
			Humidity:    scaleConfig(sensor.HumidityScale),
		},
		Thresholds: ThresholdsConfig{
			TempMin:  th.TempMin,
			TempMax:  th.TempMax,
			HumidMin: th.HumidMin,
			HumidMax: th.HumidMax,
		},
		Timing: TimingConfig{
			Dwell:    2 * time.Second,
			MenuTick: 200 * time.Millisecond,
			Debounce: 50 * time.Millisecond,
			Settle:   200 * time.Millisecond,
			Hold:     4 * time.Second,
			Poll:     100 * time.Millisecond,
		},
		MQTT: MQTTConfig{
			Broker:    "tcp://192.168.1.200:1883",
			ClientID:  "climate-controller",
			Heartbeat: 15 * time.Minute,
		},
		HTTP: HTTPConfig{
			Addr: ":80",
		},
		Sim: SimConfig{
			TemperatureRaw: 157, // 27 C
			HumidityRaw:    438, // 50 %
		},
	}
}

// Load loads configuration from a YAML file over the defaults. A missing
// file yields the defaults.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ensureDefaults()

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ensureDefaults refills fields a file may have emptied. Hold, Settle and
// Debounce may legitimately be zero and are left alone.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Backend == "" {
		c.Backend = def.Backend
	}
	if c.Chip == "" {
		c.Chip = def.Chip
	}
	if len(c.Pins.Displays) == 0 {
		c.Pins.Displays = def.Pins.Displays
	}
	if len(c.Pins.Selector) == 0 {
		c.Pins.Selector = def.Pins.Selector
	}
	if c.ADC.Baud == 0 {
		c.ADC.Baud = def.ADC.Baud
	}
	if c.Sensor.Temperature.Gain == 0 {
		c.Sensor.Temperature.Gain = def.Sensor.Temperature.Gain
	}
	if c.Sensor.Humidity.Gain == 0 {
		c.Sensor.Humidity.Gain = def.Sensor.Humidity.Gain
	}
	if c.Timing.Dwell == 0 {
		c.Timing.Dwell = def.Timing.Dwell
	}
	if c.Timing.MenuTick == 0 {
		c.Timing.MenuTick = def.Timing.MenuTick
	}
	if c.Timing.Poll == 0 {
		c.Timing.Poll = def.Timing.Poll
	}
	if c.MQTT.ClientID == "" {
		c.MQTT.ClientID = def.MQTT.ClientID
	}
}

// ApplyEnv overrides settings from CLIMATE_* environment variables.
func (c *Config) ApplyEnv() {
	c.Backend = getEnv("CLIMATE_BACKEND", c.Backend)
	c.Chip = getEnv("CLIMATE_CHIP", c.Chip)
	c.MQTT.Broker = getEnv("CLIMATE_BROKER", c.MQTT.Broker)
	c.HTTP.Addr = getEnv("CLIMATE_HTTP", c.HTTP.Addr)
	c.ADC.Port = getEnv("CLIMATE_ADC_PORT", c.ADC.Port)
	c.ADC.Baud = getEnvInt("CLIMATE_ADC_BAUD", c.ADC.Baud)
	c.MQTT.Heartbeat = getEnvDuration("CLIMATE_HEARTBEAT", c.MQTT.Heartbeat)
}

// Get a string env variable
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Get an int env variable
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// Get a duration env variable
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// Validate reports every problem that would make the configuration
// unusable.
func (c *Config) Validate() error {
	var errs []error

	switch c.Backend {
	case BackendGPIOCDev, BackendPeriph, BackendSim:
	default:
		errs = append(errs, fmt.Errorf("unknown backend %q", c.Backend))
	}

	if len(c.Pins.Displays) != 3 {
		errs = append(errs, fmt.Errorf("pins.displays: need 3 displays, got %d", len(c.Pins.Displays)))
	}
	if len(c.Pins.Selector) != 3 {
		errs = append(errs, fmt.Errorf("pins.selector: need 3 lines, got %d", len(c.Pins.Selector)))
	}

	seen := make(map[int]string)
	claim := func(pin int, name string) {
		if pin < 0 {
			errs = append(errs, fmt.Errorf("pins.%s: negative pin %d", name, pin))
			return
		}
		if other, ok := seen[pin]; ok {
			errs = append(errs, fmt.Errorf("pins.%s: pin %d already used by %s", name, pin, other))
			return
		}
		seen[pin] = name
	}
	for i, d := range c.Pins.Displays {
		claim(d.Latch, fmt.Sprintf("displays[%d].latch", i))
		claim(d.Clock, fmt.Sprintf("displays[%d].clock", i))
		claim(d.Data, fmt.Sprintf("displays[%d].data", i))
	}
	for i, p := range c.Pins.Selector {
		claim(p, fmt.Sprintf("selector[%d]", i))
	}
	claim(c.Pins.Increment, "increment")
	claim(c.Pins.Decrement, "decrement")
	claim(c.Pins.Function, "function")
	claim(c.Pins.Irrigation, "irrigation")
	claim(c.Pins.Heater, "heater")
	claim(c.Pins.Cooler, "cooler")

	if s := c.Sensor.Temperature; s.InMax == s.InMin {
		errs = append(errs, fmt.Errorf("sensor.temperature: in_min and in_max are both %d", s.InMin))
	}
	if s := c.Sensor.Humidity; s.InMax == s.InMin {
		errs = append(errs, fmt.Errorf("sensor.humidity: in_min and in_max are both %d", s.InMin))
	}

	if c.Thresholds.TempMin > c.Thresholds.TempMax {
		errs = append(errs, fmt.Errorf("thresholds: temp_min %d above temp_max %d", c.Thresholds.TempMin, c.Thresholds.TempMax))
	}
	if c.Thresholds.HumidMin > c.Thresholds.HumidMax {
		errs = append(errs, fmt.Errorf("thresholds: humid_min %d above humid_max %d", c.Thresholds.HumidMin, c.Thresholds.HumidMax))
	}

	if c.Timing.Dwell < 0 || c.Timing.MenuTick < 0 || c.Timing.Debounce < 0 ||
		c.Timing.Settle < 0 || c.Timing.Hold < 0 || c.Timing.Poll < 0 {
		errs = append(errs, errors.New("timing: durations must not be negative"))
	}

	for _, raw := range []int{c.Sim.TemperatureRaw, c.Sim.HumidityRaw} {
		if raw < 0 || raw > adc.Max {
			errs = append(errs, fmt.Errorf("sim: raw value %d outside 0..%d", raw, adc.Max))
		}
	}

	return errors.Join(errs...)
}

// TemperatureScale returns the configured temperature conversion.
func (c *Config) TemperatureScale() sensor.Scale {
	return c.Sensor.Temperature.scale()
}

// HumidityScale returns the configured humidity conversion.
func (c *Config) HumidityScale() sensor.Scale {
	return c.Sensor.Humidity.scale()
}

func (s ScaleConfig) scale() sensor.Scale {
	return sensor.Scale{
		Offset: s.Offset,
		Gain:   s.Gain,
		InMin:  s.InMin,
		InMax:  s.InMax,
		OutMin: s.OutMin,
		OutMax: s.OutMax,
	}
}

// StartThresholds returns the configured thresholds, normalized.
func (c *Config) StartThresholds() logic.Thresholds {
	th := logic.Thresholds{
		TempMin:  c.Thresholds.TempMin,
		TempMax:  c.Thresholds.TempMax,
		HumidMin: c.Thresholds.HumidMin,
		HumidMax: c.Thresholds.HumidMax,
	}
	th.Normalize()
	return th
}
