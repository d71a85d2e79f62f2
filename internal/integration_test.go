package internal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/sweeney/climate-controller/internal/adc"
	"github.com/sweeney/climate-controller/internal/clock"
	"github.com/sweeney/climate-controller/internal/controller"
	"github.com/sweeney/climate-controller/internal/display"
	"github.com/sweeney/climate-controller/internal/gpio"
	"github.com/sweeney/climate-controller/internal/logic"
	"github.com/sweeney/climate-controller/internal/mqtt"
	"github.com/sweeney/climate-controller/internal/sensor"
	"github.com/sweeney/climate-controller/internal/shiftreg"
	"github.com/sweeney/climate-controller/internal/status"
	"github.com/sweeney/climate-controller/internal/web"
)

type system struct {
	pins    *gpio.FakePins
	sims    []*shiftreg.Sim
	temp    *adc.FakeChannel
	humid   *adc.FakeChannel
	clk     *clock.Fake
	pub     *mqtt.FakePublisher
	tracker *status.Tracker
	ctrl    *controller.Controller
}

// newSystem wires the controller to fake pins using the default pin map,
// with simulated shift registers on the display lines.
func newSystem(t *testing.T) *system {
	t.Helper()
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := &system{
		pins:  gpio.NewFakePins(),
		temp:  adc.NewFakeChannel(),
		humid: adc.NewFakeChannel(),
		clk:   clock.NewFake(start),
		pub:   mqtt.NewFakePublisher(),
	}
	s.tracker = status.NewTracker(start, status.Config{Backend: "sim"})
	s.tracker.SetClock(s.clk.Now)

	out := func(pin int) gpio.Output {
		o, err := s.pins.Output(pin)
		if err != nil {
			t.Fatalf("output %d: %v", pin, err)
		}
		return o
	}
	in := func(pin int) gpio.Input {
		i, err := s.pins.Input(pin)
		if err != nil {
			t.Fatalf("input %d: %v", pin, err)
		}
		return i
	}
	register := func(latch, clk, data int) *shiftreg.Register {
		r := shiftreg.New(out(clk), out(data), out(latch))
		sim := &shiftreg.Sim{}
		sim.Attach(s.pins.Outputs[clk], s.pins.Outputs[data], s.pins.Outputs[latch])
		s.sims = append(s.sims, sim)
		return r
	}

	hw := controller.Hardware{
		Display: display.NewBank(
			register(gpio.PinLeftLatch, gpio.PinLeftClock, gpio.PinLeftData),
			register(gpio.PinMiddleLatch, gpio.PinMiddleClock, gpio.PinMiddleData),
			register(gpio.PinRightLatch, gpio.PinRightClock, gpio.PinRightData),
		),
		Sensors:    sensor.NewReader(s.temp, s.humid, sensor.TemperatureScale, sensor.HumidityScale),
		Selector:   [3]gpio.Input{in(gpio.PinSelector2), in(gpio.PinSelector1), in(gpio.PinSelector0)},
		Increment:  in(gpio.PinIncrement),
		Decrement:  in(gpio.PinDecrement),
		Function:   in(gpio.PinFunction),
		Irrigation: out(gpio.PinIrrigation),
		Heater:     out(gpio.PinHeater),
		Cooler:     out(gpio.PinCooler),
	}

	s.ctrl = controller.New(hw, logic.NewControllerState(logic.DefaultThresholds()),
		controller.DefaultTiming(), s.clk, controller.Options{Publisher: s.pub, Tracker: s.tracker})
	return s
}

func (s *system) level(pin int) bool {
	return s.pins.Outputs[pin].High
}

// TestIntegrationFullFlow drives three monitor cycles from raw analog
// values through to actuator lines, MQTT payloads and the status page.
func TestIntegrationFullFlow(t *testing.T) {
	s := newSystem(t)
	// 27 C / 50 %, then 20 C / 69 %, then 12 C / 80 %
	s.temp.Samples = []int{157, 143, 127}
	s.humid.Samples = []int{438, 613, 701}

	s.ctrl.Startup()
	for i := 0; i < 3; i++ {
		if _, err := s.ctrl.MonitorCycle(context.Background()); err != nil {
			t.Fatalf("cycle %d: %v", i, err)
		}
	}

	want := []logic.EventType{
		logic.EventIrrigationOn, logic.EventCoolingOn, // 27 C, 50 %
		logic.EventCoolingOff,                          // 20 C, 69 % (irrigation held)
		logic.EventIrrigationOff, logic.EventHeatingOn, // 12 C, 80 %
	}
	var got []logic.EventType
	for _, e := range s.pub.Events {
		got = append(got, e.Type)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("events: got %v, want %v", got, want)
	}

	if s.level(gpio.PinIrrigation) || s.level(gpio.PinCooler) || !s.level(gpio.PinHeater) {
		t.Errorf("lines: irrigation=%v cooler=%v heater=%v",
			s.level(gpio.PinIrrigation), s.level(gpio.PinCooler), s.level(gpio.PinHeater))
	}
	if got := display.Text(s.sims...); got != "u80" {
		t.Errorf("display: got %q, want u80", got)
	}

	// Last MQTT payload
	var p mqtt.Payload
	if err := json.Unmarshal(s.pub.Payloads[len(s.pub.Payloads)-1], &p); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if p.Controller.Event != "HEATING_ON" || p.Controller.Temperature != 12 || p.Controller.Humidity != 80 {
		t.Errorf("payload: %+v", p.Controller)
	}
	if p.Controller.Heating.State != "ON" || p.Controller.Irrigation.State != "OFF" {
		t.Errorf("payload states: %+v", p.Controller)
	}

	// Status page
	ts := httptest.NewServer(web.New(":0", s.tracker).Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/index.json")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	var sj status.StatusJSON
	if err := json.NewDecoder(resp.Body).Decode(&sj); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sj.Status.Temperature != 12 || sj.Status.Heating != "ON" || sj.Status.Cooling != "OFF" {
		t.Errorf("status: %+v", sj.Status)
	}
	if sj.Status.Counts.CoolingOn != 1 || sj.Status.Counts.CoolingOff != 1 || sj.Status.Counts.HeatingOn != 1 {
		t.Errorf("counts: %+v", sj.Status.Counts)
	}
	if sj.Status.UptimeSeconds != 12 {
		t.Errorf("uptime: got %d, want 12", sj.Status.UptimeSeconds)
	}
}

// TestIntegrationMenuEdit enters the menu with a held function button,
// lowers temp_max until the current reading trips the cooler, and
// returns to monitoring.
func TestIntegrationMenuEdit(t *testing.T) {
	s := newSystem(t)
	s.temp.Samples = []int{143} // 20 C
	s.humid.Samples = []int{701}

	fn := s.pins.Inputs[gpio.PinFunction]
	dec := s.pins.Inputs[gpio.PinDecrement]
	sel1 := s.pins.Inputs[gpio.PinSelector1]

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	start := s.clk.Now()
	var phase int
	s.clk.AfterSleep = func(now time.Time) {
		st := s.ctrl.State()
		switch phase {
		case 0: // hold the function button from 1s
			if now.Sub(start) >= time.Second {
				fn.High = true
			}
			if st.Mode == logic.ModeEditing {
				fn.High = false
				sel1.High = true // selector 2: temp_max
				dec.High = true
				phase = 1
			}
		case 1:
			if st.Thresholds.TempMax == 20 {
				sel1.High = false
				dec.High = false
				phase = 2
			}
		case 2:
			if st.Mode == logic.ModeMonitoring {
				phase = 3
			}
		case 3:
			cancel()
		}
	}

	s.ctrl.Startup()
	if err := s.ctrl.Run(ctx); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	st := s.ctrl.State()
	if st.Thresholds.TempMax != 20 {
		t.Errorf("temp_max: got %d, want 20", st.Thresholds.TempMax)
	}
	if !s.level(gpio.PinCooler) {
		t.Error("20 C at temp_max 20 should run the cooler")
	}

	names := s.pub.SystemEventNames()
	if !reflect.DeepEqual(names, []string{"STARTUP", "THRESHOLDS"}) {
		t.Errorf("system events: got %v", names)
	}

	s.ctrl.Shutdown("SIGINT")
	if s.level(gpio.PinCooler) || s.level(gpio.PinHeater) || s.level(gpio.PinIrrigation) {
		t.Error("shutdown should leave every actuator off")
	}
}
