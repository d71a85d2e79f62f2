// Command climate-controller reads temperature and humidity, drives the
// irrigation, heating and cooling outputs against editable thresholds and
// shows readings on three shift-register 7-segment displays.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/sweeney/climate-controller/internal/clock"
	"github.com/sweeney/climate-controller/internal/config"
	"github.com/sweeney/climate-controller/internal/controller"
	"github.com/sweeney/climate-controller/internal/logic"
	"github.com/sweeney/climate-controller/internal/mqtt"
	"github.com/sweeney/climate-controller/internal/status"
	"github.com/sweeney/climate-controller/internal/web"
)

// sampleTimeout bounds the wait for the first analog sample.
const sampleTimeout = 5 * time.Second

func main() {
	configPath := flag.String("config", "climate.yaml", "YAML config file (missing file = defaults)")
	backend := flag.String("backend", "", "I/O backend: gpiocdev, periph or sim (overrides config)")
	broker := flag.String("broker", "", `MQTT broker address ("off" disables, overrides config)`)
	httpAddr := flag.String("http", "", `HTTP status address ("off" disables, overrides config)`)
	printState := flag.Bool("print-state", false, "Print one reading and the resulting outputs and exit")
	writeConfig := flag.String("write-config", "", "Write the effective config to this file and exit")

	flag.Parse()

	// .env is optional
	godotenv.Load()

	cfg, err := loadConfig(*configPath, *backend, *broker, *httpAddr)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}

	if *writeConfig != "" {
		if err := cfg.Save(*writeConfig); err != nil {
			log.Fatalf("fatal: %v", err)
		}
		log.Printf("wrote config to %s", *writeConfig)
		return
	}

	if err := run(cfg, *printState); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// loadConfig reads the config file, applies CLIMATE_* variables and then
// any non-empty flag overrides, and validates the result.
func loadConfig(path, backend, broker, httpAddr string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.ApplyEnv()

	if backend != "" {
		cfg.Backend = backend
	}
	if broker != "" {
		cfg.MQTT.Broker = disableIfOff(broker)
	}
	if httpAddr != "" {
		cfg.HTTP.Addr = disableIfOff(httpAddr)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func disableIfOff(v string) string {
	if v == "off" {
		return ""
	}
	return v
}

func run(cfg *config.Config, printState bool) error {
	b, err := openBoard(cfg)
	if err != nil {
		return fmt.Errorf("init hardware: %w", err)
	}
	defer b.Close()

	if err := b.waitForSample(sampleTimeout); err != nil {
		if printState {
			return err
		}
		log.Printf("%v, continuing", err)
	}

	// Print state mode
	if printState {
		return printReading(os.Stdout, b, cfg.StartThresholds())
	}

	var publisher mqtt.Publisher
	if cfg.MQTT.Broker != "" {
		p, err := mqtt.NewRealPublisher(cfg.MQTT.Broker, cfg.MQTT.ClientID)
		if err != nil {
			return fmt.Errorf("init mqtt: %w", err)
		}
		defer p.Close()
		publisher = p
	}

	tracker := status.NewTracker(time.Now(), status.Config{
		Backend:     cfg.Backend,
		DwellMs:     cfg.Timing.Dwell.Milliseconds(),
		HoldMs:      cfg.Timing.Hold.Milliseconds(),
		PollMs:      cfg.Timing.Poll.Milliseconds(),
		HeartbeatMs: cfg.MQTT.Heartbeat.Milliseconds(),
		Broker:      cfg.MQTT.Broker,
		HTTPAddr:    cfg.HTTP.Addr,
	})

	// Start HTTP status server
	if cfg.HTTP.Addr != "" {
		srv := web.New(cfg.HTTP.Addr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTP.Addr)
	}

	var clk clock.Clock = clock.Real{}
	if len(b.sims) > 0 {
		clk = &displayLogger{Clock: clk, sims: b.sims}
	}

	ctrl := controller.New(b.hw, logic.NewControllerState(cfg.StartThresholds()), timing(cfg), clk, controller.Options{
		Publisher: publisher,
		Tracker:   tracker,
		Heartbeat: cfg.MQTT.Heartbeat,
	})

	log.Printf("started: backend=%s dwell=%v hold=%v broker=%s heartbeat=%v",
		cfg.Backend, cfg.Timing.Dwell, cfg.Timing.Hold, cfg.MQTT.Broker, cfg.MQTT.Heartbeat)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(ctrl, sigCh)
}

func timing(cfg *config.Config) controller.Timing {
	return controller.Timing{
		Dwell:    cfg.Timing.Dwell,
		MenuTick: cfg.Timing.MenuTick,
		Debounce: cfg.Timing.Debounce,
		Settle:   cfg.Timing.Settle,
		Hold:     cfg.Timing.Hold,
		Poll:     cfg.Timing.Poll,
	}
}

// runLoop runs the controller until a signal arrives, then shuts it down
// with the signal name as the reason.
func runLoop(ctrl *controller.Controller, sig <-chan os.Signal) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reason := make(chan string, 1)
	go func() {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			reason <- signalName(s)
			cancel()
		case <-ctx.Done():
		}
	}()

	ctrl.Startup()
	err := ctrl.Run(ctx)

	r := "UNKNOWN"
	select {
	case r = <-reason:
	default:
	}
	ctrl.Shutdown(r)

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return "UNKNOWN"
}
