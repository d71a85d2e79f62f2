package adc

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"sync"

	"go.bug.st/serial"
)

// DefaultBaudRate matches the front-end firmware.
const DefaultBaudRate = 115200

// ErrNoSample is returned before the first line has been received.
var ErrNoSample = errors.New("adc: no sample received yet")

// Bridge reads a microcontroller that streams one line per conversion:
//
//	temperature_raw,humidity_raw
//
// e.g. "200,438". The latest valid line is kept; malformed lines are
// logged and skipped.
type Bridge struct {
	conn io.ReadCloser

	mu     sync.RWMutex
	latest [2]int
	valid  bool
	err    error

	ready     chan struct{}
	readyOnce sync.Once
	done      chan struct{}
}

// OpenBridge opens the serial port and starts reading.
func OpenBridge(port string, baudRate int) (*Bridge, error) {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	conn, err := serial.Open(port, &serial.Mode{BaudRate: baudRate})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", port, err)
	}
	return NewBridge(conn), nil
}

// NewBridge starts reading lines from conn.
func NewBridge(conn io.ReadCloser) *Bridge {
	b := &Bridge{
		conn:  conn,
		ready: make(chan struct{}),
		done:  make(chan struct{}),
	}
	go b.readLines()
	return b
}

// Ready is closed once the first valid sample has arrived.
func (b *Bridge) Ready() <-chan struct{} {
	return b.ready
}

// Temperature returns the channel carrying the temperature sensor.
func (b *Bridge) Temperature() Channel {
	return bridgeChannel{b: b, index: 0}
}

// Humidity returns the channel carrying the humidity sensor.
func (b *Bridge) Humidity() Channel {
	return bridgeChannel{b: b, index: 1}
}

// Close closes the port and waits for the reader to stop.
func (b *Bridge) Close() error {
	err := b.conn.Close()
	<-b.done
	return err
}

func (b *Bridge) readLines() {
	defer close(b.done)

	scanner := bufio.NewScanner(b.conn)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		sample, err := parseLine(line)
		if err != nil {
			log.Printf("adc: failed to parse line %q: %v", line, err)
			continue
		}

		b.mu.Lock()
		b.latest = sample
		b.valid = true
		b.mu.Unlock()
		b.readyOnce.Do(func() { close(b.ready) })
	}

	err := scanner.Err()
	if err == nil {
		err = io.EOF
	}
	b.mu.Lock()
	b.err = fmt.Errorf("adc: link closed: %w", err)
	b.mu.Unlock()
}

func (b *Bridge) read(index int) (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.err != nil {
		return 0, b.err
	}
	if !b.valid {
		return 0, ErrNoSample
	}
	return b.latest[index], nil
}

type bridgeChannel struct {
	b     *Bridge
	index int
}

func (c bridgeChannel) Read() (int, error) {
	return c.b.read(c.index)
}

// parseLine parses "temperature_raw,humidity_raw".
func parseLine(line string) ([2]int, error) {
	var out [2]int

	parts := strings.Split(line, ",")
	if len(parts) != 2 {
		return out, fmt.Errorf("expected 2 comma-separated values, got %d", len(parts))
	}

	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return out, fmt.Errorf("invalid reading %d: %w", i, err)
		}
		if v < 0 || v > Max {
			return out, fmt.Errorf("reading %d out of range: %d (max %d)", i, v, Max)
		}
		out[i] = v
	}
	return out, nil
}
