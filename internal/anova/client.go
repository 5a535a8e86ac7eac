// Package anova implements the command/response session layer for the Anova
// Precision Cooker's serial-over-BLE protocol. Commands are short ASCII
// frames terminated by a carriage return; responses arrive asynchronously as
// one or more notification chunks on the same characteristic.
//
// The protocol carries no request identifiers, so responses are matched to
// commands purely by temporal adjacency: exactly one command is in flight at
// a time, and the next completed frame is taken as its response. This is an
// inherent weakness of the device protocol, not something this layer can
// repair. To keep a late response from being attributed to the next,
// unrelated command, any frame that completes after its command has already
// timed out or been cancelled is discarded.
package anova

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chaz8081/anovactl/internal/ble"
)

// DeviceName is the name the cooker advertises during discovery.
const DeviceName = "Anova"

// Options configures a session client.
type Options struct {
	// Address is the cooker's BLE address. Empty triggers discovery by
	// advertised name on Connect.
	Address string
	// Name is the advertised name matched during discovery. Defaults to
	// DeviceName.
	Name string
	// Limits overrides the protocol constraints. Zero-valued fields are
	// filled with the device defaults.
	Limits Limits
}

// Client is a session with one Anova Precision Cooker. All methods are safe
// for concurrent use; commands are serialized so at most one request is
// outstanding on the wire.
type Client struct {
	adapter ble.Adapter
	limits  Limits
	name    string

	// address is empty until discovery finds the cooker; immutable once a
	// session is established.
	address string

	state atomic.Uint32

	// sendMu serializes command dispatch end to end, from write through
	// response or timeout. A second Send queues behind it.
	sendMu sync.Mutex

	// connMu guards the connection handle and characteristic.
	connMu sync.Mutex
	conn   ble.Connection
	char   ble.Characteristic

	// notifyMu guards the reassembler and the pending-request slot, which
	// are shared between the transport's notification callback and the
	// goroutine waiting inside send.
	notifyMu sync.Mutex
	frames   reassembler
	pending  chan string
}

// NewClient creates a client for one cooker.
func NewClient(adapter ble.Adapter, opts Options) *Client {
	if opts.Name == "" {
		opts.Name = DeviceName
	}
	limits := opts.Limits
	def := DefaultLimits()
	if limits.MaxFrameBytes <= 0 {
		limits.MaxFrameBytes = def.MaxFrameBytes
	}
	if limits.MaxTemperature <= 0 {
		limits.MinTemperature = def.MinTemperature
		limits.MaxTemperature = def.MaxTemperature
	}
	if limits.MaxTimerMinutes <= 0 {
		limits.MinTimerMinutes = def.MinTimerMinutes
		limits.MaxTimerMinutes = def.MaxTimerMinutes
	}
	if limits.ResponseTimeout <= 0 {
		limits.ResponseTimeout = def.ResponseTimeout
	}
	if limits.ScanTimeout <= 0 {
		limits.ScanTimeout = def.ScanTimeout
	}
	return &Client{
		adapter: adapter,
		address: opts.Address,
		name:    opts.Name,
		limits:  limits,
	}
}

// State returns the current session state.
func (c *Client) State() State {
	return State(c.state.Load())
}

// Address returns the device address, or "" before discovery.
func (c *Client) Address() string {
	c.connMu.Lock()
	defer c.connMu.Unlock()
	return c.address
}

func (c *Client) setState(next State) {
	prev := State(c.state.Swap(uint32(next)))
	if prev != next {
		slog.Debug("[anova] session state", "from", prev.String(), "to", next.String())
	}
}

// Connect establishes the session: discovers the cooker when no address is
// configured, connects, resolves the command characteristic, and subscribes
// to response notifications. On any failure the session returns to
// Disconnected.
func (c *Client) Connect(ctx context.Context) error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.State() == Connected {
		return nil
	}
	c.setState(Connecting)

	if err := c.adapter.Enable(); err != nil {
		c.setState(Disconnected)
		return fmt.Errorf("anova: enable adapter: %w: %v", ErrConnectionFailed, err)
	}

	if c.address == "" {
		addr, err := c.discover(ctx)
		if err != nil {
			c.setState(Disconnected)
			return err
		}
		c.address = addr
	}

	slog.Info("[anova] connecting", "address", c.address)
	conn, err := c.adapter.Connect(ctx, c.address)
	if err != nil {
		c.setState(Disconnected)
		return fmt.Errorf("anova: connect to %s: %w: %v", c.address, ErrConnectionFailed, err)
	}

	char, err := conn.DiscoverCharacteristic(ble.ServiceUUID, ble.CharacteristicUUID)
	if err != nil {
		_ = conn.Disconnect()
		c.setState(Disconnected)
		return fmt.Errorf("anova: discover characteristic: %w: %v", ErrConnectionFailed, err)
	}

	if err := char.Subscribe(c.handleNotification); err != nil {
		_ = conn.Disconnect()
		c.setState(Disconnected)
		return fmt.Errorf("anova: subscribe to notifications: %w: %v", ErrConnectionFailed, err)
	}

	conn.OnDisconnect(c.handleDrop)

	c.conn = conn
	c.char = char
	c.setState(Connected)
	slog.Info("[anova] connected", "address", c.address)
	return nil
}

// discover runs one bounded scan and returns the address of the first
// peripheral advertising the cooker's name.
func (c *Client) discover(ctx context.Context) (string, error) {
	slog.Info("[anova] scanning for cooker", "name", c.name, "timeout", c.limits.ScanTimeout)

	scanCtx, cancel := context.WithTimeout(ctx, c.limits.ScanTimeout)
	defer cancel()

	devices, err := c.adapter.Scan(scanCtx)
	if err != nil {
		return "", fmt.Errorf("anova: scan: %w: %v", ErrConnectionFailed, err)
	}
	for _, dev := range devices {
		if strings.HasPrefix(dev.Name, c.name) {
			slog.Info("[anova] found cooker", "name", dev.Name, "address", dev.Address, "rssi", dev.RSSI)
			return dev.Address, nil
		}
	}
	return "", fmt.Errorf("anova: no device named %q seen: %w", c.name, ErrDeviceNotFound)
}

// Disconnect tears down the session. Idempotent. Any in-flight command is
// released as cancelled so a later Connect starts clean.
func (c *Client) Disconnect() error {
	c.connMu.Lock()
	conn := c.conn
	c.conn = nil
	c.char = nil
	c.setState(Disconnected)
	c.connMu.Unlock()

	c.cancelPending()

	if conn != nil {
		if err := conn.Disconnect(); err != nil {
			return fmt.Errorf("anova: disconnect: %w", err)
		}
		slog.Info("[anova] disconnected")
	}
	return nil
}

// handleDrop runs when the transport reports a connection loss.
func (c *Client) handleDrop() {
	c.connMu.Lock()
	if c.conn == nil {
		c.connMu.Unlock()
		return
	}
	c.conn = nil
	c.char = nil
	c.setState(Disconnected)
	c.connMu.Unlock()

	c.cancelPending()
	slog.Warn("[anova] connection lost", "address", c.address)
}

// handleNotification runs on the transport's event context, concurrently
// with any goroutine blocked in send.
func (c *Client) handleNotification(data []byte) {
	c.notifyMu.Lock()
	frames := c.frames.feed(data)
	if len(frames) == 0 {
		c.notifyMu.Unlock()
		return
	}
	waiter := c.pending
	c.pending = nil
	c.notifyMu.Unlock()

	if waiter == nil {
		// Frame completed with no request outstanding: either the device
		// spoke unsolicited or a response outlived its timeout. Attributing
		// it to the next command would be wrong, so drop it.
		slog.Debug("[anova] discarding unsolicited frame", "frame", frames[0])
		return
	}
	waiter <- frames[0]
	for _, extra := range frames[1:] {
		slog.Debug("[anova] discarding trailing frame", "frame", extra)
	}
}

// cancelPending releases a blocked send, if any, and clears partial input.
func (c *Client) cancelPending() {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	if c.pending != nil {
		close(c.pending)
		c.pending = nil
	}
	c.frames.reset()
}

// send encodes and writes one command, then blocks until the response frame
// arrives, the response window elapses, ctx is cancelled, or the session is
// torn down. Exactly one command is on the wire at a time.
func (c *Client) send(ctx context.Context, command string) (string, error) {
	frame, err := c.limits.encode(command)
	if err != nil {
		return "", err
	}

	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	c.connMu.Lock()
	char := c.char
	c.connMu.Unlock()
	if c.State() != Connected || char == nil {
		return "", fmt.Errorf("anova: send %q: %w", command, ErrNotConnected)
	}

	// Arm the pending-request slot before writing so a fast response can't
	// slip past the waiter. Stale partial input from a previous exchange is
	// discarded at the same time.
	waiter := make(chan string, 1)
	c.notifyMu.Lock()
	c.frames.reset()
	c.pending = waiter
	c.notifyMu.Unlock()

	slog.Debug("[anova] sending command", "command", command)
	if err := char.Write(frame); err != nil {
		c.disarmPending(waiter)
		return "", fmt.Errorf("anova: write %q: %w: %v", command, ErrWriteFailed, err)
	}

	timer := time.NewTimer(c.limits.ResponseTimeout)
	defer timer.Stop()

	select {
	case resp, ok := <-waiter:
		if !ok {
			return "", fmt.Errorf("anova: send %q cancelled: %w", command, ErrNotConnected)
		}
		slog.Debug("[anova] received response", "command", command, "response", resp)
		return resp, nil
	case <-timer.C:
		c.disarmPending(waiter)
		return "", fmt.Errorf("anova: no response to %q within %v: %w",
			command, c.limits.ResponseTimeout, ErrResponseTimeout)
	case <-ctx.Done():
		c.disarmPending(waiter)
		return "", fmt.Errorf("anova: send %q: %w", command, ctx.Err())
	}
}

// disarmPending retires the given waiter so a frame arriving later is
// discarded instead of resolving the next command.
func (c *Client) disarmPending(waiter chan string) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	if c.pending == waiter {
		c.pending = nil
	}
	c.frames.reset()
}
