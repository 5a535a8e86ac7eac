package anova

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/chaz8081/anovactl/internal/ble"
)

// fakeCharacteristic records command writes and lets tests push
// notification chunks back at the client.
type fakeCharacteristic struct {
	mu       sync.Mutex
	writes   [][]byte
	writeErr error
	callback func([]byte)
}

func (c *fakeCharacteristic) Write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeErr != nil {
		return c.writeErr
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	c.writes = append(c.writes, cp)
	return nil
}

func (c *fakeCharacteristic) Subscribe(cb func([]byte)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.callback = cb
	return nil
}

// Notify delivers a notification chunk as the transport would, on the
// caller's goroutine.
func (c *fakeCharacteristic) Notify(data []byte) {
	c.mu.Lock()
	cb := c.callback
	c.mu.Unlock()
	if cb != nil {
		cb(data)
	}
}

// WriteCount returns the number of frames written so far.
func (c *fakeCharacteristic) WriteCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.writes)
}

// LastWrite returns the most recent frame written, or nil.
func (c *fakeCharacteristic) LastWrite() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.writes) == 0 {
		return nil
	}
	return c.writes[len(c.writes)-1]
}

type fakeConnection struct {
	mu           sync.Mutex
	char         *fakeCharacteristic
	disconnectCb func()
	disconnected bool
}

func newFakeConnection() *fakeConnection {
	return &fakeConnection{char: &fakeCharacteristic{}}
}

func (c *fakeConnection) DiscoverCharacteristic(serviceUUID, charUUID string) (ble.Characteristic, error) {
	if charUUID != ble.CharacteristicUUID {
		return nil, fmt.Errorf("fake: unknown characteristic UUID %q", charUUID)
	}
	return c.char, nil
}

func (c *fakeConnection) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disconnected = true
	return nil
}

func (c *fakeConnection) OnDisconnect(cb func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disconnectCb = cb
}

// DropConnection fires the registered disconnect callback, simulating a
// transport-level connection loss.
func (c *fakeConnection) DropConnection() {
	c.mu.Lock()
	cb := c.disconnectCb
	c.mu.Unlock()
	if cb != nil {
		cb()
	}
}

type fakeTransport struct {
	mu         sync.Mutex
	devices    []ble.Device
	connectErr error
	connection *fakeConnection
}

func newFakeTransport(devices ...ble.Device) *fakeTransport {
	return &fakeTransport{
		devices:    devices,
		connection: newFakeConnection(),
	}
}

func (t *fakeTransport) Enable() error { return nil }

func (t *fakeTransport) Scan(_ context.Context) ([]ble.Device, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.devices, nil
}

func (t *fakeTransport) Connect(_ context.Context, _ string) (ble.Connection, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.connectErr != nil {
		return nil, t.connectErr
	}
	return t.connection, nil
}

var _ ble.Adapter = (*fakeTransport)(nil)

var errRadioDown = errors.New("radio down")
