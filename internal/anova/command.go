package anova

import (
	"fmt"
	"time"
)

// Limits holds the cooker's wire-format and domain constraints. They are
// fixed properties of the device, exposed as a struct so tests can tighten
// the response window.
type Limits struct {
	// MaxFrameBytes is the maximum encoded command length in bytes,
	// terminator included.
	MaxFrameBytes int

	// Temperature bounds in device-native degrees.
	MinTemperature float64
	MaxTemperature float64

	// Timer bounds in minutes.
	MinTimerMinutes int
	MaxTimerMinutes int

	// ResponseTimeout bounds the wait for a complete response frame after a
	// command write. Applied uniformly to every command.
	ResponseTimeout time.Duration

	// ScanTimeout bounds device discovery when no address is configured.
	ScanTimeout time.Duration
}

// DefaultLimits returns the cooker's protocol constraints.
func DefaultLimits() Limits {
	return Limits{
		MaxFrameBytes:   20,
		MinTemperature:  0,
		MaxTemperature:  100,
		MinTimerMinutes: 0,
		MaxTimerMinutes: 6000,
		ResponseTimeout: 5 * time.Second,
		ScanTimeout:     10 * time.Second,
	}
}

// encode appends the frame terminator and enforces the maximum frame
// length. Commands are plain ASCII; no other framing exists.
func (l Limits) encode(command string) ([]byte, error) {
	frame := make([]byte, 0, len(command)+1)
	frame = append(frame, command...)
	frame = append(frame, terminator)
	if len(frame) > l.MaxFrameBytes {
		return nil, fmt.Errorf("anova: command %q is %d bytes encoded, max %d: %w",
			command, len(frame), l.MaxFrameBytes, ErrCommandTooLong)
	}
	return frame, nil
}

// checkTemperature validates a target temperature before it is encoded.
func (l Limits) checkTemperature(temp float64) error {
	if temp < l.MinTemperature || temp > l.MaxTemperature {
		return fmt.Errorf("anova: temperature %.1f outside [%.0f, %.0f]: %w",
			temp, l.MinTemperature, l.MaxTemperature, ErrOutOfRange)
	}
	return nil
}

// checkTimer validates a timer duration in minutes before it is encoded.
func (l Limits) checkTimer(minutes int) error {
	if minutes < l.MinTimerMinutes || minutes > l.MaxTimerMinutes {
		return fmt.Errorf("anova: timer %d outside [%d, %d] minutes: %w",
			minutes, l.MinTimerMinutes, l.MaxTimerMinutes, ErrOutOfRange)
	}
	return nil
}
