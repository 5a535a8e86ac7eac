package anova

import (
	"errors"
	"strings"
	"testing"
)

func TestEncodeAppendsTerminator(t *testing.T) {
	limits := DefaultLimits()

	frame, err := limits.encode("read temp")
	if err != nil {
		t.Fatalf("encode() error = %v", err)
	}
	if got := string(frame); got != "read temp\r" {
		t.Errorf("encode(\"read temp\") = %q, want %q", got, "read temp\r")
	}
}

func TestEncodeFrameLength(t *testing.T) {
	limits := DefaultLimits()

	// 19 payload bytes + terminator = exactly 20: allowed.
	if _, err := limits.encode(strings.Repeat("x", 19)); err != nil {
		t.Errorf("encode(19 bytes) error = %v, want nil", err)
	}

	// 20 payload bytes + terminator = 21: rejected.
	_, err := limits.encode(strings.Repeat("x", 20))
	if !errors.Is(err, ErrCommandTooLong) {
		t.Errorf("encode(20 bytes) error = %v, want ErrCommandTooLong", err)
	}
}

func TestCheckTemperature(t *testing.T) {
	limits := DefaultLimits()

	tests := []struct {
		temp    float64
		wantErr bool
	}{
		{0, false},
		{0.1, false},
		{65.5, false},
		{100, false},
		{-0.1, true},
		{100.1, true},
		{150, true},
	}
	for _, tt := range tests {
		err := limits.checkTemperature(tt.temp)
		if tt.wantErr && !errors.Is(err, ErrOutOfRange) {
			t.Errorf("checkTemperature(%v) error = %v, want ErrOutOfRange", tt.temp, err)
		}
		if !tt.wantErr && err != nil {
			t.Errorf("checkTemperature(%v) error = %v, want nil", tt.temp, err)
		}
	}
}

func TestCheckTimer(t *testing.T) {
	limits := DefaultLimits()

	tests := []struct {
		minutes int
		wantErr bool
	}{
		{0, false},
		{1, false},
		{6000, false},
		{-1, true},
		{6001, true},
	}
	for _, tt := range tests {
		err := limits.checkTimer(tt.minutes)
		if tt.wantErr && !errors.Is(err, ErrOutOfRange) {
			t.Errorf("checkTimer(%d) error = %v, want ErrOutOfRange", tt.minutes, err)
		}
		if !tt.wantErr && err != nil {
			t.Errorf("checkTimer(%d) error = %v, want nil", tt.minutes, err)
		}
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{Disconnected, "disconnected"},
		{Connecting, "connecting"},
		{Connected, "connected"},
		{State(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
