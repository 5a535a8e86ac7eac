package anova

import (
	"context"
	"fmt"
)

// Command operations. Each sends one ASCII frame and returns the cooker's
// raw textual response; parsing response bodies is left to the caller.

// Status reads the cooker's run state.
func (c *Client) Status(ctx context.Context) (string, error) {
	return c.send(ctx, "status")
}

// StartCooking starts the circulator.
func (c *Client) StartCooking(ctx context.Context) (string, error) {
	return c.send(ctx, "start")
}

// StopCooking stops the circulator.
func (c *Client) StopCooking(ctx context.Context) (string, error) {
	return c.send(ctx, "stop")
}

// CurrentTemperature reads the water temperature.
func (c *Client) CurrentTemperature(ctx context.Context) (string, error) {
	return c.send(ctx, "read temp")
}

// TargetTemperature reads the configured target temperature.
func (c *Client) TargetTemperature(ctx context.Context) (string, error) {
	return c.send(ctx, "read set temp")
}

// SetTemperature sets the target temperature in device-native degrees.
// Values outside the device's range are rejected before any write.
func (c *Client) SetTemperature(ctx context.Context, temp float64) (string, error) {
	if err := c.limits.checkTemperature(temp); err != nil {
		return "", err
	}
	return c.send(ctx, fmt.Sprintf("set temp %.1f", temp))
}

// Timer reads the timer state.
func (c *Client) Timer(ctx context.Context) (string, error) {
	return c.send(ctx, "read timer")
}

// SetTimer sets the cook timer in minutes. Values outside the device's
// range are rejected before any write.
func (c *Client) SetTimer(ctx context.Context, minutes int) (string, error) {
	if err := c.limits.checkTimer(minutes); err != nil {
		return "", err
	}
	return c.send(ctx, fmt.Sprintf("set timer %d", minutes))
}

// StartTimer starts the cook timer.
func (c *Client) StartTimer(ctx context.Context) (string, error) {
	return c.send(ctx, "start time")
}

// StopTimer stops the cook timer.
func (c *Client) StopTimer(ctx context.Context) (string, error) {
	return c.send(ctx, "stop time")
}

// Unit reads the display temperature unit.
func (c *Client) Unit(ctx context.Context) (string, error) {
	return c.send(ctx, "read unit")
}

// SetUnitCelsius sets the display unit to Celsius.
func (c *Client) SetUnitCelsius(ctx context.Context) (string, error) {
	return c.send(ctx, "set unit c")
}

// SetUnitFahrenheit sets the display unit to Fahrenheit.
func (c *Client) SetUnitFahrenheit(ctx context.Context) (string, error) {
	return c.send(ctx, "set unit f")
}
