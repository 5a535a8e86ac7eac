package anova

import "errors"

var (
	// ErrNotConnected indicates that a command was attempted while no
	// session is established. Reconnect before retrying.
	ErrNotConnected = errors.New("not connected to device")

	// ErrDeviceNotFound indicates that discovery finished without seeing a
	// device advertising the expected name.
	ErrDeviceNotFound = errors.New("no cooker found during scan")

	// ErrConnectionFailed indicates that the transport failed while
	// establishing the session.
	ErrConnectionFailed = errors.New("connection failed")
)

var (
	// ErrCommandTooLong indicates that the encoded command frame, including
	// its terminator byte, exceeds the device's maximum frame length.
	ErrCommandTooLong = errors.New("command exceeds maximum frame length")

	// ErrOutOfRange indicates that a temperature or timer value falls
	// outside the device's accepted range.
	ErrOutOfRange = errors.New("value out of range")
)

var (
	// ErrResponseTimeout indicates that no complete response frame arrived
	// within the response wait window. The command may or may not have been
	// acted on; retrying is the caller's decision.
	ErrResponseTimeout = errors.New("timed out waiting for response")

	// ErrWriteFailed indicates a transport-level failure while writing the
	// command. The session should be considered suspect.
	ErrWriteFailed = errors.New("characteristic write failed")
)
