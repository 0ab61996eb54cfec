// errors.go - the engine's error taxonomy. A control file that fails to
// parse is not represented here: it yields value 0, never an error.

package main

import "fmt"

// InitError reports device-not-found, stream-open, or allocation
// failures at session startup. The session never starts when this is
// returned.
type InitError struct {
	Op  string
	Err error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("init error during %s: %v", e.Op, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

// StreamError reports a read/write underrun or overrun on the audio
// device. Persistent StreamErrors tear down the stream; a single-sample
// overrun is logged and treated as recoverable by the caller.
type StreamError struct {
	Op  string
	Err error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("stream error during %s: %v", e.Op, e.Err)
}

func (e *StreamError) Unwrap() error { return e.Err }

// InternalInvariantViolation marks a programmer error: a history age or
// oscillator index outside its valid range. It must never occur in
// normal operation; code paths that could trigger it are bugs, not
// recoverable conditions.
type InternalInvariantViolation struct {
	What string
}

func (e *InternalInvariantViolation) Error() string {
	return fmt.Sprintf("internal invariant violated: %s", e.What)
}

// Exit codes for the octaver's two failure paths. os.Exit only portably
// carries positive byte-sized codes, so init and stream failures map to
// 1 and 2.
const (
	ExitInitError   = 1
	ExitStreamError = 2
)
