// control_term.go - an optional raw-terminal control surface, additive
// to the file-based poller in control.go: a second way to drive the
// same ControlInputs from a keyboard instead of three watched files.

package main

import (
	"fmt"
	"os"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/term"
)

// TerminalControl reads raw stdin and adjusts a ControlInputs in place:
// up/down arrows or '+'/'-' step volume, '['/']' step voice, 'g'/'G'
// step the noise gate level. It never blocks the audio thread — all
// state changes land through the same atomic.Int32 fields the file
// poller writes to.
type TerminalControl struct {
	inputs *ControlInputs
	logger *log.Logger

	stopCh  chan struct{}
	done    chan struct{}
	stopped sync.Once

	fd           int
	nonblockSet  bool
	oldTermState *term.State
}

// NewTerminalControl creates a terminal-driven control surface over inputs.
func NewTerminalControl(inputs *ControlInputs, logger *log.Logger) *TerminalControl {
	return &TerminalControl{
		inputs: inputs,
		logger: logger,
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start puts stdin into raw, non-blocking mode and begins reading
// keystrokes in a goroutine. Call Stop to restore the terminal.
func (t *TerminalControl) Start() {
	t.fd = int(os.Stdin.Fd())

	oldState, err := term.MakeRaw(t.fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "control_term: failed to set raw mode: %v\n", err)
		close(t.done)
		return
	}
	t.oldTermState = oldState

	if err := syscall.SetNonblock(t.fd, true); err != nil {
		fmt.Fprintf(os.Stderr, "control_term: failed to set nonblocking stdin: %v\n", err)
		_ = term.Restore(t.fd, t.oldTermState)
		t.oldTermState = nil
		close(t.done)
		return
	}
	t.nonblockSet = true

	go func() {
		defer close(t.done)
		buf := make([]byte, 1)

		for {
			select {
			case <-t.stopCh:
				return
			default:
			}

			n, err := syscall.Read(t.fd, buf)
			if n > 0 {
				t.handleKey(buf[0])
			}
			if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK {
				time.Sleep(5 * time.Millisecond)
				continue
			}
			if err != nil {
				return
			}
			if n == 0 {
				time.Sleep(5 * time.Millisecond)
			}
		}
	}()
}

func (t *TerminalControl) handleKey(b byte) {
	switch b {
	case '+', '=':
		t.stepVolume(1)
	case '-', '_':
		t.stepVolume(-1)
	case ']':
		t.stepVoice(1)
	case '[':
		t.stepVoice(-1)
	case 'g':
		t.stepGate(-1)
	case 'G':
		t.stepGate(1)
	}
}

func (t *TerminalControl) stepVolume(delta int) {
	v := clampStep(t.inputs.Volume()+delta, 0, 9)
	t.inputs.volume.Store(int32(v))
	if t.logger != nil {
		t.logger.Info("control value changed", "input", "volume", "value", v)
	}
}

func (t *TerminalControl) stepGate(delta int) {
	g := clampStep(t.inputs.Gate()+delta, 0, 9)
	t.inputs.gate.Store(int32(g))
	if t.logger != nil {
		t.logger.Info("control value changed", "input", "gate", "value", g)
	}
}

func (t *TerminalControl) stepVoice(delta int) {
	v := int(t.inputs.Voice()) + delta
	if v < 0 {
		v = 0
	}
	t.inputs.voice.Store(int32(v))
	if t.logger != nil {
		t.logger.Info("control value changed", "input", "voice", "value", v)
	}
}

func clampStep(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Stop terminates the stdin reading goroutine and restores the terminal.
func (t *TerminalControl) Stop() {
	t.stopped.Do(func() {
		close(t.stopCh)
	})
	<-t.done
	if t.nonblockSet {
		_ = syscall.SetNonblock(t.fd, false)
		t.nonblockSet = false
	}
	if t.oldTermState != nil {
		_ = term.Restore(t.fd, t.oldTermState)
		t.oldTermState = nil
	}
}
