// control.go - the control-plane file poller: reads voice/volume/gate
// integers from three filesystem paths at 20 Hz and publishes them for
// the audio thread to pick up.

package main

import (
	"bytes"
	"context"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// pollInterval is the control thread's polling cadence (20 Hz).
const pollInterval = 50 * time.Millisecond

// maxControlFileBytes caps how much of a control file is parsed;
// anything beyond is truncated before the integer parse.
const maxControlFileBytes = 15

// ControlInputs holds the three control-plane values as word-aligned
// atomics, published by the poller goroutine and read by the audio
// thread without locks.
type ControlInputs struct {
	voice  atomic.Int32
	volume atomic.Int32
	gate   atomic.Int32
}

// NewControlInputs returns a ControlInputs seeded with the given
// startup defaults (read once before the poller's first tick).
func NewControlInputs(voice VoiceProgram, volume, gate int) *ControlInputs {
	c := &ControlInputs{}
	c.voice.Store(int32(voice))
	c.volume.Store(int32(volume))
	c.gate.Store(int32(gate))
	return c
}

// Voice, Volume, and Gate are the audio thread's read side: a single
// aligned atomic load each, safe to call once per frame or once per
// sample. Volume and Gate clamp to the ten-step table range so a
// control file holding a wild integer can't index past it.
func (c *ControlInputs) Voice() VoiceProgram { return VoiceProgram(c.voice.Load()) }
func (c *ControlInputs) Volume() int         { return clampStep(int(c.volume.Load()), 0, 9) }
func (c *ControlInputs) Gate() int           { return clampStep(int(c.gate.Load()), 0, 9) }

// readControlFile parses up to maxControlFileBytes of path as a decimal
// integer. An unparseable file yields 0 and a nil error - a bad control
// file is never a panic, just value 0; a missing file returns the read
// error so startup can treat it as fatal.
func readControlFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	if len(data) > maxControlFileBytes {
		data = data[:maxControlFileBytes]
	}
	data = bytes.TrimSpace(data)
	v, err := strconv.Atoi(string(data))
	if err != nil {
		return 0, nil
	}
	return v, nil
}

// ControlPaths names the three files the poller watches.
type ControlPaths struct {
	Voice  string
	Volume string
	Gate   string
}

// RunControlPoller polls the three control files at pollInterval until
// ctx is canceled, publishing changes into inputs and logging each
// detected change. onVoiceChange is invoked synchronously from the
// poller goroutine whenever the voice value changes, so the caller can
// react; a change lands on the audio thread no later than one poll
// interval plus one frame.
func RunControlPoller(ctx context.Context, paths ControlPaths, inputs *ControlInputs, logger *log.Logger, onVoiceChange func(VoiceProgram)) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pollOne(paths.Voice, &inputs.voice, "voice", logger, onVoiceChange)
			pollOne(paths.Volume, &inputs.volume, "volume", logger, nil)
			pollOne(paths.Gate, &inputs.gate, "gate", logger, nil)
		}
	}
}

func pollOne(path string, slot *atomic.Int32, name string, logger *log.Logger, onChange func(VoiceProgram)) {
	v, err := readControlFile(path)
	if err != nil {
		return
	}
	if int32(v) == slot.Load() {
		return
	}
	slot.Store(int32(v))
	if logger != nil {
		logger.Info("control value changed", "input", name, "value", v)
	}
	if onChange != nil {
		onChange(VoiceProgram(v))
	}
}
