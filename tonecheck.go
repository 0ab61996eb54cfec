// tonecheck.go - calibration and auditioning mode: generates a steady
// sine tone, drives it through an EngineContext exactly as a captured
// microphone signal would be, and plays the result via OtoBackend. It
// needs no capture-capable device, making it the quick "does this
// preset sound right" check.

package main

import (
	"fmt"
	"math"
	"os"
	"time"
)

// toneSource generates a fixed-frequency sine wave and feeds each
// sample through an EngineContext, so the octaver's pitch detector and
// voice program see a realistic periodic input.
type toneSource struct {
	engine *EngineContext
	phase  float64
	step   float64
}

func newToneSource(engine *EngineContext, freqHz float64) *toneSource {
	return &toneSource{engine: engine, step: freqHz / SampleRate}
}

// NextOutputSample ignores s (OtoBackend only ever offers silence) and
// instead synthesizes the next calibration-tone input sample itself.
func (t *toneSource) NextOutputSample(_ float32) float32 {
	in := float32(math.Sin(2 * math.Pi * t.phase))
	t.phase += t.step
	if t.phase >= 1 {
		t.phase -= 1
	}
	return t.engine.NextOutputSample(in)
}

func runToneCheck(freq float64, voice VoiceProgram, volume int, duration time.Duration, presetsPath string) {
	var presets *PresetRegistry
	if presetsPath != "" {
		var err error
		presets, err = LoadPresetRegistry(presetsPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load preset overlay: %v\n", err)
			os.Exit(ExitInitError)
		}
	}

	control := NewControlInputs(voice, volume, 9)
	engine := NewEngineContext(control, presets)

	backend, err := NewOtoBackend(SampleRate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open audio output: %v\n", err)
		os.Exit(ExitInitError)
	}
	backend.SetupSource(newToneSource(engine, freq))

	if err := backend.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start playback: %v\n", err)
		os.Exit(ExitInitError)
	}

	fmt.Printf("playing %.1f Hz tone through voice %d for %s\n", freq, voice, duration)
	time.Sleep(duration)

	if err := backend.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "error closing audio output: %v\n", err)
	}
}
