// main.go - CLI entry point: opens an audio backend, wires it to an
// EngineContext, and runs the control-plane file poller until the
// process is killed or the stream fails.
//
// Invocation takes four required positional paths (device index file,
// voice file, volume file, gate file), with optional tuning flags
// declared ahead of the positionals. --tonecheck switches to the
// calibration mode in tonecheck.go, which needs no control files.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
)

func main() {
	backendName := pflag.String("backend", "portaudio", "audio backend: portaudio, oto, or headless")
	presetsPath := pflag.String("presets", "", "optional YAML file of additional voice presets")
	logLevel := pflag.String("log-level", "info", "log level: debug, info, warn, error")
	sampleRate := pflag.Int("sample-rate", SampleRate, "audio sample rate (must match the fixed engine rate)")
	devicePrefix := pflag.String("device-prefix", "", "select the Nth device whose name starts with this prefix, default device if empty")
	lesliePeriod := pflag.Int("leslie-period", 0, "rotating-delay sweep period in samples, 0 disables it")
	delayBPM := pflag.Float64("delay-bpm", 0, "BPM for the optional tempo-synced delay line, 0 disables it")
	delayNRep := pflag.Int("delay-nrep", 0, "number of delay taps, 0 disables the delay line")
	delayVolume := pflag.Float64("delay-volume", 0, "delay line output scale")
	terminalControl := pflag.Bool("terminal-control", false, "also accept voice/volume/gate changes from raw keyboard input")

	toneCheck := pflag.Bool("tonecheck", false, "play a calibration tone through a preset instead of streaming from a device")
	toneFreq := pflag.Float64("tone-freq", 220, "calibration tone frequency in Hz")
	toneVoice := pflag.Int("tone-voice", int(DefaultVoice), "voice preset id to audition")
	toneVolume := pflag.Int("tone-volume", 9, "volume step, 0-9")
	toneDuration := pflag.Duration("tone-duration", 5*time.Second, "how long to play the calibration tone")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <device_index_file> <voice_file> <volume_file> <gate_file>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Each file is a small text file containing a decimal integer, polled continuously\n")
		fmt.Fprintf(os.Stderr, "except for device_index_file, which is read once at startup.\n\nOptions:\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	logger := NewLogger(*logLevel)

	if *sampleRate != SampleRate {
		logger.Fatal("unsupported sample rate", "requested", *sampleRate, "fixed", SampleRate)
	}

	if *toneCheck {
		runToneCheck(*toneFreq, VoiceProgram(*toneVoice), *toneVolume, *toneDuration, *presetsPath)
		return
	}

	if pflag.NArg() != 4 {
		pflag.Usage()
		os.Exit(ExitInitError)
	}
	deviceIndexPath := pflag.Arg(0)
	voicePath := pflag.Arg(1)
	volumePath := pflag.Arg(2)
	gatePath := pflag.Arg(3)

	deviceIndex, voice, volume, gate, err := readStartupControls(deviceIndexPath, voicePath, volumePath, gatePath)
	if err != nil {
		logger.Error("fatal startup error", "err", err)
		os.Exit(ExitInitError)
	}

	var presets *PresetRegistry
	if *presetsPath != "" {
		presets, err = LoadPresetRegistry(*presetsPath)
		if err != nil {
			logger.Error("failed to load preset overlay", "path", *presetsPath, "err", err)
			os.Exit(ExitInitError)
		}
	}

	control := NewControlInputs(VoiceProgram(voice), volume, gate)
	engine := NewEngineContext(control, presets)
	engine.EnableDelay(float32(*delayBPM), *delayNRep, float32(*delayVolume))
	if *lesliePeriod > 0 {
		engine.leslie.Period = *lesliePeriod
	}

	backend, err := openBackend(*backendName, engine, *devicePrefix, deviceIndex, logger)
	if err != nil {
		logger.Error("failed to open audio backend", "backend", *backendName, "err", err)
		os.Exit(ExitInitError)
	}

	if err := backend.Start(); err != nil {
		logger.Error("failed to start audio backend", "err", err)
		os.Exit(ExitInitError)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go RunControlPoller(ctx, ControlPaths{Voice: voicePath, Volume: volumePath, Gate: gatePath}, control, logger, nil)

	var termControl *TerminalControl
	if *terminalControl {
		termControl = NewTerminalControl(control, logger)
		termControl.Start()
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	cancel()
	if termControl != nil {
		termControl.Stop()
	}
	if err := backend.Close(); err != nil {
		logger.Warn("error closing audio backend", "err", err)
	}
}

// readStartupControls reads the four control files once at startup. A
// missing file here is a fatal InitError; a present but unparseable
// one yields 0, same as the poller's steady-state behavior.
func readStartupControls(deviceIndexPath, voicePath, volumePath, gatePath string) (deviceIndex, voice, volume, gate int, err error) {
	deviceIndex, err = mustReadControlFile(deviceIndexPath)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	voice, err = mustReadControlFile(voicePath)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	volume, err = mustReadControlFile(volumePath)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	gate, err = mustReadControlFile(gatePath)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	return deviceIndex, voice, volume, gate, nil
}

func mustReadControlFile(path string) (int, error) {
	if _, statErr := os.Stat(path); statErr != nil {
		return 0, &InitError{Op: "open control file " + path, Err: statErr}
	}
	v, _ := readControlFile(path)
	return v, nil
}

func openBackend(name string, engine *EngineContext, devicePrefix string, deviceIndex int, logger *log.Logger) (AudioBackend, error) {
	switch name {
	case "portaudio":
		return NewPortAudioBackend(engine, devicePrefix, deviceIndex, logger)
	case "oto":
		ob, err := NewOtoBackend(SampleRate)
		if err != nil {
			return nil, err
		}
		ob.SetupSource(engine)
		return ob, nil
	case "headless":
		return NewHeadlessBackend(engine), nil
	default:
		return nil, &InitError{Op: "openBackend", Err: fmt.Errorf("unknown backend %q", name)}
	}
}
