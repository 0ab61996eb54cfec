// audio_backend_portaudio.go - full-duplex device backend: the real
// AudioBackend the octaver drives in normal operation.
//
// Device selection scans by name prefix, falling back to the default
// input device; streaming is a blocking read/process/write loop at
// FramesPerBuffer granularity, with input-overflow/output-underflow
// treated as loggable, not fatal.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gordonklaus/portaudio"
)

// PortAudioBackend drives EngineContext.NextOutputSample from a
// blocking full-duplex PortAudio stream.
type PortAudioBackend struct {
	stream *portaudio.Stream
	engine *EngineContext
	logger *log.Logger

	inBuf  []float32
	outBuf []float32

	cancel context.CancelFunc
}

// selectDevice returns the nth device (0-indexed) whose name starts
// with prefix, or the system default input device if prefix is empty
// or not found. Handy for USB sound cards that enumerate under an
// unstable index but a stable name.
func selectDevice(prefix string, nth int) (*portaudio.DeviceInfo, error) {
	if prefix == "" {
		return portaudio.DefaultInputDevice()
	}

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}

	seen := 0
	for _, d := range devices {
		if strings.HasPrefix(d.Name, prefix) {
			if seen == nth {
				return d, nil
			}
			seen++
		}
	}

	return portaudio.DefaultInputDevice()
}

// NewPortAudioBackend opens a mono input + mono output stream at
// SampleRate with FramesPerBuffer-sized blocking reads/writes.
func NewPortAudioBackend(engine *EngineContext, devicePrefix string, deviceIndex int, logger *log.Logger) (*PortAudioBackend, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, &InitError{Op: "portaudio.Initialize", Err: err}
	}

	dev, err := selectDevice(devicePrefix, deviceIndex)
	if err != nil {
		_ = portaudio.Terminate()
		return nil, &InitError{Op: "selectDevice", Err: err}
	}

	inBuf := make([]float32, FramesPerBuffer)
	outBuf := make([]float32, FramesPerBuffer)

	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   dev,
			Channels: 1,
			Latency:  dev.DefaultLowInputLatency,
		},
		Output: portaudio.StreamDeviceParameters{
			Device:   dev,
			Channels: 1,
			Latency:  dev.DefaultLowOutputLatency,
		},
		SampleRate:      SampleRate,
		FramesPerBuffer: FramesPerBuffer,
	}

	stream, err := portaudio.OpenStream(params, inBuf, outBuf)
	if err != nil {
		_ = portaudio.Terminate()
		return nil, &InitError{Op: "portaudio.OpenStream", Err: err}
	}

	if logger != nil {
		logger.Info("opened audio device", "name", dev.Name,
			"input_latency_ms", dev.DefaultLowInputLatency.Seconds()*1000,
			"output_latency_ms", dev.DefaultLowOutputLatency.Seconds()*1000)
	}

	return &PortAudioBackend{
		stream: stream, engine: engine, logger: logger,
		inBuf: inBuf, outBuf: outBuf,
	}, nil
}

func (pb *PortAudioBackend) Start() error {
	if err := pb.stream.Start(); err != nil {
		return &InitError{Op: "stream.Start", Err: err}
	}

	ctx, cancel := context.WithCancel(context.Background())
	pb.cancel = cancel
	go pb.run(ctx)
	return nil
}

// maxConsecutiveXruns is how many back-to-back failed frames the loop
// tolerates before declaring the stream dead.
const maxConsecutiveXruns = 8

// run is the audio thread: it must not allocate once started, so
// inBuf/outBuf are reused across every iteration. A single overrun or
// underrun is recoverable (the frame is still delivered) and only
// logged; a persistent run of them tears the stream down and exits
// with the stream-error code.
func (pb *PortAudioBackend) run(ctx context.Context) {
	xruns := 0
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		frameOK := true
		if err := pb.stream.Read(); err != nil {
			frameOK = false
			if pb.logger != nil {
				pb.logger.Warn("audio input overrun", "err", err)
			}
		}

		for i, s := range pb.inBuf {
			pb.outBuf[i] = pb.engine.NextOutputSample(s)
		}

		if err := pb.stream.Write(); err != nil {
			frameOK = false
			if pb.logger != nil {
				pb.logger.Warn("audio output underrun", "err", err)
			}
		}

		if frameOK {
			xruns = 0
			continue
		}
		xruns++
		if xruns >= maxConsecutiveXruns {
			if pb.logger != nil {
				pb.logger.Error("persistent audio stream failure, tearing down",
					"consecutive_failed_frames", xruns)
			}
			_ = pb.stream.Stop()
			_ = pb.stream.Close()
			_ = portaudio.Terminate()
			os.Exit(ExitStreamError)
		}
	}
}

func (pb *PortAudioBackend) Stop() error {
	if pb.cancel != nil {
		pb.cancel()
	}
	if err := pb.stream.Stop(); err != nil {
		return &StreamError{Op: "stream.Stop", Err: err}
	}
	return nil
}

func (pb *PortAudioBackend) Close() error {
	_ = pb.Stop()
	if err := pb.stream.Close(); err != nil {
		return &StreamError{Op: "stream.Close", Err: err}
	}
	if err := portaudio.Terminate(); err != nil {
		return fmt.Errorf("portaudio.Terminate: %w", err)
	}
	return nil
}
