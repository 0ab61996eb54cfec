package main

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClipLimitsToUnitRange(t *testing.T) {
	assert.Equal(t, float32(1), clip(5))
	assert.Equal(t, float32(-1), clip(-5))
	assert.Equal(t, float32(0.3), clip(0.3))
}

func TestSaturateIdentityWhenDistortionOff(t *testing.T) {
	assert.Equal(t, float32(0.4), saturate(0.4, false))
	assert.Equal(t, float32(1), saturate(5, false))
}

func TestSaturateDistortionStaysBoundedAndFinite(t *testing.T) {
	for _, v := range []float32{-3, -1, -0.1, 0, 0.1, 1, 3} {
		out := saturate(v, true)
		assert.False(t, math.IsNaN(float64(out)))
		assert.LessOrEqual(t, out, float32(1.01))
		assert.GreaterOrEqual(t, out, float32(-1.01))
	}
}

func TestGateMultIsOneWhenGateStepSelectsTheMidVolumeEntry(t *testing.T) {
	// gate_mult = (volumes[9-gate_step] / volumes[5])^2; at gate_step=4,
	// 9-gate_step is 5, so the ratio is 1.
	assert.InDelta(t, 1.0, float64(GateMult(4)), 1e-6)
}

func TestGateZeroesOutputBelowThreshold(t *testing.T) {
	h := NewHistoryBuffer()
	for i := 0; i < HistoryLength; i++ {
		h.Push(0)
	}
	assert.Equal(t, float32(0), Gate(0.5, h, 1))
}

func TestGatePassesLoudSignalThrough(t *testing.T) {
	h := NewHistoryBuffer()
	for i := 0; i < HistoryLength; i++ {
		h.Push(float32(math.Sin(float64(i) * 0.2)))
	}
	assert.Equal(t, float32(0.5), Gate(0.5, h, 1))
}

func TestPostStateSilenceInSilenceOut(t *testing.T) {
	p := NewPostState()
	h := NewHistoryBuffer()
	preset, _ := LookupPreset(nil, VEBass)

	for i := 0; i < 10000; i++ {
		h.Push(0)
		out := p.Process(0, preset, 9, GateMult(5), h)
		assert.Equal(t, float32(0), out)
	}
}

func TestPostStateOutputNeverExceedsUnitMagnitude(t *testing.T) {
	p := NewPostState()
	h := NewHistoryBuffer()
	preset, _ := LookupPreset(nil, VDist)

	for i := 0; i < 5000; i++ {
		s := float32(math.Sin(float64(i) * 0.3))
		h.Push(s)
		out := p.Process(s*10, preset, 9, GateMult(5), h)
		assert.LessOrEqual(t, out, float32(1))
		assert.GreaterOrEqual(t, out, float32(-1))
	}
}

func TestPostStateBypassSkipsGateAndVolumeStaging(t *testing.T) {
	// Bypass presets never feed the history buffer, so its RMS windows
	// read silence; the gate must not mute them, and the raw signal
	// passes at unity rather than through the volume table.
	h := NewHistoryBuffer()
	preset, _ := LookupPreset(nil, VRaw)

	quiet := NewPostState()
	loud := NewPostState()
	var outQuiet, outLoud float32
	for i := 0; i < 2000; i++ {
		s := float32(0.2 * math.Sin(float64(i)*0.15))
		outQuiet = quiet.Process(s, preset, 0, GateMult(5), h)
		outLoud = loud.Process(s, preset, 9, GateMult(5), h)
	}

	assert.Equal(t, outLoud, outQuiet, "bypass output must not depend on the volume step")
	assert.NotEqual(t, float32(0), outLoud, "bypass output must not be gated by the unfed history windows")
}

func TestPostStateDefaultsToAlphaHighWhenPresetAlphaIsZero(t *testing.T) {
	p := NewPostState()
	h := NewHistoryBuffer()
	for i := 0; i < HistoryLength; i++ {
		h.Push(float32(math.Sin(float64(i) * 0.2)))
	}

	preset := VoicePreset{Alpha: 0, Gain: 1, Ungain: 1}
	out := p.Process(0.1, preset, 9, GateMult(5), h)
	assert.False(t, math.IsNaN(float64(out)))
}
