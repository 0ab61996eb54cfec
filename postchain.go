// postchain.go - single-pole low-pass with makeup gain, waveshaping
// saturation, noise gate, volume scaling, and the final hard clip.
//
// The low-pass intentionally divides its state back out by alpha: the
// filter's DC gain becomes 1/alpha, restoring level lost to smoothing.

package main

// PostState holds the low-pass filter's running state. One instance per
// session; owned by the audio thread like every other piece of DSP state.
type PostState struct {
	output float32
}

// NewPostState returns a PostState with a silent low-pass history.
func NewPostState() *PostState {
	return &PostState{}
}

// GateMult derives the noise gate's threshold multiplier from the
// control-plane gate step (0-9).
func GateMult(gateStep int) float32 {
	ratio := volumeTable[9-gateStep] / volumeTable[5]
	return ratio * ratio
}

// Gate zeros v if both the full-window and recent-window RMS are below
// threshold, scaled by gateMult.
func Gate(v float32, hist *HistoryBuffer, gateMult float32) float32 {
	if hist.RMSFull() < gateSq*float64(gateMult) && hist.RMSRecent() < recentGateSq*float64(gateMult) {
		return 0
	}
	return v
}

// clip hard-limits v to [-1, +1].
func clip(v float32) float32 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

// saturate applies either identity clipping or the distortion
// waveshaper, per preset.
func saturate(v float32, distortion bool) float32 {
	if !distortion {
		return clip(v)
	}

	c := sineDecimal(fastAtanDecimal(v * 4))
	v += c + c*c + c*c*c*c + c*c*c*c*c*c*c*c
	v -= 0.5
	v *= 0.55
	return fastAtanDecimal(v / 4)
}

// Process runs one raw synthesized sample through the full post-chain
// and returns the final output sample, already clipped to [-1, +1].
//
// Bypass presets skip the noise gate (their history windows are never
// fed, so the gate would read permanent silence and mute them) and the
// volume staging (the raw signal passes at unity), but still take the
// low-pass+makeup and the saturator.
func (p *PostState) Process(v float32, preset VoicePreset, volumeStep int, gateMult float32, hist *HistoryBuffer) float32 {
	if !preset.Bypass {
		v = Gate(v, hist, gateMult)
	}

	alpha := preset.Alpha
	if alpha == 0 {
		alpha = AlphaHigh
	}
	gain := preset.Gain
	if gain == 0 {
		gain = 1
	}
	p.output += alpha * (v - p.output)
	sampleOut := p.output * gain / alpha

	sampleOut = saturate(sampleOut, preset.Distortion)

	if !preset.Bypass {
		sampleOut *= Volume * volumeTable[volumeStep] * preset.Ungain
	}

	return clip(sampleOut)
}
