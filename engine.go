// engine.go - EngineContext: the single owned per-sample DSP pipeline,
// one struct the audio callback threads through.

package main

// EngineContext owns every piece of per-session DSP state and exposes
// the one per-sample entry point the audio backend drives.
type EngineContext struct {
	history  *HistoryBuffer
	duration *DurationTracker
	pitch    *PitchState
	oscs     *OscBank
	post     *PostState
	delay    *DelayLine
	leslie   *LeslieEffect

	presets *PresetRegistry
	control *ControlInputs

	lastVoice VoiceProgram

	// BPM delay parameters, fixed before Start; the ring itself is
	// only allocated once EnableDelay turns the effect on.
	delayBPM    float32
	delayNRep   int
	delayVolume float32
}

// NewEngineContext allocates every fixed-size DSP structure once at
// session start; nothing on the per-sample path allocates after this.
func NewEngineContext(control *ControlInputs, presets *PresetRegistry) *EngineContext {
	e := &EngineContext{
		history:  NewHistoryBuffer(),
		duration: NewDurationTracker(),
		pitch:    NewPitchState(),
		oscs:     NewOscBank(),
		post:     NewPostState(),
		leslie:   NewLeslieEffect(),
		presets:  presets,
		control:  control,
	}
	e.lastVoice = control.Voice()
	return e
}

// EnableDelay allocates the tempo-synced delay ring and switches the
// effect on. Call before streaming starts; bpm <= 0 or nRep <= 0 leaves
// the effect off.
func (e *EngineContext) EnableDelay(bpm float32, nRep int, delayVolume float32) {
	if bpm <= 0 || nRep <= 0 {
		return
	}
	e.delay = NewDelayLine()
	e.delayBPM = bpm
	e.delayNRep = nRep
	e.delayVolume = delayVolume
}

// resolvePreset returns the active preset, falling back to DefaultVoice
// if the control plane names an unknown one (e.g. a control file
// holding an integer outside the preset table).
func (e *EngineContext) resolvePreset() VoicePreset {
	id := e.control.Voice()
	if p, ok := LookupPreset(e.presets, id); ok {
		return p
	}
	p, _ := LookupPreset(e.presets, DefaultVoice)
	return p
}

// NextOutputSample runs one input sample through the entire pipeline
// and returns the corresponding output sample, already clipped to
// [-1, +1]. It is the only per-sample entry point an AudioBackend calls;
// it must not allocate or block.
func (e *EngineContext) NextOutputSample(s float32) float32 {
	preset := e.resolvePreset()
	if preset.ID != e.lastVoice {
		e.pitch.Reset()
		e.lastVoice = preset.ID
	}

	if preset.Bypass {
		// Passthrough skips history/duration/pitch tracking and the
		// oscillator bank, but the input still rides the post-chain
		// and the Leslie stage like every synthesized sample.
		out := e.post.Process(s, preset, e.control.Volume(), GateMult(e.control.Gate()), e.history)
		if e.leslie != nil {
			out = e.leslie.Process(out)
		}
		return out
	}

	e.history.Push(s)
	e.duration.Update(s)

	completed, ev := e.pitch.Step(s)
	if completed {
		e.oscs.HandleCycle()

		v := validatePeriod(e.history, ev.Period, preset.Band, preset.Validation)
		ok := v.ok
		if ok && preset.RequireAmplitude && v.amplitude < preset.MinAmplitude {
			ok = false
		}

		if ok && preset.Configs != nil {
			configs := preset.Configs(e.pitch.Cycles(), e.duration.Value(), ev.Period)
			e.oscs.SpawnCycle(e.pitch.Cycles(), ev.Adjustment, configs, ev.Period)
		}
	}

	raw := e.oscs.Step(e.history)

	if e.delay != nil {
		e.delay.Push(s)
		raw += e.delay.Process(e.delayBPM, e.delayNRep, e.delayVolume)
	}

	gateMult := GateMult(e.control.Gate())
	out := e.post.Process(raw, preset, e.control.Volume(), gateMult, e.history)

	if e.leslie != nil {
		out = e.leslie.Process(out)
	}

	return out
}
