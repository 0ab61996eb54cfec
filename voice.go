// voice.go - the voice program model: named presets mapping cycle-boundary
// state to oscillator configurations plus post-chain parameters.

package main

// VoiceProgram identifies a built-in preset by its control-file value.
type VoiceProgram int

const (
	VRawDist          VoiceProgram = 0
	VSopranoRecorder  VoiceProgram = 1
	VSqr              VoiceProgram = 2
	VDist             VoiceProgram = 3
	VLowDist          VoiceProgram = 4
	VLowLowDist       VoiceProgram = 5
	VEBass            VoiceProgram = 6
	VVocal2           VoiceProgram = 7
	VVocal1           VoiceProgram = 8
	VRaw              VoiceProgram = 9
	// VBassClarinet and VSinStack sit outside the control-file table;
	// they are reachable through the YAML overlay (voice_config.go) or
	// direct API use, never through a control-file integer collision.
	VBassClarinet VoiceProgram = 100
	VSinStack     VoiceProgram = 101
)

// OscConfig is the per-layer configuration a preset hands to OscInit.
type OscConfig struct {
	Vol         float32
	Mode        OscMode
	Speed       float32
	LFORate     float32
	LFOAmp      float32
	LFOIsVolume bool
	Cycle       float64
	Mod         int
}

// VoicePreset is a pure value describing one named voice: which
// oscillators it spawns per cycle and how the post-chain should treat
// its output.
type VoicePreset struct {
	ID   VoiceProgram
	Name string

	Band PitchBand

	// Alpha is the post-chain low-pass coefficient.
	Alpha float32
	// Distortion selects the waveshaping saturator instead of identity clip.
	Distortion bool
	Gain       float32
	Ungain     float32

	// Validation picks one of the two cycle-validation formulas; the
	// zero value is ValidateRMS, which every built-in preset uses.
	Validation ValidationStrategy

	RequireAmplitude bool
	MinAmplitude     float32

	// Bypass marks a true passthrough preset (V_RAW): the input sample
	// is emitted unprocessed, skipping the history buffer, pitch
	// tracking, and the oscillator bank entirely.
	Bypass bool

	// Configs returns up to NumLayers oscillator configurations for a
	// newly-accepted cycle. nil/empty means the preset spawns nothing
	// new (e.g. a pure-distortion passthrough).
	Configs func(cycles uint64, durationVal float32, roughInputPeriod float32) []OscConfig
}

// builtinPresets maps every control-file voice value to its preset,
// plus the overlay-only extras above.
var builtinPresets = map[VoiceProgram]VoicePreset{
	VRawDist: {
		ID: VRawDist, Name: "V_RAWDIST",
		Band: BandWhistle, Alpha: AlphaHigh, Distortion: true,
		Gain: 1, Ungain: 1, Bypass: true,
	},
	VSopranoRecorder: {
		ID: VSopranoRecorder, Name: "V_SOPRANO_RECORDER",
		Band: BandWhistle, Alpha: AlphaHigh,
		Gain: 1, Ungain: 1,
		RequireAmplitude: true, MinAmplitude: minAmplitudeAbs,
		Configs: func(cycles uint64, durationVal, roughPeriod float32) []OscConfig {
			return []OscConfig{
				{Vol: 0.5, Mode: OscNatural, LFOIsVolume: true, Speed: 0.5, Cycle: 1, Mod: 2},
			}
		},
	},
	VSqr: {
		ID: VSqr, Name: "V_SQR",
		Band: BandWhistle, Alpha: AlphaHigh,
		Gain: 1, Ungain: 1,
		Configs: func(cycles uint64, durationVal, roughPeriod float32) []OscConfig {
			return []OscConfig{
				{Vol: 0.5, Mode: OscSquare, LFOIsVolume: true, Speed: 0.5, Cycle: 1, Mod: 2},
			}
		},
	},
	VDist: {
		ID: VDist, Name: "V_DIST",
		Band: BandWhistle, Alpha: AlphaHigh, Distortion: true,
		Gain: 1, Ungain: 1,
		Configs: func(cycles uint64, durationVal, roughPeriod float32) []OscConfig {
			return []OscConfig{
				{Vol: 0.5, Mode: OscSquare, LFOIsVolume: true, Speed: 0.5, Cycle: 1, Mod: 2},
			}
		},
	},
	VLowDist: {
		ID: VLowDist, Name: "V_LOW_DIST",
		Band: BandWhistle, Alpha: AlphaMedium, Distortion: true,
		Gain: 1, Ungain: 1,
		Configs: func(cycles uint64, durationVal, roughPeriod float32) []OscConfig {
			return []OscConfig{
				{Vol: 0.5, Mode: OscSquare, LFOIsVolume: true, Speed: 0.25, Cycle: 0.25, Mod: 2},
			}
		},
	},
	VLowLowDist: {
		ID: VLowLowDist, Name: "V_LOW_LOW_DIST",
		Band: BandWhistle, Alpha: AlphaLow, Distortion: true,
		Gain: 1, Ungain: 1,
		Configs: func(cycles uint64, durationVal, roughPeriod float32) []OscConfig {
			return []OscConfig{
				{Vol: 0.5, Mode: OscSquare, LFOIsVolume: true, Speed: 0.125, Cycle: 0.125, Mod: 2},
			}
		},
	},
	VEBass: {
		ID: VEBass, Name: "V_EBASS",
		Band: BandWhistle, Alpha: AlphaLow,
		Gain: 1, Ungain: 1,
		Configs: func(cycles uint64, durationVal, roughPeriod float32) []OscConfig {
			vols := [6]float32{0.14, 0.14, 0.14, 0.14, 0.06, 0.06}
			configs := make([]OscConfig, 6)
			for i := 0; i < 6; i++ {
				n := float64(i + 1)
				configs[i] = OscConfig{
					Vol: vols[i], Mode: OscSine,
					// A slow sub-sample phase wobble, so the stacked
					// sines beat gently instead of sitting dead still.
					// The sweep is nonnegative, so its mean detunes;
					// keep the amplitude well under the layer speeds.
					LFORate: SampleRate / 6, LFOAmp: 0.001, LFOIsVolume: false,
					Speed: float32(n / 32), Cycle: n / 8, Mod: 2,
				}
			}
			return configs
		},
	},
	VVocal2: {
		ID: VVocal2, Name: "V_VOCAL_2",
		Band: BandVocal, Alpha: AlphaHigh,
		Gain: 1, Ungain: 1,
		RequireAmplitude: true, MinAmplitude: minAmplitudeAbs,
		Configs: func(cycles uint64, durationVal, roughPeriod float32) []OscConfig {
			return []OscConfig{
				{Vol: 0.4, Mode: OscNatural, LFOIsVolume: true, Speed: 0.5, Cycle: 0.5, Mod: 2},
			}
		},
	},
	VVocal1: {
		ID: VVocal1, Name: "V_VOCAL_1",
		Band: BandVocal, Alpha: AlphaHigh,
		Gain: 1, Ungain: 0.6,
		RequireAmplitude: true, MinAmplitude: minAmplitudeAbs,
		Configs: func(cycles uint64, durationVal, roughPeriod float32) []OscConfig {
			return []OscConfig{
				{Vol: 0.3, Mode: OscNatural, LFOIsVolume: true, Speed: 0.5, Cycle: 0.5, Mod: 2},
			}
		},
	},
	VRaw: {
		ID: VRaw, Name: "V_RAW",
		Band: BandWhistle, Alpha: AlphaHigh,
		Gain: 1, Ungain: 1, Bypass: true,
	},
	VSinStack: {
		ID: VSinStack, Name: "V_SIN_STACK",
		Band: BandWhistle, Alpha: AlphaMedium,
		Gain: 1, Ungain: 1,
		Configs: func(cycles uint64, durationVal, roughPeriod float32) []OscConfig {
			// Odd harmonics of the half-rate fundamental: a hollow,
			// clarinet-ish spectrum without any waveshaping.
			configs := make([]OscConfig, 5)
			for i := 0; i < 5; i++ {
				n := float64(2*i + 1)
				configs[i] = OscConfig{
					Vol: 0.2, Mode: OscSine, LFOIsVolume: true,
					Speed: float32(n / 4), Cycle: n / 2, Mod: 2,
				}
			}
			return configs
		},
	},
	VBassClarinet: {
		ID: VBassClarinet, Name: "V_BASS_CLARINET",
		Band: BandWhistle, Alpha: AlphaHigh,
		Gain: 1, Ungain: 1,
		Configs: func(cycles uint64, durationVal, roughPeriod float32) []OscConfig {
			return []OscConfig{
				{Vol: 0.4, Mode: OscNatural, LFOIsVolume: true, Speed: 0.25, Cycle: 0.25, Mod: 2},
				{Vol: 0.4, Mode: OscNatural, LFOIsVolume: true, Speed: 0.125, Cycle: 0.125, Mod: 2},
			}
		},
	},
}

// DefaultVoice is the preset selected at startup absent a control file
// value.
const DefaultVoice = VEBass

// LookupPreset resolves a VoiceProgram to its VoicePreset, checking the
// YAML overlay (voice_config.go) before the built-in table so operators
// can override a built-in preset's parameters.
func LookupPreset(reg *PresetRegistry, id VoiceProgram) (VoicePreset, bool) {
	if reg != nil {
		if p, ok := reg.overlay[id]; ok {
			return p, true
		}
	}
	p, ok := builtinPresets[id]
	return p, ok
}
