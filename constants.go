// constants.go - sample rate, pitch bands, ring sizes, and lookup tables
// shared across the whole octaver engine.

package main

const (
	// SampleRate is the fixed audio sample rate, F_s.
	SampleRate = 44100

	// HistoryLength is H, the size of the ring history buffer in samples.
	HistoryLength = 8192

	// RecentWindow is R, the short RMS window used by the noise gate.
	RecentWindow = 256

	// ResyncInterval is K, the number of pushes between exact sum-of-
	// squares resynchronizations.
	ResyncInterval = 441000

	// DurationUnits is D_u, samples per duration-tracker block.
	DurationUnits = 400
	// DurationBlocks is D_b, the number of blocks in the moving-minimum ring.
	DurationBlocks = 100
	// DurationMaxVal is D_max, the cap on the duration-tracker output.
	DurationMaxVal = 0.04

	// NumLayers is N_layer, oscillators a preset may instantiate per cycle.
	NumLayers = 6
	// NumGenerations is D_gen, overlapping duration generations.
	NumGenerations = 3
	// NumOscillators is N_osc = N_layer * D_gen.
	NumOscillators = NumLayers * NumGenerations

	// OscDuration is D_dur, the release countdown (in cycles) set on init.
	OscDuration = 3

	// FramesPerBuffer is B, the default audio callback block size.
	FramesPerBuffer = 128
)

// Pitch bands, in samples at SampleRate.
const (
	WhistlePeriodHigh = 14  // P_hi, ~3150 Hz
	WhistlePeriodLow  = 75  // P_lo, ~588 Hz
	VocalPeriodHigh   = 50  // P_hi, ~882 Hz
	VocalPeriodLow    = 300 // P_lo, ~147 Hz
)

// Post-chain low-pass alpha values.
const (
	AlphaHigh   = 0.1
	AlphaMedium = 0.03
	AlphaLow    = 0.01
)

// Cycle validation thresholds. The two const groups correspond to the
// two selectable validation strategies (see ValidationStrategy): one
// gates on the RMS of the scanned period, the other on its peak-to-peak
// amplitude.
const (
	validateRMSEps    = 1e-4
	validateRMSErrMax = 5.0

	validateAmpLow    = 1e-3
	validateAmpMid    = 1e-2
	validateAmpErrMax = 2.0

	minAmplitudeAbs = 1e-3
)

// Noise gate thresholds.
const (
	gateSq       = 0.01 * 0.01
	recentGateSq = (40 * 0.01) * (40 * 0.01)
)

// Volume is the master output scale applied ahead of the step table.
const Volume = 10.0

// volumeTable is the ten-step discrete volume selector.
var volumeTable = [10]float32{
	0.026, 0.039, 0.059, 0.088, 0.132,
	0.198, 0.296, 0.444, 0.667, 1.000,
}
