// audio_lut.go - precomputed sine and arctangent tables used by the SIN
// oscillator mode and the distortion saturator in the post-chain.

package main

import "math"

const twoPi = 2 * math.Pi

// Lookup table sizes.
const (
	sinLUTSize  = 8192           // phase resolution: 2π/8192 radians
	sinLUTMask  = sinLUTSize - 1 // fast modulo for index wraparound
	atanLUTSize = 4096
	atanLUTMin  = float32(-16.0)
	atanLUTMax  = float32(16.0)
)

// Precomputed scale factors: phase/value to table index.
const (
	sinLUTScale  = float32(sinLUTSize) / twoPi
	atanLUTScale = float32(atanLUTSize-1) / (atanLUTMax - atanLUTMin)
)

// sinLUT holds sin(phase) for phase in [0, 2π), indexed by phase*sinLUTScale.
var sinLUT [sinLUTSize]float32

// atanLUT holds atan(x)/(π/2) for x in [atanLUTMin, atanLUTMax]: a
// normalized arctangent mapping its input to (-1, 1) instead of
// (-π/2, π/2), the form the saturator wants.
var atanLUT [atanLUTSize]float32

func init() {
	for i := 0; i < sinLUTSize; i++ {
		phase := float64(i) * twoPi / float64(sinLUTSize)
		sinLUT[i] = float32(math.Sin(phase))
	}
	for i := 0; i < atanLUTSize; i++ {
		x := float64(atanLUTMin) + float64(i)*float64(atanLUTMax-atanLUTMin)/float64(atanLUTSize-1)
		atanLUT[i] = float32(math.Atan(x) / (math.Pi / 2))
	}
}

// fastSin returns sin(phase) via table lookup with linear interpolation.
// phase may be any real value; it is wrapped into [0, 2π) first.
func fastSin(phase float32) float32 {
	if phase < 0 {
		n := float32(int(phase/twoPi)) - 1
		phase -= twoPi * n
	} else if phase >= twoPi {
		phase -= twoPi * float32(int(phase/twoPi))
	}

	indexF := phase * sinLUTScale
	index := int(indexF)
	frac := indexF - float32(index)

	index &= sinLUTMask
	nextIndex := (index + 1) & sinLUTMask

	return sinLUT[index] + frac*(sinLUT[nextIndex]-sinLUT[index])
}

// sineDecimal is sin of a phase expressed in cycles (not radians),
// offset by half a cycle.
func sineDecimal(v float32) float32 {
	return fastSin(twoPi32 * (v + 0.5))
}

// fastAtanDecimal returns atan(x)/(π/2) via table lookup with linear
// interpolation, clamped to ±1 outside [atanLUTMin, atanLUTMax] (atan
// itself saturates towards ±π/2 out there, so the clamp is already
// within the table's own approximation error).
func fastAtanDecimal(x float32) float32 {
	if x <= atanLUTMin {
		return -1.0
	}
	if x >= atanLUTMax {
		return 1.0
	}

	indexF := (x - atanLUTMin) * atanLUTScale
	index := int(indexF)
	frac := indexF - float32(index)

	if index >= atanLUTSize-1 {
		return atanLUT[atanLUTSize-1]
	}

	return atanLUT[index] + frac*(atanLUT[index+1]-atanLUT[index])
}
