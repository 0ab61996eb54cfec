package main

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// The properties here are the engine's load-bearing guarantees: the
// cached energy sums track the true sums, the final output never
// escapes [-1, +1], silence in means silence out, the crossing
// adjustment is always a sub-sample quantity, and the cycle counter
// ticks exactly once per positive-to-negative crossing.

func TestHistoryBufferSumTracksTrueSum(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		h := NewHistoryBuffer()
		n := rapid.IntRange(1, 4*RecentWindow).Draw(t, "n")
		for i := 0; i < n; i++ {
			s := rapid.Float32Range(-1, 1).Draw(t, "s")
			h.Push(s)
		}

		var full, recent float64
		for age := 0; age < HistoryLength; age++ {
			v := float64(h.Get(age))
			full += v * v
			if age < RecentWindow {
				recent += v * v
			}
		}

		require.InDelta(t, full/HistoryLength, h.RMSFull(), 1e-5)
		require.InDelta(t, recent/RecentWindow, h.RMSRecent(), 1e-5)
	})
}

func TestEngineOutputAlwaysWithinUnitRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		voice := rapid.SampledFrom([]VoiceProgram{
			VSopranoRecorder, VSqr, VDist, VLowDist, VLowLowDist, VEBass,
		}).Draw(t, "voice")
		volume := rapid.IntRange(0, 9).Draw(t, "volume")
		gate := rapid.IntRange(0, 9).Draw(t, "gate")

		e := NewEngineContext(NewControlInputs(voice, volume, gate), nil)

		n := rapid.IntRange(100, 3000).Draw(t, "n")
		period := rapid.Float64Range(16, 280).Draw(t, "period")
		amp := rapid.Float64Range(0, 2).Draw(t, "amp")
		for i := 0; i < n; i++ {
			s := float32(amp * math.Sin(2*math.Pi*float64(i)/period))
			out := e.NextOutputSample(s)
			require.False(t, math.IsNaN(float64(out)))
			require.LessOrEqual(t, out, float32(1))
			require.GreaterOrEqual(t, out, float32(-1))
		}
	})
}

func TestEngineSilenceInAlwaysSilenceOut(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		voice := rapid.SampledFrom([]VoiceProgram{
			VSopranoRecorder, VSqr, VDist, VEBass, VVocal2,
		}).Draw(t, "voice")
		volume := rapid.IntRange(1, 9).Draw(t, "volume")

		e := NewEngineContext(NewControlInputs(voice, volume, 5), nil)
		n := rapid.IntRange(1, 5000).Draw(t, "n")
		for i := 0; i < n; i++ {
			require.Equal(t, float32(0), e.NextOutputSample(0))
		}
	})
}

func TestCrossingAdjustmentIsAlwaysSubSample(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := rapid.Float32Range(1e-6, 1).Draw(t, "p")
		n := rapid.Float32Range(-1, -1e-6).Draw(t, "n")

		ps := NewPitchState()
		ps.Step(p)
		completed, ev := ps.Step(n)
		require.True(t, completed)
		require.Less(t, math.Abs(float64(ev.Adjustment)), 1.0)
	})
}

func TestCyclesTickOncePerPositiveToNegativeCrossing(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ps := NewPitchState()
		n := rapid.IntRange(1, 2000).Draw(t, "n")

		var crossings uint64
		prevPositive := true
		for i := 0; i < n; i++ {
			s := rapid.Float32Range(-1, 1).Draw(t, "s")
			completed, _ := ps.Step(s)

			if prevPositive && s < 0 {
				require.True(t, completed)
				crossings++
				prevPositive = false
			} else {
				require.False(t, completed)
				if !prevPositive && s > 0 {
					prevPositive = true
				}
			}
		}
		require.Equal(t, crossings, ps.Cycles())
	})
}

func TestDurationTrackerConvergesForConstantInput(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := rapid.Float32Range(0, 1).Draw(t, "c")
		d := NewDurationTracker()
		for i := 0; i < DurationUnits*DurationBlocks+DurationUnits; i++ {
			d.Update(c)
		}

		want := float64(c)
		if want > DurationMaxVal {
			want = DurationMaxVal
		}
		require.InDelta(t, want, float64(d.Value()), 1e-3)
	})
}

func TestPeriodEstimateConvergesForPureSine(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		period := rapid.IntRange(WhistlePeriodHigh+2, WhistlePeriodLow-2).Draw(t, "period")

		ps := NewPitchState()
		var lastPeriod float32
		for i := 0; i < period*3; i++ {
			s := float32(math.Sin(2 * math.Pi * float64(i) / float64(period)))
			if completed, ev := ps.Step(s); completed {
				lastPeriod = ev.Period
			}
		}

		require.Greater(t, ps.Cycles(), uint64(1))
		require.InDelta(t, float64(period), float64(lastPeriod), 0.1)
	})
}

func TestOscillatorEnvelopeStaysInUnitInterval(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		h := NewHistoryBuffer()
		fillHistoryWithSine(h, 40, HistoryLength)

		o := &Oscillator{}
		OscInit(o, 1, 0, OscConfig{Vol: 1, Mode: OscNatural, Speed: 0.5, Cycle: 1, Mod: 0}, 40)

		n := rapid.IntRange(1, 2000).Draw(t, "n")
		release := rapid.IntRange(0, n).Draw(t, "release")
		for i := 0; i < n; i++ {
			if i == release {
				o.duration = 0
			}
			o.Step(h)
			require.GreaterOrEqual(t, o.amp, float32(0))
			require.LessOrEqual(t, o.amp, float32(1))
		}
	})
}
