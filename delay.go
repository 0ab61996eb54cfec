// delay.go - two independent delay effects: a BPM-synced tap delay fed
// from the raw input, and a Leslie-style rotating delay applied to the
// final output. Both sit outside the octaver pipeline proper.

package main

// DelayLength sizes the ring to cover many taps even at a slow tempo:
// fifteen minutes of audio holds 15 quarter-note taps at 60 BPM. The
// ring is large, so it is only allocated when the effect is enabled.
const DelayLength = SampleRate * 900

// DelayLine is a simple ring buffer read back at fractional BPM-derived
// offsets, independent of HistoryBuffer (no running RMS is needed here).
type DelayLine struct {
	buf      []float32
	writePos int
}

// NewDelayLine allocates an empty delay line.
func NewDelayLine() *DelayLine {
	return &DelayLine{buf: make([]float32, DelayLength)}
}

// Push writes one input sample into the delay line.
func (d *DelayLine) Push(s float32) {
	d.buf[d.writePos%DelayLength] = s
	d.writePos++
}

// get returns the sample `age` positions behind the most recently
// pushed one.
func (d *DelayLine) get(age int) float32 {
	idx := ((d.writePos-1-age)%DelayLength + DelayLength) % DelayLength
	return d.buf[idx]
}

// Process returns the averaged, volume-scaled sum of nRep fractional
// taps spaced at (SampleRate*60)/bpm samples apart. bpm <= 0 or
// nRep <= 0 disables the effect.
func (d *DelayLine) Process(bpm float32, nRep int, delayVolume float32) float32 {
	if bpm <= 0 || nRep <= 0 {
		return 0
	}

	tapSpacing := SampleRate * 60 / bpm

	var sum float32
	for i := 1; i <= nRep; i++ {
		pos := tapSpacing * float32(i)
		ageA := int(pos)
		ageB := ageA + 1
		amtA := pos - float32(ageA)

		if ageB >= DelayLength {
			continue
		}
		sum += d.get(ageA)*(1-amtA) + d.get(ageB)*amtA
	}

	return sum / float32(nRep) * delayVolume
}

// Leslie rotating-delay constants. Period 0 disables the effect.
const (
	LeslieDepth   = 36
	LeslieSamples = LeslieDepth * 2
)

// LeslieEffect is a short modulated delay line read through a
// sinusoidally-swept tap, producing the classic rotating-speaker
// chorus/vibrato. It is distinct from DelayLine above, which is a
// tempo-synced echo; this one is a sub-millisecond pitch wobble.
type LeslieEffect struct {
	hist        [LeslieSamples]float32
	writeOffset int
	leslieIndex float32

	Period int // in samples; 0 disables the effect
}

// NewLeslieEffect returns a disabled Leslie effect (Period=0).
func NewLeslieEffect() *LeslieEffect {
	return &LeslieEffect{}
}

// Process writes v into the rotating history and reads the swept tap.
func (l *LeslieEffect) Process(v float32) float32 {
	if l.Period <= 0 {
		return v
	}

	l.hist[l.writeOffset%LeslieSamples] = v
	l.writeOffset++

	sweep := sineDecimal(l.leslieIndex/float32(l.Period)) + 1
	l.leslieIndex++

	readPos := float32(l.writeOffset) + LeslieDepth/2*sweep
	posA := int(readPos)
	posB := posA + 1
	amtA := readPos - float32(posA)
	amtB := 1 - amtA

	return l.hist[posA%LeslieSamples]*amtA + l.hist[posB%LeslieSamples]*amtB
}
