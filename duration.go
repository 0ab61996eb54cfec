// duration.go - moving-minimum-of-means "sustain" tracker.

package main

// DurationTracker produces a slowly-varying scalar in [0, DurationMaxVal]
// that rises slowly while a tone continues and falls quickly when it
// stops, used by some voice presets to shape timbre versus note length.
type DurationTracker struct {
	blocks [DurationBlocks]float32
	pos    int

	currentTotal float32
	currentCount int

	val float32
}

// NewDurationTracker returns a zeroed tracker.
func NewDurationTracker() *DurationTracker {
	return &DurationTracker{}
}

// Update folds one rectified input sample into the currently-accumulating
// block, completing and re-scoring the block every DurationUnits samples.
func (d *DurationTracker) Update(sample float32) {
	abs := sample
	if abs < 0 {
		abs = -abs
	}
	d.currentTotal += abs
	d.currentCount++

	if d.currentCount <= DurationUnits {
		return
	}

	blockVal := d.currentTotal / float32(d.currentCount)
	d.currentTotal = 0
	d.currentCount = 0

	d.pos++
	d.blocks[d.pos%DurationBlocks] = blockVal

	var total float32
	blockMin := float32(-1)
	for i := 0; i < DurationBlocks; i++ {
		idx := (DurationBlocks + d.pos - i) % DurationBlocks
		v := d.blocks[idx]
		if blockMin < 0 || v < blockMin {
			blockMin = v
		}
		total += blockMin
	}

	val := total / DurationBlocks
	if val > DurationMaxVal {
		val = DurationMaxVal
	}
	d.val = val
}

// Value returns duration_val, the current sustain estimate.
func (d *DurationTracker) Value() float32 {
	return d.val
}
