package takt

// BaseBeatWidth is the rendered width of one quarter-note beat in pixels at
// horizontal scale 1.
const BaseBeatWidth = 24.0

// minGridFraction is the finest sub-beat grid the sizer will propose;
// anything finer collapses back to the raw beat.
const minGridFraction = 1.0 / 32

type (
	// GridSize is the snap grid unit proposed for the current display scale
	// and time signature. Exactly one of the fields is meaningful: whole bars
	// (Measures), a grouping of beats within a bar (Beats), or a power-of-two
	// fraction of one beat (Fraction, with 1 meaning the raw beat).
	GridSize struct {
		Measures int
		Beats    int
		Fraction float64
	}
)

// Ticks returns the span of one grid unit in ticks, consumable by
// Position.Snap.
func (g GridSize) Ticks(sig TimeSignature) float64 {
	switch {
	case g.Measures > 0:
		return float64(g.Measures) * sig.BarTicks()
	case g.Beats > 0:
		return float64(g.Beats) * TicksPerBeat
	case g.Fraction > 0:
		return g.Fraction * TicksPerBeat
	}
	return 0
}

// ComputeGridSize derives the smallest grid unit whose rendered width is at
// least minIntervalWidth pixels at the given horizontal scale. Wide zoom
// levels group whole bars in powers of two; signatures with a non-power-of-two
// beat count group beats by divisors of the bar; otherwise the beat is
// subdivided in powers of two down to minGridFraction.
func ComputeGridSize(horizontalScale float64, sig TimeSignature, minIntervalWidth float64) GridSize {
	beatWidth := BaseBeatWidth * horizontalScale * 4 / float64(sig.BeatUnit)
	measureWidth := beatWidth * float64(sig.BeatsPerBar)
	if measureWidth < 2*minIntervalWidth {
		measures := 1
		for measureWidth*float64(measures) < minIntervalWidth {
			measures *= 2
		}
		return GridSize{Measures: measures}
	}
	if beatWidth < minIntervalWidth && !isPowerOfTwo(sig.BeatsPerBar) {
		for i := 2; i < sig.BeatsPerBar; i++ {
			if sig.BeatsPerBar%i != 0 {
				continue
			}
			if beatWidth*float64(i) >= minIntervalWidth {
				return GridSize{Beats: i}
			}
		}
		return GridSize{Beats: sig.BeatsPerBar}
	}
	fraction := 1.0
	for fraction/2 >= minGridFraction && beatWidth*fraction/2 >= minIntervalWidth {
		fraction /= 2
	}
	return GridSize{Fraction: fraction}
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
