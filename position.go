package takt

import (
	"errors"
	"fmt"
	"math"
)

type (
	// TimeSignature sets how many beats a bar has and which note value counts
	// as one beat. It is global to a project but always threaded explicitly
	// through the operations that need it.
	TimeSignature struct {
		BeatsPerBar int `yaml:"beatsperbar"`
		BeatUnit    int `yaml:"beatunit"`
	}

	// TimeContext bundles the signature with the tempo for operations that
	// convert between musical time and wall clock time.
	TimeContext struct {
		Signature TimeSignature
		BPM       float64
	}

	// Position is a point in musical time. The canonical representation is a
	// single non-negative tick index; the bar/beat/tick breakdown is always
	// derived from it under a given TimeSignature, never stored. Two
	// Positions are equal exactly when their tick indices are equal, so the
	// breakdown may change when the signature changes but the ordering of
	// positions never does.
	Position struct {
		ticks float64
	}

	// PositionDelta is the unsigned bar/beat/tick magnitude of the distance
	// between two Positions, plus the sign of the difference.
	PositionDelta struct {
		Bars  int
		Beats int
		Ticks float64
		Sign  int
	}

	// SnapDirection chooses which way Snap moves a position that is not
	// already on the grid.
	SnapDirection int
)

const (
	SnapFloor SnapDirection = iota
	SnapCeil
	SnapRound
)

// maxMeasureBudget is the number of addressable bars in 4/4. Denser
// signatures get proportionally fewer bars so that the total addressable
// tick range stays roughly constant.
const maxMeasureBudget = 1024

func (s TimeSignature) Validate() error {
	if s.BeatsPerBar < 1 {
		return errors.New("time signature should have at least 1 beat per bar")
	}
	if s.BeatUnit < 1 {
		return errors.New("time signature beat unit should be > 0")
	}
	return nil
}

// BarTicks returns the length of one bar in ticks.
func (s TimeSignature) BarTicks() float64 {
	return float64(s.BeatsPerBar) * TicksPerBeat
}

// MaxBars returns how many bars are addressable under this signature. The
// budget is fixed at maxMeasureBudget bars of 4/4 and scales inversely with
// the density of the signature (beats per bar measured in quarter notes).
func (s TimeSignature) MaxBars() int {
	density := float64(s.BeatsPerBar) * 4 / float64(s.BeatUnit)
	bars := int(math.Floor(maxMeasureBudget * 4 / density))
	if bars < 1 {
		bars = 1
	}
	return bars
}

// MaxPosition returns the largest addressable Position under the signature.
// Arithmetic that would go past it clamps there instead of overflowing.
func MaxPosition(sig TimeSignature) Position {
	return Position{ticks: float64(sig.MaxBars()) * sig.BarTicks()}
}

// FromTicks returns the Position with the given tick index. Negative indices
// clamp to zero; a Position is never negative.
func FromTicks(ticks float64) Position {
	if ticks < 0 {
		ticks = 0
	}
	return Position{ticks: ticks}
}

// Pos builds a Position from a zero-based bar/beat/tick breakdown under the
// given signature.
func Pos(bar, beat int, tick float64, sig TimeSignature) Position {
	return FromTicks(float64(bar)*sig.BarTicks() + float64(beat)*TicksPerBeat + tick)
}

// Ticks returns the canonical tick index.
func (p Position) Ticks() float64 { return p.ticks }

// BarBeatTick returns the denormalized view of the position under the given
// signature: 0 <= beat < BeatsPerBar and 0 <= tick < TicksPerBeat.
func (p Position) BarBeatTick(sig TimeSignature) (bar, beat int, tick float64) {
	barTicks := sig.BarTicks()
	bar = int(math.Floor(p.ticks / barTicks))
	rem := p.ticks - float64(bar)*barTicks
	beat = int(math.Floor(rem / TicksPerBeat))
	if beat >= sig.BeatsPerBar { // guard against float edge right at a bar boundary
		beat = sig.BeatsPerBar - 1
	}
	tick = rem - float64(beat)*TicksPerBeat
	return bar, beat, tick
}

// AddTicks returns the position moved by dt ticks, clamped at zero.
func (p Position) AddTicks(dt float64) Position {
	return FromTicks(p.ticks + dt)
}

// Add moves the position by the given bar/beat/tick amount. The sign selects
// the direction (negative values move towards zero). The result clamps to
// [0, MaxPosition(sig)].
func (p Position) Add(bars, beats int, ticks float64, sign int, sig TimeSignature) Position {
	delta := float64(bars)*sig.BarTicks() + float64(beats)*TicksPerBeat + ticks
	if sign < 0 {
		delta = -delta
	}
	return FromTicks(p.ticks + delta).Clamp(sig)
}

// Diff returns the distance to other as an unsigned bar/beat/tick magnitude
// under the given signature, with Sign telling which of the two is earlier.
func (p Position) Diff(other Position, sig TimeSignature) PositionDelta {
	d := p.ticks - other.ticks
	sign := 1
	if d < 0 {
		sign = -1
		d = -d
	}
	barTicks := sig.BarTicks()
	bars := int(math.Floor(d / barTicks))
	rem := d - float64(bars)*barTicks
	beats := int(math.Floor(rem / TicksPerBeat))
	return PositionDelta{
		Bars:  bars,
		Beats: beats,
		Ticks: rem - float64(beats)*TicksPerBeat,
		Sign:  sign,
	}
}

// Cmp returns -1, 0 or 1 as p is before, equal to or after other. The order
// is total and depends only on the tick index.
func (p Position) Cmp(other Position) int {
	switch {
	case p.ticks < other.ticks:
		return -1
	case p.ticks > other.ticks:
		return 1
	}
	return 0
}

func (p Position) Equal(other Position) bool  { return p.ticks == other.ticks }
func (p Position) Before(other Position) bool { return p.ticks < other.ticks }
func (p Position) After(other Position) bool  { return p.ticks > other.ticks }

// Min returns the earlier of p and other.
func (p Position) Min(other Position) Position {
	if other.ticks < p.ticks {
		return other
	}
	return p
}

// Max returns the later of p and other.
func (p Position) Max(other Position) Position {
	if other.ticks > p.ticks {
		return other
	}
	return p
}

// Clamp limits the position to [0, MaxPosition(sig)]. When the project's
// time signature changes, every stored Position keeps its tick index and is
// clamped like this under the new signature; the breakdown is re-derived,
// never reinterpreted structurally.
func (p Position) Clamp(sig TimeSignature) Position {
	if max := MaxPosition(sig); p.ticks > max.ticks {
		return max
	}
	return p
}

// Seconds converts the position to wall clock time under the given context.
func (p Position) Seconds(ctx TimeContext) float64 {
	return p.ticks / TicksPerBeat * 60 / ctx.BPM
}

// SnapTicks moves the position to a multiple of span ticks in the given
// direction. A non-positive span leaves the position untouched.
func (p Position) SnapTicks(span float64, dir SnapDirection) Position {
	if span <= 0 {
		return p
	}
	x := p.ticks / span
	var i float64
	switch dir {
	case SnapCeil:
		i = math.Ceil(x)
	case SnapRound:
		i = math.Floor(x + 0.5)
	default:
		i = math.Floor(x)
	}
	return FromTicks(i * span)
}

// Snap moves the position onto the given grid in the given direction.
func (p Position) Snap(grid GridSize, sig TimeSignature, dir SnapDirection) Position {
	return p.SnapTicks(grid.Ticks(sig), dir).Clamp(sig)
}

func (p Position) String() string {
	return fmt.Sprintf("Position(%g)", p.ticks)
}
