package takt

import (
	"math"

	"github.com/norppa/takt/types"
)

// repetitionEpsilon is the tolerance, in tick-index units, used to decide
// whether a slice point lands exactly on a loop-repetition boundary. It is a
// deliberate floating-point tolerance for near-exact boundary hits, not a
// precision guarantee.
const repetitionEpsilon = 1e-9

// SliceClip splits the clip at pos and returns fragments that exactly tile
// the original effective extent, with no gap and no overlap. Slicing at or
// outside the extent is a no-op returning the clip unchanged. The first
// fragment keeps the clip's identity; the others get fresh ones.
func SliceClip(c Clip, pos Position) []Clip {
	if !pos.After(c.Start) || !pos.Before(c.EffectiveEnd()) {
		return []Clip{c}
	}
	if pos.Before(c.End) {
		return sliceInsideBase(c, pos)
	}
	return sliceInsideLoopTail(c, pos)
}

// sliceInsideBase handles a slice point strictly inside [Start, End).
func sliceInsideBase(c Clip, pos Position) []Clip {
	left := c
	left.End = pos
	left.LoopEnd = types.NewEmptyOptional[Position]()
	left.Content.End = left.Content.End.Min(pos)
	left.Buffer = windowBuffer(c.Buffer, left.Content)

	right := c.WithIdentity()
	right.Start = pos
	right.LoopEnd = types.NewEmptyOptional[Position]()
	right.Content.Start = right.Content.Start.Max(pos)
	right.Buffer = windowBuffer(c.Buffer, right.Content)
	if !c.Looped() {
		return []Clip{left, right}
	}
	loopEnd := c.LoopEnd.Value()
	width := c.NaturalWidth()
	if loopEnd.Ticks()-c.End.Ticks() < width {
		// The loop tail is shorter than one natural width; keep it on the
		// right fragment instead of producing a separate tail fragment.
		right.LoopEnd = types.NewOptional(loopEnd)
		return []Clip{left, right}
	}
	tail := c.Translate(width).WithIdentity()
	if loopEnd.After(tail.End) {
		tail.LoopEnd = types.NewOptional(loopEnd)
	} else {
		tail.LoopEnd = types.NewEmptyOptional[Position]()
		tail.End = loopEnd.Min(tail.End)
	}
	return []Clip{left, right, tail}
}

// sliceInsideLoopTail handles a slice point at or past End, inside the
// loop-extended tail. The fragment containing pos is a copy of the natural
// content translated by a whole number of repetitions.
func sliceInsideLoopTail(c Clip, pos Position) []Clip {
	width := c.NaturalWidth()
	if width <= 0 {
		return []Clip{c}
	}
	loopEnd := c.EffectiveEnd()

	left := c
	if pos.After(c.End) {
		left.LoopEnd = types.NewOptional(pos)
	} else {
		left.LoopEnd = types.NewEmptyOptional[Position]()
	}

	// Near-exact boundary hits count as falling on the repetition edge, not
	// inside the previous repetition. The tolerance is in ticks, so it does
	// not grow with the clip width.
	repetition := math.Floor((pos.Ticks() - c.End.Ticks() + repetitionEpsilon) / width)
	shift := (repetition + 1) * width
	right := c.Translate(shift).WithIdentity()
	nextBoundary := right.End
	if loopEnd.After(nextBoundary) {
		right.LoopEnd = types.NewOptional(loopEnd)
	} else {
		right.LoopEnd = types.NewEmptyOptional[Position]()
		right.End = loopEnd.Min(nextBoundary)
	}
	right.Start = pos
	right.Content.Start = right.Content.Start.Max(pos)
	right.Buffer = windowBuffer(c.Buffer, right.Content)
	return []Clip{left, right}
}

// ClipAtPos returns the clip translated so that it starts at target, with
// every time-bearing field moved by the same delta. The identity is kept.
func ClipAtPos(target Position, c Clip) Clip {
	return c.Translate(target.Ticks() - c.Start.Ticks())
}

// CopyClip returns a duplicate of the clip with a fresh identity.
func CopyClip(c Clip) Clip {
	return c.WithIdentity()
}

func windowBuffer(buf ContentBuffer, window Region) ContentBuffer {
	if buf == nil {
		return nil
	}
	return buf.Window(window.Start, window.End)
}
