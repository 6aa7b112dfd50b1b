package takt

import (
	"github.com/google/uuid"

	"github.com/norppa/takt/types"
)

type (
	// Region is a half-open span [Start, End) on the timeline, End >= Start.
	Region struct {
		Start Position `yaml:"start"`
		End   Position `yaml:"end"`
	}

	// Clip is a region of content on a track. If LoopEnd is set past End, the
	// content of [Start, End) repeats up to LoopEnd. StartLimit and EndLimit
	// are hard bounds from the source media beyond which trimming is
	// disallowed. Content is the clip's own window into the underlying
	// source data, in the same time coordinate as the clip itself, so
	// trimming a boundary never moves the content anchor.
	//
	// Clips are copy-on-write values: every transform returns new Clips and
	// never modifies the receiver. The ID survives translation and trimming;
	// only explicit duplication mints a new one.
	Clip struct {
		Region     `yaml:",inline"`
		ID         uuid.UUID                `yaml:"id"`
		Name       string                   `yaml:"name,omitempty"`
		LoopEnd    types.Optional[Position] `yaml:"loopend,omitempty"`
		StartLimit types.Optional[Position] `yaml:"startlimit,omitempty"`
		EndLimit   types.Optional[Position] `yaml:"endlimit,omitempty"`
		Content    Region                   `yaml:"content,omitempty"`
		Buffer     ContentBuffer            `yaml:"-"`
	}
)

// Width returns the length of the region in ticks.
func (r Region) Width() float64 {
	return r.End.Ticks() - r.Start.Ticks()
}

// Contains reports whether pos falls inside the half-open region.
func (r Region) Contains(pos Position) bool {
	return !pos.Before(r.Start) && pos.Before(r.End)
}

// Translate moves both boundaries by dt ticks.
func (r Region) Translate(dt float64) Region {
	return Region{Start: r.Start.AddTicks(dt), End: r.End.AddTicks(dt)}
}

// Clamp limits both boundaries to the maximum position of the signature.
func (r Region) Clamp(sig TimeSignature) Region {
	return Region{Start: r.Start.Clamp(sig), End: r.End.Clamp(sig)}
}

// NewClip returns a clip spanning [start, end) with a fresh identity.
func NewClip(start, end Position) Clip {
	return Clip{
		Region:  Region{Start: start, End: end},
		ID:      uuid.New(),
		Content: Region{Start: start, End: end},
	}
}

// EffectiveEnd returns LoopEnd when the clip is loop-extended, End otherwise.
func (c Clip) EffectiveEnd() Position {
	return c.LoopEnd.Or(c.End)
}

// NaturalWidth returns the un-looped duration End - Start in ticks.
func (c Clip) NaturalWidth() float64 {
	return c.Region.Width()
}

// Looped reports whether the clip repeats past its natural end.
func (c Clip) Looped() bool {
	le, ok := c.LoopEnd.Unpack()
	return ok && le.After(c.End)
}

// Overlaps reports whether the effective intervals of the two clips
// intersect. Two clips with identical start and identical effective end
// always overlap, so degenerate zero-width duplicates are caught too.
func (c Clip) Overlaps(other Clip) bool {
	if c.Start.Equal(other.Start) && c.EffectiveEnd().Equal(other.EffectiveEnd()) {
		return true
	}
	return c.Start.Before(other.EffectiveEnd()) && other.Start.Before(c.EffectiveEnd())
}

// Translate moves every time-bearing field of the clip by dt ticks: the
// boundaries, the loop marker, the trim limits and the content window. The
// identity is kept.
func (c Clip) Translate(dt float64) Clip {
	c.Region = c.Region.Translate(dt)
	c.LoopEnd = types.Map(c.LoopEnd, func(p Position) Position { return p.AddTicks(dt) })
	c.StartLimit = types.Map(c.StartLimit, func(p Position) Position { return p.AddTicks(dt) })
	c.EndLimit = types.Map(c.EndLimit, func(p Position) Position { return p.AddTicks(dt) })
	c.Content = c.Content.Translate(dt)
	return c
}

// WithIdentity returns the clip with a freshly minted ID.
func (c Clip) WithIdentity() Clip {
	c.ID = uuid.New()
	return c
}

// TrimStart moves the start boundary to pos, clamped so that it never crosses
// the start limit or the end. The content anchor stays put.
func (c Clip) TrimStart(pos Position) Clip {
	if limit, ok := c.StartLimit.Unpack(); ok {
		pos = pos.Max(limit)
	}
	c.Start = pos.Min(c.End)
	return c
}

// TrimEnd moves the end boundary to pos, clamped so that it never crosses the
// end limit or the start. A loop marker that no longer extends past the new
// end is dropped.
func (c Clip) TrimEnd(pos Position) Clip {
	if limit, ok := c.EndLimit.Unpack(); ok {
		pos = pos.Min(limit)
	}
	c.End = pos.Max(c.Start)
	if le, ok := c.LoopEnd.Unpack(); ok && !le.After(c.End) {
		c.LoopEnd = types.NewEmptyOptional[Position]()
	}
	return c
}

// clampTo reclamps every time-bearing field to the maximum position of the
// signature, preserving tick indices otherwise. Used when the project's time
// signature changes.
func (c Clip) clampTo(sig TimeSignature) Clip {
	c.Region = c.Region.Clamp(sig)
	c.LoopEnd = types.Map(c.LoopEnd, func(p Position) Position { return p.Clamp(sig) })
	c.StartLimit = types.Map(c.StartLimit, func(p Position) Position { return p.Clamp(sig) })
	c.EndLimit = types.Map(c.EndLimit, func(p Position) Position { return p.Clamp(sig) })
	c.Content = c.Content.Clamp(sig)
	return c
}
