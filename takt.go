// Package takt implements the timeline arithmetic and clip arrangement engine
// of a multi-track audio/MIDI editor: musical-time positions with mixed-radix
// (bar/beat/tick) semantics, snap-grid sizing, clip slicing and translation
// with loop-extended content, overlap resolution between clips on a track,
// and automation envelope evaluation.
//
// Everything in this package is a pure function over immutable values.
// "Mutation" is always construction of a new value; the caller replaces its
// held state wholesale. Operations that depend on the current time signature
// or tempo take them as explicit arguments (TimeSignature or TimeContext),
// never from ambient state, so two Positions can never be silently computed
// under different settings.
package takt

// TicksPerBeat is the canonical resolution of the tick index. One beat is
// always TicksPerBeat ticks, regardless of the time signature's beat unit.
const TicksPerBeat = 480

// ContentBuffer is the opaque source data of a clip (audio samples, MIDI
// events). The engine never interprets the data; it only needs a windowed
// sub-copy when a clip is cut, expressed in the same time coordinate as the
// clip itself.
type ContentBuffer interface {
	// Window returns a copy of the buffer restricted to [start, end).
	Window(start, end Position) ContentBuffer
}
