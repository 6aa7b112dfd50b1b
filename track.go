package takt

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

type (
	// Track owns a clip collection and an automation lane collection. The
	// clip invariant is that no two clips' effective intervals intersect;
	// every edit operation returns a new Track with the invariant restored.
	// Volume and Pan are the static parameter values used when the
	// corresponding lane has no automation value.
	Track struct {
		Name   string           `yaml:"name,omitempty"`
		Volume float64          `yaml:"volume"`
		Pan    float64          `yaml:"pan"`
		Clips  []Clip           `yaml:"clips,omitempty"`
		Lanes  []AutomationLane `yaml:"lanes,omitempty"`
	}

	// Arrangement is the whole project timeline: tempo, time signature, the
	// song loop region and the track list. Like everything else in this
	// package it is edited by replacement, never in place.
	Arrangement struct {
		BPM       float64       `yaml:"bpm"`
		Signature TimeSignature `yaml:"signature"`
		Loop      Region        `yaml:"loop,omitempty"`
		Tracks    []Track       `yaml:"tracks,omitempty"`
	}
)

// Copy makes a deep copy of a Track.
func (t Track) Copy() Track {
	clips := make([]Clip, len(t.Clips))
	copy(clips, t.Clips)
	lanes := make([]AutomationLane, len(t.Lanes))
	for i, l := range t.Lanes {
		lanes[i] = l.Copy()
	}
	return Track{Name: t.Name, Volume: t.Volume, Pan: t.Pan, Clips: clips, Lanes: lanes}
}

// AddClip inserts the clip with priority over the existing ones: anything it
// overlaps is trimmed around it. The returned track has its clips sorted by
// start.
func (t Track) AddClip(c Clip) Track {
	out := t.Copy()
	out.Clips = append(RemoveAllOverlap(out.Clips, &c), c)
	sortClips(out.Clips)
	return out
}

// DeleteClip drops the clip with the given identity, if present.
func (t Track) DeleteClip(id uuid.UUID) Track {
	out := t.Copy()
	clips := out.Clips[:0]
	for _, c := range out.Clips {
		if c.ID != id {
			clips = append(clips, c)
		}
	}
	out.Clips = clips
	return out
}

// SplitAt slices every clip on the track at pos. Clips that do not span pos
// are unaffected.
func (t Track) SplitAt(pos Position) Track {
	out := t.Copy()
	clips := make([]Clip, 0, len(out.Clips)+1)
	for _, c := range out.Clips {
		clips = append(clips, SliceClip(c, pos)...)
	}
	out.Clips = clips
	sortClips(out.Clips)
	return out
}

// Paste places a duplicate of the clip at the given position, trimming
// whatever it lands on.
func (t Track) Paste(c Clip, at Position) Track {
	return t.AddClip(ClipAtPos(at, CopyClip(c)))
}

// ClipAt returns the clip whose effective interval contains pos.
func (t Track) ClipAt(pos Position) (Clip, bool) {
	for _, c := range t.Clips {
		if !pos.Before(c.Start) && pos.Before(c.EffectiveEnd()) {
			return c, true
		}
	}
	return Clip{}, false
}

// Lane returns the first lane of the given envelope kind.
func (t Track) Lane(kind EnvelopeKind) (AutomationLane, bool) {
	for _, l := range t.Lanes {
		if l.Kind == kind {
			return l, true
		}
	}
	return AutomationLane{}, false
}

// VolumeAt returns the automated volume at pos, falling back to the track's
// static volume when the volume lane has no automation value.
func (t Track) VolumeAt(pos Position) float64 {
	if l, ok := t.Lane(VolumeEnvelope); ok {
		if v, ok := l.ValueAt(pos); ok {
			return v
		}
	}
	return t.Volume
}

// PanAt returns the automated pan at pos, falling back to the static pan.
func (t Track) PanAt(pos Position) float64 {
	if l, ok := t.Lane(PanEnvelope); ok {
		if v, ok := l.ValueAt(pos); ok {
			return v
		}
	}
	return t.Pan
}

// clampTo reclamps every clip and lane to the maximum position of the
// signature. Clips pushed entirely past the maximum collapse to zero width
// and are dropped.
func (t Track) clampTo(sig TimeSignature) Track {
	out := t.Copy()
	clips := out.Clips[:0]
	for _, c := range out.Clips {
		c = c.clampTo(sig)
		if c.EffectiveEnd().After(c.Start) {
			clips = append(clips, c)
		}
	}
	out.Clips = clips
	for i, l := range out.Lanes {
		out.Lanes[i] = l.clampTo(sig)
	}
	return out
}

// Copy makes a deep copy of an Arrangement.
func (a Arrangement) Copy() Arrangement {
	tracks := make([]Track, len(a.Tracks))
	for i, t := range a.Tracks {
		tracks[i] = t.Copy()
	}
	return Arrangement{BPM: a.BPM, Signature: a.Signature, Loop: a.Loop, Tracks: tracks}
}

// TimeContext returns the arrangement's current signature and tempo bundled
// for the Position conversions.
func (a Arrangement) TimeContext() TimeContext {
	return TimeContext{Signature: a.Signature, BPM: a.BPM}
}

// SetSignature changes the project time signature. Every stored position
// keeps its tick index and is re-derived under the new signature, clamped to
// its maximum position; nothing is reinterpreted structurally.
func (a Arrangement) SetSignature(sig TimeSignature) Arrangement {
	out := a.Copy()
	out.Signature = sig
	out.Loop = out.Loop.Clamp(sig)
	for i, t := range out.Tracks {
		out.Tracks[i] = t.clampTo(sig)
	}
	return out
}

// Validate checks the caller contracts that the edit operations themselves
// assume and do not guard: a positive tempo, a well-formed signature,
// ordered regions and the per-track overlap invariant.
func (a Arrangement) Validate() error {
	if a.BPM <= 0 {
		return errors.New("BPM should be > 0")
	}
	if err := a.Signature.Validate(); err != nil {
		return err
	}
	if a.Loop.End.Before(a.Loop.Start) {
		return errors.New("loop region end should not precede its start")
	}
	for ti, t := range a.Tracks {
		for i, c := range t.Clips {
			if c.End.Before(c.Start) {
				return fmt.Errorf("track %v clip %v has end before start", ti, i)
			}
			for j := i + 1; j < len(t.Clips); j++ {
				if c.Overlaps(t.Clips[j]) {
					return fmt.Errorf("track %v clips %v and %v overlap", ti, i, j)
				}
			}
		}
	}
	return nil
}

func sortClips(clips []Clip) {
	sort.Slice(clips, func(i, j int) bool {
		return clips[i].Start.Before(clips[j].Start)
	})
}
