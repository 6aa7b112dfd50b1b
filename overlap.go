package takt

// RemoveOverlap shrinks victim so that it no longer intersects the effective
// interval of the priority clip: the victim is sliced at the priority's start
// and effective end, and the fragment inside the priority interval is
// discarded. Returns the 0, 1 or 2 remaining outer fragments.
func RemoveOverlap(victim, priority Clip) []Clip {
	out := make([]Clip, 0, 2)
	for _, a := range SliceClip(victim, priority.Start) {
		for _, b := range SliceClip(a, priority.EffectiveEnd()) {
			if !b.Start.Before(priority.Start) && b.Start.Before(priority.EffectiveEnd()) {
				continue
			}
			// the half-open filter misses a zero-width duplicate sitting
			// exactly on a zero-width priority
			if b.Start.Equal(priority.Start) && !b.EffectiveEnd().After(b.Start) {
				continue
			}
			out = append(out, b)
		}
	}
	return out
}

// RemoveAllOverlap restores the no-two-clips-overlap invariant over the given
// list. Precedence is deterministic: the optional priority clip wins over
// everything, and later list entries win over earlier ones. Each clip is
// first shrunk against the priority clip (when given and overlapping), then
// its fragments are shrunk against every later clip in the list. The result
// is a flat fragment list covering the input extent minus the portions ceded
// to higher-priority clips; the priority clip itself is not included.
func RemoveAllOverlap(clips []Clip, priority *Clip) []Clip {
	fragments := make([][]Clip, len(clips))
	for i, c := range clips {
		if priority != nil && c.Overlaps(*priority) {
			fragments[i] = RemoveOverlap(c, *priority)
		} else {
			fragments[i] = []Clip{c}
		}
	}
	for i := range fragments {
		for j := i + 1; j < len(clips); j++ {
			shrunk := make([]Clip, 0, len(fragments[i]))
			for _, f := range fragments[i] {
				shrunk = append(shrunk, RemoveOverlap(f, clips[j])...)
			}
			fragments[i] = shrunk
		}
	}
	out := make([]Clip, 0, len(clips))
	for _, f := range fragments {
		out = append(out, f...)
	}
	return out
}
