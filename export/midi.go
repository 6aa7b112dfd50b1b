package export

import (
	"fmt"
	"io"
	"math"
	"sort"

	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/norppa/takt"
)

// WriteSMF exports the skeleton of the arrangement as a standard MIDI file:
// a conductor track carrying the time signature, the base tempo and any
// tempo automation, followed by one track per arrangement track with marker
// events at every clip boundary. Clip contents are opaque to the engine and
// are not exported.
func WriteSMF(w io.Writer, a takt.Arrangement) error {
	if err := a.Validate(); err != nil {
		return fmt.Errorf("invalid arrangement: %w", err)
	}
	sm := smf.New()
	sm.TimeFormat = smf.MetricTicks(takt.TicksPerBeat)

	var conductor smf.Track
	conductor.Add(0, smf.MetaMeter(uint8(a.Signature.BeatsPerBar), uint8(a.Signature.BeatUnit)))
	conductor.Add(0, smf.MetaTempo(a.BPM))
	addTempoChanges(&conductor, a)
	conductor.Close(0)
	if err := sm.Add(conductor); err != nil {
		return fmt.Errorf("adding conductor track: %w", err)
	}

	for _, t := range a.Tracks {
		var track smf.Track
		track.Add(0, smf.MetaTrackSequenceName(t.Name))
		// stored clip order is not guaranteed and the delta encoding needs
		// monotonic event ticks
		clips := append([]takt.Clip(nil), t.Clips...)
		sort.Slice(clips, func(i, j int) bool {
			return clips[i].Start.Before(clips[j].Start)
		})
		prev := uint32(0)
		for _, c := range clips {
			start := eventTick(c.Start)
			track.Add(start-prev, smf.MetaMarker(clipLabel(c.Name, "start")))
			end := eventTick(c.EffectiveEnd())
			track.Add(end-start, smf.MetaMarker(clipLabel(c.Name, "end")))
			prev = end
		}
		track.Close(0)
		if err := sm.Add(track); err != nil {
			return fmt.Errorf("adding track %q: %w", t.Name, err)
		}
	}
	_, err := sm.WriteTo(w)
	return err
}

// addTempoChanges emits a tempo event for every node of every tempo lane in
// the arrangement, in position order.
func addTempoChanges(conductor *smf.Track, a takt.Arrangement) {
	var nodes []takt.AutomationNode
	for _, t := range a.Tracks {
		if lane, ok := t.Lane(takt.TempoEnvelope); ok {
			nodes = append(nodes, lane.Nodes...)
		}
	}
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].Position.Before(nodes[j].Position)
	})
	prev := uint32(0)
	for _, n := range nodes {
		tick := eventTick(n.Position)
		conductor.Add(tick-prev, smf.MetaTempo(n.Value))
		prev = tick
	}
}

func eventTick(p takt.Position) uint32 {
	return uint32(math.Round(p.Ticks()))
}

func clipLabel(name, boundary string) string {
	if name == "" {
		return boundary
	}
	return name + " " + boundary
}
