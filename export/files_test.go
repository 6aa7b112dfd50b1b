package export_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/norppa/takt"
	"github.com/norppa/takt/export"
	"github.com/norppa/takt/types"
)

func testArrangement() takt.Arrangement {
	clip := takt.NewClip(takt.FromTicks(0), takt.FromTicks(960))
	clip.Name = "intro"
	clip.LoopEnd = types.NewOptional(takt.FromTicks(2880))
	return takt.Arrangement{
		BPM:       120,
		Signature: takt.TimeSignature{BeatsPerBar: 4, BeatUnit: 4},
		Loop:      takt.Region{Start: takt.FromTicks(0), End: takt.FromTicks(2880)},
		Tracks: []takt.Track{{
			Name:   "drums",
			Volume: 0.75,
			Clips:  []takt.Clip{clip},
			Lanes: []takt.AutomationLane{{
				Kind: takt.PanEnvelope, Min: -1, Max: 1,
				Nodes: []takt.AutomationNode{
					{Position: takt.FromTicks(0), Value: -1},
					{Position: takt.FromTicks(960), Value: 1, Shape: takt.ShapeInOutSine},
				},
			}},
		}},
	}
}

func TestArrangementYAMLRoundTrip(t *testing.T) {
	t.Parallel()
	a := testArrangement()
	var buf bytes.Buffer
	require.NoError(t, export.WriteArrangement(&buf, a))
	got, err := export.ReadArrangement(&buf)
	require.NoError(t, err)
	assert.Equal(t, a, got)
}

func TestArrangementJSONRoundTrip(t *testing.T) {
	t.Parallel()
	a := testArrangement()
	var buf bytes.Buffer
	require.NoError(t, export.WriteArrangementJSON(&buf, a))
	got, err := export.ReadArrangement(&buf)
	require.NoError(t, err)
	assert.Equal(t, a, got)
}

func TestReadArrangementRejectsGarbage(t *testing.T) {
	t.Parallel()
	_, err := export.ReadArrangement(strings.NewReader("bpm: [not a number"))
	assert.Error(t, err)
}

func TestReadArrangementRejectsInvalid(t *testing.T) {
	t.Parallel()
	_, err := export.ReadArrangement(strings.NewReader("bpm: 0\nsignature:\n  beatsperbar: 4\n  beatunit: 4\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BPM")
}

func TestWriteSMF(t *testing.T) {
	t.Parallel()
	a := testArrangement()
	a.Tracks[0].Lanes = append(a.Tracks[0].Lanes, takt.AutomationLane{
		Kind: takt.TempoEnvelope, Min: 20, Max: 300,
		Nodes: []takt.AutomationNode{
			{Position: takt.FromTicks(0), Value: 120},
			{Position: takt.FromTicks(1920), Value: 140},
		},
	})
	var buf bytes.Buffer
	require.NoError(t, export.WriteSMF(&buf, a))
	assert.Equal(t, "MThd", string(buf.Bytes()[:4]))
	assert.Contains(t, buf.String(), "intro start")
	assert.Contains(t, buf.String(), "drums")
}

func TestWriteSMFUnsortedClips(t *testing.T) {
	t.Parallel()
	early := takt.NewClip(takt.FromTicks(0), takt.FromTicks(960))
	early.Name = "verse"
	late := takt.NewClip(takt.FromTicks(1920), takt.FromTicks(2880))
	late.Name = "chorus"
	sorted := takt.Arrangement{
		BPM:       120,
		Signature: takt.TimeSignature{BeatsPerBar: 4, BeatUnit: 4},
		Tracks:    []takt.Track{{Name: "drums", Clips: []takt.Clip{early, late}}},
	}
	unsorted := sorted
	unsorted.Tracks = []takt.Track{{Name: "drums", Clips: []takt.Clip{late, early}}}
	require.NoError(t, unsorted.Validate(), "clip order is not part of the validation contract")

	var a, b bytes.Buffer
	require.NoError(t, export.WriteSMF(&a, sorted))
	require.NoError(t, export.WriteSMF(&b, unsorted))
	assert.Equal(t, a.Bytes(), b.Bytes(), "boundary events are emitted in time order regardless of storage order")
}

func TestWriteSMFRejectsInvalid(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	err := export.WriteSMF(&buf, takt.Arrangement{})
	require.Error(t, err)
	assert.Zero(t, buf.Len())
}
