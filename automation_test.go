package takt_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/norppa/takt"
)

func genericLane(nodes ...takt.AutomationNode) takt.AutomationLane {
	return takt.AutomationLane{Kind: takt.GenericEnvelope, Min: 0, Max: 1, Nodes: nodes}
}

func node(ticks, value float64) takt.AutomationNode {
	return takt.AutomationNode{Position: takt.FromTicks(ticks), Value: value}
}

func TestValueAtNeedsTwoNodes(t *testing.T) {
	t.Parallel()
	_, ok := genericLane().ValueAt(beats(1))
	assert.False(t, ok)
	_, ok = genericLane(node(0, 0.5)).ValueAt(beats(1))
	assert.False(t, ok, "a single node is not automation; callers fall back to the static value")
}

func TestValueAtHoldsEnds(t *testing.T) {
	t.Parallel()
	lane := genericLane(node(480, 0.25), node(960, 0.75))
	for _, ticks := range []float64{0, 479, 480} {
		v, ok := lane.ValueAt(takt.FromTicks(ticks))
		require.True(t, ok)
		assert.Equal(t, 0.25, v, "at %v", ticks)
	}
	for _, ticks := range []float64{960, 961, 99999} {
		v, ok := lane.ValueAt(takt.FromTicks(ticks))
		require.True(t, ok)
		assert.Equal(t, 0.75, v, "at %v", ticks)
	}
}

func TestValueAtExactNodePositions(t *testing.T) {
	t.Parallel()
	lane := genericLane(node(0, 0.1), node(480, 0.9), node(960, 0.4))
	for _, n := range lane.Nodes {
		v, ok := lane.ValueAt(n.Position)
		require.True(t, ok)
		assert.InDelta(t, n.Value, v, 1e-12)
	}
}

func TestValueAtLinearInterpolation(t *testing.T) {
	t.Parallel()
	lane := genericLane(node(0, 0), node(960, 1))
	v, ok := lane.ValueAt(takt.FromTicks(240))
	require.True(t, ok)
	assert.InDelta(t, 0.25, v, 1e-12)

	// values outside the lane domain clamp before interpolating
	wild := genericLane(node(0, -1), node(960, 2))
	v, ok = wild.ValueAt(takt.FromTicks(480))
	require.True(t, ok)
	assert.InDelta(t, 0.5, v, 1e-12)
}

func TestValueAtRespectsLaneDomain(t *testing.T) {
	t.Parallel()
	lane := takt.AutomationLane{
		Kind: takt.PanEnvelope, Min: -1, Max: 1,
		Nodes: []takt.AutomationNode{node(0, -1), node(960, 1)},
	}
	v, ok := lane.ValueAt(takt.FromTicks(480))
	require.True(t, ok)
	assert.InDelta(t, 0.0, v, 1e-12)
}

func TestValueAtVolumeInterpolatesPerceptually(t *testing.T) {
	t.Parallel()
	lane := takt.AutomationLane{
		Kind: takt.VolumeEnvelope, Min: 0, Max: 1,
		Nodes: []takt.AutomationNode{node(0, 0.75), node(960, 0.375)},
	}
	v, ok := lane.ValueAt(takt.FromTicks(480))
	require.True(t, ok)
	mean := (takt.VolumeToNormalized(0.75) + takt.VolumeToNormalized(0.375)) / 2
	assert.InDelta(t, mean, takt.VolumeToNormalized(v), 1e-9,
		"the midpoint is the arithmetic mean in the normalized domain")
	assert.Less(t, v, (0.75+0.375)/2, "perceptual interpolation dips below the raw mean")
}

func TestValueAtVolumeFadeFromSilence(t *testing.T) {
	t.Parallel()
	fadeIn := takt.AutomationLane{
		Kind: takt.VolumeEnvelope, Min: 0, Max: 1,
		Nodes: []takt.AutomationNode{node(0, 0), node(960, 0.75)},
	}
	for _, ticks := range []float64{1, 480, 959} {
		v, ok := fadeIn.ValueAt(takt.FromTicks(ticks))
		require.True(t, ok)
		require.False(t, math.IsNaN(v), "at %v", ticks)
		assert.Equal(t, 0.0, v, "any mix with silence stays silent, at %v", ticks)
	}
	v, ok := fadeIn.ValueAt(takt.FromTicks(960))
	require.True(t, ok)
	assert.Equal(t, 0.75, v)

	fadeOut := takt.AutomationLane{
		Kind: takt.VolumeEnvelope, Min: 0, Max: 1,
		Nodes: []takt.AutomationNode{node(0, 0.75), node(960, 0)},
	}
	v, ok = fadeOut.ValueAt(takt.FromTicks(480))
	require.True(t, ok)
	require.False(t, math.IsNaN(v))
	assert.Equal(t, 0.0, v)
	v, ok = fadeOut.ValueAt(takt.FromTicks(0))
	require.True(t, ok)
	assert.Equal(t, 0.75, v)
}

func TestValueAtDegenerateDomain(t *testing.T) {
	t.Parallel()
	flat := takt.AutomationLane{
		Kind: takt.GenericEnvelope, Min: 0.5, Max: 0.5,
		Nodes: []takt.AutomationNode{node(0, 0.5), node(960, 0.5)},
	}
	v, ok := flat.ValueAt(takt.FromTicks(480))
	require.True(t, ok)
	require.False(t, math.IsNaN(v), "a collapsed domain never divides by zero")
	assert.Equal(t, 0.5, v)
}

func TestVolumeTransformRoundTrip(t *testing.T) {
	t.Parallel()
	for x := 0.0; x <= 1.0; x += 0.125 {
		assert.InDelta(t, x, takt.VolumeToNormalized(takt.NormalizedToVolume(x)), 1e-9)
	}
	// unity gain sits at 0.75 by construction
	assert.InDelta(t, 0.75, takt.NormalizedToVolume(0), 1e-12)
	assert.True(t, math.IsInf(takt.VolumeToNormalized(0), -1), "silence maps to negative infinity")
}

func TestValueAtCurveShapes(t *testing.T) {
	t.Parallel()
	a := node(0, 0)
	a.Shape = takt.ShapeOutQuad
	lane := genericLane(a, node(960, 1))
	v, ok := lane.ValueAt(takt.FromTicks(480))
	require.True(t, ok)
	assert.InDelta(t, 0.75, v, 1e-12, "OutQuad at t=0.5")

	a.Shape = "no-such-shape"
	lane = genericLane(a, node(960, 1))
	v, ok = lane.ValueAt(takt.FromTicks(480))
	require.True(t, ok)
	assert.InDelta(t, 0.5, v, 1e-12, "unknown shapes fall back to linear")
}

func TestLaneWithNode(t *testing.T) {
	t.Parallel()
	lane := genericLane(node(0, 0), node(960, 1))
	got := lane.WithNode(node(480, 0.5))
	require.Len(t, got.Nodes, 3)
	assert.Equal(t, 480.0, got.Nodes[1].Position.Ticks())
	assert.Len(t, lane.Nodes, 2, "the original lane is untouched")

	replaced := got.WithNode(node(480, 0.9))
	require.Len(t, replaced.Nodes, 3, "a node at the same position replaces, never duplicates")
	assert.Equal(t, 0.9, replaced.Nodes[1].Value)

	appended := got.WithNode(node(2000, 0.1))
	assert.Equal(t, 2000.0, appended.Nodes[len(appended.Nodes)-1].Position.Ticks())
}

func TestLaneWithoutNode(t *testing.T) {
	t.Parallel()
	lane := genericLane(node(0, 0), node(480, 0.5), node(960, 1))
	got := lane.WithoutNode(takt.FromTicks(480))
	require.Len(t, got.Nodes, 2)
	got = got.WithoutNode(takt.FromTicks(123))
	assert.Len(t, got.Nodes, 2, "removing a missing node is a no-op")
}
