package takt

import (
	"math"
	"sort"

	"github.com/fogleman/ease"
)

type (
	// EnvelopeKind is the semantic kind of an automation lane. It determines
	// the domain in which values are interpolated: volume lanes interpolate
	// in a perceptual loudness domain, everything else in raw value space.
	EnvelopeKind string

	// CurveShape selects how the interpolation parameter is eased between a
	// node and its successor. The empty string means linear.
	CurveShape string

	// AutomationNode is a single breakpoint of an automation lane. Shape
	// applies to the segment from this node to the next one.
	AutomationNode struct {
		Position Position   `yaml:"position"`
		Value    float64    `yaml:"value"`
		Shape    CurveShape `yaml:"shape,omitempty"`
	}

	// AutomationLane is an ordered-by-position set of nodes with a value
	// domain [Min, Max]. Nodes are assumed sorted by position without
	// duplicates; that is the caller's contract.
	AutomationLane struct {
		Kind  EnvelopeKind     `yaml:"kind"`
		Min   float64          `yaml:"min"`
		Max   float64          `yaml:"max"`
		Nodes []AutomationNode `yaml:"nodes,omitempty"`
	}
)

const (
	VolumeEnvelope  EnvelopeKind = "volume"
	PanEnvelope     EnvelopeKind = "pan"
	TempoEnvelope   EnvelopeKind = "tempo"
	GenericEnvelope EnvelopeKind = "generic"
)

const (
	ShapeLinear    CurveShape = "linear"
	ShapeInQuad    CurveShape = "inquad"
	ShapeOutQuad   CurveShape = "outquad"
	ShapeInOutQuad CurveShape = "inoutquad"
	ShapeInSine    CurveShape = "insine"
	ShapeOutSine   CurveShape = "outsine"
	ShapeInOutSine CurveShape = "inoutsine"
	ShapeInExpo    CurveShape = "inexpo"
	ShapeOutExpo   CurveShape = "outexpo"
)

var curveFuncs = map[CurveShape]func(float64) float64{
	ShapeLinear:    ease.Linear,
	ShapeInQuad:    ease.InQuad,
	ShapeOutQuad:   ease.OutQuad,
	ShapeInOutQuad: ease.InOutQuad,
	ShapeInSine:    ease.InSine,
	ShapeOutSine:   ease.OutSine,
	ShapeInOutSine: ease.InOutSine,
	ShapeInExpo:    ease.InExpo,
	ShapeOutExpo:   ease.OutExpo,
}

// volumeLogScale and volumeUnityGain encode the fixed perceptual loudness
// curve used by volume faders and volume automation. They must stay exactly
// as is for round-trip fidelity with existing projects.
const (
	volumeLogScale  = 48.0236
	volumeUnityGain = 0.75
)

// NormalizedToVolume maps a normalized fader value to a volume multiplier.
func NormalizedToVolume(n float64) float64 {
	return math.Pow(10, n/volumeLogScale) * volumeUnityGain
}

// VolumeToNormalized is the inverse of NormalizedToVolume.
func VolumeToNormalized(v float64) float64 {
	return volumeLogScale * math.Log10(v/volumeUnityGain)
}

// Copy makes a deep copy of an AutomationLane.
func (l AutomationLane) Copy() AutomationLane {
	nodes := make([]AutomationNode, len(l.Nodes))
	copy(nodes, l.Nodes)
	return AutomationLane{Kind: l.Kind, Min: l.Min, Max: l.Max, Nodes: nodes}
}

// ValueAt evaluates the lane at the given position. With fewer than two
// nodes there is no automation value and the second return is false; the
// caller should fall back to the track's static parameter value. Positions
// at or outside the first/last node hold that node's value; in between, the
// bracketing nodes are interpolated in the domain appropriate to the lane's
// envelope kind.
func (l AutomationLane) ValueAt(pos Position) (float64, bool) {
	if len(l.Nodes) < 2 {
		return 0, false
	}
	first, last := l.Nodes[0], l.Nodes[len(l.Nodes)-1]
	if !pos.After(first.Position) {
		return first.Value, true
	}
	if !pos.Before(last.Position) {
		return last.Value, true
	}
	// index of the first node strictly after pos; the bracketing pair is
	// then (i-1, i)
	i := sort.Search(len(l.Nodes), func(i int) bool {
		return l.Nodes[i].Position.After(pos)
	})
	a, b := l.Nodes[i-1], l.Nodes[i]
	t := (pos.Ticks() - a.Position.Ticks()) / (b.Position.Ticks() - a.Position.Ticks())
	if f, ok := curveFuncs[a.Shape]; ok {
		t = f(t)
	}
	// eased t can land exactly on an endpoint; return the node value directly
	// so the volume mix below never multiplies an infinity by zero
	if t <= 0 {
		return a.Value, true
	}
	if t >= 1 {
		return b.Value, true
	}
	if l.Kind == VolumeEnvelope {
		// a node at volume 0 normalizes to -Inf; the symmetric mix keeps the
		// result at -Inf (volume 0) there instead of producing NaN
		na, nb := VolumeToNormalized(a.Value), VolumeToNormalized(b.Value)
		return NormalizedToVolume(na*(1-t) + nb*t), true
	}
	if l.Max == l.Min {
		return a.Value, true
	}
	na := clampUnit((a.Value - l.Min) / (l.Max - l.Min))
	nb := clampUnit((b.Value - l.Min) / (l.Max - l.Min))
	return l.Min + (na+(nb-na)*t)*(l.Max-l.Min), true
}

// WithNode returns a copy of the lane with the node inserted at its sorted
// place. A node at exactly the same position is replaced, so the lane never
// accumulates duplicate positions.
func (l AutomationLane) WithNode(node AutomationNode) AutomationLane {
	out := l.Copy()
	i := sort.Search(len(out.Nodes), func(i int) bool {
		return !out.Nodes[i].Position.Before(node.Position)
	})
	if i < len(out.Nodes) && out.Nodes[i].Position.Equal(node.Position) {
		out.Nodes[i] = node
		return out
	}
	out.Nodes = append(out.Nodes, AutomationNode{})
	copy(out.Nodes[i+1:], out.Nodes[i:])
	out.Nodes[i] = node
	return out
}

// WithoutNode returns a copy of the lane with the node at the given position
// dropped, if present.
func (l AutomationLane) WithoutNode(pos Position) AutomationLane {
	out := AutomationLane{Kind: l.Kind, Min: l.Min, Max: l.Max}
	for _, n := range l.Nodes {
		if !n.Position.Equal(pos) {
			out.Nodes = append(out.Nodes, n)
		}
	}
	return out
}

// clampTo reclamps every node to the maximum position of the signature,
// dropping nodes that would collapse onto a clamped predecessor.
func (l AutomationLane) clampTo(sig TimeSignature) AutomationLane {
	out := AutomationLane{Kind: l.Kind, Min: l.Min, Max: l.Max}
	for _, n := range l.Nodes {
		n.Position = n.Position.Clamp(sig)
		if k := len(out.Nodes); k > 0 && !n.Position.After(out.Nodes[k-1].Position) {
			out.Nodes[k-1] = n
			continue
		}
		out.Nodes = append(out.Nodes, n)
	}
	return out
}

func clampUnit(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
