package scene

import (
	"math"

	"github.com/surgical-vision/scan-service/internal/models"
)

// Slice draw layers, in z-order.
const (
	SliceLayerBackground  = "background"
	SliceLayerTissue      = "tissue"
	SliceLayerVessels     = "vessels"
	SliceLayerTumor       = "tumor"
	SliceLayerBone        = "bone"
	SliceLayerAnnotations = "annotations"
)

// Draw op kinds.
const (
	OpFill    = "fill"
	OpEllipse = "ellipse"
	OpLine    = "line"
	OpMarker  = "marker"
)

// DrawOp is one 2D drawing instruction. Coordinates are canvas-relative in
// [0,1]; ellipses use RX/RY as radii, lines use X2/Y2 as the far endpoint.
type DrawOp struct {
	Layer string  `json:"layer"`
	Kind  string  `json:"kind"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	X2    float64 `json:"x2,omitempty"`
	Y2    float64 `json:"y2,omitempty"`
	RX    float64 `json:"rx,omitempty"`
	RY    float64 `json:"ry,omitempty"`
	Color string  `json:"color"`
}

// Overlays are the independent layer toggles of the slice viewer.
type Overlays struct {
	Vessels bool `json:"vessels"`
	Tumor   bool `json:"tumor"`
	Bone    bool `json:"bone"`
}

// RenderSlice produces the full draw-op list for one tomographic slice. It
// is a pure function of its inputs: the whole canvas is redrawn on every
// call, background first, then tissue, then enabled overlays in fixed
// z-order, then annotation markers whose slice index matches. Tissue radii
// follow sin(index/total·π) so slices shrink toward the volume's poles.
func RenderSlice(index, total int, overlays Overlays, annotations []models.Annotation) []DrawOp {
	ops := []DrawOp{
		{Layer: SliceLayerBackground, Kind: OpFill, Color: "#101418"},
	}

	if total <= 0 {
		return ops
	}
	if index < 0 {
		index = 0
	}
	if index >= total {
		index = total - 1
	}

	depth := float64(index) / float64(total)
	mod := math.Sin(depth * math.Pi)

	// Three concentric tissue boundaries.
	ops = append(ops,
		DrawOp{Layer: SliceLayerTissue, Kind: OpEllipse, X: 0.5, Y: 0.5, RX: 0.42 * mod, RY: 0.36 * mod, Color: "#d8a8a0"},
		DrawOp{Layer: SliceLayerTissue, Kind: OpEllipse, X: 0.5, Y: 0.5, RX: 0.30 * mod, RY: 0.26 * mod, Color: "#b88880"},
		DrawOp{Layer: SliceLayerTissue, Kind: OpEllipse, X: 0.5, Y: 0.52, RX: 0.12 * mod, RY: 0.08 * mod, Color: "#705850"},
	)

	if overlays.Vessels {
		ops = append(ops, vesselOps(depth, mod)...)
	}

	if overlays.Tumor {
		ops = append(ops, DrawOp{
			Layer: SliceLayerTumor,
			Kind:  OpEllipse,
			X:     0.62,
			Y:     0.45,
			RX:    0.07 * mod,
			RY:    0.06 * mod,
			Color: "#e0d030",
		})
	}

	if overlays.Bone {
		ops = append(ops,
			DrawOp{Layer: SliceLayerBone, Kind: OpEllipse, X: 0.5, Y: 0.5, RX: 0.46 * mod, RY: 0.40 * mod, Color: "#e8e0d0"},
			DrawOp{Layer: SliceLayerBone, Kind: OpEllipse, X: 0.5, Y: 0.5, RX: 0.44 * mod, RY: 0.38 * mod, Color: "#101418"},
		)
	}

	for _, a := range annotations {
		if a.SliceIndex != index {
			continue
		}
		ops = append(ops, DrawOp{
			Layer: SliceLayerAnnotations,
			Kind:  OpMarker,
			X:     a.X,
			Y:     a.Y,
			Color: markerColor(a.Severity),
		})
	}

	return ops
}

// vesselOps draws four vessel cross-section lines radiating from center,
// angles drifting with slice depth.
func vesselOps(depth, mod float64) []DrawOp {
	ops := make([]DrawOp, 0, 4)
	for i := 0; i < 4; i++ {
		angle := depth*math.Pi + float64(i)*math.Pi/2
		ops = append(ops, DrawOp{
			Layer: SliceLayerVessels,
			Kind:  OpLine,
			X:     0.5 + 0.08*math.Cos(angle),
			Y:     0.5 + 0.08*math.Sin(angle),
			X2:    0.5 + 0.3*mod*math.Cos(angle),
			Y2:    0.5 + 0.3*mod*math.Sin(angle),
			Color: "#c03030",
		})
	}
	return ops
}

func markerColor(severity string) string {
	switch severity {
	case models.SeverityWarning:
		return "#ffb020"
	case models.SeverityCritical:
		return "#ff3030"
	default:
		return "#40a0ff"
	}
}

// CountLayerOps returns how many ops in a draw list belong to a layer.
func CountLayerOps(ops []DrawOp, layer string) int {
	n := 0
	for _, op := range ops {
		if op.Layer == layer {
			n++
		}
	}
	return n
}
