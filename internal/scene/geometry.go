package scene

import (
	"math"
	"math/rand"
	"time"

	"github.com/surgical-vision/scan-service/internal/models"
)

// Vessel placement is randomized at construction time with no seed control,
// so two viewers of the same scan draw different vessel trees. That is a
// property of the demo, not something to stabilize.
var geomRand = rand.New(rand.NewSource(time.Now().UnixNano()))

// BuildModel constructs the primitive meshes approximating anatomy for a
// scan. Sphere masses for brain and tumor, tubes for vessels, cylinders for
// bone on xray. Object IDs are assigned when the meshes join a scene.
func BuildModel(scanType, riskLevel string) []*Object {
	return buildModel(scanType, riskLevel, geomRand)
}

// BuildModelSeeded is BuildModel with a caller-supplied source, used where a
// reproducible layout is needed.
func BuildModelSeeded(scanType, riskLevel string, rng *rand.Rand) []*Object {
	return buildModel(scanType, riskLevel, rng)
}

func buildModel(scanType, riskLevel string, rng *rand.Rand) []*Object {
	var objects []*Object

	switch scanType {
	case models.ScanTypeXRay:
		objects = append(objects, boneColumn()...)
	default:
		objects = append(objects, brainMass()...)
	}

	objects = append(objects, vesselTree(rng)...)

	if riskLevel == models.RiskHigh || riskLevel == models.RiskMedium {
		objects = append(objects, tumorMass(riskLevel, rng))
	}

	return objects
}

// brainMass is two overlapping hemispheres plus a brainstem cylinder.
func brainMass() []*Object {
	return []*Object{
		{Kind: KindSphere, Layer: LayerAnatomy, Position: Vec3{-0.35, 0.1, 0}, Radius: 0.9, Color: "#d8a8a0", Opacity: 0.85},
		{Kind: KindSphere, Layer: LayerAnatomy, Position: Vec3{0.35, 0.1, 0}, Radius: 0.9, Color: "#d8a8a0", Opacity: 0.85},
		{Kind: KindCylinder, Layer: LayerAnatomy, Position: Vec3{0, -0.7, 0}, End: Vec3{0, -1.4, 0}, Radius: 0.25, Color: "#c89890", Opacity: 0.9},
	}
}

// boneColumn approximates a long bone with cylinders and joint spheres.
func boneColumn() []*Object {
	return []*Object{
		{Kind: KindCylinder, Layer: LayerBone, Position: Vec3{0, 1.2, 0}, End: Vec3{0, -1.2, 0}, Radius: 0.22, Color: "#e8e0d0", Opacity: 0.95},
		{Kind: KindSphere, Layer: LayerBone, Position: Vec3{0, 1.35, 0}, Radius: 0.35, Color: "#e8e0d0", Opacity: 0.95},
		{Kind: KindSphere, Layer: LayerBone, Position: Vec3{0, -1.35, 0}, Radius: 0.35, Color: "#e8e0d0", Opacity: 0.95},
	}
}

// vesselTree draws six pulsing tubes branching from fixed anchor points
// with randomized endpoints.
func vesselTree(rng *rand.Rand) []*Object {
	anchors := []Vec3{
		{0, -0.4, 0.3},
		{-0.3, 0.2, 0.4},
		{0.3, 0.2, 0.4},
	}

	objects := make([]*Object, 0, 6)
	for _, anchor := range anchors {
		for i := 0; i < 2; i++ {
			end := Vec3{
				anchor.X + (rng.Float64()-0.5)*1.2,
				anchor.Y + (rng.Float64()-0.5)*1.2,
				anchor.Z + rng.Float64()*0.5,
			}
			objects = append(objects, &Object{
				Kind:     KindTube,
				Layer:    LayerVessels,
				Position: anchor,
				End:      end,
				Radius:   0.04 + rng.Float64()*0.03,
				Color:    "#c03030",
				Opacity:  0.9,
				Pulse:    true,
			})
		}
	}
	return objects
}

// tumorMass is one sphere offset into the right hemisphere; size grows with
// risk.
func tumorMass(riskLevel string, rng *rand.Rand) *Object {
	radius := 0.18
	if riskLevel == models.RiskHigh {
		radius = 0.3
	}

	angle := rng.Float64() * 2 * math.Pi
	return &Object{
		Kind:     KindSphere,
		Layer:    LayerTumor,
		Position: Vec3{0.4 + 0.15*math.Cos(angle), 0.15 * math.Sin(angle), 0.2},
		Radius:   radius,
		Color:    "#e0d030",
		Opacity:  0.75,
		Pulse:    riskLevel == models.RiskHigh,
	}
}

// NewMarker builds the small sphere dropped where an annotation lands.
func NewMarker(position Vec3, severity string) *Object {
	color := "#40a0ff"
	switch severity {
	case models.SeverityWarning:
		color = "#ffb020"
	case models.SeverityCritical:
		color = "#ff3030"
	}

	return &Object{
		Kind:     KindSphere,
		Layer:    LayerMarkers,
		Position: position,
		Radius:   0.06,
		Color:    color,
		Opacity:  1,
	}
}
