// Package scene builds the procedural viewer scenes behind the Surgical
// Vision dashboard. A scene is plain data: primitive meshes, a camera and a
// lighting rig, plus a render loop that emits per-frame draw calls. Nothing
// here touches a GPU; clients consume the draw-call stream.
package scene

import (
	"math"
	"sync"

	"github.com/surgical-vision/scan-service/internal/models"
)

// Vec3 is a point or direction in normalized scene space.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Dot(o Vec3) float64   { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}
func (v Vec3) Length() float64 { return math.Sqrt(v.Dot(v)) }

func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Mesh kinds.
const (
	KindSphere   = "sphere"
	KindCylinder = "cylinder"
	KindTube     = "tube"
)

// Layer tags used for visibility toggling.
const (
	LayerAnatomy = "anatomy"
	LayerVessels = "vessels"
	LayerTumor   = "tumor"
	LayerBone    = "bone"
	LayerMarkers = "markers"
)

// Object is a primitive mesh in the scene. Spheres use Position and Radius;
// cylinders and tubes run from Position to End with the given Radius.
type Object struct {
	ID       uint64  `json:"id"`
	Kind     string  `json:"kind"`
	Layer    string  `json:"layer"`
	Position Vec3    `json:"position"`
	End      Vec3    `json:"end,omitempty"`
	Radius   float64 `json:"radius"`
	Color    string  `json:"color"`
	Opacity  float64 `json:"opacity"`
	Scale    float64 `json:"scale"`
	Pulse    bool    `json:"pulse"`
}

// Light is one element of the fixed lighting rig.
type Light struct {
	Kind      string  `json:"kind"` // ambient, directional, point
	Color     string  `json:"color"`
	Intensity float64 `json:"intensity"`
	Position  Vec3    `json:"position,omitempty"`
}

// Camera is a perspective camera looking at Target.
type Camera struct {
	Position Vec3    `json:"position"`
	Target   Vec3    `json:"target"`
	FOV      float64 `json:"fov"` // vertical, degrees
	Aspect   float64 `json:"aspect"`
}

// Scene holds everything a viewer renders. A Scene is owned by one render
// loop; other goroutines go through the mutex-guarded methods.
type Scene struct {
	mu sync.Mutex

	Width  int
	Height int

	Camera  Camera
	Lights  []Light
	Objects []*Object

	// Whole-scene rotation about Y, advanced by the render loop.
	RotationY float64

	hiddenLayers map[string]bool
	nextID       uint64
}

// NewScene bootstraps a viewer scene for the given scan. A viewport with no
// area yields nil: mounting nowhere is a silent no-op, not an error.
func NewScene(width, height int, scan models.Scan) *Scene {
	if width <= 0 || height <= 0 {
		return nil
	}

	s := &Scene{
		Width:  width,
		Height: height,
		Camera: Camera{
			Position: Vec3{0, 0, 5},
			Target:   Vec3{0, 0, 0},
			FOV:      45,
			Aspect:   float64(width) / float64(height),
		},
		Lights: []Light{
			{Kind: "ambient", Color: "#404040", Intensity: 0.6},
			{Kind: "directional", Color: "#ffffff", Intensity: 0.8, Position: Vec3{1, 1, 1}},
		},
		hiddenLayers: make(map[string]bool),
	}

	// High-risk scans get an extra point light to pick out the tumor mass.
	if scan.RiskLevel == models.RiskHigh {
		s.Lights = append(s.Lights, Light{Kind: "point", Color: "#ff6060", Intensity: 0.5, Position: Vec3{0, 2, 2}})
	}

	for _, obj := range BuildModel(scan.ScanType, scan.RiskLevel) {
		s.AddObject(obj)
	}

	return s
}

// AddObject assigns an ID and inserts the object.
func (s *Scene) AddObject(obj *Object) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	obj.ID = s.nextID
	if obj.Scale == 0 {
		obj.Scale = 1
	}
	if obj.Opacity == 0 {
		obj.Opacity = 1
	}
	s.Objects = append(s.Objects, obj)
	return obj.ID
}

// RemoveObject deletes the object with the given ID, reporting whether it
// was present.
func (s *Scene) RemoveObject(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, obj := range s.Objects {
		if obj.ID == id {
			s.Objects = append(s.Objects[:i], s.Objects[i+1:]...)
			return true
		}
	}
	return false
}

// SetLayerVisible toggles a layer. Hidden layers are skipped when frames
// are emitted; the objects stay in the scene.
func (s *Scene) SetLayerVisible(layer string, visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hiddenLayers[layer] = !visible
}

// LayerVisible reports whether a layer is currently drawn.
func (s *Scene) LayerVisible(layer string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.hiddenLayers[layer]
}

// ObjectCount returns the number of objects across all layers.
func (s *Scene) ObjectCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Objects)
}

// CountLayer returns the number of objects tagged with the given layer.
func (s *Scene) CountLayer(layer string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, obj := range s.Objects {
		if obj.Layer == layer {
			n++
		}
	}
	return n
}

// Description is the static scene payload served to viewer clients.
type Description struct {
	Width   int       `json:"width"`
	Height  int       `json:"height"`
	Camera  Camera    `json:"camera"`
	Lights  []Light   `json:"lights"`
	Objects []*Object `json:"objects"`
}

// Describe snapshots the scene for transport.
func (s *Scene) Describe() Description {
	s.mu.Lock()
	defer s.mu.Unlock()

	objects := make([]*Object, 0, len(s.Objects))
	for _, obj := range s.Objects {
		if s.hiddenLayers[obj.Layer] {
			continue
		}
		o := *obj
		objects = append(objects, &o)
	}

	return Description{
		Width:   s.Width,
		Height:  s.Height,
		Camera:  s.Camera,
		Lights:  s.Lights,
		Objects: objects,
	}
}
