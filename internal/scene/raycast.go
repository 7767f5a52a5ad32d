package scene

import (
	"math"
)

// Ray in scene space.
type Ray struct {
	Origin Vec3
	Dir    Vec3 // unit length
}

// Normalize2D maps pixel coordinates to [0,1] canvas-relative space.
// Returns ok=false for a degenerate canvas or a point outside it.
func Normalize2D(px, py, width, height float64) (u, v float64, ok bool) {
	if width <= 0 || height <= 0 {
		return 0, 0, false
	}
	u = px / width
	v = py / height
	if u < 0 || u > 1 || v < 0 || v > 1 {
		return 0, 0, false
	}
	return u, v, true
}

// CameraRay builds the picking ray through canvas-relative (u,v), with
// (0,0) the top-left corner.
func (s *Scene) CameraRay(u, v float64) Ray {
	s.mu.Lock()
	cam := s.Camera
	s.mu.Unlock()

	// NDC in [-1,1], y up.
	ndcX := 2*u - 1
	ndcY := 1 - 2*v

	forward := cam.Target.Sub(cam.Position).Normalize()
	right := forward.Cross(Vec3{0, 1, 0}).Normalize()
	up := right.Cross(forward)

	halfH := math.Tan(cam.FOV * math.Pi / 360)
	halfW := halfH * cam.Aspect

	dir := forward.
		Add(right.Scale(ndcX * halfW)).
		Add(up.Scale(ndcY * halfH)).
		Normalize()

	return Ray{Origin: cam.Position, Dir: dir}
}

// PickObject casts a ray through the click point and returns the nearest
// intersected visible object and the hit position. Markers are not pickable
// so an annotation never lands on another annotation's marker.
func (s *Scene) PickObject(u, v float64) (*Object, Vec3, bool) {
	ray := s.CameraRay(u, v)

	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		best     *Object
		bestT    = math.Inf(1)
		bestSpot Vec3
	)

	for _, obj := range s.Objects {
		if obj.Layer == LayerMarkers || s.hiddenLayers[obj.Layer] {
			continue
		}

		var t float64
		var hit bool
		switch obj.Kind {
		case KindSphere:
			t, hit = intersectSphere(ray, rotateY(obj.Position, s.RotationY), obj.Radius*obj.Scale)
		case KindCylinder, KindTube:
			t, hit = intersectCapsule(ray, rotateY(obj.Position, s.RotationY), rotateY(obj.End, s.RotationY), obj.Radius*obj.Scale)
		}
		if hit && t < bestT {
			best = obj
			bestT = t
			bestSpot = ray.Origin.Add(ray.Dir.Scale(t))
		}
	}

	if best == nil {
		return nil, Vec3{}, false
	}
	return best, bestSpot, true
}

// intersectSphere solves |o + t·d - c|² = r² for the nearest t ≥ 0.
func intersectSphere(ray Ray, center Vec3, radius float64) (float64, bool) {
	oc := ray.Origin.Sub(center)
	b := oc.Dot(ray.Dir)
	c := oc.Dot(oc) - radius*radius

	disc := b*b - c
	if disc < 0 {
		return 0, false
	}

	sqrt := math.Sqrt(disc)
	t := -b - sqrt
	if t < 0 {
		t = -b + sqrt
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

// intersectCapsule treats a tube or cylinder as a capsule from a to b and
// reports the ray parameter at the closest approach when the ray passes
// within the radius. An approximation, fine for click targets.
func intersectCapsule(ray Ray, a, b Vec3, radius float64) (float64, bool) {
	// Closest points between the ray (origin + t·dir, t ≥ 0) and the
	// segment (a + s·(b-a), s ∈ [0,1]).
	seg := b.Sub(a)
	w := ray.Origin.Sub(a)

	aa := ray.Dir.Dot(ray.Dir)
	bb := ray.Dir.Dot(seg)
	cc := seg.Dot(seg)
	dd := ray.Dir.Dot(w)
	ee := seg.Dot(w)

	denom := aa*cc - bb*bb

	var t, sgm float64
	if denom < 1e-12 {
		// Parallel: fix s at the segment start.
		sgm = 0
		t = -dd / aa
	} else {
		sgm = (aa*ee - bb*dd) / denom
		sgm = math.Max(0, math.Min(1, sgm))
		t = (bb*sgm - dd) / aa
	}
	if t < 0 {
		t = 0
	}

	onRay := ray.Origin.Add(ray.Dir.Scale(t))
	onSeg := a.Add(seg.Scale(sgm))
	if onRay.Sub(onSeg).Length() > radius {
		return 0, false
	}
	return t, true
}
