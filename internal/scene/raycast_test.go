package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surgical-vision/scan-service/internal/models"
)

// emptyScene builds a scene with no model so tests control the contents.
func emptyScene(t *testing.T) *Scene {
	t.Helper()
	s := NewScene(800, 800, testCTScan(models.RiskLow))
	require.NotNil(t, s)
	for _, obj := range s.Describe().Objects {
		s.RemoveObject(obj.ID)
	}
	require.Equal(t, 0, s.ObjectCount())
	return s
}

func TestNormalize2D(t *testing.T) {
	u, v, ok := Normalize2D(400, 150, 800, 600)
	require.True(t, ok)
	assert.Equal(t, 0.5, u)
	assert.Equal(t, 0.25, v)

	_, _, ok = Normalize2D(900, 100, 800, 600)
	assert.False(t, ok)

	_, _, ok = Normalize2D(10, 10, 0, 0)
	assert.False(t, ok)
}

func TestCameraRayCenterPointsAtTarget(t *testing.T) {
	s := emptyScene(t)

	ray := s.CameraRay(0.5, 0.5)
	assert.InDelta(t, 0, ray.Dir.X, 1e-9)
	assert.InDelta(t, 0, ray.Dir.Y, 1e-9)
	assert.InDelta(t, -1, ray.Dir.Z, 1e-9)
}

func TestPickObjectCenteredSphere(t *testing.T) {
	s := emptyScene(t)
	id := s.AddObject(&Object{Kind: KindSphere, Layer: LayerAnatomy, Position: Vec3{0, 0, 0}, Radius: 0.5})

	obj, hit, ok := s.PickObject(0.5, 0.5)
	require.True(t, ok)
	assert.Equal(t, id, obj.ID)

	// Hit lands on the near surface of the sphere
	assert.InDelta(t, 0.5, hit.Z, 1e-9)
}

func TestPickObjectNearestWins(t *testing.T) {
	s := emptyScene(t)
	s.AddObject(&Object{Kind: KindSphere, Layer: LayerAnatomy, Position: Vec3{0, 0, -2}, Radius: 0.5})
	near := s.AddObject(&Object{Kind: KindSphere, Layer: LayerAnatomy, Position: Vec3{0, 0, 1}, Radius: 0.5})

	obj, _, ok := s.PickObject(0.5, 0.5)
	require.True(t, ok)
	assert.Equal(t, near, obj.ID)
}

func TestPickObjectMiss(t *testing.T) {
	s := emptyScene(t)
	s.AddObject(&Object{Kind: KindSphere, Layer: LayerAnatomy, Position: Vec3{0, 0, 0}, Radius: 0.1})

	_, _, ok := s.PickObject(0.05, 0.05)
	assert.False(t, ok)
}

func TestPickObjectTube(t *testing.T) {
	s := emptyScene(t)
	id := s.AddObject(&Object{
		Kind:     KindTube,
		Layer:    LayerVessels,
		Position: Vec3{-1, 0, 0},
		End:      Vec3{1, 0, 0},
		Radius:   0.2,
	})

	obj, _, ok := s.PickObject(0.5, 0.5)
	require.True(t, ok)
	assert.Equal(t, id, obj.ID)
}

func TestPickObjectIgnoresMarkersAndHiddenLayers(t *testing.T) {
	s := emptyScene(t)
	s.AddObject(NewMarker(Vec3{0, 0, 0}, models.SeverityInfo))

	_, _, ok := s.PickObject(0.5, 0.5)
	assert.False(t, ok, "markers are not pickable")

	s.AddObject(&Object{Kind: KindSphere, Layer: LayerTumor, Position: Vec3{0, 0, 0}, Radius: 0.5})
	s.SetLayerVisible(LayerTumor, false)

	_, _, ok = s.PickObject(0.5, 0.5)
	assert.False(t, ok, "hidden layers are not pickable")
}
