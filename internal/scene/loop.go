package scene

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"time"
)

// DrawCall is one object's resolved transform for a frame.
type DrawCall struct {
	ObjectID uint64  `json:"object_id"`
	Kind     string  `json:"kind"`
	Layer    string  `json:"layer"`
	Position Vec3    `json:"position"`
	End      Vec3    `json:"end,omitempty"`
	Radius   float64 `json:"radius"`
	Scale    float64 `json:"scale"`
	Opacity  float64 `json:"opacity"`
	Color    string  `json:"color"`
}

// Frame is one tick of the render loop.
type Frame struct {
	Tick      int64      `json:"tick"`
	Elapsed   float64    `json:"elapsed"` // seconds since loop start
	RotationY float64    `json:"rotation_y"`
	Draws     []DrawCall `json:"draws"`
}

// LoopOptions tune the render loop's choreography.
type LoopOptions struct {
	FrameRate     int     // ticks per second, default 30
	RotationSpeed float64 // radians per second of whole-scene Y rotation
	HeartRate     float64 // bpm driving the vessel pulse, default 72
	OnFrame       func(Frame)
}

// Loop drives a scene: each tick it rotates the scene, applies the
// sinusoidal pulse to pulse-tagged objects, oscillates tumor opacity, and
// emits the resulting draw calls. The loop runs until its context is
// cancelled or Stop is called; after that no frame is ever emitted again.
type Loop struct {
	scene *Scene
	opts  LoopOptions

	stopOnce sync.Once
	stopped  chan struct{}
	running  atomic.Bool
	ticks    atomic.Int64
}

// NewLoop wires a loop to a scene. A nil scene (viewport no-op) yields a nil
// loop; Run and Stop on a nil loop are safe no-ops.
func NewLoop(s *Scene, opts LoopOptions) *Loop {
	if s == nil {
		return nil
	}
	if opts.FrameRate <= 0 {
		opts.FrameRate = 30
	}
	if opts.HeartRate <= 0 {
		opts.HeartRate = 72
	}

	return &Loop{
		scene:   s,
		opts:    opts,
		stopped: make(chan struct{}),
	}
}

// Run blocks, ticking the scene until ctx is cancelled or Stop is called.
func (l *Loop) Run(ctx context.Context) {
	if l == nil {
		return
	}
	if !l.running.CompareAndSwap(false, true) {
		return
	}
	defer l.running.Store(false)

	interval := time.Second / time.Duration(l.opts.FrameRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case <-l.stopped:
			return
		case <-ticker.C:
			// Re-check stop so a frame never fires after Stop returns
			// observable effects to the caller.
			select {
			case <-l.stopped:
				return
			default:
			}
			l.tick(time.Since(start).Seconds())
		}
	}
}

// Stop halts the loop. Idempotent; safe from any goroutine and on a nil
// loop.
func (l *Loop) Stop() {
	if l == nil {
		return
	}
	l.stopOnce.Do(func() { close(l.stopped) })
}

// Stopped reports whether Stop has been called.
func (l *Loop) Stopped() bool {
	if l == nil {
		return true
	}
	select {
	case <-l.stopped:
		return true
	default:
		return false
	}
}

// Ticks returns the number of frames emitted so far.
func (l *Loop) Ticks() int64 {
	if l == nil {
		return 0
	}
	return l.ticks.Load()
}

func (l *Loop) tick(elapsed float64) {
	frame := l.Advance(elapsed)
	l.ticks.Add(1)
	if l.opts.OnFrame != nil {
		l.opts.OnFrame(frame)
	}
}

// Advance computes the frame for a point in time without scheduling. The
// render loop calls it every tick; tests call it directly.
func (l *Loop) Advance(elapsed float64) Frame {
	s := l.scene
	s.mu.Lock()
	defer s.mu.Unlock()

	s.RotationY = math.Mod(l.opts.RotationSpeed*elapsed, 2*math.Pi)

	// Heart-rate pulse: one full scale cycle per beat.
	beat := 2 * math.Pi * l.opts.HeartRate / 60
	pulseScale := 1 + 0.08*math.Sin(beat*elapsed)

	draws := make([]DrawCall, 0, len(s.Objects))
	for _, obj := range s.Objects {
		if s.hiddenLayers[obj.Layer] {
			continue
		}

		scale := obj.Scale
		if obj.Pulse {
			scale *= pulseScale
		}

		opacity := obj.Opacity
		if obj.Layer == LayerTumor {
			opacity *= 0.85 + 0.15*math.Sin(0.5*elapsed)
		}

		draws = append(draws, DrawCall{
			ObjectID: obj.ID,
			Kind:     obj.Kind,
			Layer:    obj.Layer,
			Position: rotateY(obj.Position, s.RotationY),
			End:      rotateY(obj.End, s.RotationY),
			Radius:   obj.Radius,
			Scale:    scale,
			Opacity:  opacity,
			Color:    obj.Color,
		})
	}

	return Frame{
		Tick:      l.ticks.Load(),
		Elapsed:   elapsed,
		RotationY: s.RotationY,
		Draws:     draws,
	}
}

func rotateY(v Vec3, angle float64) Vec3 {
	sin, cos := math.Sincos(angle)
	return Vec3{
		X: v.X*cos + v.Z*sin,
		Y: v.Y,
		Z: -v.X*sin + v.Z*cos,
	}
}
