package engine

import (
	"errors"
	"io"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"spherefx/internal/logger"
	"spherefx/pkg/config"
	"spherefx/pkg/effects/effectstest"
)

func newTestSketch(t *testing.T) (*Sketch, *effectstest.Recorder) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Scene.Seed = 42
	rec := effectstest.New()
	s, err := NewSketch(cfg, rec, logger.New(io.Discard, "error"))
	if err != nil {
		t.Fatalf("NewSketch: %v", err)
	}
	return s, rec
}

func TestSketchInitialState(t *testing.T) {
	s, rec := newTestSketch(t)

	if s.Camera.Aspect != 1280.0/720.0 {
		t.Fatalf("aspect = %v", s.Camera.Aspect)
	}
	if s.Camera.Position != (mgl64.Vec3{0, 0, 400}) {
		t.Fatalf("camera position = %v", s.Camera.Position)
	}
	if rec.Width != 1280 || rec.Height != 720 {
		t.Fatalf("renderer size = %dx%d", rec.Width, rec.Height)
	}
	if got := s.Settings(); got != config.DefaultSettings() {
		t.Fatalf("settings = %+v", got)
	}
	if s.Chain.Glitch.Enabled() {
		t.Fatalf("glitch enabled by default")
	}
}

func TestSketchResize(t *testing.T) {
	s, rec := newTestSketch(t)

	if !s.Resize(1920, 1080) {
		t.Fatalf("resize rejected")
	}
	if s.Camera.Aspect != 1920.0/1080.0 {
		t.Fatalf("aspect = %v, want %v", s.Camera.Aspect, 1920.0/1080.0)
	}
	want := mgl32.Perspective(mgl32.DegToRad(70), float32(1920.0/1080.0), 1, 1000)
	if s.Camera.Projection() != want {
		t.Fatalf("projection not updated")
	}
	if rec.Width != 1920 || rec.Height != 1080 {
		t.Fatalf("renderer size = %dx%d", rec.Width, rec.Height)
	}
	for _, target := range rec.Targets {
		if w, h := target.Size(); w != 1920 || h != 1080 {
			t.Fatalf("target %d = %dx%d", target.ID, w, h)
		}
	}
	if got := s.Chain.Dot.Uniforms["resolution"]; got != (mgl32.Vec2{1920, 1080}) {
		t.Fatalf("dot resolution = %v", got)
	}
	if vp := s.Viewport(); vp.Width != 1920 || vp.Height != 1080 {
		t.Fatalf("viewport = %+v", vp)
	}
}

func TestSketchResizeIgnoresZero(t *testing.T) {
	s, rec := newTestSketch(t)

	for _, size := range [][2]int{{0, 500}, {500, 0}, {0, 0}} {
		if s.Resize(size[0], size[1]) {
			t.Fatalf("resize %v accepted", size)
		}
	}
	if s.Camera.Aspect != 1280.0/720.0 || rec.Width != 1280 {
		t.Fatalf("zero resize changed state: aspect=%v width=%d", s.Camera.Aspect, rec.Width)
	}
}

func TestSketchFrame(t *testing.T) {
	s, rec := newTestSketch(t)

	for i := 0; i < 10; i++ {
		before := s.Scene.Node(s.Object).Transform.Rotation
		rec.Reset()
		s.Frame()

		after := s.Scene.Node(s.Object).Transform.Rotation
		d := after.Sub(before)
		if math.Abs(d[0]-0.005) > 1e-12 || math.Abs(d[1]-0.01) > 1e-12 || d[2] != 0 {
			t.Fatalf("frame %d rotation delta = %v", i, d)
		}
		// glitch is off by default: render, dot, rgb
		if len(rec.Calls) != 3 || rec.Calls[2].Dst != effectstest.Screen {
			t.Fatalf("frame %d calls = %v", i, rec.Calls)
		}
	}
	if math.Abs(s.Time()-0.5) > 1e-12 {
		t.Fatalf("time = %v, want 0.5", s.Time())
	}
}

func TestSketchPanelScaleLeavesOthers(t *testing.T) {
	s, _ := newTestSketch(t)

	c := s.Panel.Controller("Dot", "scale")
	if c == nil {
		t.Fatalf("no Dot/scale controller")
	}
	c.SetNumber(5)

	if got := s.Chain.Dot.Uniforms.Float("scale"); got != 5 {
		t.Fatalf("dot scale uniform = %v", got)
	}
	if got := s.Chain.Dot.Uniforms.Float("limit"); got != 100 {
		t.Fatalf("dot limit uniform changed to %v", got)
	}
	if got := s.Chain.RGBShift.Uniforms.Float("amount"); got != float32(0.0015) {
		t.Fatalf("shift amount changed to %v", got)
	}
	if got := s.Settings(); got.Scale != 5 || got.Limit != 100 || got.Amount != 0.0015 {
		t.Fatalf("settings = %+v", got)
	}
}

func TestSketchPanelRanges(t *testing.T) {
	s, _ := newTestSketch(t)

	s.Panel.Controller("Dot", "limit").SetNumber(1000)
	s.Panel.Controller("Dot", "amount").SetNumber(-1)

	if got := s.Chain.Dot.Uniforms.Float("limit"); got != 300 {
		t.Fatalf("limit uniform = %v, want clamp to 300", got)
	}
	if got := s.Chain.RGBShift.Uniforms.Float("amount"); got != 0 {
		t.Fatalf("amount uniform = %v, want clamp to 0", got)
	}
}

func TestSketchPanelGlitchToggles(t *testing.T) {
	s, rec := newTestSketch(t)

	s.Panel.Controller("Glitch", "enabled").SetBool(true)
	s.Panel.Controller("Glitch", "wild").SetBool(true)
	if !s.Chain.Glitch.Enabled() || !s.Chain.Glitch.Wild() {
		t.Fatalf("glitch flags not pushed")
	}

	rec.Reset()
	s.Frame()
	if len(rec.Calls) != 4 || rec.Calls[1].Shader != "digital-glitch" {
		t.Fatalf("calls = %v", rec.Calls)
	}
	if byp := rec.Calls[1].Uniforms.Int("byp"); byp != 0 {
		t.Fatalf("wild frame bypassed")
	}
}

func TestSketchPointerMove(t *testing.T) {
	s, _ := newTestSketch(t)

	tests := []struct {
		x, y float64
		want mgl64.Vec2
	}{
		{0, 0, mgl64.Vec2{-0.5, -0.5}},
		{640, 360, mgl64.Vec2{0, 0}},
		{1280, 720, mgl64.Vec2{0.5, 0.5}},
		{-200, 5000, mgl64.Vec2{-0.5, 0.5}},
	}
	for _, tt := range tests {
		s.PointerMove(tt.x, tt.y, 1280, 720)
		if got := s.Mouse(); !got.ApproxEqual(tt.want) {
			t.Errorf("PointerMove(%v, %v) mouse = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestSketchDragAndScroll(t *testing.T) {
	s, _ := newTestSketch(t)

	s.Drag(100, 50)
	if d := s.Orbit.Distance(); math.Abs(d-400) > 1e-9 {
		t.Fatalf("distance after drag = %v", d)
	}
	s.Scroll(2)
	if d := s.Orbit.Distance(); math.Abs(d-400*0.95*0.95) > 1e-9 {
		t.Fatalf("distance after scroll = %v", d)
	}
}

func TestNewSketchRejectsEmptyWindow(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Window.Width = 0
	_, err := NewSketch(cfg, effectstest.New(), logger.New(io.Discard, "error"))
	if !errors.Is(err, config.ErrInvalidWindow) {
		t.Fatalf("err = %v, want ErrInvalidWindow", err)
	}
}
