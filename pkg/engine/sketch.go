package engine

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"spherefx/internal/logger"
	"spherefx/internal/util"
	"spherefx/pkg/config"
	"spherefx/pkg/effects"
	"spherefx/pkg/panel"
	"spherefx/pkg/scene"
)

// Viewport is the framebuffer size in pixels
type Viewport struct {
	Width  int
	Height int
}

// Sketch owns the animated scene, its effect chain and the tunable settings.
// It does not touch GL directly, so it runs against any effects.Renderer.
type Sketch struct {
	Scene  *scene.Scene
	Object scene.NodeID
	Camera *scene.Camera
	Orbit  *scene.OrbitControls
	Chain  *effects.Chain
	Panel  *panel.Panel

	cfg      *config.Config
	log      *logger.Logger
	renderer effects.Renderer
	settings config.Settings
	viewport Viewport
	mouse    mgl64.Vec2
	time     float64
}

// NewSketch builds the scene and the effect chain at the configured window size
func NewSketch(cfg *config.Config, r effects.Renderer, log *logger.Logger) (*Sketch, error) {
	w, h := cfg.Window.Width, cfg.Window.Height
	if w <= 0 || h <= 0 {
		return nil, config.ErrInvalidWindow
	}

	rng := util.NewRand(cfg.Scene.Seed)
	sc, object := scene.Build(cfg.Scene, rng)

	cam := scene.NewPerspectiveCamera(cfg.Camera.FOV, float64(w)/float64(h), cfg.Camera.Near, cfg.Camera.Far)
	cam.Position = mgl64.Vec3{0, 0, cfg.Camera.Distance}
	cam.Target = mgl64.Vec3{}

	r.SetSize(w, h)
	chain, err := effects.NewChain(r, sc, cam, effects.ChainOptions{
		Width:      w,
		Height:     h,
		GlitchSize: cfg.Glitch.DTSize,
		Rand:       rng,
		Settings:   cfg.Effects,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build effect chain: %w", err)
	}

	s := &Sketch{
		Scene:    sc,
		Object:   object,
		Camera:   cam,
		Orbit:    scene.NewOrbitControls(cam),
		Chain:    chain,
		cfg:      cfg,
		log:      log,
		renderer: r,
		settings: cfg.Effects,
		viewport: Viewport{Width: w, Height: h},
	}
	s.Panel = s.buildPanel(cfg.Panel.Title)

	log.Infof("Scene ready: %d spheres, %s", sc.CountKind(scene.KindMesh), chain)
	return s, nil
}

func (s *Sketch) buildPanel(title string) *panel.Panel {
	p := panel.New(title)

	dot := p.AddFolder("Dot")
	dot.AddNumber("scale", &s.settings.Scale, config.ScaleMin, config.ScaleMax, config.ScaleStep).
		OnChange(func(c *panel.Controller) { s.Chain.SetDotScale(c.Number()) })
	dot.AddNumber("limit", &s.settings.Limit, config.LimitMin, config.LimitMax, config.LimitStep).
		OnChange(func(c *panel.Controller) { s.Chain.SetDotLimit(c.Number()) })
	dot.AddNumber("amount", &s.settings.Amount, config.AmountMin, config.AmountMax, config.AmountStep).
		OnChange(func(c *panel.Controller) { s.Chain.SetShiftAmount(c.Number()) })

	glitch := p.AddFolder("Glitch")
	glitch.AddBool("enabled", &s.settings.Enabled).
		OnChange(func(c *panel.Controller) { s.Chain.Glitch.SetEnabled(c.Bool()) })
	glitch.AddBool("wild", &s.settings.Wild).
		OnChange(func(c *panel.Controller) { s.Chain.Glitch.SetWild(c.Bool()) })

	for _, f := range p.Folders() {
		for _, c := range f.Controllers() {
			c.OnChange(func(c *panel.Controller) { s.log.Debugf("%s/%s", f.Name, c) })
		}
	}
	return p
}

// Frame advances the animation by one step and renders the chain
func (s *Sketch) Frame() {
	s.time += s.cfg.Scene.TimeStep
	s.Scene.Rotate(s.Object, s.cfg.Scene.RotationStepX, s.cfg.Scene.RotationStepY, 0)
	s.Chain.Render()
}

// Resize applies a new framebuffer size. Zero sizes (minimised windows) are
// ignored and reported as false.
func (s *Sketch) Resize(width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	s.viewport = Viewport{Width: width, Height: height}
	s.Camera.SetAspect(float64(width) / float64(height))
	s.renderer.SetSize(width, height)
	s.Chain.SetSize(width, height)
	s.log.Debugf("Viewport resized to %dx%d", width, height)
	return true
}

// PointerMove records the cursor position given in window pixels
func (s *Sketch) PointerMove(x, y float64, windowWidth, windowHeight int) {
	if windowWidth <= 0 || windowHeight <= 0 {
		return
	}
	u := util.Clamp(x/float64(windowWidth), 0, 1)
	v := util.Clamp(y/float64(windowHeight), 0, 1)
	s.mouse = mgl64.Vec2{u - 0.5, v - 0.5}
}

// Mouse returns the last pointer position in [-0.5, 0.5] on both axes.
// Nothing in the sketch reads it yet.
func (s *Sketch) Mouse() mgl64.Vec2 {
	return s.mouse
}

// Drag orbits the camera by a pointer drag in pixels
func (s *Sketch) Drag(dx, dy float64) {
	s.Orbit.Rotate(dx, dy, s.viewport.Height)
}

// Scroll dollies the camera, positive steps move closer
func (s *Sketch) Scroll(steps float64) {
	s.Orbit.Dolly(steps)
}

func (s *Sketch) Time() float64             { return s.time }
func (s *Sketch) Viewport() Viewport        { return s.viewport }
func (s *Sketch) Settings() config.Settings { return s.settings }

// Release frees the chain's GPU resources
func (s *Sketch) Release() {
	s.Chain.Release()
}
