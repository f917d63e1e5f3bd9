package effects

import (
	"fmt"
	"math/rand"

	"spherefx/pkg/config"
	"spherefx/pkg/scene"
)

// ChainOptions configures NewChain
type ChainOptions struct {
	Width      int
	Height     int
	GlitchSize int
	Rand       *rand.Rand
	Settings   config.Settings
}

// Chain is the fixed pipeline render -> glitch -> dot screen -> rgb shift
type Chain struct {
	Composer *Composer
	Scene    *RenderPass
	Glitch   *GlitchPass
	Dot      *ShaderPass
	RGBShift *ShaderPass
}

// NewChain builds the pipeline and applies opts.Settings to it
func NewChain(r Renderer, s *scene.Scene, cam *scene.Camera, opts ChainOptions) (*Chain, error) {
	composer, err := NewComposer(r, opts.Width, opts.Height)
	if err != nil {
		return nil, err
	}

	glitch, err := NewGlitchPass(r, opts.GlitchSize, opts.Rand)
	if err != nil {
		composer.Release()
		return nil, err
	}

	c := &Chain{
		Composer: composer,
		Scene:    NewRenderPass(s, cam),
		Glitch:   glitch,
		Dot:      NewShaderPass(DotScreenShader()),
		RGBShift: NewShaderPass(RGBShiftShader()),
	}
	composer.AddPass(c.Scene)
	composer.AddPass(c.Glitch)
	composer.AddPass(c.Dot)
	composer.AddPass(c.RGBShift)

	c.Apply(opts.Settings)
	return c, nil
}

// Apply pushes every setting into the passes
func (c *Chain) Apply(s config.Settings) {
	c.SetDotScale(s.Scale)
	c.SetDotLimit(s.Limit)
	c.SetShiftAmount(s.Amount)
	c.Glitch.SetEnabled(s.Enabled)
	c.Glitch.SetWild(s.Wild)
}

func (c *Chain) SetDotScale(v float64)    { c.Dot.SetFloat("scale", v) }
func (c *Chain) SetDotLimit(v float64)    { c.Dot.SetFloat("limit", v) }
func (c *Chain) SetShiftAmount(v float64) { c.RGBShift.SetFloat("amount", v) }

// SetSize resizes the targets and every pass
func (c *Chain) SetSize(width, height int) { c.Composer.SetSize(width, height) }

// Render runs one frame
func (c *Chain) Render() { c.Composer.Render() }

func (c *Chain) Release() {
	c.Glitch.Release()
	c.Composer.Release()
}

func (c *Chain) String() string {
	w, h := c.Composer.Size()
	return fmt.Sprintf("chain{%dx%d glitch=%v wild=%v}", w, h, c.Glitch.Enabled(), c.Glitch.Wild())
}
