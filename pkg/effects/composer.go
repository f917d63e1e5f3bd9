package effects

import "fmt"

// Pass is one stage of the post-processing pipeline
type Pass interface {
	Name() string
	Enabled() bool
	SetEnabled(enabled bool)

	// NeedsSwap reports whether the composer swaps its buffers after the
	// pass, making the pass output the next pass input
	NeedsSwap() bool

	SetSize(width, height int)

	// Render draws the pass. read holds the previous result; the output goes
	// to write, or to the screen when toScreen is set.
	Render(r Renderer, write, read RenderTarget, toScreen bool)
}

// Composer runs an ordered list of passes over two ping-pong targets.
// Disabled passes are skipped and the last enabled pass draws to the screen.
type Composer struct {
	renderer Renderer
	passes   []Pass
	write    RenderTarget
	read     RenderTarget
	width    int
	height   int
}

// NewComposer allocates the two intermediate targets at the given size
func NewComposer(r Renderer, width, height int) (*Composer, error) {
	write, err := r.NewRenderTarget(width, height)
	if err != nil {
		return nil, fmt.Errorf("composer write target: %w", err)
	}
	read, err := r.NewRenderTarget(width, height)
	if err != nil {
		write.Release()
		return nil, fmt.Errorf("composer read target: %w", err)
	}

	return &Composer{
		renderer: r,
		write:    write,
		read:     read,
		width:    width,
		height:   height,
	}, nil
}

// AddPass appends p and sizes it to the composer
func (c *Composer) AddPass(p Pass) {
	p.SetSize(c.width, c.height)
	c.passes = append(c.passes, p)
}

// Passes returns the passes in execution order
func (c *Composer) Passes() []Pass {
	out := make([]Pass, len(c.passes))
	copy(out, c.passes)
	return out
}

// Size returns the current size of the intermediate targets
func (c *Composer) Size() (int, int) {
	return c.width, c.height
}

// SetSize resizes both targets and every pass
func (c *Composer) SetSize(width, height int) {
	c.width, c.height = width, height
	c.write.SetSize(width, height)
	c.read.SetSize(width, height)
	for _, p := range c.passes {
		p.SetSize(width, height)
	}
}

// Render executes one frame of the pipeline
func (c *Composer) Render() {
	last := -1
	for i, p := range c.passes {
		if p.Enabled() {
			last = i
		}
	}

	for i, p := range c.passes {
		if !p.Enabled() {
			continue
		}
		p.Render(c.renderer, c.write, c.read, i == last)
		if p.NeedsSwap() {
			c.write, c.read = c.read, c.write
		}
	}
}

// Release frees the intermediate targets
func (c *Composer) Release() {
	c.write.Release()
	c.read.Release()
}
