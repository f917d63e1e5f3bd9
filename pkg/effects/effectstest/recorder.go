// Package effectstest provides a recording effects.Renderer for tests that
// run without a GL context.
package effectstest

import (
	"errors"
	"fmt"

	"spherefx/pkg/effects"
	"spherefx/pkg/scene"
)

// Screen is the name recorded for the default framebuffer
const Screen = "screen"

// Call is one recorded draw
type Call struct {
	Op       string // "scene" or "quad"
	Shader   string
	Src      string
	Dst      string
	Uniforms effects.Uniforms
}

// Equal compares everything but the uniforms
func (c Call) Equal(o Call) bool {
	return c.Op == o.Op && c.Shader == o.Shader && c.Src == o.Src && c.Dst == o.Dst
}

func (c Call) String() string {
	if c.Op == "scene" {
		return fmt.Sprintf("scene -> %s", c.Dst)
	}
	return fmt.Sprintf("%s(%s) -> %s", c.Shader, c.Src, c.Dst)
}

// Target is a fake render target
type Target struct {
	ID       int
	Width    int
	Height   int
	Released bool
}

func (t *Target) SetSize(width, height int) { t.Width, t.Height = width, height }
func (t *Target) Size() (int, int)          { return t.Width, t.Height }
func (t *Target) Release()                  { t.Released = true }
func (t *Target) String() string            { return fmt.Sprintf("target%d", t.ID) }

// Texture is a fake data texture
type Texture struct {
	Width    int
	Height   int
	Data     []float32
	Released bool
}

func (t *Texture) Release() { t.Released = true }

// Recorder implements effects.Renderer by logging every call
type Recorder struct {
	Width    int
	Height   int
	Calls    []Call
	Targets  []*Target
	Textures []*Texture

	// FailTargets makes NewRenderTarget fail after that many successes
	// when positive
	FailTargets int
}

var _ effects.Renderer = (*Recorder)(nil)

func New() *Recorder {
	return &Recorder{}
}

func (r *Recorder) SetSize(width, height int) {
	r.Width, r.Height = width, height
}

func (r *Recorder) NewRenderTarget(width, height int) (effects.RenderTarget, error) {
	if r.FailTargets > 0 && len(r.Targets) >= r.FailTargets {
		return nil, errors.New("render target limit reached")
	}
	t := &Target{ID: len(r.Targets), Width: width, Height: height}
	r.Targets = append(r.Targets, t)
	return t, nil
}

func (r *Recorder) NewDataTexture(width, height int, data []float32) (effects.Texture, error) {
	if len(data) != width*height {
		return nil, fmt.Errorf("data length %d does not match %dx%d", len(data), width, height)
	}
	t := &Texture{Width: width, Height: height, Data: append([]float32(nil), data...)}
	r.Textures = append(r.Textures, t)
	return t, nil
}

func (r *Recorder) RenderScene(dst effects.RenderTarget, s *scene.Scene, cam *scene.Camera) {
	r.Calls = append(r.Calls, Call{Op: "scene", Dst: name(dst)})
}

func (r *Recorder) RenderQuad(dst effects.RenderTarget, shader *effects.Shader, uniforms effects.Uniforms) {
	src := ""
	if t, ok := uniforms["tDiffuse"].(effects.RenderTarget); ok {
		src = name(t)
	}
	r.Calls = append(r.Calls, Call{
		Op:       "quad",
		Shader:   shader.Name,
		Src:      src,
		Dst:      name(dst),
		Uniforms: uniforms.Clone(),
	})
}

// Reset clears the recorded calls
func (r *Recorder) Reset() {
	r.Calls = nil
}

// Last returns the most recent call for shader, or false
func (r *Recorder) Last(shader string) (Call, bool) {
	for i := len(r.Calls) - 1; i >= 0; i-- {
		if r.Calls[i].Shader == shader {
			return r.Calls[i], true
		}
	}
	return Call{}, false
}

func name(t effects.RenderTarget) string {
	if t == nil {
		return Screen
	}
	if s, ok := t.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%p", t)
}
