package effects

import (
	"github.com/go-gl/mathgl/mgl32"

	"spherefx/pkg/scene"
)

type passBase struct {
	name      string
	enabled   bool
	needsSwap bool
}

func (p *passBase) Name() string            { return p.name }
func (p *passBase) Enabled() bool           { return p.enabled }
func (p *passBase) SetEnabled(enabled bool) { p.enabled = enabled }
func (p *passBase) NeedsSwap() bool         { return p.needsSwap }

// RenderPass draws a scene into the read buffer so the next pass samples it
type RenderPass struct {
	passBase
	Scene  *scene.Scene
	Camera *scene.Camera
}

func NewRenderPass(s *scene.Scene, cam *scene.Camera) *RenderPass {
	return &RenderPass{
		passBase: passBase{name: "render", enabled: true},
		Scene:    s,
		Camera:   cam,
	}
}

func (p *RenderPass) SetSize(width, height int) {}

func (p *RenderPass) Render(r Renderer, write, read RenderTarget, toScreen bool) {
	var dst RenderTarget
	if !toScreen {
		dst = read
	}
	r.RenderScene(dst, p.Scene, p.Camera)
}

// ShaderPass runs a full screen shader that samples the previous result
// through its tDiffuse uniform
type ShaderPass struct {
	passBase
	Shader   *Shader
	Uniforms Uniforms
}

// NewShaderPass copies the shader's default uniforms so several passes can
// share one Shader
func NewShaderPass(shader *Shader) *ShaderPass {
	return &ShaderPass{
		passBase: passBase{name: shader.Name, enabled: true, needsSwap: true},
		Shader:   shader,
		Uniforms: shader.Uniforms.Clone(),
	}
}

// SetSize updates the resolution uniform when the shader declares one
func (p *ShaderPass) SetSize(width, height int) {
	if _, ok := p.Uniforms["resolution"]; ok {
		p.Uniforms["resolution"] = mgl32.Vec2{float32(width), float32(height)}
	}
}

func (p *ShaderPass) Render(r Renderer, write, read RenderTarget, toScreen bool) {
	p.Uniforms["tDiffuse"] = read
	dst := write
	if toScreen {
		dst = nil
	}
	r.RenderQuad(dst, p.Shader, p.Uniforms)
}

// SetFloat sets a float uniform
func (p *ShaderPass) SetFloat(name string, v float64) {
	p.Uniforms[name] = float32(v)
}
