package effects

import "spherefx/pkg/scene"

// Renderer is the drawing backend the passes run on. A nil RenderTarget
// always means the default framebuffer.
type Renderer interface {
	// SetSize sets the size of the default framebuffer
	SetSize(width, height int)

	// NewRenderTarget creates an offscreen colour+depth target
	NewRenderTarget(width, height int) (RenderTarget, error)

	// NewDataTexture uploads a single channel float texture
	NewDataTexture(width, height int, data []float32) (Texture, error)

	// RenderScene draws the visible meshes of s as seen by cam into dst
	RenderScene(dst RenderTarget, s *scene.Scene, cam *scene.Camera)

	// RenderQuad runs a full screen shader into dst
	RenderQuad(dst RenderTarget, shader *Shader, uniforms Uniforms)
}

// RenderTarget is an offscreen framebuffer. It can be bound as a texture
// uniform of a later pass.
type RenderTarget interface {
	SetSize(width, height int)
	Size() (width, height int)
	Release()
}

// Texture is an immutable sampled image
type Texture interface {
	Release()
}

// Uniforms maps GLSL uniform names to values. Supported values are float32,
// int32, bool, mgl32.Vec2, Texture and RenderTarget.
type Uniforms map[string]interface{}

// Clone returns a shallow copy
func (u Uniforms) Clone() Uniforms {
	out := make(Uniforms, len(u))
	for k, v := range u {
		out[k] = v
	}
	return out
}

// Float returns a float32 uniform, or 0 when it is missing or of another type
func (u Uniforms) Float(name string) float32 {
	f, _ := u[name].(float32)
	return f
}

// Int returns an int32 uniform, or 0
func (u Uniforms) Int(name string) int32 {
	i, _ := u[name].(int32)
	return i
}
