package engine

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"spherefx/internal/logger"
	"spherefx/pkg/effects"
	"spherefx/pkg/scene"
)

// OpenGLRenderer implements effects.Renderer on an OpenGL 4.1 core context.
// All methods must be called on the thread owning the context.
type OpenGLRenderer struct {
	log    *logger.Logger
	width  int
	height int

	// Screen quad for post-processing
	quadVAO uint32
	quadVBO uint32

	mesh     *program
	programs map[string]*program
	failed   map[string]bool
	buffers  map[*scene.Geometry]*meshBuffer
	warned   map[string]bool
}

type program struct {
	id        uint32
	locations map[string]int32
}

func (p *program) location(name string) int32 {
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(p.id, gl.Str(name+"\x00"))
	p.locations[name] = loc
	return loc
}

type meshBuffer struct {
	vao      uint32
	vbo      uint32
	vertices int32
}

// NewOpenGLRenderer sets up GL state, the screen quad and the mesh program.
// gl.Init must already have been called.
func NewOpenGLRenderer(log *logger.Logger) (*OpenGLRenderer, error) {
	r := &OpenGLRenderer{
		log:      log,
		programs: make(map[string]*program),
		failed:   make(map[string]bool),
		buffers:  make(map[*scene.Geometry]*meshBuffer),
		warned:   make(map[string]bool),
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.ClearColor(0.0, 0.0, 0.0, 1.0)

	id, err := createShaderProgram(meshVertexShaderSource, meshFragmentShaderSource)
	if err != nil {
		return nil, fmt.Errorf("failed to build mesh program: %w", err)
	}
	r.mesh = &program{id: id, locations: make(map[string]int32)}

	r.setupScreenQuad()
	return r, nil
}

// setupScreenQuad creates a full-screen quad for post-processing
func (r *OpenGLRenderer) setupScreenQuad() {
	vertices := []float32{
		// Positions   // Texture coords
		-1.0, -1.0, 0.0, 0.0, 0.0,
		1.0, -1.0, 0.0, 1.0, 0.0,
		1.0, 1.0, 0.0, 1.0, 1.0,
		-1.0, 1.0, 0.0, 0.0, 1.0,
	}

	gl.GenVertexArrays(1, &r.quadVAO)
	gl.GenBuffers(1, &r.quadVBO)
	gl.BindVertexArray(r.quadVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	// Position attribute
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 5*4, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	// Texture coord attribute
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, 5*4, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
}

// SetSize sets the default framebuffer size
func (r *OpenGLRenderer) SetSize(width, height int) {
	r.width = width
	r.height = height
}

// NewRenderTarget creates a colour texture + depth/stencil framebuffer
func (r *OpenGLRenderer) NewRenderTarget(width, height int) (effects.RenderTarget, error) {
	return newRenderTarget(width, height)
}

// NewDataTexture uploads data as a single channel float texture
func (r *OpenGLRenderer) NewDataTexture(width, height int, data []float32) (effects.Texture, error) {
	if len(data) != width*height {
		return nil, fmt.Errorf("texture data has %d values, want %d", len(data), width*height)
	}

	t := &dataTexture{}
	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.R32F, int32(width), int32(height), 0, gl.RED, gl.FLOAT, gl.Ptr(data))
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return t, nil
}

// bind selects dst (nil for the screen) and matches the viewport to it
func (r *OpenGLRenderer) bind(dst effects.RenderTarget) {
	if dst == nil {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		gl.Viewport(0, 0, int32(r.width), int32(r.height))
		return
	}
	t, ok := dst.(*renderTarget)
	if !ok {
		r.warnOnce(fmt.Sprintf("target %T", dst), "Unsupported render target %T, drawing to screen", dst)
		r.bind(nil)
		return
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.Viewport(0, 0, int32(t.width), int32(t.height))
}

// RenderScene draws every visible mesh of s with its lights and fog
func (r *OpenGLRenderer) RenderScene(dst effects.RenderTarget, s *scene.Scene, cam *scene.Camera) {
	r.bind(dst)

	bg := s.Background
	gl.ClearColor(bg[0], bg[1], bg[2], 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)

	p := r.mesh
	gl.UseProgram(p.id)

	projection := cam.Projection()
	view := cam.View()
	gl.UniformMatrix4fv(p.location("projection"), 1, false, &projection[0])
	gl.UniformMatrix4fv(p.location("view"), 1, false, &view[0])
	camPos := scene.Vec3f(cam.Position)
	gl.Uniform3f(p.location("cameraPosition"), camPos[0], camPos[1], camPos[2])

	r.uploadLights(p, s)
	r.uploadFog(p, s.Fog)

	s.TraverseVisible(func(id scene.NodeID, n *scene.Node, world mgl64.Mat4) {
		if n.Kind != scene.KindMesh || n.Geometry == nil || n.Material == nil {
			return
		}
		buf := r.meshBuffer(n.Geometry)

		model := scene.Mat4f(world)
		normal := normalMatrix(world)
		gl.UniformMatrix4fv(p.location("model"), 1, false, &model[0])
		gl.UniformMatrix3fv(p.location("normalMatrix"), 1, false, &normal[0])

		m := n.Material
		gl.Uniform3f(p.location("diffuse"), m.Color[0], m.Color[1], m.Color[2])
		gl.Uniform3f(p.location("specular"), m.Specular[0], m.Specular[1], m.Specular[2])
		gl.Uniform1f(p.location("shininess"), m.Shininess)

		gl.BindVertexArray(buf.vao)
		gl.DrawArrays(gl.TRIANGLES, 0, buf.vertices)
	})
	gl.BindVertexArray(0)
}

func (r *OpenGLRenderer) uploadLights(p *program, s *scene.Scene) {
	var ambient mgl32.Vec3
	directions := make([]float32, 0, maxDirectionalLights*3)
	colors := make([]float32, 0, maxDirectionalLights*3)
	count := 0

	s.TraverseVisible(func(id scene.NodeID, n *scene.Node, world mgl64.Mat4) {
		if n.Light == nil {
			return
		}
		c := n.Light.Color.Mul(n.Light.Intensity)
		switch n.Kind {
		case scene.KindAmbientLight:
			ambient = ambient.Add(c)
		case scene.KindDirectionalLight:
			if count == maxDirectionalLights {
				r.warnOnce("lights", "More than %d directional lights, extra lights ignored", maxDirectionalLights)
				return
			}
			// shines from its position towards the origin
			dir := world.Col(3).Vec3()
			if l := dir.Len(); l > 0 {
				dir = dir.Mul(1 / l)
			}
			d := scene.Vec3f(dir)
			directions = append(directions, d[0], d[1], d[2])
			colors = append(colors, c[0], c[1], c[2])
			count++
		}
	})

	gl.Uniform3f(p.location("ambientLight"), ambient[0], ambient[1], ambient[2])
	gl.Uniform1i(p.location("numDirLights"), int32(count))
	if count > 0 {
		gl.Uniform3fv(p.location("dirLightDirection"), int32(count), &directions[0])
		gl.Uniform3fv(p.location("dirLightColor"), int32(count), &colors[0])
	}
}

func (r *OpenGLRenderer) uploadFog(p *program, fog *scene.Fog) {
	if fog == nil {
		gl.Uniform1i(p.location("useFog"), 0)
		return
	}
	gl.Uniform1i(p.location("useFog"), 1)
	gl.Uniform3f(p.location("fogColor"), fog.Color[0], fog.Color[1], fog.Color[2])
	gl.Uniform1f(p.location("fogNear"), fog.Near)
	gl.Uniform1f(p.location("fogFar"), fog.Far)
}

// meshBuffer uploads a geometry on first use. Geometries are shared between
// meshes, so each one gets a single VAO.
func (r *OpenGLRenderer) meshBuffer(g *scene.Geometry) *meshBuffer {
	if buf, ok := r.buffers[g]; ok {
		return buf
	}

	data := g.Interleaved()
	buf := &meshBuffer{vertices: int32(g.VertexCount())}
	gl.GenVertexArrays(1, &buf.vao)
	gl.GenBuffers(1, &buf.vbo)
	gl.BindVertexArray(buf.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, buf.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)

	// Position attribute
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 6*4, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	// Normal attribute
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, 6*4, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
	r.buffers[g] = buf
	r.log.Debugf("Uploaded geometry %q (%d vertices)", g.Name, buf.vertices)
	return buf
}

// CompileShader builds the program for sh ahead of its first use so that
// compile errors surface at startup
func (r *OpenGLRenderer) CompileShader(sh *effects.Shader) error {
	_, err := r.program(sh)
	return err
}

func (r *OpenGLRenderer) program(sh *effects.Shader) (*program, error) {
	if p, ok := r.programs[sh.Name]; ok {
		return p, nil
	}
	id, err := createShaderProgram(sh.Vertex, sh.Fragment)
	if err != nil {
		return nil, fmt.Errorf("shader %q: %w", sh.Name, err)
	}
	p := &program{id: id, locations: make(map[string]int32)}
	r.programs[sh.Name] = p
	return p, nil
}

// RenderQuad runs a full screen pass of sh into dst
func (r *OpenGLRenderer) RenderQuad(dst effects.RenderTarget, sh *effects.Shader, uniforms effects.Uniforms) {
	if r.failed[sh.Name] {
		return
	}
	p, err := r.program(sh)
	if err != nil {
		r.failed[sh.Name] = true
		r.log.Errorf("Disabling pass: %v", err)
		return
	}

	r.bind(dst)
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.UseProgram(p.id)

	unit := uint32(0)
	for name, value := range uniforms {
		loc := p.location(name)
		if loc < 0 {
			continue
		}
		switch v := value.(type) {
		case nil:
		case float32:
			gl.Uniform1f(loc, v)
		case int32:
			gl.Uniform1i(loc, v)
		case bool:
			if v {
				gl.Uniform1i(loc, 1)
			} else {
				gl.Uniform1i(loc, 0)
			}
		case mgl32.Vec2:
			gl.Uniform2f(loc, v[0], v[1])
		case *renderTarget:
			r.bindTexture(loc, unit, v.texture)
			unit++
		case *dataTexture:
			r.bindTexture(loc, unit, v.id)
			unit++
		default:
			r.warnOnce(sh.Name+"/"+name, "Uniform %s of %s has unsupported type %T", name, sh.Name, value)
		}
	}

	// Draw fullscreen quad
	gl.BindVertexArray(r.quadVAO)
	gl.DrawArrays(gl.TRIANGLE_FAN, 0, 4)
	gl.BindVertexArray(0)
}

func (r *OpenGLRenderer) bindTexture(loc int32, unit, texture uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, texture)
	gl.Uniform1i(loc, int32(unit))
}

func (r *OpenGLRenderer) warnOnce(key, format string, v ...interface{}) {
	if r.warned[key] {
		return
	}
	r.warned[key] = true
	r.log.Warnf(format, v...)
}

// Close releases programs, buffers and the screen quad
func (r *OpenGLRenderer) Close() {
	for _, p := range r.programs {
		gl.DeleteProgram(p.id)
	}
	gl.DeleteProgram(r.mesh.id)
	for _, buf := range r.buffers {
		gl.DeleteVertexArrays(1, &buf.vao)
		gl.DeleteBuffers(1, &buf.vbo)
	}
	gl.DeleteVertexArrays(1, &r.quadVAO)
	gl.DeleteBuffers(1, &r.quadVBO)
}

func normalMatrix(world mgl64.Mat4) mgl32.Mat3 {
	n := world.Mat3().Inv().Transpose()
	var out mgl32.Mat3
	for i := range n {
		out[i] = float32(n[i])
	}
	return out
}

// renderTarget is an offscreen framebuffer with a sampled colour texture
type renderTarget struct {
	fbo     uint32
	texture uint32
	rbo     uint32
	width   int
	height  int
}

// newRenderTarget initializes the framebuffer for post-processing
func newRenderTarget(width, height int) (*renderTarget, error) {
	t := &renderTarget{width: width, height: height}

	// Generate framebuffer
	gl.GenFramebuffers(1, &t.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)

	// Create texture for framebuffer
	gl.GenTextures(1, &t.texture)
	gl.BindTexture(gl.TEXTURE_2D, t.texture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, t.texture, 0)

	// Create renderbuffer for depth and stencil
	gl.GenRenderbuffers(1, &t.rbo)
	gl.BindRenderbuffer(gl.RENDERBUFFER, t.rbo)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH24_STENCIL8, int32(width), int32(height))
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_STENCIL_ATTACHMENT, gl.RENDERBUFFER, t.rbo)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		t.Release()
		return nil, fmt.Errorf("framebuffer not complete: 0x%x", status)
	}
	return t, nil
}

// SetSize reallocates the attachments when the size changes
func (t *renderTarget) SetSize(width, height int) {
	if t.width == width && t.height == height {
		return
	}
	t.width = width
	t.height = height

	gl.BindTexture(gl.TEXTURE_2D, t.texture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)

	gl.BindRenderbuffer(gl.RENDERBUFFER, t.rbo)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH24_STENCIL8, int32(width), int32(height))
}

func (t *renderTarget) Size() (int, int) {
	return t.width, t.height
}

func (t *renderTarget) Release() {
	gl.DeleteFramebuffers(1, &t.fbo)
	gl.DeleteTextures(1, &t.texture)
	gl.DeleteRenderbuffers(1, &t.rbo)
}

type dataTexture struct {
	id uint32
}

func (t *dataTexture) Release() {
	gl.DeleteTextures(1, &t.id)
}

// createShaderProgram compiles and links a shader program from source
func createShaderProgram(vertexSource, fragmentSource string) (uint32, error) {
	// Vertex shader
	vertexShader, err := compileShader(vertexSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}

	// Fragment shader
	fragmentShader, err := compileShader(fragmentSource, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertexShader)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))

		gl.DeleteProgram(program)
		gl.DeleteShader(vertexShader)
		gl.DeleteShader(fragmentShader)

		return 0, fmt.Errorf("shader program linking failed: %v", strings.TrimRight(log, "\x00"))
	}

	// Detach and delete shaders since they're linked to the program now
	gl.DetachShader(program, vertexShader)
	gl.DetachShader(program, fragmentShader)
	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	return program, nil
}

// compileShader compiles a shader from source
func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)

	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))

		gl.DeleteShader(shader)

		return 0, fmt.Errorf("shader compilation failed: %v", strings.TrimRight(log, "\x00"))
	}

	return shader, nil
}
