package engine

import (
	"fmt"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"spherefx/internal/logger"
	"spherefx/pkg/config"
	"spherefx/pkg/effects"
	"spherefx/pkg/panel/gtkpanel"
)

// Engine hosts the sketch in a GLFW window
type Engine struct {
	window   *glfw.Window
	config   *config.Config
	logger   *logger.Logger
	renderer *OpenGLRenderer
	sketch   *Sketch
	frames   *FrameQueue
	loop     *Loop
	input    *InputHandler
	panel    *gtkpanel.Window
}

// NewEngine creates the window, the GL context and the sketch. It must run
// on the main OS thread.
func NewEngine(cfg *config.Config, log *logger.Logger) (*Engine, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	// Set window hints
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create GLFW window: %w", err)
	}
	window.MakeContextCurrent()
	if cfg.Window.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	e := &Engine{
		window: window,
		config: cfg,
		logger: log,
		frames: &FrameQueue{},
	}
	if err := e.init(); err != nil {
		e.cleanup()
		return nil, err
	}
	return e, nil
}

func (e *Engine) init() error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	e.logger.Infof("OpenGL %s (%s)", gl.GoStr(gl.GetString(gl.VERSION)), gl.GoStr(gl.GetString(gl.RENDERER)))

	renderer, err := NewOpenGLRenderer(e.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize renderer: %w", err)
	}
	e.renderer = renderer

	sketch, err := NewSketch(e.config, renderer, e.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize sketch: %w", err)
	}
	e.sketch = sketch

	// the framebuffer can differ from the requested window size on HiDPI screens
	e.sketch.Resize(e.window.GetFramebufferSize())

	for _, p := range []*effects.ShaderPass{&sketch.Chain.Glitch.ShaderPass, sketch.Chain.Dot, sketch.Chain.RGBShift} {
		if err := renderer.CompileShader(p.Shader); err != nil {
			return fmt.Errorf("failed to compile %s pass: %w", p.Name(), err)
		}
	}

	e.loop = NewLoop(e.frames, sketch.Frame)
	e.input = NewInputHandler(e.window, sketch, e.loop, e.logger)

	if e.config.Panel.Enabled {
		w, err := gtkpanel.NewWindow(sketch.Panel)
		if err != nil {
			e.logger.Warnf("Tweak panel unavailable, running headless: %v", err)
		} else {
			e.panel = w
		}
	}
	return nil
}

// Run drives the frame loop until the window closes
func (e *Engine) Run() {
	e.logger.Info("Starting main loop")
	frameRate := e.config.Window.FrameRate

	for !e.window.ShouldClose() {
		currentTime := time.Now()

		before := e.loop.Frames()
		e.frames.Flush()
		if e.loop.Frames() != before {
			e.window.SwapBuffers()
		}

		if e.loop.Playing() {
			glfw.PollEvents()
		} else {
			glfw.WaitEventsTimeout(0.05)
		}

		if e.panel != nil {
			e.panel.Pump()
			if e.panel.Closed() {
				e.logger.Info("Tweak panel closed")
				e.panel = nil
			}
		}

		// Cap the frame rate
		if !e.config.Window.VSync && frameRate > 0 {
			frameTime := time.Since(currentTime)
			targetFrameTime := time.Second / time.Duration(frameRate)
			if frameTime < targetFrameTime {
				time.Sleep(targetFrameTime - frameTime)
			}
		}
	}

	e.cleanup()
}

// cleanup performs necessary cleanup before exiting
func (e *Engine) cleanup() {
	e.logger.Info("Shutting down engine...")
	if e.panel != nil {
		e.panel.Close()
	}
	if e.sketch != nil {
		e.sketch.Release()
	}
	if e.renderer != nil {
		e.renderer.Close()
	}
	e.window.Destroy()
	glfw.Terminate()
}
