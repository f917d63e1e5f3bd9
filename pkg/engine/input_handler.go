package engine

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"spherefx/internal/logger"
)

// InputHandler forwards GLFW window events to the sketch and the frame loop.
// Callbacks only fire inside glfw.PollEvents, between frames.
type InputHandler struct {
	window   *glfw.Window
	sketch   *Sketch
	loop     *Loop
	log      *logger.Logger
	dragging bool
	lastX    float64
	lastY    float64
}

// NewInputHandler installs the window callbacks
func NewInputHandler(window *glfw.Window, sketch *Sketch, loop *Loop, log *logger.Logger) *InputHandler {
	h := &InputHandler{
		window: window,
		sketch: sketch,
		loop:   loop,
		log:    log,
	}

	window.SetFramebufferSizeCallback(h.onFramebufferSize)
	window.SetCursorPosCallback(h.onCursorPos)
	window.SetMouseButtonCallback(h.onMouseButton)
	window.SetScrollCallback(h.onScroll)
	window.SetKeyCallback(h.onKey)

	return h
}

func (h *InputHandler) onFramebufferSize(_ *glfw.Window, width, height int) {
	if !h.sketch.Resize(width, height) {
		h.log.Debugf("Ignoring resize to %dx%d", width, height)
	}
}

func (h *InputHandler) onCursorPos(w *glfw.Window, x, y float64) {
	winWidth, winHeight := w.GetSize()
	h.sketch.PointerMove(x, y, winWidth, winHeight)

	if h.dragging {
		// cursor positions are in screen coordinates, the orbit works in pixels
		scale := 1.0
		if fbWidth, _ := w.GetFramebufferSize(); winWidth > 0 {
			scale = float64(fbWidth) / float64(winWidth)
		}
		h.sketch.Drag((x-h.lastX)*scale, (y-h.lastY)*scale)
	}
	h.lastX, h.lastY = x, y
}

func (h *InputHandler) onMouseButton(w *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
	if button != glfw.MouseButtonLeft {
		return
	}
	switch action {
	case glfw.Press:
		h.dragging = true
		h.lastX, h.lastY = w.GetCursorPos()
	case glfw.Release:
		h.dragging = false
	}
}

func (h *InputHandler) onScroll(_ *glfw.Window, _, yoffset float64) {
	h.sketch.Scroll(yoffset)
}

func (h *InputHandler) onKey(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}

	switch key {
	case glfw.KeyEscape:
		w.SetShouldClose(true)
	case glfw.KeySpace:
		h.loop.Toggle()
		h.log.Infof("Playing: %v", h.loop.Playing())
	case glfw.KeyG:
		h.toggle("Glitch", "enabled")
	case glfw.KeyW:
		h.toggle("Glitch", "wild")
	}
}

func (h *InputHandler) toggle(folder, name string) {
	c := h.sketch.Panel.Controller(folder, name)
	if c == nil {
		return
	}
	c.Toggle()
	h.log.Infof("%s %s: %v", folder, name, c.Bool())
}
