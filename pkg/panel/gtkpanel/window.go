// Package gtkpanel shows a panel.Panel in a GTK window.
package gtkpanel

import (
	"fmt"

	"github.com/gotk3/gotk3/gtk"

	"spherefx/pkg/panel"
)

// Window is a GTK frontend for a panel.Panel. It never runs gtk.Main; the owner
// calls Pump from its own loop on the thread that created it.
type Window struct {
	*gtk.Window
	panel   *panel.Panel
	closed  bool
	syncing bool
}

// NewWindow initialises GTK and builds one expander per folder. It fails
// when no display is available.
func NewWindow(p *panel.Panel) (*Window, error) {
	if err := gtk.InitCheck(nil); err != nil {
		return nil, fmt.Errorf("failed to initialize GTK: %w", err)
	}

	win, err := gtk.WindowNew(gtk.WINDOW_TOPLEVEL)
	if err != nil {
		return nil, fmt.Errorf("gtk.WindowNew: %w", err)
	}
	w := &Window{Window: win, panel: p}

	win.SetTitle(p.Title)
	win.SetDefaultSize(280, 240)
	win.Connect("destroy", func() {
		w.closed = true
	})

	box, err := gtk.BoxNew(gtk.ORIENTATION_VERTICAL, 6)
	if err != nil {
		return nil, fmt.Errorf("gtk.BoxNew: %w", err)
	}
	box.SetMarginStart(8)
	box.SetMarginEnd(8)
	box.SetMarginTop(8)
	box.SetMarginBottom(8)

	for _, f := range p.Folders() {
		expander, err := w.folder(f)
		if err != nil {
			return nil, err
		}
		box.PackStart(expander, false, false, 0)
	}

	win.Add(box)
	win.ShowAll()
	return w, nil
}

func (w *Window) folder(f *panel.Folder) (*gtk.Expander, error) {
	expander, err := gtk.ExpanderNew(f.Name)
	if err != nil {
		return nil, fmt.Errorf("gtk.ExpanderNew: %w", err)
	}
	expander.SetExpanded(f.Open)

	grid, err := gtk.GridNew()
	if err != nil {
		return nil, fmt.Errorf("gtk.GridNew: %w", err)
	}
	grid.SetColumnSpacing(8)
	grid.SetRowSpacing(4)

	for row, c := range f.Controllers() {
		label, err := gtk.LabelNew(c.Name)
		if err != nil {
			return nil, fmt.Errorf("gtk.LabelNew: %w", err)
		}
		label.SetXAlign(0)
		grid.Attach(label, 0, row, 1, 1)

		var widget gtk.IWidget
		switch c.Kind {
		case panel.KindNumber:
			widget, err = w.number(c)
		case panel.KindBool:
			widget, err = w.check(c)
		}
		if err != nil {
			return nil, err
		}
		grid.Attach(widget, 1, row, 1, 1)
	}

	expander.Add(grid)
	return expander, nil
}

func (w *Window) number(c *panel.Controller) (*gtk.Scale, error) {
	scale, err := gtk.ScaleNewWithRange(gtk.ORIENTATION_HORIZONTAL, c.Min, c.Max, c.Step)
	if err != nil {
		return nil, fmt.Errorf("gtk.ScaleNewWithRange: %w", err)
	}
	scale.SetDigits(c.Decimals())
	scale.SetHExpand(true)
	scale.SetSizeRequest(180, -1)
	scale.SetValue(c.Number())

	scale.Connect("value-changed", func(s *gtk.Scale) {
		if w.syncing {
			return
		}
		c.SetNumber(s.GetValue())
	})
	c.Listen(func(c *panel.Controller) {
		w.sync(func() { scale.SetValue(c.Number()) })
	})
	return scale, nil
}

func (w *Window) check(c *panel.Controller) (*gtk.CheckButton, error) {
	check, err := gtk.CheckButtonNew()
	if err != nil {
		return nil, fmt.Errorf("gtk.CheckButtonNew: %w", err)
	}
	check.SetActive(c.Bool())

	check.Connect("toggled", func(b *gtk.CheckButton) {
		if w.syncing {
			return
		}
		c.SetBool(b.GetActive())
	})
	c.Listen(func(c *panel.Controller) {
		w.sync(func() { check.SetActive(c.Bool()) })
	})
	return check, nil
}

// sync updates a widget without feeding the change back to the controller
func (w *Window) sync(fn func()) {
	if w.closed {
		return
	}
	w.syncing = true
	fn()
	w.syncing = false
}

// Pump processes pending GTK events without blocking
func (w *Window) Pump() {
	for gtk.EventsPending() {
		gtk.MainIterationDo(false)
	}
}

// Closed reports whether the user closed the panel
func (w *Window) Closed() bool {
	return w.closed
}

// Close destroys the window
func (w *Window) Close() {
	if w.closed {
		return
	}
	w.Destroy()
	w.Pump()
}
