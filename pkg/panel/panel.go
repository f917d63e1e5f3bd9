// Package panel binds named, range-limited controls to fields and notifies
// callbacks when a control changes. Frontends (see Window) render a Panel and
// write through its controllers.
package panel

import (
	"fmt"

	"spherefx/internal/util"
)

// Kind of value a controller edits
type Kind int

const (
	KindNumber Kind = iota
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Panel is an ordered set of folders
type Panel struct {
	Title   string
	folders []*Folder
}

func New(title string) *Panel {
	return &Panel{Title: title}
}

// AddFolder appends an empty folder
func (p *Panel) AddFolder(name string) *Folder {
	f := &Folder{Name: name, Open: true}
	p.folders = append(p.folders, f)
	return f
}

// Folders returns the folders in insertion order
func (p *Panel) Folders() []*Folder {
	out := make([]*Folder, len(p.folders))
	copy(out, p.folders)
	return out
}

// Controller finds a control by folder and name, or returns nil
func (p *Panel) Controller(folder, name string) *Controller {
	for _, f := range p.folders {
		if f.Name != folder {
			continue
		}
		for _, c := range f.controllers {
			if c.Name == name {
				return c
			}
		}
	}
	return nil
}

// Folder groups controllers under a heading
type Folder struct {
	Name        string
	Open        bool
	controllers []*Controller
}

// AddNumber binds a slider to target. The current value of target is kept
// until the first change.
func (f *Folder) AddNumber(name string, target *float64, min, max, step float64) *Controller {
	c := &Controller{
		Name:   name,
		Kind:   KindNumber,
		Min:    min,
		Max:    max,
		Step:   step,
		number: target,
	}
	f.controllers = append(f.controllers, c)
	return c
}

// AddBool binds a checkbox to target
func (f *Folder) AddBool(name string, target *bool) *Controller {
	c := &Controller{Name: name, Kind: KindBool, flag: target}
	f.controllers = append(f.controllers, c)
	return c
}

func (f *Folder) Controllers() []*Controller {
	out := make([]*Controller, len(f.controllers))
	copy(out, f.controllers)
	return out
}

// Controller edits one bound field
type Controller struct {
	Name string
	Kind Kind

	// number range, unused for bools
	Min, Max, Step float64

	number *float64
	flag   *bool

	onChange  []func(*Controller)
	listeners []func(*Controller)
}

// OnChange registers fn to run after every change of the bound value
func (c *Controller) OnChange(fn func(*Controller)) *Controller {
	c.onChange = append(c.onChange, fn)
	return c
}

// Listen registers a frontend observer. Listeners run after the OnChange
// callbacks so widgets see the final value.
func (c *Controller) Listen(fn func(*Controller)) {
	c.listeners = append(c.listeners, fn)
}

// Number returns the bound number
func (c *Controller) Number() float64 {
	if c.number == nil {
		return 0
	}
	return *c.number
}

// Bool returns the bound flag
func (c *Controller) Bool() bool {
	if c.flag == nil {
		return false
	}
	return *c.flag
}

// SetNumber clamps v to the range, snaps it to the step and stores it
func (c *Controller) SetNumber(v float64) {
	if c.Kind != KindNumber {
		return
	}
	v = util.Clamp(v, c.Min, c.Max)
	v = util.Clamp(util.Snap(v, c.Min, c.Step), c.Min, c.Max)
	*c.number = v
	c.changed()
}

// SetBool stores v
func (c *Controller) SetBool(v bool) {
	if c.Kind != KindBool {
		return
	}
	*c.flag = v
	c.changed()
}

// Toggle flips a bool controller
func (c *Controller) Toggle() {
	c.SetBool(!c.Bool())
}

// Decimals is the display precision implied by the step
func (c *Controller) Decimals() int {
	return util.StepDecimals(c.Step)
}

func (c *Controller) String() string {
	if c.Kind == KindBool {
		return fmt.Sprintf("%s=%v", c.Name, c.Bool())
	}
	return fmt.Sprintf("%s=%.*f", c.Name, c.Decimals(), c.Number())
}

func (c *Controller) changed() {
	for _, fn := range c.onChange {
		fn(c)
	}
	for _, fn := range c.listeners {
		fn(c)
	}
}
