package effects_test

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"spherefx/pkg/config"
	"spherefx/pkg/effects"
	"spherefx/pkg/effects/effectstest"
)

func newChain(t *testing.T, rec *effectstest.Recorder, settings config.Settings) *effects.Chain {
	t.Helper()
	c, err := effects.NewChain(rec, nil, nil, effects.ChainOptions{
		Width:      640,
		Height:     480,
		GlitchSize: 2,
		Rand:       rand.New(rand.NewSource(3)),
		Settings:   settings,
	})
	if err != nil {
		t.Fatalf("NewChain: %v", err)
	}
	return c
}

func callStrings(calls []effectstest.Call) []string {
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.String()
	}
	return out
}

func TestChainOrderAndPingPong(t *testing.T) {
	rec := effectstest.New()
	settings := config.DefaultSettings()
	settings.Enabled = true
	c := newChain(t, rec, settings)

	c.Render()

	want := []string{
		"scene -> target1",
		"digital-glitch(target1) -> target0",
		"dot-screen(target0) -> target1",
		"rgb-shift(target1) -> screen",
	}
	got := callStrings(rec.Calls)
	if len(got) != len(want) {
		t.Fatalf("calls = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("call %d = %q, want %q (all: %v)", i, got[i], want[i], got)
		}
	}
}

func TestChainPassesInOrder(t *testing.T) {
	c := newChain(t, effectstest.New(), config.DefaultSettings())

	passes := c.Composer.Passes()
	want := []effects.Pass{c.Scene, c.Glitch, c.Dot, c.RGBShift}
	if len(passes) != len(want) {
		t.Fatalf("got %d passes, want %d", len(passes), len(want))
	}
	for i := range want {
		if passes[i] != want[i] {
			t.Fatalf("pass %d = %s, want %s", i, passes[i].Name(), want[i].Name())
		}
	}
}

func TestComposerLastEnabledPassToScreen(t *testing.T) {
	rec := effectstest.New()
	c := newChain(t, rec, config.DefaultSettings())
	c.RGBShift.SetEnabled(false)

	c.Render()

	last := rec.Calls[len(rec.Calls)-1]
	if last.Shader != "dot-screen" || last.Dst != effectstest.Screen {
		t.Fatalf("last call = %v, want dot-screen to screen", last)
	}
	for _, call := range rec.Calls[:len(rec.Calls)-1] {
		if call.Dst == effectstest.Screen {
			t.Fatalf("only the last pass may draw to screen: %v", callStrings(rec.Calls))
		}
	}
}

func TestComposerRenderPassAloneGoesToScreen(t *testing.T) {
	rec := effectstest.New()
	c := newChain(t, rec, config.DefaultSettings())
	c.Dot.SetEnabled(false)
	c.RGBShift.SetEnabled(false)

	c.Render()

	if len(rec.Calls) != 1 || rec.Calls[0].Op != "scene" || rec.Calls[0].Dst != effectstest.Screen {
		t.Fatalf("calls = %v", callStrings(rec.Calls))
	}
}

func TestDisabledGlitchMatchesChainWithoutIt(t *testing.T) {
	settings := config.DefaultSettings()
	settings.Enabled = false

	rec := effectstest.New()
	c := newChain(t, rec, settings)

	plain := effectstest.New()
	composer, err := effects.NewComposer(plain, 640, 480)
	if err != nil {
		t.Fatalf("NewComposer: %v", err)
	}
	dot := effects.NewShaderPass(effects.DotScreenShader())
	dot.SetFloat("scale", settings.Scale)
	dot.SetFloat("limit", settings.Limit)
	shift := effects.NewShaderPass(effects.RGBShiftShader())
	shift.SetFloat("amount", settings.Amount)
	composer.AddPass(effects.NewRenderPass(nil, nil))
	composer.AddPass(dot)
	composer.AddPass(shift)

	for frame := 0; frame < 3; frame++ {
		c.Render()
		composer.Render()
	}

	if len(rec.Calls) != len(plain.Calls) {
		t.Fatalf("calls = %v, want %v", callStrings(rec.Calls), callStrings(plain.Calls))
	}
	for i := range rec.Calls {
		a, b := rec.Calls[i], plain.Calls[i]
		if !a.Equal(b) {
			t.Fatalf("call %d = %v, want %v", i, a, b)
		}
		for _, u := range []string{"scale", "limit", "amount", "angle"} {
			if a.Uniforms.Float(u) != b.Uniforms.Float(u) {
				t.Fatalf("call %d uniform %s = %v, want %v", i, u, a.Uniforms.Float(u), b.Uniforms.Float(u))
			}
		}
	}
}

func TestComposerSetSize(t *testing.T) {
	rec := effectstest.New()
	c := newChain(t, rec, config.DefaultSettings())

	if got := c.Dot.Uniforms["resolution"]; got != (mgl32.Vec2{640, 480}) {
		t.Fatalf("initial resolution = %v", got)
	}

	c.SetSize(1024, 768)
	for _, target := range rec.Targets {
		if target.Width != 1024 || target.Height != 768 {
			t.Fatalf("target %d size = %dx%d", target.ID, target.Width, target.Height)
		}
	}
	for _, p := range []*effects.ShaderPass{c.Dot, c.RGBShift, &c.Glitch.ShaderPass} {
		if got := p.Uniforms["resolution"]; got != (mgl32.Vec2{1024, 768}) {
			t.Fatalf("%s resolution = %v", p.Name(), got)
		}
	}
	if w, h := c.Composer.Size(); w != 1024 || h != 768 {
		t.Fatalf("composer size = %dx%d", w, h)
	}
}

func TestChainApply(t *testing.T) {
	rec := effectstest.New()
	c := newChain(t, rec, config.DefaultSettings())

	if got := c.Dot.Uniforms.Float("scale"); got != 3 {
		t.Fatalf("default scale uniform = %v", got)
	}
	if got := c.RGBShift.Uniforms.Float("amount"); got != float32(0.0015) {
		t.Fatalf("default amount uniform = %v", got)
	}

	c.Apply(config.Settings{Scale: 5, Limit: 20, Amount: 0.01, Enabled: true, Wild: true})
	if c.Dot.Uniforms.Float("scale") != 5 || c.Dot.Uniforms.Float("limit") != 20 {
		t.Fatalf("dot uniforms = %v", c.Dot.Uniforms)
	}
	if c.RGBShift.Uniforms.Float("amount") != float32(0.01) {
		t.Fatalf("shift amount = %v", c.RGBShift.Uniforms.Float("amount"))
	}
	if !c.Glitch.Enabled() || !c.Glitch.Wild() {
		t.Fatalf("glitch flags not applied")
	}
}

func TestNewComposerReleasesOnFailure(t *testing.T) {
	rec := effectstest.New()
	rec.FailTargets = 1

	if _, err := effects.NewComposer(rec, 10, 10); err == nil {
		t.Fatalf("expected an error")
	}
	if len(rec.Targets) != 1 || !rec.Targets[0].Released {
		t.Fatalf("first target not released")
	}
}

func TestChainRelease(t *testing.T) {
	rec := effectstest.New()
	c := newChain(t, rec, config.DefaultSettings())
	c.Release()

	for _, target := range rec.Targets {
		if !target.Released {
			t.Fatalf("target %d leaked", target.ID)
		}
	}
	if !rec.Textures[0].Released {
		t.Fatalf("glitch map leaked")
	}
}
