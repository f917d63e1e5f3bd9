package effects

import (
	"fmt"
	"math"
	"math/rand"

	"spherefx/internal/util"
)

// GlitchPass drives the digital glitch shader. Most frames are bypassed; a
// strong glitch fires every randX frames and a mild one during the first
// fifth of each cycle. Wild mode glitches every frame.
type GlitchPass struct {
	ShaderPass
	heightMap Texture
	rng       *rand.Rand
	wild      bool
	curF      int
	randX     int
}

// NewGlitchPass uploads a dtSize x dtSize displacement map to r
func NewGlitchPass(r Renderer, dtSize int, rng *rand.Rand) (*GlitchPass, error) {
	if dtSize <= 0 {
		return nil, fmt.Errorf("invalid glitch map size %d", dtSize)
	}

	data := make([]float32, dtSize*dtSize)
	for i := range data {
		data[i] = rng.Float32()
	}
	heightMap, err := r.NewDataTexture(dtSize, dtSize, data)
	if err != nil {
		return nil, fmt.Errorf("failed to create glitch map: %w", err)
	}

	p := &GlitchPass{
		ShaderPass: *NewShaderPass(DigitalGlitchShader()),
		heightMap:  heightMap,
		rng:        rng,
	}
	p.name = "glitch"
	p.Uniforms["tDisp"] = heightMap
	p.generateTrigger()
	return p, nil
}

// SetWild switches between continuous and periodic glitching
func (p *GlitchPass) SetWild(wild bool) { p.wild = wild }

// Wild reports whether wild mode is on
func (p *GlitchPass) Wild() bool { return p.wild }

func (p *GlitchPass) Render(r Renderer, write, read RenderTarget, toScreen bool) {
	p.update()
	p.ShaderPass.Render(r, write, read, toScreen)
}

func (p *GlitchPass) update() {
	u := p.Uniforms
	u["seed"] = p.rng.Float32()
	u["byp"] = int32(0)

	phase := p.curF % p.randX
	switch {
	case phase == 0 || p.wild:
		u["amount"] = p.rng.Float32() / 30
		u["angle"] = p.randomFloat(-math.Pi, math.Pi)
		u["seed_x"] = p.randomFloat(-1, 1)
		u["seed_y"] = p.randomFloat(-1, 1)
		u["distortion_x"] = p.randomFloat(0, 1)
		u["distortion_y"] = p.randomFloat(0, 1)
		p.curF = 0
		p.generateTrigger()
	case float64(phase) < float64(p.randX)/5:
		u["amount"] = p.rng.Float32() / 90
		u["angle"] = p.randomFloat(-math.Pi, math.Pi)
		u["distortion_x"] = p.randomFloat(0, 1)
		u["distortion_y"] = p.randomFloat(0, 1)
		u["seed_x"] = p.randomFloat(-0.3, 0.3)
		u["seed_y"] = p.randomFloat(-0.3, 0.3)
	default:
		u["byp"] = int32(1)
	}
	p.curF++
}

func (p *GlitchPass) randomFloat(min, max float64) float32 {
	return float32(util.RandomFloat(p.rng, min, max))
}

func (p *GlitchPass) generateTrigger() {
	p.randX = util.RandomInt(p.rng, 120, 240)
}

// Release frees the displacement map
func (p *GlitchPass) Release() {
	if p.heightMap != nil {
		p.heightMap.Release()
		p.heightMap = nil
	}
}
