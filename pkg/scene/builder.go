package scene

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"spherefx/pkg/config"
)

// Build creates the sphere field: an ambient light, a directional light and a
// group holding cfg.Count randomly placed spheres. It returns the scene and
// the handle of the group, which is the node the frame loop rotates.
func Build(cfg config.SceneConfig, rng *rand.Rand) (*Scene, NodeID) {
	s := New()
	s.Background = mgl32.Vec3{0, 0, 0}
	s.Fog = &Fog{Color: Hex(0x000000), Near: 1, Far: 1000}

	object := s.Add(s.Root(), Node{
		Kind:      KindGroup,
		Name:      "object",
		Transform: IdentityTransform(),
		Visible:   true,
	})

	geometry := NewSphereGeometry(1, 4, 4)
	material := &Material{
		Color:       Hex(0xffffff),
		Specular:    Hex(0x111111),
		Shininess:   30,
		FlatShading: true,
	}

	for i := 0; i < cfg.Count; i++ {
		s.Add(object, Node{
			Kind:      KindMesh,
			Name:      "sphere",
			Transform: randomTransform(cfg, rng),
			Visible:   true,
			Geometry:  geometry,
			Material:  material,
		})
	}

	s.Add(s.Root(), Node{
		Kind:      KindAmbientLight,
		Name:      "ambient",
		Transform: IdentityTransform(),
		Visible:   true,
		Light:     &Light{Color: Hex(0x222222), Intensity: 1},
	})

	sun := IdentityTransform()
	sun.Position = mgl64.Vec3{1, 1, 1}
	s.Add(s.Root(), Node{
		Kind:      KindDirectionalLight,
		Name:      "directional",
		Transform: sun,
		Visible:   true,
		Light:     &Light{Color: Hex(0xffffff), Intensity: 1},
	})

	return s, object
}

func randomTransform(cfg config.SceneConfig, rng *rand.Rand) Transform {
	dir := mgl64.Vec3{rng.Float64() - 0.5, rng.Float64() - 0.5, rng.Float64() - 0.5}
	if l := dir.Len(); l > 0 {
		dir = dir.Mul(1 / l)
	}

	scale := rng.Float64() * cfg.MaxScale
	return Transform{
		Position: dir.Mul(rng.Float64() * cfg.MaxRadius),
		Rotation: mgl64.Vec3{rng.Float64() * 2, rng.Float64() * 2, rng.Float64() * 2},
		Scale:    mgl64.Vec3{scale, scale, scale},
	}
}
