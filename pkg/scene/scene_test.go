package scene

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"spherefx/pkg/config"
)

func TestBuildStructure(t *testing.T) {
	cfg := config.DefaultConfig().Scene
	s, object := Build(cfg, rand.New(rand.NewSource(1)))

	if got := s.CountKind(KindAmbientLight); got != 1 {
		t.Fatalf("ambient lights = %d, want 1", got)
	}
	if got := s.CountKind(KindDirectionalLight); got != 1 {
		t.Fatalf("directional lights = %d, want 1", got)
	}
	if got := s.CountKind(KindMesh); got != 100 {
		t.Fatalf("meshes = %d, want 100", got)
	}

	children := s.Children(object)
	if len(children) != 100 {
		t.Fatalf("object children = %d, want 100", len(children))
	}
	for _, id := range children {
		n := s.Node(id)
		if n.Kind != KindMesh || n.Geometry == nil || n.Material == nil {
			t.Fatalf("child %d is not a sphere mesh: %+v", id, n)
		}
		if s.Parent(id) != object {
			t.Fatalf("child %d has parent %d", id, s.Parent(id))
		}
	}
}

func TestBuildTransformBounds(t *testing.T) {
	cfg := config.DefaultConfig().Scene
	for seed := int64(1); seed <= 20; seed++ {
		s, object := Build(cfg, rand.New(rand.NewSource(seed)))
		for _, id := range s.Children(object) {
			tr := s.Node(id).Transform
			if l := tr.Position.Len(); l > cfg.MaxRadius+1e-9 {
				t.Fatalf("seed %d: position magnitude %v > %v", seed, l, cfg.MaxRadius)
			}
			if tr.Scale[0] < 0 || tr.Scale[0] > cfg.MaxScale {
				t.Fatalf("seed %d: scale %v out of [0, %v]", seed, tr.Scale[0], cfg.MaxScale)
			}
			if tr.Scale[0] != tr.Scale[1] || tr.Scale[1] != tr.Scale[2] {
				t.Fatalf("seed %d: scale not uniform: %v", seed, tr.Scale)
			}
			for i := 0; i < 3; i++ {
				if tr.Rotation[i] < 0 || tr.Rotation[i] >= 2 {
					t.Fatalf("seed %d: rotation %v out of [0, 2)", seed, tr.Rotation)
				}
			}
		}
	}
}

func TestBuildSeedReproducible(t *testing.T) {
	cfg := config.DefaultConfig().Scene
	a, objA := Build(cfg, rand.New(rand.NewSource(5)))
	b, objB := Build(cfg, rand.New(rand.NewSource(5)))

	ca, cb := a.Children(objA), b.Children(objB)
	for i := range ca {
		if a.Node(ca[i]).Transform != b.Node(cb[i]).Transform {
			t.Fatalf("child %d differs between equal seeds", i)
		}
	}
}

func TestSphereGeometry(t *testing.T) {
	g := NewSphereGeometry(1, 4, 4)

	// 4x4 grid, pole rows contribute one triangle per segment
	if got, want := g.VertexCount(), (4*4*2-4-4)*3; got != want {
		t.Fatalf("vertex count = %d, want %d", got, want)
	}

	for i := 0; i < len(g.Positions); i += 3 {
		p := mgl64.Vec3{float64(g.Positions[i]), float64(g.Positions[i+1]), float64(g.Positions[i+2])}
		if math.Abs(p.Len()-1) > 1e-5 {
			t.Fatalf("vertex %d not on the unit sphere: %v", i/3, p)
		}
	}

	// faces are wound counter-clockwise seen from outside
	for v := 0; v < g.VertexCount(); v += 3 {
		var centroid, normal mgl64.Vec3
		for k := 0; k < 3; k++ {
			o := (v + k) * 3
			centroid = centroid.Add(mgl64.Vec3{float64(g.Positions[o]), float64(g.Positions[o+1]), float64(g.Positions[o+2])})
		}
		o := v * 3
		normal = mgl64.Vec3{float64(g.Normals[o]), float64(g.Normals[o+1]), float64(g.Normals[o+2])}
		if normal.Dot(centroid) <= 0 {
			t.Fatalf("face %d normal %v points inwards", v/3, normal)
		}
	}

	if got := len(g.Interleaved()); got != g.VertexCount()*6 {
		t.Fatalf("interleaved length = %d", got)
	}
}

func TestRotateAccumulates(t *testing.T) {
	s := New()
	id := s.Add(s.Root(), Node{Kind: KindGroup, Transform: IdentityTransform(), Visible: true})

	for i := 0; i < 1000; i++ {
		before := s.Node(id).Transform.Rotation
		s.Rotate(id, 0.005, 0.01, 0)
		after := s.Node(id).Transform.Rotation
		if math.Abs(after[0]-before[0]-0.005) > 1e-12 || math.Abs(after[1]-before[1]-0.01) > 1e-12 {
			t.Fatalf("step %d: delta = %v", i, after.Sub(before))
		}
	}
	if r := s.Node(id).Transform.Rotation; math.Abs(r[1]-10) > 1e-9 {
		t.Fatalf("rotation.y after 1000 steps = %v, want 10 (no wrapping)", r[1])
	}
}

func TestWorldMatrixComposes(t *testing.T) {
	s := New()
	parent := IdentityTransform()
	parent.Position = mgl64.Vec3{10, 0, 0}
	p := s.Add(s.Root(), Node{Kind: KindGroup, Transform: parent, Visible: true})

	child := IdentityTransform()
	child.Position = mgl64.Vec3{0, 5, 0}
	c := s.Add(p, Node{Kind: KindMesh, Transform: child, Visible: true})

	world := s.WorldMatrix(c)
	got := world.Col(3).Vec3()
	if !got.ApproxEqual(mgl64.Vec3{10, 5, 0}) {
		t.Fatalf("world position = %v", got)
	}
}

func TestTraverseVisibleSkipsHiddenSubtrees(t *testing.T) {
	s := New()
	hidden := s.Add(s.Root(), Node{Kind: KindGroup, Transform: IdentityTransform(), Visible: false})
	s.Add(hidden, Node{Kind: KindMesh, Transform: IdentityTransform(), Visible: true})
	shown := s.Add(s.Root(), Node{Kind: KindMesh, Transform: IdentityTransform(), Visible: true})

	var seen []NodeID
	s.TraverseVisible(func(id NodeID, _ *Node, _ mgl64.Mat4) {
		seen = append(seen, id)
	})
	if len(seen) != 2 || seen[0] != s.Root() || seen[1] != shown {
		t.Fatalf("visited %v", seen)
	}
}

func TestAddUnknownParentPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	New().Add(NodeID(42), Node{})
}

func TestHex(t *testing.T) {
	c := Hex(0x222222)
	if math.Abs(float64(c[0])-float64(0x22)/255) > 1e-6 || c[0] != c[1] || c[1] != c[2] {
		t.Fatalf("Hex(0x222222) = %v", c)
	}
}
