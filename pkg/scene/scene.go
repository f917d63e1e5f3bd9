package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// NodeID is an opaque handle into a Scene's node arena
type NodeID int

// NoNode is returned by lookups that find nothing
const NoNode NodeID = -1

// NodeKind tells the renderer how to treat a node
type NodeKind int

const (
	KindGroup NodeKind = iota
	KindMesh
	KindAmbientLight
	KindDirectionalLight
)

func (k NodeKind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindMesh:
		return "mesh"
	case KindAmbientLight:
		return "ambient-light"
	case KindDirectionalLight:
		return "directional-light"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Transform is a local TRS transform. Rotation is an XYZ Euler angle triple in
// radians and is never wrapped.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Vec3
	Scale    mgl64.Vec3
}

// IdentityTransform returns a transform that leaves its node in place
func IdentityTransform() Transform {
	return Transform{Scale: mgl64.Vec3{1, 1, 1}}
}

// Matrix composes translation * rotation(X then Y then Z) * scale
func (t Transform) Matrix() mgl64.Mat4 {
	m := mgl64.Translate3D(t.Position[0], t.Position[1], t.Position[2])
	m = m.Mul4(mgl64.HomogRotate3DX(t.Rotation[0]))
	m = m.Mul4(mgl64.HomogRotate3DY(t.Rotation[1]))
	m = m.Mul4(mgl64.HomogRotate3DZ(t.Rotation[2]))
	return m.Mul4(mgl64.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2]))
}

// Material is a Phong surface description
type Material struct {
	Color       mgl32.Vec3
	Specular    mgl32.Vec3
	Shininess   float32
	FlatShading bool
}

// Light describes the emission of a light node
type Light struct {
	Color     mgl32.Vec3
	Intensity float32
}

// Fog is linear distance fog
type Fog struct {
	Color     mgl32.Vec3
	Near, Far float32
}

// Node is one entry of the scene arena
type Node struct {
	Kind      NodeKind
	Name      string
	Transform Transform
	Visible   bool

	Geometry *Geometry
	Material *Material
	Light    *Light

	parent   NodeID
	children []NodeID
}

// Scene owns every node of a scene graph. Node 0 is the root group.
type Scene struct {
	Background mgl32.Vec3
	Fog        *Fog

	nodes []Node
}

// New creates a scene holding only its root group
func New() *Scene {
	s := &Scene{}
	s.nodes = append(s.nodes, Node{
		Kind:      KindGroup,
		Name:      "root",
		Transform: IdentityTransform(),
		Visible:   true,
		parent:    NoNode,
	})
	return s
}

// Root returns the handle of the root group
func (s *Scene) Root() NodeID {
	return 0
}

// Len returns the number of nodes including the root
func (s *Scene) Len() int {
	return len(s.nodes)
}

// Add appends n under parent and returns its handle. Adding under an unknown
// parent is a programming error and panics.
func (s *Scene) Add(parent NodeID, n Node) NodeID {
	if s.Node(parent) == nil {
		panic(fmt.Sprintf("scene: add under unknown parent %d", parent))
	}

	id := NodeID(len(s.nodes))
	n.parent = parent
	n.children = nil
	s.nodes = append(s.nodes, n)
	s.nodes[parent].children = append(s.nodes[parent].children, id)
	return id
}

// Node returns the node for id, or nil
func (s *Scene) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(s.nodes) {
		return nil
	}
	return &s.nodes[id]
}

// Parent returns the parent handle of id
func (s *Scene) Parent(id NodeID) NodeID {
	if n := s.Node(id); n != nil {
		return n.parent
	}
	return NoNode
}

// Children returns a copy of the child handles of id
func (s *Scene) Children(id NodeID) []NodeID {
	n := s.Node(id)
	if n == nil {
		return nil
	}
	return append([]NodeID(nil), n.children...)
}

// Rotate adds an Euler delta to the local rotation of id
func (s *Scene) Rotate(id NodeID, dx, dy, dz float64) {
	if n := s.Node(id); n != nil {
		n.Transform.Rotation = n.Transform.Rotation.Add(mgl64.Vec3{dx, dy, dz})
	}
}

// CountKind counts the nodes of a kind
func (s *Scene) CountKind(kind NodeKind) int {
	count := 0
	for i := range s.nodes {
		if s.nodes[i].Kind == kind {
			count++
		}
	}
	return count
}

// WorldMatrix composes the transforms from the root down to id
func (s *Scene) WorldMatrix(id NodeID) mgl64.Mat4 {
	n := s.Node(id)
	if n == nil {
		return mgl64.Ident4()
	}
	if n.parent == NoNode {
		return n.Transform.Matrix()
	}
	return s.WorldMatrix(n.parent).Mul4(n.Transform.Matrix())
}

// TraverseVisible walks the graph depth first, skipping invisible subtrees,
// and passes each node with its world matrix.
func (s *Scene) TraverseVisible(fn func(id NodeID, n *Node, world mgl64.Mat4)) {
	s.traverse(s.Root(), mgl64.Ident4(), fn)
}

func (s *Scene) traverse(id NodeID, parentWorld mgl64.Mat4, fn func(NodeID, *Node, mgl64.Mat4)) {
	n := &s.nodes[id]
	if !n.Visible {
		return
	}
	world := parentWorld.Mul4(n.Transform.Matrix())
	fn(id, n, world)
	for _, child := range n.children {
		s.traverse(child, world, fn)
	}
}

// Hex converts a 0xRRGGBB colour to linear float components
func Hex(rgb uint32) mgl32.Vec3 {
	return mgl32.Vec3{
		float32((rgb>>16)&0xff) / 255,
		float32((rgb>>8)&0xff) / 255,
		float32(rgb&0xff) / 255,
	}
}

// Vec3f narrows a float64 vector for upload
func Vec3f(v mgl64.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}

// Mat4f narrows a float64 matrix for upload
func Mat4f(m mgl64.Mat4) mgl32.Mat4 {
	var out mgl32.Mat4
	for i := range m {
		out[i] = float32(m[i])
	}
	return out
}
