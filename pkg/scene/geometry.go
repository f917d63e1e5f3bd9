package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Geometry is a non-indexed triangle list with one normal per vertex.
// Positions and Normals are packed xyz triples.
type Geometry struct {
	Name      string
	Positions []float32
	Normals   []float32
}

// VertexCount returns the number of vertices
func (g *Geometry) VertexCount() int {
	return len(g.Positions) / 3
}

// Interleaved returns position/normal pairs as 6 floats per vertex
func (g *Geometry) Interleaved() []float32 {
	out := make([]float32, 0, len(g.Positions)*2)
	for i := 0; i < len(g.Positions); i += 3 {
		out = append(out, g.Positions[i:i+3]...)
		out = append(out, g.Normals[i:i+3]...)
	}
	return out
}

// NewSphereGeometry builds a UV sphere split into widthSegments around and
// heightSegments pole to pole. Every triangle carries its face normal so the
// result renders flat shaded.
func NewSphereGeometry(radius float64, widthSegments, heightSegments int) *Geometry {
	if widthSegments < 3 {
		widthSegments = 3
	}
	if heightSegments < 2 {
		heightSegments = 2
	}

	grid := make([][]mgl32.Vec3, heightSegments+1)
	for iy := 0; iy <= heightSegments; iy++ {
		v := float64(iy) / float64(heightSegments)
		theta := v * math.Pi
		grid[iy] = make([]mgl32.Vec3, widthSegments+1)
		for ix := 0; ix <= widthSegments; ix++ {
			u := float64(ix) / float64(widthSegments)
			phi := u * 2 * math.Pi
			grid[iy][ix] = mgl32.Vec3{
				float32(-radius * math.Cos(phi) * math.Sin(theta)),
				float32(radius * math.Cos(theta)),
				float32(radius * math.Sin(phi) * math.Sin(theta)),
			}
		}
	}

	g := &Geometry{Name: "sphere"}
	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := grid[iy][ix+1]
			b := grid[iy][ix]
			c := grid[iy+1][ix]
			d := grid[iy+1][ix+1]

			// the pole rows collapse to a single triangle per segment
			if iy != 0 {
				g.addFace(a, b, d)
			}
			if iy != heightSegments-1 {
				g.addFace(b, c, d)
			}
		}
	}
	return g
}

func (g *Geometry) addFace(p0, p1, p2 mgl32.Vec3) {
	n := p1.Sub(p0).Cross(p2.Sub(p0))
	if l := n.Len(); l > 0 {
		n = n.Mul(1 / l)
	}
	for _, p := range [3]mgl32.Vec3{p0, p1, p2} {
		g.Positions = append(g.Positions, p[0], p[1], p[2])
		g.Normals = append(g.Normals, n[0], n[1], n[2])
	}
}
