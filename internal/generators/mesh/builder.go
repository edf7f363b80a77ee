package mesh

import (
	"assetforge/internal/artifact"
)

// builder appends unshared quads and triangles, each with its own uv square.
type builder struct {
	m *artifact.Mesh
}

func newBuilder() *builder {
	return &builder{m: &artifact.Mesh{}}
}

func (b *builder) quad(p0, p1, p2, p3 artifact.Vec3) {
	base := len(b.m.Vertices)
	b.m.Vertices = append(b.m.Vertices, p0, p1, p2, p3)
	b.m.UVs = append(b.m.UVs, [2]float64{0, 0}, [2]float64{1, 0}, [2]float64{1, 1}, [2]float64{0, 1})
	b.m.Triangles = append(b.m.Triangles, [3]int{base, base + 1, base + 2}, [3]int{base, base + 2, base + 3})
}

func (b *builder) tri(p0, p1, p2 artifact.Vec3) {
	base := len(b.m.Vertices)
	b.m.Vertices = append(b.m.Vertices, p0, p1, p2)
	b.m.UVs = append(b.m.UVs, [2]float64{0, 0}, [2]float64{1, 0}, [2]float64{0.5, 1})
	b.m.Triangles = append(b.m.Triangles, [3]int{base, base + 1, base + 2})
}

// beam extrudes a square section of side thick from one point to another.
func (b *builder) beam(from, to artifact.Vec3, thick float64) {
	dir := to.Sub(from)
	if dir.Len() == 0 {
		return
	}
	up := artifact.Vec3{Y: 1}
	if c := dir.Unit().Cross(up); c.Len() < 1e-6 {
		up = artifact.Vec3{X: 1}
	}
	u := dir.Cross(up).Unit().Scale(thick / 2)
	v := dir.Cross(u).Unit().Scale(thick / 2)

	corner := func(p artifact.Vec3, su, sv float64) artifact.Vec3 {
		return p.Add(u.Scale(su)).Add(v.Scale(sv))
	}
	a0, a1, a2, a3 := corner(from, -1, -1), corner(from, 1, -1), corner(from, 1, 1), corner(from, -1, 1)
	b0, b1, b2, b3 := corner(to, -1, -1), corner(to, 1, -1), corner(to, 1, 1), corner(to, -1, 1)

	b.quad(a0, a1, b1, b0)
	b.quad(a1, a2, b2, b1)
	b.quad(a2, a3, b3, b2)
	b.quad(a3, a0, b0, b3)
	b.quad(a3, a2, a1, a0)
	b.quad(b0, b1, b2, b3)
}

func (b *builder) mesh() *artifact.Mesh {
	return b.m
}
