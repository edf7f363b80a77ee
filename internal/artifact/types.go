package artifact

import (
	"image"
	"math"
)

// Kind names the payload variant of an Artifact.
type Kind string

const (
	KindImage     Kind = "image"
	KindMesh      Kind = "mesh"
	KindBlueprint Kind = "blueprint"
)

// Artifact is a generated payload. Stored artifacts are shared between all
// callers of the cache and must be treated as read-only.
type Artifact interface {
	Kind() Kind
}

// Image is a synthesized texture.
type Image struct {
	Pix *image.NRGBA
}

func (*Image) Kind() Kind { return KindImage }

// Width returns the pixel width, or 0 for an empty image.
func (i *Image) Width() int {
	if i == nil || i.Pix == nil {
		return 0
	}
	return i.Pix.Bounds().Dx()
}

// Height returns the pixel height, or 0 for an empty image.
func (i *Image) Height() int {
	if i == nil || i.Pix == nil {
		return 0
	}
	return i.Pix.Bounds().Dy()
}

// Vec3 is a point or direction in scene space (y up).
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) Len() float64 { return math.Sqrt(v.Dot(v)) }

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{v.Y*o.Z - v.Z*o.Y, v.Z*o.X - v.X*o.Z, v.X*o.Y - v.Y*o.X}
}

// Unit returns v scaled to length 1; the zero vector is returned unchanged.
func (v Vec3) Unit() Vec3 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// Uniform returns a vector with all three components set to s.
func Uniform(s float64) Vec3 { return Vec3{s, s, s} }

// Mesh is indexed triangle geometry with an optional baked texture.
type Mesh struct {
	Vertices  []Vec3       `json:"vertices"`
	UVs       [][2]float64 `json:"uvs,omitempty"`
	Triangles [][3]int     `json:"triangles"`
	Texture   *Image       `json:"-"`
}

func (*Mesh) Kind() Kind { return KindMesh }

// Bounds returns the axis aligned bounding box of the vertices.
func (m *Mesh) Bounds() (lo, hi Vec3) {
	if m == nil || len(m.Vertices) == 0 {
		return Vec3{}, Vec3{}
	}
	lo, hi = m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		lo = Vec3{min(lo.X, v.X), min(lo.Y, v.Y), min(lo.Z, v.Z)}
		hi = Vec3{max(hi.X, v.X), max(hi.Y, v.Y), max(hi.Z, v.Z)}
	}
	return lo, hi
}
