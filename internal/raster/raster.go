// Package raster holds the small set of drawing primitives the texture
// generators share. Coordinates follow the inclusive-rectangle convention:
// FillRect(0, 0, 3, 3) paints a 4x4 block.
package raster

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
)

// Gray is an opaque grey level.
func Gray(v int) color.NRGBA {
	g := clamp8(v)
	return color.NRGBA{R: g, G: g, B: g, A: 0xff}
}

// RGB is an opaque colour.
func RGB(r, g, b int) color.NRGBA {
	return color.NRGBA{R: clamp8(r), G: clamp8(g), B: clamp8(b), A: 0xff}
}

// New returns a w×h canvas filled with bg.
func New(w, h int, bg color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)
	return img
}

// FillRect paints the inclusive rectangle [x0,x1]×[y0,y1], clipped to img.
func FillRect(img *image.NRGBA, x0, y0, x1, y1 int, c color.NRGBA) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	r := image.Rect(x0, y0, x1+1, y1+1).Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(img, r, &image.Uniform{C: c}, image.Point{}, draw.Src)
}

// Line draws a Bresenham line. Width > 1 thickens it perpendicular to its
// major axis.
func Line(img *image.NRGBA, x0, y0, x1, y1 int, c color.NRGBA, width int) {
	if width < 1 {
		width = 1
	}
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	steep := -dy > dx
	err := dx + dy
	for {
		for w := 0; w < width; w++ {
			off := w - (width-1)/2
			if steep {
				set(img, x0+off, y0, c)
			} else {
				set(img, x0, y0+off, c)
			}
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// FillEllipse paints the ellipse inscribed in [x0,x1]×[y0,y1].
func FillEllipse(img *image.NRGBA, x0, y0, x1, y1 int, c color.NRGBA) {
	cx, cy := float64(x0+x1)/2, float64(y0+y1)/2
	rx, ry := float64(x1-x0)/2, float64(y1-y0)/2
	if rx <= 0 || ry <= 0 {
		return
	}
	r := image.Rect(x0, y0, x1+1, y1+1).Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		ny := (float64(y) - cy) / ry
		for x := r.Min.X; x < r.Max.X; x++ {
			nx := (float64(x) - cx) / rx
			if nx*nx+ny*ny <= 1 {
				img.SetNRGBA(x, y, c)
			}
		}
	}
}

// Set paints one pixel, ignoring out of range coordinates.
func Set(img *image.NRGBA, x, y int, c color.NRGBA) {
	set(img, x, y, c)
}

// Multiply scales the colour channels of every pixel by f in place.
func Multiply(img *image.NRGBA, f float64) {
	p := img.Pix
	for i := 0; i < len(p); i += 4 {
		p[i] = uint8(float64(p[i]) * f)
		p[i+1] = uint8(float64(p[i+1]) * f)
		p[i+2] = uint8(float64(p[i+2]) * f)
	}
}

// Blur applies a gaussian blur with the given sigma.
func Blur(img *image.NRGBA, sigma float64) *image.NRGBA {
	if sigma <= 0 {
		return img
	}
	return imaging.Blur(img, sigma)
}

// Blend mixes b over a with weight alpha in [0,1]. b is resized to a's
// bounds first when they differ.
func Blend(a, b *image.NRGBA, alpha float64) *image.NRGBA {
	w, h := a.Bounds().Dx(), a.Bounds().Dy()
	if b.Bounds().Dx() != w || b.Bounds().Dy() != h {
		b = imaging.Resize(b, w, h, imaging.Linear)
	}
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		ra := a.Pix[y*a.Stride : y*a.Stride+w*4]
		rb := b.Pix[y*b.Stride : y*b.Stride+w*4]
		ro := out.Pix[y*out.Stride : y*out.Stride+w*4]
		for i := range ro {
			ro[i] = uint8(float64(ra[i])*(1-alpha) + float64(rb[i])*alpha + 0.5)
		}
	}
	return out
}

func set(img *image.NRGBA, x, y int, c color.NRGBA) {
	if !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		return
	}
	img.SetNRGBA(x, y, c)
}

func clamp8(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
