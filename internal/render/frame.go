package render

import (
	"image"
	"image/png"
	"io"

	"golang.org/x/image/draw"
)

// Level clamps d to [0, 1] and quantises it to a palette index.
func Level(d float64) uint8 {
	if !(d > 0) {
		return 0
	}
	if d >= 1 {
		return Levels - 1
	}
	return uint8(d * (Levels - 1))
}

// Frame draws an n×n density field with cell (0, 0) at the bottom-left
// and each cell scale pixels wide.
func Frame(density []float64, n int, cmap Colormap, scale int) *image.Paletted {
	src := image.NewPaletted(image.Rect(0, 0, n, n), cmap.Palette())
	for j := 0; j < n; j++ {
		row := src.Pix[(n-1-j)*src.Stride:]
		for i := 0; i < n; i++ {
			row[i] = Level(density[i+n*j])
		}
	}
	if scale <= 1 {
		return src
	}

	dst := image.NewPaletted(image.Rect(0, 0, n*scale, n*scale), cmap.Palette())
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// WritePNG encodes a single frame.
func WritePNG(w io.Writer, density []float64, n int, cmap Colormap, scale int) error {
	return png.Encode(w, Frame(density, n, cmap, scale))
}
