// Package render turns density fields into images.
package render

import (
	"fmt"
	"image/color"
	"sort"

	"github.com/mazznoer/colorgrad"
)

// Levels is the number of palette entries per colormap.
const Levels = 256

// Colormap maps a clamped density level onto a colour.
type Colormap interface {
	Name() string
	Palette() color.Palette
}

// Tint scales a single RGB direction by density, so 0 is black and 1 is
// the full tint.
type Tint struct {
	name    string
	r, g, b float64
	palette color.Palette
}

func NewTint(name string, r, g, b float64) *Tint {
	t := &Tint{name: name, r: r, g: g, b: b}
	t.palette = make(color.Palette, Levels)
	for i := range t.palette {
		d := float64(i) / (Levels - 1)
		t.palette[i] = color.RGBA{
			R: uint8(t.r*d*255 + 0.5),
			G: uint8(t.g*d*255 + 0.5),
			B: uint8(t.b*d*255 + 0.5),
			A: 0xff,
		}
	}
	return t
}

func (t *Tint) Name() string           { return t.name }
func (t *Tint) Palette() color.Palette { return t.palette }

// Gradient samples a colorgrad gradient.
type Gradient struct {
	name    string
	palette color.Palette
}

func NewGradient(name string, grad colorgrad.Gradient) *Gradient {
	g := &Gradient{name: name}
	for _, c := range grad.Colors(Levels) {
		g.palette = append(g.palette, c)
	}
	return g
}

func (g *Gradient) Name() string           { return g.name }
func (g *Gradient) Palette() color.Palette { return g.palette }

var colormaps = map[string]func() Colormap{
	"white":   func() Colormap { return NewTint("white", 1, 1, 1) },
	"red":     func() Colormap { return NewTint("red", 1, 0, 0) },
	"green":   func() Colormap { return NewTint("green", 0, 1, 0) },
	"blue":    func() Colormap { return NewTint("blue", 0, 0, 1) },
	"multi":   func() Colormap { return NewGradient("multi", colorgrad.Rainbow()) },
	"viridis": func() Colormap { return NewGradient("viridis", colorgrad.Viridis()) },
	"inferno": func() Colormap { return NewGradient("inferno", colorgrad.Inferno()) },
	"magma":   func() Colormap { return NewGradient("magma", colorgrad.Magma()) },
	"plasma":  func() Colormap { return NewGradient("plasma", colorgrad.Plasma()) },
	"turbo":   func() Colormap { return NewGradient("turbo", colorgrad.Turbo()) },
}

// Lookup returns the named colormap.
func Lookup(name string) (Colormap, error) {
	fn, ok := colormaps[name]
	if !ok {
		return nil, fmt.Errorf("unknown colormap: %s", name)
	}
	return fn(), nil
}

// Names lists the known colormaps in a stable order.
func Names() []string {
	names := make([]string, 0, len(colormaps))
	for name := range colormaps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Next returns the colormap after name in Names order, wrapping around.
func Next(name string) string {
	names := Names()
	for i, n := range names {
		if n == name {
			return names[(i+1)%len(names)]
		}
	}
	return names[0]
}
