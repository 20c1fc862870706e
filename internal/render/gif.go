package render

import (
	"image"
	"image/gif"
	"io"

	"github.com/san-kum/fluidsim/internal/sim"
)

// DefaultDelay is the GIF frame delay in hundredths of a second.
const DefaultDelay = 2

// Recorder collects frames for an animated GIF. It implements
// sim.Observer, so it can be attached to a headless run.
type Recorder struct {
	cmap   Colormap
	scale  int
	every  int
	delay  int
	frames []*image.Paletted
}

func NewRecorder(cmap Colormap, scale, every int) *Recorder {
	if every < 1 {
		every = 1
	}
	return &Recorder{cmap: cmap, scale: scale, every: every, delay: DefaultDelay}
}

// SetDelay changes the per-frame delay in hundredths of a second.
func (r *Recorder) SetDelay(d int) {
	if d > 0 {
		r.delay = d
	}
}

func (r *Recorder) OnTick(s sim.Snapshot) {
	if s.Tick%r.every != 0 {
		return
	}
	r.Capture(s.Density, s.Grid.N)
}

// Capture appends a frame of the given field.
func (r *Recorder) Capture(density []float64, n int) {
	r.frames = append(r.frames, Frame(density, n, r.cmap, r.scale))
}

func (r *Recorder) Len() int { return len(r.frames) }

func (r *Recorder) Reset() { r.frames = r.frames[:0] }

// Encode writes every captured frame as a looping GIF.
func (r *Recorder) Encode(w io.Writer) error {
	anim := &gif.GIF{}
	for _, f := range r.frames {
		anim.Image = append(anim.Image, f)
		anim.Delay = append(anim.Delay, r.delay)
	}
	return gif.EncodeAll(w, anim)
}
