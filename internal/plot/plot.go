// Package plot renders spectrum comparison charts as PNG images.
package plot

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"

	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/cwbudde/algo-fieldlab/dsp/spectrum"
)

// Defaults for Options.
const (
	DefaultWidth  = 1000
	DefaultHeight = 600
	DefaultMaxHz  = 500
)

// dpi makes one point one pixel, so Options sizes are image sizes.
const dpi = 72

var (
	bandColor = color.RGBA{0xff, 0xe0, 0x99, 0xff}

	// Series colours, cycled per panel.
	seriesColors = []color.RGBA{
		{0x1f, 0x77, 0xb4, 0xff},
		{0xd6, 0x27, 0x28, 0xff},
		{0x2c, 0xa0, 0x2c, 0xff},
	}
)

// Panel is one magnitude spectrum to draw.
type Panel struct {
	Title string
	Frame spectrum.Frame
}

// Options controls the chart layout.
type Options struct {
	Width  int
	Height int
	MaxHz  float64         // right edge of the frequency axis
	Bands  []spectrum.Band // shaded behind every panel
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.MaxHz <= 0 {
		o.MaxHz = DefaultMaxHz
	}
	return o
}

// Spectra writes a two-panel PNG comparing the original and transformed
// spectra to path.
func Spectra(path string, original, transformed spectrum.Frame, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("plot: %w", err)
	}

	err = Render(f, []Panel{
		{Title: "Original spectrum", Frame: original},
		{Title: "Counter-signal spectrum", Frame: transformed},
	}, opts)
	if err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("plot: %w", err)
	}
	return nil
}

// Render draws the panels stacked vertically and encodes the chart as PNG.
func Render(w io.Writer, panels []Panel, opts Options) error {
	if len(panels) == 0 {
		return errors.New("plot: no panels")
	}
	opts = opts.withDefaults()

	rows := make([][]*gplot.Plot, len(panels))
	for i, p := range panels {
		pl, err := NewPlot(p, opts, seriesColors[i%len(seriesColors)])
		if err != nil {
			return err
		}
		rows[i] = []*gplot.Plot{pl}
	}

	img := vgimg.NewWith(
		vgimg.UseWH(vg.Length(opts.Width), vg.Length(opts.Height)),
		vgimg.UseDPI(dpi),
	)
	tiles := draw.Tiles{
		Rows:      len(panels),
		Cols:      1,
		PadX:      vg.Millimeter,
		PadY:      vg.Millimeter * 2,
		PadTop:    vg.Millimeter,
		PadBottom: vg.Millimeter,
		PadLeft:   vg.Millimeter,
		PadRight:  vg.Millimeter * 2,
	}
	canvases := gplot.Align(rows, tiles, draw.New(img))
	for i := range rows {
		rows[i][0].Draw(canvases[i][0])
	}

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(w); err != nil {
		return fmt.Errorf("plot: encode png: %w", err)
	}
	return nil
}

// NewPlot builds the chart of one panel: the magnitude spectrum between
// 0 and opts.MaxHz drawn as a line in c, over shaded band spans.
func NewPlot(p Panel, opts Options, c color.Color) (*gplot.Plot, error) {
	opts = opts.withDefaults()

	pts := Points(p.Frame, opts.MaxHz)
	top := 0.0
	for _, pt := range pts {
		top = max(top, pt.Y)
	}
	if top == 0 {
		top = 1
	}

	pl := gplot.New()
	pl.Title.Text = p.Title
	pl.X.Label.Text = "Frequency (Hz)"
	pl.Y.Label.Text = "Magnitude"
	pl.Legend.Top = true

	for _, b := range opts.Bands {
		span, ok := BandSpan(b, opts.MaxHz, top)
		if !ok {
			continue
		}
		poly, err := plotter.NewPolygon(span)
		if err != nil {
			return nil, fmt.Errorf("plot: band %v: %w", b, err)
		}
		poly.Color = bandColor
		poly.LineStyle.Width = 0
		pl.Add(poly)
		pl.Legend.Add(b.String()+" Hz", poly)
	}
	pl.Add(plotter.NewGrid())

	if len(pts) > 0 {
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("plot: %s: %w", p.Title, err)
		}
		line.LineStyle.Color = c
		line.LineStyle.Width = vg.Points(1)
		pl.Add(line)
		pl.Legend.Add("|X(f)|", line)
	}

	// Add widens the axes to the data; pin them afterwards.
	pl.X.Min, pl.X.Max = 0, opts.MaxHz
	pl.Y.Min, pl.Y.Max = 0, top*1.05
	return pl, nil
}

// Points returns the magnitude spectrum of f between 0 and maxHz as
// (frequency, magnitude) pairs.
func Points(f spectrum.Frame, maxHz float64) plotter.XYs {
	mags := f.Magnitude()
	pts := make(plotter.XYs, 0, len(mags))
	for k, hz := range f.Freqs {
		if hz > maxHz || k >= len(mags) {
			break
		}
		pts = append(pts, plotter.XY{X: hz, Y: mags[k]})
	}
	return pts
}

// BandSpan returns the rectangle shading b, clipped to [0, maxHz] and of
// height top. It reports false when b lies outside the axis.
func BandSpan(b spectrum.Band, maxHz, top float64) (plotter.XYs, bool) {
	lo, hi := max(b.Lo, 0), min(b.Hi, maxHz)
	if lo > hi {
		return nil, false
	}
	return plotter.XYs{{X: lo, Y: 0}, {X: hi, Y: 0}, {X: hi, Y: top}, {X: lo, Y: top}}, true
}
