// Package export renders sampled solutions to PNG files.
package export

import (
	"bufio"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/joehahn/int-sys-eqns/internal/solve"
)

var palette = []color.Color{
	color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
	color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	color.RGBA{R: 0x94, G: 0x67, B: 0xbd, A: 0xff},
	color.RGBA{R: 0x8c, G: 0x56, B: 0x4b, A: 0xff},
}

// SolutionPNG renders every state component against x as one line plot.
func SolutionPNG(filename, title string, table *solve.Table) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	stylePlot(p)

	dim, _ := table.Dims()
	xs := table.Xs()
	for i := 0; i < dim; i++ {
		line, err := newLine(xs, table.Row(i), i)
		if err != nil {
			return err
		}
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("y%d", i), line)
	}
	p.Legend.Top = true

	return savePNG(p, 8.0, 5.0, filename)
}

// PhasePNG renders component j against component i.
func PhasePNG(filename, title string, table *solve.Table, i, j int) error {
	dim, _ := table.Dims()
	if i < 0 || i >= dim || j < 0 || j >= dim {
		return fmt.Errorf("phase plot components %d,%d out of range for dim %d", i, j, dim)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = fmt.Sprintf("y%d", i)
	p.Y.Label.Text = fmt.Sprintf("y%d", j)
	stylePlot(p)

	line, err := newLine(table.Row(i), table.Row(j), 0)
	if err != nil {
		return err
	}
	p.Add(line)

	return savePNG(p, 6.0, 6.0, filename)
}

// LogLogPNG renders one curve on log-log axes, used for work-precision
// and convergence diagrams. Non-positive values cannot be placed on a
// log axis and are dropped.
func LogLogPNG(filename, title, xlabel, ylabel string, xs, ys []float64) error {
	if len(xs) != len(ys) {
		return fmt.Errorf("log-log plot needs matching lengths, got %d and %d", len(xs), len(ys))
	}

	fx := make([]float64, 0, len(xs))
	fy := make([]float64, 0, len(ys))
	for k := range xs {
		if xs[k] > 0 && ys[k] > 0 && !math.IsInf(ys[k], 0) {
			fx = append(fx, xs[k])
			fy = append(fy, ys[k])
		}
	}
	if len(fx) == 0 {
		return fmt.Errorf("no positive data for log-log plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	p.X.Scale = plot.LogScale{}
	p.Y.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}

	line, err := newLine(fx, fy, 0)
	if err != nil {
		return err
	}
	p.Add(line)

	scatter, err := plotter.NewScatter(line.XYs)
	if err != nil {
		return err
	}
	scatter.GlyphStyle.Radius = vg.Points(2.5)
	scatter.GlyphStyle.Color = palette[0]
	p.Add(scatter)

	return savePNG(p, 7.0, 5.0, filename)
}

func newLine(xs, ys []float64, idx int) (*plotter.Line, error) {
	if len(xs) != len(ys) || len(xs) == 0 {
		return nil, fmt.Errorf("plot data invalid")
	}
	pts := make(plotter.XYs, len(xs))
	for k := range xs {
		pts[k].X = xs[k]
		pts[k].Y = ys[k]
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	line.LineStyle.Width = vg.Points(1.5)
	line.LineStyle.Color = palette[idx%len(palette)]
	return line, nil
}

func stylePlot(p *plot.Plot) {
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.TextStyle.Font.Size = vg.Points(12)
	p.Y.Label.TextStyle.Font.Size = vg.Points(12)
	p.X.Tick.Label.Font.Size = vg.Points(10)
	p.Y.Tick.Label.Font.Size = vg.Points(10)
	p.X.Padding = vg.Points(8)
	p.Y.Padding = vg.Points(8)
}

func savePNG(p *plot.Plot, widthIn, heightIn float64, filename string) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(widthIn)*vg.Inch, vg.Length(heightIn)*vg.Inch),
		vgimg.UseDPI(150),
	)
	p.Draw(draw.New(c))

	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	defer bw.Flush()

	pngc := vgimg.PngCanvas{Canvas: c}
	if _, err := pngc.WriteTo(bw); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	return nil
}
