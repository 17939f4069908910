package diagram

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/ZelongGuo/dislocation/internal/disloc"
)

var (
	traceColor   = color.RGBA{R: 200, G: 0, B: 0, A: 255}
	outlineColor = color.RGBA{R: 100, G: 149, B: 237, A: 150}
	vectorColor  = color.RGBA{R: 0, G: 100, B: 0, A: 255}
)

// ExportProfile writes the profile as a line plot (png, svg or pdf)
func ExportProfile(p Profile, filename string) error {
	if err := p.Validate(); err != nil {
		return err
	}

	plt := plot.New()
	plt.Title.Text = p.Title
	plt.X.Label.Text = "Distance along profile"
	plt.Y.Label.Text = p.Label
	if p.Unit != "" {
		plt.Y.Label.Text = fmt.Sprintf("%s (%s)", p.Label, p.Unit)
	}
	plt.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(p.Values))
	for i := range p.Values {
		pts[i] = plotter.XY{X: p.Distance[i], Y: p.Values[i]}
	}
	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return err
	}
	line.LineStyle.Width = vg.Points(2)
	line.LineStyle.Color = vectorColor
	points.GlyphStyle.Radius = vg.Points(2)
	plt.Add(line, points)

	return save(plt, 8*vg.Inch, 5*vg.Inch, filename)
}

// MapData is a plan view of a batch: patch outlines projected to the
// surface and the horizontal displacement at every station
type MapData struct {
	Title    string
	Patches  []disloc.FaultPatch
	Stations []disloc.ObservationPoint
	Results  []disloc.Result
	Scale    float64 // map length per unit displacement; 0 picks one
}

// ExportMap writes the map view to an image file
func ExportMap(data MapData, filename string) error {
	if len(data.Stations) != len(data.Results) {
		return fmt.Errorf("map has %d stations for %d results", len(data.Stations), len(data.Results))
	}

	p := plot.New()
	p.Title.Text = data.Title
	p.X.Label.Text = "East"
	p.Y.Label.Text = "North"

	for _, patch := range data.Patches {
		outline, trace := surfaceProjection(patch)

		poly, err := plotter.NewPolygon(outline)
		if err != nil {
			return err
		}
		poly.Color = outlineColor
		poly.LineStyle.Color = outlineColor
		p.Add(poly)

		top, err := plotter.NewLine(trace)
		if err != nil {
			return err
		}
		top.LineStyle.Width = vg.Points(2)
		top.LineStyle.Color = traceColor
		p.Add(top)
	}

	if len(data.Stations) > 0 {
		sites := make(plotter.XYs, len(data.Stations))
		for i, s := range data.Stations {
			sites[i] = plotter.XY{X: s.East, Y: s.North}
		}
		scatter, err := plotter.NewScatter(sites)
		if err != nil {
			return err
		}
		scatter.GlyphStyle.Radius = vg.Points(1.5)
		p.Add(scatter)

		scale := data.Scale
		if scale <= 0 {
			scale = autoScale(data.Stations, data.Results)
		}
		for i, s := range data.Stations {
			u := data.Results[i].U
			if u[0] == 0 && u[1] == 0 {
				continue
			}
			arrow, err := plotter.NewLine(plotter.XYs{
				{X: s.East, Y: s.North},
				{X: s.East + scale*u[0], Y: s.North + scale*u[1]},
			})
			if err != nil {
				return err
			}
			arrow.LineStyle.Width = vg.Points(1)
			arrow.LineStyle.Color = vectorColor
			p.Add(arrow)
		}
	}

	return save(p, 8*vg.Inch, 8*vg.Inch, filename)
}

// surfaceProjection returns the patch outline in plan view and its upper edge
func surfaceProjection(p disloc.FaultPatch) (plotter.XYs, plotter.XYs) {
	ss, cs := math.Sincos(p.Strike * math.Pi / 180)
	half := 0.5 * p.Length
	// along strike (ss, cs), down dip to the right of strike (cs, -ss)
	h := p.Width * math.Cos(p.Dip*math.Pi/180)

	a := plotter.XY{X: p.East - half*ss, Y: p.North - half*cs}
	b := plotter.XY{X: p.East + half*ss, Y: p.North + half*cs}
	c := plotter.XY{X: b.X + h*cs, Y: b.Y - h*ss}
	d := plotter.XY{X: a.X + h*cs, Y: a.Y - h*ss}

	return plotter.XYs{a, b, c, d}, plotter.XYs{a, b}
}

// autoScale makes the largest horizontal vector a tenth of the station spread
func autoScale(stations []disloc.ObservationPoint, results []disloc.Result) float64 {
	minE, maxE := stations[0].East, stations[0].East
	minN, maxN := stations[0].North, stations[0].North
	var umax float64
	for i, s := range stations {
		minE, maxE = min(minE, s.East), max(maxE, s.East)
		minN, maxN = min(minN, s.North), max(maxN, s.North)
		umax = max(umax, math.Hypot(results[i].U[0], results[i].U[1]))
	}
	spread := max(maxE-minE, maxN-minN)
	if umax == 0 || spread == 0 {
		return 1
	}
	return 0.1 * spread / umax
}

func save(p *plot.Plot, width, height vg.Length, filename string) error {
	dir := filepath.Dir(filename)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	switch filepath.Ext(filename) {
	case ".png", ".svg", ".pdf":
		return p.Save(width, height, filename)
	default:
		return p.Save(width, height, filename+".png")
	}
}
