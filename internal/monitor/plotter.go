package monitor

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/mosswood-robotics/gridnav/internal/costmap"
	"github.com/mosswood-robotics/gridnav/internal/geom"
	"github.com/mosswood-robotics/gridnav/internal/navpath"
)

// PlanPlotter writes plan snapshots to PNG files for offline inspection.
type PlanPlotter struct {
	outputDir string
}

// NewPlanPlotter creates a plotter writing into outputDir, creating the
// directory if needed.
func NewPlanPlotter(outputDir string) (*PlanPlotter, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("create plot directory: %w", err)
	}
	return &PlanPlotter{outputDir: outputDir}, nil
}

// SavePlan renders the costmap obstacles, the path and the goal into a
// timestamped PNG and returns its file name.
func (pp *PlanPlotter) SavePlan(grid *costmap.Grid, path navpath.Path, goal geom.Vector) (string, error) {
	p := plot.New()
	p.Title.Text = "Global Plan"
	p.X.Label.Text = "X (m)"
	p.Y.Label.Text = "Y (m)"

	if grid != nil {
		var obstacles plotter.XYs
		for cy := 0; cy < grid.Height; cy++ {
			for cx := 0; cx < grid.Width; cx++ {
				cost, _ := grid.At(cx, cy)
				if !costmap.IsObstacle(cost) {
					continue
				}
				pos := grid.GridToWorld(costmap.Cell{X: cx, Y: cy})
				obstacles = append(obstacles, plotter.XY{X: pos.X, Y: pos.Y})
			}
		}
		if len(obstacles) > 0 {
			sc, err := plotter.NewScatter(obstacles)
			if err != nil {
				return "", err
			}
			sc.GlyphStyle.Color = color.RGBA{R: 90, G: 90, B: 90, A: 255}
			sc.GlyphStyle.Radius = vg.Points(1.5)
			p.Add(sc)
			p.Legend.Add("obstacles", sc)
		}
	}

	if !path.IsEmpty() {
		pts := make(plotter.XYs, 0, path.Len())
		for _, pt := range path.Points() {
			pts = append(pts, plotter.XY{X: pt.X, Y: pt.Y})
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return "", err
		}
		line.Color = color.RGBA{R: 255, G: 82, B: 82, A: 255}
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add("path", line)
	}

	goalPt, err := plotter.NewScatter(plotter.XYs{{X: goal.X, Y: goal.Y}})
	if err != nil {
		return "", err
	}
	goalPt.GlyphStyle.Color = color.RGBA{R: 255, G: 215, B: 64, A: 255}
	goalPt.GlyphStyle.Radius = vg.Points(4)
	p.Add(goalPt)
	p.Legend.Add("goal", goalPt)

	file := filepath.Join(pp.outputDir, fmt.Sprintf("plan_%s.png", time.Now().Format("20060102_150405")))
	if err := p.Save(8*vg.Inch, 8*vg.Inch, file); err != nil {
		return "", fmt.Errorf("save plan plot: %w", err)
	}
	return file, nil
}
