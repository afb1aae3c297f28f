package monitor

import (
	"bytes"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/mosswood-robotics/gridnav/internal/costmap"
)

// handlePlanChart renders the latest costmap, goal and path as an ECharts
// scatter page. This is a debugging-only endpoint (no auth).
// Query params:
//   - max_points (optional; default 8000) to reduce payload size
func (ws *WebServer) handlePlanChart(w http.ResponseWriter, r *http.Request) {
	grid := ws.latestGrid()
	if grid == nil {
		ws.writeJSONError(w, http.StatusNotFound, "no costmap available yet")
		return
	}

	maxPoints := 8000
	if mp := r.URL.Query().Get("max_points"); mp != "" {
		if v, err := strconv.Atoi(mp); err == nil && v > 100 && v <= 50000 {
			maxPoints = v
		}
	}

	// Collect non-free cells; an all-free map would make an empty chart.
	type cellPoint struct {
		x, y, cost float64
	}
	var cells []cellPoint
	for cy := 0; cy < grid.Height; cy++ {
		for cx := 0; cx < grid.Width; cx++ {
			cost, _ := grid.At(cx, cy)
			if cost == 0 || cost == costmap.CostUnknown {
				continue
			}
			pos := grid.GridToWorld(costmap.Cell{X: cx, Y: cy})
			cells = append(cells, cellPoint{pos.X, pos.Y, cost})
		}
	}

	// Downsample by stride to stay within maxPoints.
	stride := 1
	if len(cells) > maxPoints {
		stride = int(math.Ceil(float64(len(cells)) / float64(maxPoints)))
	}

	data := make([]opts.ScatterData, 0, len(cells)/stride+1)
	maxAbs := 0.0
	for i := 0; i < len(cells); i += stride {
		c := cells[i]
		if math.Abs(c.x) > maxAbs {
			maxAbs = math.Abs(c.x)
		}
		if math.Abs(c.y) > maxAbs {
			maxAbs = math.Abs(c.y)
		}
		data = append(data, opts.ScatterData{Value: []interface{}{c.x, c.y, c.cost}})
	}

	var pathPts []opts.ScatterData
	if path, ok := ws.latestPath(); ok {
		for _, pt := range path.Points() {
			if math.Abs(pt.X) > maxAbs {
				maxAbs = math.Abs(pt.X)
			}
			if math.Abs(pt.Y) > maxAbs {
				maxAbs = math.Abs(pt.Y)
			}
			pathPts = append(pathPts, opts.ScatterData{Value: []interface{}{pt.X, pt.Y}})
		}
	}

	var goalPts []opts.ScatterData
	if goal, ok := ws.latestGoal(); ok {
		goalPts = append(goalPts, opts.ScatterData{Value: []interface{}{goal.X, goal.Y}})
	}

	pad := maxAbs * 1.05
	if pad == 0 {
		pad = 1.0
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Plan", Theme: "dark", Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: "Global Plan", Subtitle: fmt.Sprintf("cells=%d stride=%d path=%d", len(data), stride, len(pathPts))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: -pad, Max: pad, Name: "X (m)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: -pad, Max: pad, Name: "Y (m)", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        1,
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: []string{"#440154", "#482777", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"}},
		}),
	)

	scatter.AddSeries("costmap", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 4}))
	scatter.AddSeries("path", pathPts, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 5}), charts.WithItemStyleOpts(opts.ItemStyle{Color: "#ff5252"}))
	scatter.AddSeries("goal", goalPts, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 14}), charts.WithItemStyleOpts(opts.ItemStyle{Color: "#ffd740"}))

	var buf bytes.Buffer
	if err := scatter.Render(&buf); err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render chart: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
