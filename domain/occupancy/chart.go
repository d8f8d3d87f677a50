package occupancy

import (
	"bytes"
	"encoding/base64"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	ChartTitle     = "Busy Times"
	ChartXAxisName = "Day of the Week"
	ChartYAxisName = "Total Guests"
)

type ChartRenderer interface {
	// RenderPNG draws one bar per weekday, Monday to Sunday.
	RenderPNG(totals WeekdayTotals) ([]byte, error)
}

type BarChartRenderer struct {
	Width  int
	Height int
	Color  drawing.Color
}

func NewBarChartRenderer() *BarChartRenderer {
	return &BarChartRenderer{
		Width:  1000,
		Height: 600,
		Color:  drawing.ColorFromHex("87ceeb"),
	}
}

func (r *BarChartRenderer) RenderPNG(totals WeekdayTotals) ([]byte, error) {
	graph := r.barChart(totals)

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (r *BarChartRenderer) barChart(totals WeekdayTotals) chart.BarChart {
	bars := make([]chart.Value, 0, len(totals))
	for i, guests := range totals {
		bars = append(bars, chart.Value{
			Label: Weekdays[i],
			Value: float64(guests),
			Style: chart.Style{
				FillColor:   r.Color,
				StrokeColor: r.Color,
			},
		})
	}

	return chart.BarChart{
		Title:      ChartTitle,
		Width:      r.Width,
		Height:     r.Height,
		BarWidth:   80,
		BarSpacing: 40,
		Background: chart.Style{
			Padding: chart.Box{Top: 70, Left: 20, Right: 20, Bottom: 50},
		},
		YAxis: chart.YAxis{
			// go-chart refuses a zero-height range, so an all-zero week still gets one unit.
			Range: &chart.ContinuousRange{Min: 0, Max: float64(max(totals.Max(), 1))},
		},
		Bars:     bars,
		Elements: []chart.Renderable{r.axisTitles},
	}
}

// axisTitles labels both axes. BarChart ignores axis names, so they are drawn as elements:
// the x title centred under the weekday labels and the y title above the value axis, which
// BarChart draws on the right.
func (r *BarChartRenderer) axisTitles(rr chart.Renderer, canvas chart.Box, defaults chart.Style) {
	style := chart.Style{
		Font:      defaults.Font,
		FontSize:  12,
		FontColor: drawing.ColorFromHex("333333"),
	}
	style.WriteTextOptionsToRenderer(rr)

	x := rr.MeasureText(ChartXAxisName)
	rr.Text(ChartXAxisName, canvas.Left+(canvas.Width()-x.Width())/2, r.Height-12)
	y := rr.MeasureText(ChartYAxisName)
	rr.Text(ChartYAxisName, canvas.Right-y.Width(), canvas.Top-16)
}

// Chart is a rendered occupancy report. Empty charts carry no image.
type Chart struct {
	Empty bool
	PNG   []byte
}

func (c *Chart) Base64() string {
	if c == nil || len(c.PNG) == 0 {
		return ""
	}
	return base64.StdEncoding.EncodeToString(c.PNG)
}
