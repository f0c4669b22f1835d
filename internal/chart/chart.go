package chart

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"

	"github.com/juststeveking/pingscope/internal/monitor"
)

const (
	DefaultWidth  = 1024
	DefaultHeight = 400
)

// ErrNotEnoughPoints is returned when fewer than two points can be plotted
var ErrNotEnoughPoints = errors.New("chart needs at least two points")

// Options controls the rendered image
type Options struct {
	Title  string
	Width  int
	Height int
}

// RenderPNG draws the latency series as a PNG line chart
func RenderPNG(w io.Writer, points []monitor.Point, opts Options) error {
	xs := make([]time.Time, 0, len(points))
	ys := make([]float64, 0, len(points))
	for _, p := range points {
		if p.RoundtripMs == monitor.NoRoundtrip {
			continue
		}
		xs = append(xs, p.Time())
		ys = append(ys, float64(p.RoundtripMs))
	}

	// go-chart cannot compute a range from a single X value
	if len(xs) < 2 {
		return ErrNotEnoughPoints
	}

	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}

	graph := gochart.Chart{
		Title:  opts.Title,
		Width:  opts.Width,
		Height: opts.Height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: gochart.XAxis{
			Name:           "time",
			ValueFormatter: gochart.TimeValueFormatterWithFormat("15:04:05"),
		},
		YAxis: gochart.YAxis{
			Name: "ms",
		},
		Series: []gochart.Series{
			gochart.TimeSeries{
				Name:    "round trip",
				XValues: xs,
				YValues: ys,
				Style: gochart.Style{
					StrokeColor: gochart.ColorBlue,
					StrokeWidth: 2,
				},
			},
		},
	}

	if err := graph.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}

	return nil
}

// WriteFile renders the chart into path
func WriteFile(path string, points []monitor.Point, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}

	if err := RenderPNG(f, points, opts); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}

	return f.Close()
}
