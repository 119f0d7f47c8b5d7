package tui

import (
	"strconv"
	"time"

	"github.com/NimbleMarkets/ntcharts/linechart"
	tslc "github.com/NimbleMarkets/ntcharts/linechart/timeserieslinechart"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/crewdeck/internal/demo"
)

const (
	activityDays        = 14
	activityChartHeight = 9
)

// renderActivityChart draws the trailing factory activity as a braille
// time-series. Points arrive oldest first, one per day.
func renderActivityChart(points []demo.ActivityPoint, width int) string {
	if len(points) == 0 || width < 16 {
		return lipgloss.NewStyle().Foreground(colorOverlay1).Render("no activity recorded")
	}

	maxRuns := 1
	for _, p := range points {
		if p.Runs > maxRuns {
			maxRuns = p.Runs
		}
	}

	start := points[0].Day
	end := points[len(points)-1].Day

	chart := tslc.New(width, activityChartHeight)
	chart.SetXStep(1)
	chart.SetYStep(1)
	chart.SetStyle(lipgloss.NewStyle().Foreground(colorTeal))
	chart.AxisStyle = lipgloss.NewStyle().Foreground(colorSurface2)
	chart.LabelStyle = lipgloss.NewStyle().Foreground(colorOverlay1)
	chart.SetTimeRange(start, end)
	chart.SetViewTimeRange(start, end)
	chart.SetYRange(0, float64(maxRuns))
	chart.SetViewYRange(0, float64(maxRuns))
	chart.Model.XLabelFormatter = activityXLabelFormatter()
	chart.Model.YLabelFormatter = activityYLabelFormatter(maxRuns)

	for _, p := range points {
		chart.Push(tslc.TimePoint{Time: p.Day, Value: float64(p.Runs)})
	}

	chart.DrawBraille()
	return chart.View()
}

// Label Mondays and the range edges; anything denser overlaps at 14 columns
// per two weeks.
func activityXLabelFormatter() linechart.LabelFormatter {
	return func(_ int, v float64) string {
		t := time.Unix(int64(v), 0).In(time.Local)
		if t.Weekday() == time.Monday {
			return t.Format("02")
		}
		return ""
	}
}

func activityYLabelFormatter(maxRuns int) linechart.LabelFormatter {
	return func(_ int, v float64) string {
		n := int(v + 0.5)
		if n < 0 || n > maxRuns {
			return ""
		}
		if n == 0 || n == maxRuns {
			return strconv.Itoa(n)
		}
		return ""
	}
}
