// Package chart turns tabular query results into Chart.js descriptors.
package chart

import (
	"math"

	"askchart/models"
)

// Palette is cycled by series index, so colors are stable for a given
// column order.
var Palette = []string{"#3498db", "#2ecc71", "#f39c12", "#e74c3c", "#9b59b6", "#1abc9c"}

const titleLimit = 50

// Assemble builds a descriptor from result. Column 0 becomes the labels and
// every other column whose values are numeric or NULL becomes a series;
// other columns are dropped. It returns nil when result has no rows or columns.
func Assemble(result *models.QueryResult, kind models.ChartKind) *models.ChartDescriptor {
	if result.Empty() {
		return nil
	}

	labels := result.Column(result.Columns[0])
	datasets := []models.Series{}

	for i, col := range result.Columns[1:] {
		values, ok := numericColumn(result.Column(col))
		if !ok {
			continue
		}
		color := Palette[i%len(Palette)]
		datasets = append(datasets, models.Series{
			Label:           col,
			Data:            values,
			BackgroundColor: color,
			BorderColor:     color,
			BorderWidth:     1,
		})
	}

	return &models.ChartDescriptor{
		Type: kind,
		Data: models.ChartData{
			Labels:   labels,
			Datasets: datasets,
		},
		Options: models.ChartOptions{
			Responsive:          true,
			MaintainAspectRatio: false,
			Plugins: models.ChartPlugins{
				Legend:  models.LegendOptions{Display: true, Position: "top"},
				Tooltip: models.TooltipOptions{Enabled: true},
			},
			Scales: models.ChartScales{Y: models.AxisOptions{BeginAtZero: true}},
		},
	}
}

// WithTitle sets a displayed title, replacing any existing one.
func WithTitle(desc *models.ChartDescriptor, text string) *models.ChartDescriptor {
	if desc == nil {
		return nil
	}
	desc.Options.Plugins.Title = &models.TitleOptions{Display: true, Text: text}
	return desc
}

// TruncateTitle echoes a question as a chart title: at most 50 characters,
// always followed by an ellipsis.
func TruncateTitle(question string) string {
	runes := []rune(question)
	if len(runes) > titleLimit {
		runes = runes[:titleLimit]
	}
	return string(runes) + "..."
}

// numericColumn converts values to points. NULLs become NaN gaps; the
// column is numeric when every other value is a number and at least one
// value is present.
func numericColumn(values []any) (models.Points, bool) {
	out := make(models.Points, len(values))
	seen := false
	for i, v := range values {
		if v == nil {
			out[i] = math.NaN()
			continue
		}
		f, ok := toFloat(v)
		if !ok {
			return nil, false
		}
		out[i] = f
		seen = true
	}
	return out, seen
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), !math.IsNaN(float64(n))
	case float64:
		return n, !math.IsNaN(n) && !math.IsInf(n, 0)
	}
	return 0, false
}
