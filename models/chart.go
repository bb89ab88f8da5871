package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
)

// ChartKind is the Chart.js chart type.
type ChartKind string

const (
	ChartBar      ChartKind = "bar"
	ChartLine     ChartKind = "line"
	ChartPie      ChartKind = "pie"
	ChartDoughnut ChartKind = "doughnut"
	ChartScatter  ChartKind = "scatter"
)

// ParseChartKind maps free text to a known kind, falling back to bar.
func ParseChartKind(s string) ChartKind {
	switch k := ChartKind(strings.ToLower(strings.TrimSpace(s))); k {
	case ChartBar, ChartLine, ChartPie, ChartDoughnut, ChartScatter:
		return k
	}
	return ChartBar
}

// ChartDescriptor is a rendering-agnostic chart description laid out the
// way Chart.js expects its config object.
type ChartDescriptor struct {
	Type    ChartKind    `json:"type"`
	Data    ChartData    `json:"data"`
	Options ChartOptions `json:"options"`
}

type ChartData struct {
	Labels   []any    `json:"labels"`
	Datasets []Series `json:"datasets"`
}

type Series struct {
	Label           string    `json:"label"`
	Data            Points    `json:"data"`
	BackgroundColor string    `json:"backgroundColor"`
	BorderColor     string    `json:"borderColor"`
	BorderWidth     int       `json:"borderWidth"`
}

// Points are series values. A missing value is NaN in memory and null on
// the wire, which Chart.js draws as a gap.
type Points []float64

func (p Points) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, v := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			buf.WriteString("null")
			continue
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func (p *Points) UnmarshalJSON(data []byte) error {
	var raw []*float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*p = nil
		return nil
	}
	out := make(Points, len(raw))
	for i, v := range raw {
		if v == nil {
			out[i] = math.NaN()
			continue
		}
		out[i] = *v
	}
	*p = out
	return nil
}

type ChartOptions struct {
	Responsive          bool         `json:"responsive"`
	MaintainAspectRatio bool         `json:"maintainAspectRatio"`
	Plugins             ChartPlugins `json:"plugins"`
	Scales              ChartScales  `json:"scales"`
}

type ChartPlugins struct {
	Legend  LegendOptions  `json:"legend"`
	Tooltip TooltipOptions `json:"tooltip"`
	Title   *TitleOptions  `json:"title,omitempty"`
}

type LegendOptions struct {
	Display  bool   `json:"display"`
	Position string `json:"position"`
}

type TooltipOptions struct {
	Enabled bool `json:"enabled"`
}

type TitleOptions struct {
	Display bool   `json:"display"`
	Text    string `json:"text"`
}

type ChartScales struct {
	Y AxisOptions `json:"y"`
}

type AxisOptions struct {
	BeginAtZero bool `json:"beginAtZero"`
}
