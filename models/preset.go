package models

// Chart source types stored in a preset slot.
const (
	SourceInline         = "inline_data"
	SourceQueryReference = "query_reference"
)

// ChartDocument is the JSON object the presentation layer renders for one
// chart: an id, a Chart.js config, raw rows and whatever else the client
// stored with it.
type ChartDocument map[string]any

// ID returns the document id, or "" when it has none.
func (d ChartDocument) ID() string {
	id, _ := d["id"].(string)
	return id
}

// SetTitle sets the document title and mirrors it into
// config.options.plugins.title.text when the document carries options.
func (d ChartDocument) SetTitle(title string) {
	d["title"] = title
	cfg, ok := d["config"].(map[string]any)
	if !ok {
		return
	}
	options, ok := cfg["options"].(map[string]any)
	if !ok {
		return
	}
	plugins, ok := options["plugins"].(map[string]any)
	if !ok {
		plugins = map[string]any{}
		options["plugins"] = plugins
	}
	titleOpts, ok := plugins["title"].(map[string]any)
	if !ok {
		titleOpts = map[string]any{}
		plugins["title"] = titleOpts
	}
	titleOpts["text"] = title
}

// ChartSource is a tagged union: Type selects which of the other fields
// are meaningful.
type ChartSource struct {
	Type          string         `json:"type"`
	ChartData     ChartDocument  `json:"chart_data,omitempty"`
	QueryID       string         `json:"query_id,omitempty"`
	Title         *string        `json:"title,omitempty"`
	CustomOptions map[string]any `json:"custom_options,omitempty"`
}

type ChartSlot struct {
	Position int         `json:"position"`
	Source   ChartSource `json:"source"`
}

type GridConfig struct {
	Layout string      `json:"layout,omitempty"`
	Charts []ChartSlot `json:"charts"`
}

type Preset struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	TabID       string     `json:"tab_id"`
	CreatedAt   string     `json:"created_at"`
	UpdatedAt   string     `json:"updated_at"`
	GridConfig  GridConfig `json:"grid_config"`
}

type PresetCreate struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	TabID       string     `json:"tab_id" binding:"required"`
	GridConfig  GridConfig `json:"grid_config"`
}

// PresetUpdate replaces only the fields that are set.
type PresetUpdate struct {
	Name        *string     `json:"name,omitempty"`
	Description *string     `json:"description,omitempty"`
	GridConfig  *GridConfig `json:"grid_config,omitempty"`
}

type PresetSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	TabID       string `json:"tab_id"`
	ChartCount  int    `json:"chart_count"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// PresetIndex is the per-user listing document, newest first.
type PresetIndex struct {
	Presets     []PresetSummary `json:"presets"`
	LastUpdated string          `json:"last_updated"`
}

type ResolvedChart struct {
	Position  int           `json:"position"`
	ChartData ChartDocument `json:"chart_data"`
}

type ResolvedPreset struct {
	Success bool            `json:"success"`
	Preset  *Preset         `json:"preset"`
	Charts  []ResolvedChart `json:"charts"`
}
