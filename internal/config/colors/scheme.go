package colors

// ColorScheme defines all configurable color values
type ColorScheme struct {
	// Preset name (e.g., "default", "monochrome")
	Preset string `yaml:"preset"`

	// Prompt and slug highlight
	Accent string `yaml:"accent"`

	// Secondary highlight (counts, descriptions, dates)
	Secondary string `yaml:"secondary"`

	// Bullets, relative dates, check marks
	Success string `yaml:"success"`

	// Attachment URLs
	Link string `yaml:"link"`

	// Text colors
	Title  string `yaml:"title"`
	Subtle string `yaml:"subtle"` // Muted/placeholder text
	Normal string `yaml:"normal"`

	// Message colors
	InfoFg    string `yaml:"info_fg"`
	WarningFg string `yaml:"warning_fg"`
	ErrorFg   string `yaml:"error_fg"`
}

// GetPreset returns a preset color scheme by name
func GetPreset(name string) *ColorScheme {
	switch name {
	case "monochrome":
		return Monochrome()
	default:
		return Default()
	}
}

// ApplyDefaults fills in missing color values using the preset as base
// If preset is specified, loads that preset first, then overrides with custom values
func (c *ColorScheme) ApplyDefaults() {
	preset := GetPreset(c.Preset)
	c.MergeFrom(*preset, false)
}

// MergeFrom copies colors from other. With override set, every non-empty
// color of other wins; otherwise only empty colors are filled.
func (c *ColorScheme) MergeFrom(other ColorScheme, override bool) {
	fields := []struct {
		dst *string
		src string
	}{
		{&c.Accent, other.Accent},
		{&c.Secondary, other.Secondary},
		{&c.Success, other.Success},
		{&c.Link, other.Link},
		{&c.Title, other.Title},
		{&c.Subtle, other.Subtle},
		{&c.Normal, other.Normal},
		{&c.InfoFg, other.InfoFg},
		{&c.WarningFg, other.WarningFg},
		{&c.ErrorFg, other.ErrorFg},
	}
	for _, f := range fields {
		if f.src == "" {
			continue
		}
		if override || *f.dst == "" {
			*f.dst = f.src
		}
	}
}
