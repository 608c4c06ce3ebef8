package colors

// Monochrome returns a black and white color scheme
func Monochrome() *ColorScheme {
	return &ColorScheme{
		Preset: "monochrome",

		// Primary
		Accent:    "#FFFFFF",
		Secondary: "#D0D0D0",
		Success:   "#FFFFFF",
		Link:      "#FFFFFF",

		// Text
		Title:  "#FFFFFF",
		Subtle: "#585858",
		Normal: "#D0D0D0",

		// Messages
		InfoFg:    "#FFFFFF",
		WarningFg: "#FFFFFF",
		ErrorFg:   "#FFFFFF",
	}
}
