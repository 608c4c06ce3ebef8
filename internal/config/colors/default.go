package colors

// Default returns the default color scheme (cyan prompt, magenta details)
func Default() *ColorScheme {
	return &ColorScheme{
		Preset: "default",

		// Primary
		Accent:    "#00AFD7",
		Secondary: "#D75FD7",
		Success:   "#5FD75F",
		Link:      "#5F87D7",

		// Text
		Title:  "#D75FD7",
		Subtle: "#585858",
		Normal: "#D0D0D0",

		// Messages
		InfoFg:    "#00AFFF",
		WarningFg: "#FFD700",
		ErrorFg:   "#FF5F5F",
	}
}
