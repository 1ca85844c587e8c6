package ui

import "fmt"

// accentPresets are the hex colors the c key cycles through. The first entry
// matches the engine's built-in default.
var accentPresets = []struct {
	name string
	hex  string
}{
	{"sky", "#4EA6FF"},
	{"rose", "#FF4E8E"},
	{"mint", "#3EE0A0"},
	{"amber", "#FFC34E"},
	{"violet", "#B36CFF"},
	{"mono", "#FFFFFF"},
}

func renderVolumePercent(vol float64) string {
	return fmt.Sprintf("vol %d%%", int(vol*100))
}

func renderIntensity(v float64) string {
	return fmt.Sprintf("int %.1fx", v)
}

func spaces(n int) string {
	if n < 0 {
		n = 0
	}
	s := ""
	for range n {
		s += " "
	}
	return s
}
