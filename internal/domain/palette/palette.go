// Package palette assigns display colours to team members.
package palette

import "slices"

// Color is one entry of the fixed team palette.
type Color struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

var colors = []Color{ //nolint:gochecknoglobals // fixed palette
	{Name: "indigo", Hex: "#6366F1"},
	{Name: "emerald", Hex: "#10B981"},
	{Name: "amber", Hex: "#F59E0B"},
	{Name: "rose", Hex: "#F43F5E"},
	{Name: "sky", Hex: "#0EA5E9"},
	{Name: "purple", Hex: "#A855F7"},
	{Name: "pink", Hex: "#EC4899"},
	{Name: "teal", Hex: "#14B8A6"},
	{Name: "orange", Hex: "#F97316"},
	{Name: "cyan", Hex: "#06B6D4"},
}

// All returns the palette in assignment order.
func All() []Color {
	return slices.Clone(colors)
}

// Next returns the first palette colour not present in used, or the first
// colour when every one is taken.
func Next(used []string) Color {
	for _, c := range colors {
		if !slices.Contains(used, c.Name) {
			return c
		}
	}
	return colors[0]
}

// Lookup finds a colour by name.
func Lookup(name string) (Color, bool) {
	for _, c := range colors {
		if c.Name == name {
			return c, true
		}
	}
	return Color{}, false
}
