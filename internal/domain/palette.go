package domain

import "math/rand/v2"

// Palette is the fixed set of colors used for cursor and stroke attribution.
// Two users may share a color; there is no uniqueness requirement.
var Palette = []string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4",
	"#FFEAA7", "#DDA0DD", "#98D8C8", "#F7DC6F",
}

func PickColor() string {
	return Palette[rand.IntN(len(Palette))]
}
