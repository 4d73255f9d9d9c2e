package render

import "image/color"

var (
	// armorColors are the outline colors of armors by their light bar color
	// label
	armorColors = map[string]color.RGBA{
		"blue":   {R: 0, G: 128, B: 255, A: 255},   // #0080FF
		"red":    {R: 255, G: 56, B: 56, A: 255},   // #FF3838
		"gray":   {R: 192, G: 192, B: 192, A: 255}, // #C0C0C0
		"purple": {R: 191, G: 0, B: 255, A: 255},   // #BF00FF
	}

	// classColors are used for armors whose color label is not known
	classColors = []color.RGBA{
		{R: 255, G: 112, B: 31, A: 255}, // #FF701F
		{R: 255, G: 178, B: 29, A: 255}, // #FFB21D
		{R: 207, G: 210, B: 49, A: 255}, // #CFD231
		{R: 72, G: 249, B: 10, A: 255},  // #48F90A
		{R: 26, G: 147, B: 52, A: 255},  // #1A9334
		{R: 0, G: 212, B: 187, A: 255},  // #00D4BB
		{R: 52, G: 69, B: 147, A: 255},  // #344593
		{R: 132, G: 56, B: 255, A: 255}, // #8438FF
	}

	Black  = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Yellow = color.RGBA{R: 255, G: 255, B: 50, A: 255}
	Pink   = color.RGBA{R: 255, G: 0, B: 255, A: 255}
)

// armorColor returns the outline color for an armor
func armorColor(colorLabel string, class int) color.RGBA {

	if clr, ok := armorColors[colorLabel]; ok {
		return clr
	}

	if class < 0 {
		class = -class
	}

	return classColors[class%len(classColors)]
}
