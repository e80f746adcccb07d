// Package colorspace converts tenant brand colors between hex RGB and
// the HSL components consumed by console theme variables.
package colorspace

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// HSL holds a color as integer hue degrees (0-360) and saturation and
// lightness percentages (0-100)
type HSL struct {
	H int `json:"h"`
	S int `json:"s"`
	L int `json:"l"`
}

// String formats the color the way CSS custom properties expect it
func (c HSL) String() string {
	return fmt.Sprintf("%d %d%% %d%%", c.H, c.S, c.L)
}

// ParseHex parses a #RRGGBB (or RRGGBB) hex color into 8-bit channels
func ParseHex(hex string) (r, g, b uint8, err error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(s) != 6 {
		return 0, 0, 0, fmt.Errorf("invalid hex color %q", hex)
	}

	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid hex color %q", hex)
	}

	return uint8(v >> 16), uint8(v >> 8), uint8(v), nil
}

// RGBToHSL converts 8-bit RGB channels to HSL using the standard
// piecewise formula. Components are rounded to the nearest integer.
func RGBToHSL(r, g, b uint8) HSL {
	rf := float64(r) / 255
	gf := float64(g) / 255
	bf := float64(b) / 255

	max := math.Max(rf, math.Max(gf, bf))
	min := math.Min(rf, math.Min(gf, bf))

	l := (max + min) / 2

	var h, s float64
	if max != min {
		d := max - min

		if l > 0.5 {
			s = d / (2 - max - min)
		} else {
			s = d / (max + min)
		}

		switch max {
		case rf:
			h = (gf - bf) / d
			if gf < bf {
				h += 6
			}
		case gf:
			h = (bf-rf)/d + 2
		case bf:
			h = (rf-gf)/d + 4
		}
		h /= 6
	}

	return HSL{
		H: int(math.Round(h * 360)),
		S: int(math.Round(s * 100)),
		L: int(math.Round(l * 100)),
	}
}

// HexToHSL converts a #RRGGBB hex color to HSL
func HexToHSL(hex string) (HSL, error) {
	r, g, b, err := ParseHex(hex)
	if err != nil {
		return HSL{}, err
	}
	return RGBToHSL(r, g, b), nil
}
