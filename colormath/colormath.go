// Package colormath converts colors between HEX, RGB and HSL representations and parses loosely formatted color text.
package colormath

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/eyedrop-cli/eyedrop/util"
)

// ErrMalformedHex is returned when a string is not of the form #RRGGBB.
var ErrMalformedHex = errors.New("malformed hex color")

// Color is the canonical representation of a color: "#RRGGBB" with uppercase hex digits.
type Color string

// Text colors returned by TextColor.
const (
	DarkText  = "#000"
	LightText = "#fff"
)

var hexPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// RGB holds integer channels in [0, 255].
type RGB struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// HSL holds hue in degrees [0, 360) and saturation and lightness in percent [0, 100].
type HSL struct {
	H int `json:"h"`
	S int `json:"s"`
	L int `json:"l"`
}

// IsHex reports whether text is exactly a 6-digit hex color with a leading '#'.
func IsHex(text string) bool {
	return hexPattern.MatchString(text)
}

// ParseHex validates text as a 6-digit hex color and returns its canonical form.
func ParseHex(text string) (Color, error) {
	if !IsHex(text) {
		return "", fmt.Errorf("%w: %q", ErrMalformedHex, text)
	}
	return Color(strings.ToUpper(text)), nil
}

// Valid reports whether c is in canonical form.
func (c Color) Valid() bool {
	return IsHex(string(c)) && strings.ToUpper(string(c)) == string(c)
}

func (c Color) String() string {
	return string(c)
}

// HexToRGB decodes the three 2-digit channels following '#'.
func HexToRGB(hex string) (RGB, error) {
	if !IsHex(hex) {
		return RGB{}, fmt.Errorf("%w: %q", ErrMalformedHex, hex)
	}

	channel := func(s string) int {
		// the pattern already guarantees two hex digits
		v, _ := strconv.ParseUint(s, 16, 8)
		return int(v)
	}

	return RGB{
		R: channel(hex[1:3]),
		G: channel(hex[3:5]),
		B: channel(hex[5:7]),
	}, nil
}

// RGBToHex clamps each channel to [0, 255], rounds it and encodes the result as a canonical Color.
func RGBToHex(r, g, b float64) Color {
	encode := func(n float64) int {
		return int(round(util.Clamp(n, 0, 255)))
	}
	return Color(fmt.Sprintf("#%02X%02X%02X", encode(r), encode(g), encode(b)))
}

// HexToHSL converts a hex color to integer HSL.
func HexToHSL(hex string) (HSL, error) {
	rgb, err := HexToRGB(hex)
	if err != nil {
		return HSL{}, err
	}

	r := float64(rgb.R) / 255
	g := float64(rgb.G) / 255
	b := float64(rgb.B) / 255

	hi := math.Max(r, math.Max(g, b))
	lo := math.Min(r, math.Min(g, b))
	delta := hi - lo

	var h float64
	if delta != 0 {
		switch hi {
		case r:
			h = math.Mod((g-b)/delta, 6)
		case g:
			h = (b-r)/delta + 2
		default:
			h = (r-g)/delta + 4
		}
	}

	h = round(h * 60)
	if h < 0 {
		h += 360
	}

	l := (hi + lo) / 2
	var s float64
	if delta != 0 {
		s = delta / (1 - math.Abs(2*l-1))
	}

	return HSL{
		H: int(h),
		S: int(round(s * 100)),
		L: int(round(l * 100)),
	}, nil
}

// HSLToHex converts HSL to a canonical Color. Hue wraps modulo 360; saturation and lightness are clamped to [0, 100].
func HSLToHex(h, s, l float64) Color {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	s = util.Clamp(s, 0, 100) / 100
	l = util.Clamp(l, 0, 100) / 100

	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := l - c/2

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return RGBToHex((r+m)*255, (g+m)*255, (b+m)*255)
}

// Brightness returns the perceptual brightness 0.299r + 0.587g + 0.114b.
func Brightness(hex string) (float64, error) {
	rgb, err := HexToRGB(hex)
	if err != nil {
		return 0, err
	}
	return float64(rgb.R*299+rgb.G*587+rgb.B*114) / 1000, nil
}

// TextColor picks a label color that stays legible on a background of the given color.
// Malformed input yields the light text color.
func TextColor(hex string) string {
	brightness, err := Brightness(hex)
	if err == nil && brightness > 128 {
		return DarkText
	}
	return LightText
}

// round rounds half up, so -30.5 becomes -30.
func round(x float64) float64 {
	return math.Floor(x + 0.5)
}
