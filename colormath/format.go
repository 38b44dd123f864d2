package colormath

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Format identifies a textual representation of a color.
type Format string

const (
	FormatHex  Format = "hex"
	FormatRGB  Format = "rgb"
	FormatHSL  Format = "hsl"
	FormatRGBA Format = "rgba"
)

// Formats lists every format in display order.
var Formats = []Format{FormatHex, FormatRGB, FormatHSL, FormatRGBA}

// ParseFormat looks up a format by name, ignoring case.
func ParseFormat(name string) mo.Option[Format] {
	f, ok := lo.Find(Formats, func(f Format) bool {
		return strings.EqualFold(string(f), name)
	})
	if !ok {
		return mo.None[Format]()
	}
	return mo.Some(f)
}

var (
	rgbPattern = regexp.MustCompile(`rgba?\s*\(\s*(\d+)\s*,\s*(\d+)\s*,\s*(\d+)`)
	hslPattern = regexp.MustCompile(`hsl\s*\(\s*(\d+)\s*,\s*(\d+)%?\s*,\s*(\d+)%?\s*\)`)
)

// ParseRGB finds the first rgb(...) or rgba(...) literal in text. A trailing alpha component is ignored.
// Components too large for an int saturate.
func ParseRGB(text string) mo.Option[RGB] {
	values, ok := numbers(rgbPattern, text)
	if !ok {
		return mo.None[RGB]()
	}
	return mo.Some(RGB{R: saturate(values[0]), G: saturate(values[1]), B: saturate(values[2])})
}

// ParseHSL finds the first hsl(...) literal in text. The '%' after saturation and lightness is optional.
// An oversized hue is reduced modulo 360.
func ParseHSL(text string) mo.Option[HSL] {
	values, ok := numbers(hslPattern, text)
	if !ok {
		return mo.None[HSL]()
	}

	h := values[0]
	if h > math.MaxInt32 && !math.IsInf(h, 1) {
		h = math.Mod(h, 360)
	}
	return mo.Some(HSL{H: saturate(h), S: saturate(values[1]), L: saturate(values[2])})
}

// numbers extracts the digit runs captured by pattern. Runs are read as
// floats, so no run of digits is rejected for its length.
func numbers(pattern *regexp.Regexp, text string) ([]float64, bool) {
	match := pattern.FindStringSubmatch(text)
	if match == nil {
		return nil, false
	}

	values := make([]float64, 0, len(match)-1)
	for _, group := range match[1:] {
		v, err := strconv.ParseFloat(group, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return nil, false
		}
		values = append(values, v)
	}
	return values, true
}

func saturate(v float64) int {
	return int(math.Min(v, math.MaxInt32))
}

// Render formats c in the given format.
func Render(c Color, f Format) string {
	rgb, err := HexToRGB(string(c))
	if err != nil {
		return string(c)
	}

	switch f {
	case FormatRGB:
		return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
	case FormatRGBA:
		return fmt.Sprintf("rgba(%d, %d, %d, 1)", rgb.R, rgb.G, rgb.B)
	case FormatHSL:
		hsl, _ := HexToHSL(string(c))
		return fmt.Sprintf("hsl(%d, %d%%, %d%%)", hsl.H, hsl.S, hsl.L)
	default:
		return string(c)
	}
}

// Commit interprets text typed into the field of the given format.
// It yields a color only when the text matches that format; otherwise the text stays uncommitted.
func Commit(f Format, text string) mo.Option[Color] {
	switch f {
	case FormatHex:
		c, err := ParseHex(text)
		if err != nil {
			return mo.None[Color]()
		}
		return mo.Some(c)
	case FormatRGB, FormatRGBA:
		rgb, ok := ParseRGB(text).Get()
		if !ok {
			return mo.None[Color]()
		}
		return mo.Some(RGBToHex(float64(rgb.R), float64(rgb.G), float64(rgb.B)))
	case FormatHSL:
		hsl, ok := ParseHSL(text).Get()
		if !ok {
			return mo.None[Color]()
		}
		return mo.Some(HSLToHex(float64(hsl.H), float64(hsl.S), float64(hsl.L)))
	default:
		return mo.None[Color]()
	}
}

// ParseAny accepts a hex color, an rgb()/rgba() literal or an hsl() literal, tried in that order.
func ParseAny(text string) mo.Option[Color] {
	text = strings.TrimSpace(text)
	for _, f := range []Format{FormatHex, FormatRGB, FormatHSL} {
		if c, ok := Commit(f, text).Get(); ok {
			return mo.Some(c)
		}
	}
	return mo.None[Color]()
}
