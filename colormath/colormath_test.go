package colormath

import (
	"fmt"
	"math"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseHex(t *testing.T) {
	Convey("ParseHex", t, func() {
		Convey("Should uppercase valid input", func() {
			c, err := ParseHex("#c0ffee")
			So(err, ShouldBeNil)
			So(c, ShouldEqual, Color("#C0FFEE"))
			So(c.Valid(), ShouldBeTrue)
		})

		for _, bad := range []string{"", "c0ffee", "#c0ffe", "#c0ffee0", "#gggggg", " #c0ffee"} {
			Convey(fmt.Sprintf("Should reject %q", bad), func() {
				_, err := ParseHex(bad)
				So(err, ShouldWrap, ErrMalformedHex)
			})
		}

		Convey("Lowercase colors are not canonical", func() {
			So(Color("#c0ffee").Valid(), ShouldBeFalse)
		})
	})
}

func TestHexToRGB(t *testing.T) {
	Convey("HexToRGB", t, func() {
		rgb, err := HexToRGB("#FF8000")
		So(err, ShouldBeNil)
		So(rgb, ShouldResemble, RGB{R: 255, G: 128, B: 0})

		Convey("Should accept lowercase digits", func() {
			rgb, err := HexToRGB("#0a0b0c")
			So(err, ShouldBeNil)
			So(rgb, ShouldResemble, RGB{R: 10, G: 11, B: 12})
		})

		Convey("Should signal malformed input", func() {
			_, err := HexToRGB("#12")
			So(err, ShouldWrap, ErrMalformedHex)
			_, err = HexToRGB("#zzzzzz")
			So(err, ShouldWrap, ErrMalformedHex)
		})
	})
}

func TestRGBToHex(t *testing.T) {
	Convey("RGBToHex", t, func() {
		So(RGBToHex(255, 0, 0), ShouldEqual, Color("#FF0000"))
		So(RGBToHex(1, 2, 3), ShouldEqual, Color("#010203"))

		Convey("Should clamp out of range channels", func() {
			So(RGBToHex(-10, 300, 127.5), ShouldEqual, Color("#00FF80"))
		})

		Convey("Should round half up", func() {
			So(RGBToHex(0.49, 15.5, 254.4), ShouldEqual, Color("#0010FE"))
		})

		Convey("Round-trips every integer triple", func() {
			var failures []string
			for r := 0; r <= 255; r += 5 {
				for g := 0; g <= 255; g += 5 {
					for b := 0; b <= 255; b += 5 {
						rgb, err := HexToRGB(string(RGBToHex(float64(r), float64(g), float64(b))))
						if err != nil || rgb != (RGB{R: r, G: g, B: b}) {
							failures = append(failures, fmt.Sprintf("%d,%d,%d", r, g, b))
						}
					}
				}
			}
			So(failures, ShouldBeEmpty)
		})
	})
}

func TestHexToHSL(t *testing.T) {
	Convey("HexToHSL", t, func() {
		cases := map[string]HSL{
			"#FF0000": {H: 0, S: 100, L: 50},
			"#000000": {H: 0, S: 0, L: 0},
			"#FFFFFF": {H: 0, S: 0, L: 100},
			"#00FF00": {H: 120, S: 100, L: 50},
			"#0000FF": {H: 240, S: 100, L: 50},
			"#FF8000": {H: 30, S: 100, L: 50},
			"#FF00AA": {H: 320, S: 100, L: 50},
			"#123456": {H: 210, S: 65, L: 20},
			"#C0FFEE": {H: 164, S: 100, L: 88},
			"#808080": {H: 0, S: 0, L: 50},
		}

		for hex, want := range cases {
			Convey(hex, func() {
				got, err := HexToHSL(hex)
				So(err, ShouldBeNil)
				So(got, ShouldResemble, want)
			})
		}

		Convey("Should propagate malformed input", func() {
			_, err := HexToHSL("red")
			So(err, ShouldWrap, ErrMalformedHex)
		})

		Convey("Agrees with go-colorful within rounding", func() {
			var failures []string
			for _, hex := range []string{"#123456", "#ABCDEF", "#FF00AA", "#03E4EA", "#7F3F1F", "#0A0B0C"} {
				ours, _ := HexToHSL(hex)
				ref, err := colorful.Hex(hex)
				So(err, ShouldBeNil)
				h, s, l := ref.Hsl()
				if math.Abs(float64(ours.H)-h) > 1 || math.Abs(float64(ours.S)-s*100) > 1 || math.Abs(float64(ours.L)-l*100) > 1 {
					failures = append(failures, hex)
				}
			}
			So(failures, ShouldBeEmpty)
		})
	})
}

func TestHSLToHex(t *testing.T) {
	Convey("HSLToHex", t, func() {
		So(HSLToHex(0, 100, 50), ShouldEqual, Color("#FF0000"))
		So(HSLToHex(120, 100, 50), ShouldEqual, Color("#00FF00"))
		So(HSLToHex(240, 100, 50), ShouldEqual, Color("#0000FF"))
		So(HSLToHex(180, 50, 50), ShouldEqual, Color("#40BFBF"))

		Convey("Should wrap hue", func() {
			So(HSLToHex(390, 100, 50), ShouldEqual, Color("#FF8000"))
			So(HSLToHex(360, 100, 50), ShouldEqual, Color("#FF0000"))
			So(HSLToHex(-30, 100, 50), ShouldEqual, Color("#FF0080"))
		})

		Convey("Should clamp saturation and lightness", func() {
			So(HSLToHex(60, 150, -10), ShouldEqual, Color("#000000"))
			So(HSLToHex(60, 100, 200), ShouldEqual, Color("#FFFFFF"))
		})

		Convey("Round-trips through HSL within the integer-percent rounding tolerance", func() {
			// integer percent rounding of s and l can shift a channel by up to 5 units
			const tolerance = 5
			var failures []string
			for r := 0; r <= 255; r += 5 {
				for g := 0; g <= 255; g += 5 {
					for b := 0; b <= 255; b += 5 {
						hex := string(RGBToHex(float64(r), float64(g), float64(b)))
						hsl, _ := HexToHSL(hex)
						back, _ := HexToRGB(string(HSLToHex(float64(hsl.H), float64(hsl.S), float64(hsl.L))))
						if abs(back.R-r) > tolerance || abs(back.G-g) > tolerance || abs(back.B-b) > tolerance {
							failures = append(failures, hex)
						}
					}
				}
			}
			So(failures, ShouldBeEmpty)
		})

		Convey("Pure hues survive the round trip exactly", func() {
			for _, hex := range []string{"#FF0000", "#00FF00", "#0000FF", "#FF8000", "#FF00AA", "#808080", "#000000", "#FFFFFF"} {
				hsl, _ := HexToHSL(hex)
				So(HSLToHex(float64(hsl.H), float64(hsl.S), float64(hsl.L)), ShouldEqual, Color(hex))
			}
		})
	})
}

func TestBrightness(t *testing.T) {
	Convey("Brightness", t, func() {
		b, err := Brightness("#FFFFFF")
		So(err, ShouldBeNil)
		So(b, ShouldAlmostEqual, 255, 0.0001)

		b, err = Brightness("#FF0000")
		So(err, ShouldBeNil)
		So(b, ShouldAlmostEqual, 76.245, 0.0001)

		_, err = Brightness("#FFF")
		So(err, ShouldWrap, ErrMalformedHex)
	})
}

func TestTextColor(t *testing.T) {
	Convey("TextColor", t, func() {
		So(TextColor("#FFFFFF"), ShouldEqual, DarkText)
		So(TextColor("#000000"), ShouldEqual, LightText)
		So(TextColor("#FFFF00"), ShouldEqual, DarkText)
		So(TextColor("#0000FF"), ShouldEqual, LightText)

		Convey("Brightness of exactly 128 keeps the light text", func() {
			// 0.299*128 + 0.587*128 + 0.114*128 == 128
			So(TextColor("#808080"), ShouldEqual, LightText)
		})

		Convey("Malformed input falls back to light text", func() {
			So(TextColor("nope"), ShouldEqual, LightText)
		})
	})
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
