package colormath

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParseRGB(t *testing.T) {
	Convey("ParseRGB", t, func() {
		rgb, ok := ParseRGB("color: rgba(10, 20, 30, 0.5)").Get()
		So(ok, ShouldBeTrue)
		So(rgb, ShouldResemble, RGB{R: 10, G: 20, B: 30})

		So(ParseRGB("rgb(1, 2)").IsAbsent(), ShouldBeTrue)

		Convey("Huge components saturate instead of failing", func() {
			rgb, ok := ParseRGB("rgb(99999999999999999999, 0, 0)").Get()
			So(ok, ShouldBeTrue)
			So(rgb.R, ShouldBeGreaterThan, 255)
		})
	})
}

func TestParseHSL(t *testing.T) {
	Convey("ParseHSL", t, func() {
		hsl, ok := ParseHSL("hsl(200, 50%, 40)").Get()
		So(ok, ShouldBeTrue)
		So(hsl, ShouldResemble, HSL{H: 200, S: 50, L: 40})

		Convey("A huge hue wraps", func() {
			hsl, ok := ParseHSL("hsl(3600000000000, 100%, 50%)").Get()
			So(ok, ShouldBeTrue)
			So(hsl.H, ShouldEqual, 0)
		})
	})
}

func TestCommit(t *testing.T) {
	Convey("Commit", t, func() {
		So(Commit(FormatHex, "#aabbcc").OrEmpty(), ShouldEqual, Color("#AABBCC"))
		So(Commit(FormatRGB, "rgb(255, 0, 0)").OrEmpty(), ShouldEqual, Color("#FF0000"))
		So(Commit(FormatHSL, "hsl(120, 100%, 50%)").OrEmpty(), ShouldEqual, Color("#00FF00"))
		So(Commit(FormatHSL, "rgb(255, 0, 0)").IsAbsent(), ShouldBeTrue)

		Convey("Overflowing channels clamp to the maximum", func() {
			So(Commit(FormatRGB, "rgb(99999999999999999999, 0, 0)").OrEmpty(), ShouldEqual, Color("#FF0000"))
			So(Commit(FormatRGBA, "rgba(0, 99999999999999999999, 0, 1)").OrEmpty(), ShouldEqual, Color("#00FF00"))
		})
	})
}
