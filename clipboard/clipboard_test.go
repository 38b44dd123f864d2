package clipboard

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/atotto/clipboard"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSystem(t *testing.T) {
	Convey("Without a system clipboard the OSC 52 sequence is written", t, func() {
		unsupported := clipboard.Unsupported
		clipboard.Unsupported = true
		Reset(func() { clipboard.Unsupported = unsupported })

		var out bytes.Buffer
		So(System{Fallback: &out}.Write("#C0FFEE"), ShouldBeNil)
		So(out.String(), ShouldContainSubstring, base64.StdEncoding.EncodeToString([]byte("#C0FFEE")))
	})

	Convey("Func adapts plain functions", t, func() {
		var got string
		w := Func(func(text string) error {
			got = text
			return nil
		})
		So(w.Write("#000000"), ShouldBeNil)
		So(got, ShouldEqual, "#000000")
	})
}
