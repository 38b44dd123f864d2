package favorites

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/eyedrop-cli/eyedrop/colormath"
	"github.com/eyedrop-cli/eyedrop/filesystem"
	"github.com/eyedrop-cli/eyedrop/kv"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty favorites store", t, func() {
		backend := kv.NewFile(filepath.Join(t.TempDir(), "store.json"))
		store := New(backend, "")

		Convey("Load should return an empty list", func() {
			list, err := store.Load(ctx)
			So(err, ShouldBeNil)
			So(list, ShouldNotBeNil)
			So(list, ShouldBeEmpty)
		})

		Convey("When adding the same color twice", func() {
			So(store.Add(ctx, "#C0FFEE"), ShouldBeNil)
			So(store.Add(ctx, "#C0FFEE"), ShouldBeNil)

			Convey("Then it should be stored once", func() {
				list, err := store.Load(ctx)
				So(err, ShouldBeNil)
				So(list, ShouldResemble, []colormath.Color{"#C0FFEE"})
			})
		})

		Convey("Insertion order should be preserved", func() {
			for _, c := range []colormath.Color{"#000000", "#FF0000", "#00FF00"} {
				So(store.Add(ctx, c), ShouldBeNil)
			}

			list, _ := store.Load(ctx)
			So(list, ShouldResemble, []colormath.Color{"#000000", "#FF0000", "#00FF00"})

			Convey("And removal keeps the rest in order", func() {
				So(store.Remove(ctx, "#FF0000"), ShouldBeNil)
				list, _ := store.Load(ctx)
				So(list, ShouldResemble, []colormath.Color{"#000000", "#00FF00"})
			})
		})

		Convey("Removing an absent color leaves the list unchanged", func() {
			So(store.Add(ctx, "#123456"), ShouldBeNil)
			So(store.Remove(ctx, "#654321"), ShouldBeNil)

			list, _ := store.Load(ctx)
			So(list, ShouldResemble, []colormath.Color{"#123456"})
		})

		Convey("Non canonical colors are refused", func() {
			So(store.Add(ctx, "#c0ffee"), ShouldWrap, colormath.ErrMalformedHex)
			So(store.Add(ctx, "red"), ShouldWrap, colormath.ErrMalformedHex)

			list, _ := store.Load(ctx)
			So(list, ShouldBeEmpty)
		})

		Convey("Contains reflects the saved list", func() {
			So(store.Add(ctx, "#ABCDEF"), ShouldBeNil)
			ok, err := store.Contains(ctx, "#ABCDEF")
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
		})

		Convey("The list is stored under the configured key", func() {
			So(store.Add(ctx, "#ABCDEF"), ShouldBeNil)
			saved, err := kv.GetJSON[[]string](ctx, backend, DefaultKey)
			So(err, ShouldBeNil)
			So(saved.MustGet(), ShouldResemble, []string{"#ABCDEF"})
		})

		Convey("Concurrent adds through one store are not lost", func() {
			var wg sync.WaitGroup
			for i := 0; i < 20; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					_ = store.Add(ctx, colormath.Color(fmt.Sprintf("#0000%02X", i)))
				}(i)
			}
			wg.Wait()

			list, _ := store.Load(ctx)
			So(list, ShouldHaveLength, 20)
		})
	})
}
