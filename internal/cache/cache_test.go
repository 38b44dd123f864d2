package cache

import (
	"testing"
	"time"

	"github.com/eyedrop-cli/eyedrop/filesystem"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestCollectGarbage(t *testing.T) {
	Convey("Given a directory with old and fresh files", t, func() {
		fsys := filesystem.API()
		now := time.Now()

		So(afero.WriteFile(fsys, "/logs/old.log", []byte("x"), 0o644), ShouldBeNil)
		So(afero.WriteFile(fsys, "/logs/fresh.log", []byte("x"), 0o644), ShouldBeNil)
		So(afero.WriteFile(fsys, "/cache/nested/old.json", []byte("x"), 0o644), ShouldBeNil)

		old := now.Add(-2 * TTL)
		So(fsys.Chtimes("/logs/old.log", old, old), ShouldBeNil)
		So(fsys.Chtimes("/cache/nested/old.json", old, old), ShouldBeNil)

		Convey("Only the stale files are removed", func() {
			So(CollectGarbage(now, TTL, "/logs", "/cache", "/missing"), ShouldEqual, 2)

			exists := func(path string) bool {
				ok, _ := afero.Exists(fsys, path)
				return ok
			}
			So(exists("/logs/old.log"), ShouldBeFalse)
			So(exists("/cache/nested/old.json"), ShouldBeFalse)
			So(exists("/logs/fresh.log"), ShouldBeTrue)
		})
	})
}
