package ui

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestModel(t *testing.T) {
	Convey("Given an empty notifier", t, func() {
		m := &Model{}

		Convey("The view is left untouched", func() {
			So(m.View("a\nb"), ShouldEqual, "a\nb")
		})

		Convey("A notification is appended to the last line", func() {
			So(m.Update(Notify("copied")()), ShouldNotBeNil)
			So(m.Notification(), ShouldEqual, "copied")
			So(m.View("a\nb"), ShouldStartWith, "a\nb  ")
			So(m.View("a\nb"), ShouldContainSubstring, "copied")

			Convey("and cleared by its own timer only", func() {
				m.Update(ClearNotificationMsg{})
				So(m.Notification(), ShouldEqual, "copied")

				m.Update(ClearNotificationMsg{at: m.notifiedAt})
				So(m.Notification(), ShouldBeEmpty)
			})
		})

		Convey("A narrow notifier truncates the text", func() {
			m.Width = 4
			m.Update(NotificationMsg("a very long notification"))
			So(m.View(""), ShouldNotContainSubstring, "notification")
		})
	})
}
