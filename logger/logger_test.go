package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gookit/color"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLogger(t *testing.T) {
	Convey("When logging", t, func() {
		buf := &bytes.Buffer{}
		lg := New("VIEWER", color.FgCyan, buf)

		Convey("Each message is one line tagged with the name", func() {
			lg.Info("started")
			lg.Warning("slow")
			lg.Error("failed")
			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			So(len(lines), ShouldEqual, 3)
			So(lines[0], ShouldContainSubstring, "VIEWER")
			So(lines[0], ShouldContainSubstring, "started")
			So(lines[1], ShouldContainSubstring, "WARN")
			So(lines[2], ShouldContainSubstring, "ERROR")
		})

		Convey("Debug lines are dropped unless enabled", func() {
			lg.Debug("hidden")
			So(buf.Len(), ShouldEqual, 0)
			lg.WithDebug(true).Debug("shown")
			So(buf.String(), ShouldContainSubstring, "shown")
		})

		Convey("Discard writes nothing", func() {
			Discard().Error("nothing")
			So(buf.Len(), ShouldEqual, 0)
		})
	})
}
