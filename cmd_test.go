package feedgen

import (
	"os"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestExecuteVersionCmd(t *testing.T) {
	convey.Convey("version subcommand runs through the root command", t, func() {
		engine := NewTestEngine("testCmdVersion", EngineWithSink(NewCaptureSink()))
		oldArgs := os.Args
		defer func() { os.Args = oldArgs }()
		os.Args = []string{"feedgen", "version"}
		engine.Execute()
		convey.So(engine.GetStatusOn(), convey.ShouldEqual, ON_IDLE)
	})
}

func TestExecuteExportCmd(t *testing.T) {
	convey.Convey("export subcommand starts the named feed", t, func() {
		sink := NewCaptureSink()
		engine := NewTestEngine("testCmdExport", EngineWithSink(sink))
		oldArgs := os.Args
		defer func() { os.Args = oldArgs }()
		os.Args = []string{"feedgen", "export", "testCmdExport"}
		engine.Execute()
		convey.So(engine.GetStatusOn(), convey.ShouldEqual, ON_COMPLETED)
		convey.So(sink.String(), convey.ShouldContainSubstring, "</feed>")
	})
}
