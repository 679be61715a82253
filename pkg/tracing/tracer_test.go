package tracing

import (
	"bytes"
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNewProvider(t *testing.T) {
	Convey("Given tracing configurations", t, func() {
		ctx := context.Background()

		Convey("When tracing is disabled", func() {
			p, err := NewProvider(DefaultConfig())

			Convey("Then a no-op provider is returned", func() {
				So(err, ShouldBeNil)
				So(p.Enabled(), ShouldBeFalse)
				_, span := p.Tracer().Start(ctx, "noop")
				So(span.IsRecording(), ShouldBeFalse)
				span.End()
				So(p.Shutdown(ctx), ShouldBeNil)
			})
		})

		Convey("When the stdout exporter is selected", func() {
			var buf bytes.Buffer
			p, err := NewProvider(Config{Enabled: true, Exporter: ExporterStdout, SampleRate: 1, Writer: &buf})
			So(err, ShouldBeNil)

			_, span := p.Tracer().Start(ctx, "activities.signup")
			span.End()
			So(p.Shutdown(ctx), ShouldBeNil)

			Convey("Then the span is written", func() {
				So(p.Enabled(), ShouldBeTrue)
				So(buf.String(), ShouldContainSubstring, "activities.signup")
			})
		})

		Convey("When tracing is enabled without an exporter", func() {
			p, err := NewProvider(Config{Enabled: true, Exporter: ExporterNone})

			Convey("Then spans are still recorded in-process", func() {
				So(err, ShouldBeNil)
				_, span := p.Tracer().Start(ctx, "local")
				So(span.IsRecording(), ShouldBeTrue)
				span.End()
				So(p.Shutdown(ctx), ShouldBeNil)
			})
		})

		Convey("When an unknown exporter is requested", func() {
			_, err := NewProvider(Config{Enabled: true, Exporter: "zipkin"})

			Convey("Then it fails with ErrUnsupportedExporter", func() {
				So(errors.Is(err, ErrUnsupportedExporter), ShouldBeTrue)
			})
		})
	})
}
