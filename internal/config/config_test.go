package config_test

import (
	"context"
	"errors"
	"runtime"
	"testing"

	"github.com/okian/wcag/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 1024)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.DedupeSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.MaxReports, convey.ShouldEqual, 1000)
			convey.So(cfg.MaxAuditPairs, convey.ShouldEqual, 500)
			convey.So(cfg.DefaultBackground, convey.ShouldEqual, "#ffffff")
			convey.So(cfg.SuggestStrategy, convey.ShouldEqual, "step")
			convey.So(cfg.Replacements, convey.ShouldBeEmpty)
		})

		convey.Convey("And the defaults should validate", func() {
			convey.So(cfg.Validate(context.Background()), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a default config", t, func() {
		ctx := context.Background()
		cfg := config.New(ctx)

		convey.Convey("When the log format is unknown", func() {
			cfg.LogFormat = "xml"
			err := cfg.Validate(ctx)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "log_format")
		})

		convey.Convey("When the default background is malformed", func() {
			cfg.DefaultBackground = "white"
			err := cfg.Validate(ctx)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "default_background")
		})

		convey.Convey("When the strategy is unknown", func() {
			cfg.SuggestStrategy = "genetic"
			err := cfg.Validate(ctx)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When a replacement is malformed", func() {
			cfg.Replacements = map[string]string{"#9CA3AF": "#zzz"}
			err := cfg.Validate(ctx)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "replacements[#9CA3AF]")
		})
	})
}
