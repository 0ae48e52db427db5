package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	service "github.com/okian/wcag/internal/app"
	"github.com/okian/wcag/internal/domain/color"
	"github.com/okian/wcag/internal/domain/contrast"
	"github.com/okian/wcag/internal/domain/types"
	"github.com/okian/wcag/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc, err := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(err, ShouldBeNil)
			So(svc, ShouldNotBeNil)
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, false)
			So(stats["suggestStrategy"], ShouldEqual, "step")
			So(stats["defaultBackground"], ShouldEqual, "#ffffff")
			So(stats["replacements"], ShouldBeGreaterThan, 0)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc, err := service.New(
			service.WithWorkerCount(2),
			service.WithQueueSize(8),
			service.WithDedupeSize(16),
			service.WithMaxReports(4),
			service.WithMaxAuditPairs(3),
			service.WithDefaultBackground(color.MustParseHex("#F9FAFB")),
			service.WithSuggestStrategy("bisect"),
		)

		Convey("Then it should be created successfully", func() {
			So(err, ShouldBeNil)
			stats := svc.GetStats()
			So(stats["workerCount"], ShouldEqual, 2)
			So(stats["queueSize"], ShouldEqual, 8)
			So(stats["maxAuditPairs"], ShouldEqual, 3)
			So(stats["defaultBackground"], ShouldEqual, "#f9fafb")
			So(stats["suggestStrategy"], ShouldEqual, "bisect")
		})
	})

	Convey("Given an unknown default strategy", t, func() {
		_, err := service.New(service.WithSuggestStrategy("random"))

		Convey("Then construction should fail", func() {
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given an invalid replacement entry", t, func() {
		_, err := service.New(service.WithReplacements(map[string]string{"#12": "#000"}))

		Convey("Then construction should fail", func() {
			So(errors.Is(err, color.ErrInvalidColorFormat), ShouldBeTrue)
		})
	})
}

func TestService_StartStop(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc, err := service.New(service.WithWorkerCount(2))
		So(err, ShouldBeNil)
		defer svc.Stop()

		Convey("When starting the service", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			err := svc.Start(ctx)

			Convey("Then it should be marked as started", func() {
				So(err, ShouldBeNil)
				So(svc.GetStats()["started"], ShouldEqual, true)
			})

			Convey("And starting twice should be a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})

			Convey("And stopping should mark it stopped", func() {
				svc.Stop()
				So(svc.GetStats()["started"], ShouldEqual, false)
				svc.Stop()
			})
		})
	})
}

func TestService_Evaluate(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service", t, func() {
		svc, err := service.New()
		So(err, ShouldBeNil)

		Convey("When evaluating a light gray on white", func() {
			res, err := svc.Evaluate(ctx, types.ContrastRequest{Foreground: "#9CA3AF", Background: "#FFFFFF"})

			Convey("Then it should fail AA", func() {
				So(err, ShouldBeNil)
				So(res.Ratio, ShouldAlmostEqual, 2.54, 0.005)
				So(res.Level, ShouldEqual, "Fail")
				So(res.Category, ShouldEqual, "normal")
				So(res.Compliance.PassesAA, ShouldBeFalse)
				So(res.Foreground, ShouldEqual, "#9ca3af")
			})
		})

		Convey("When the background is omitted", func() {
			res, err := svc.Evaluate(ctx, types.ContrastRequest{Foreground: "#374151"})

			Convey("Then the default background should be used", func() {
				So(err, ShouldBeNil)
				So(res.Background, ShouldEqual, "#ffffff")
				So(res.Ratio, ShouldAlmostEqual, 10.31, 0.005)
				So(res.Level, ShouldEqual, "AAA")
			})
		})

		Convey("When evaluating a UI component", func() {
			res, err := svc.Evaluate(ctx, types.ContrastRequest{Foreground: "#909296", Category: "ui"})

			Convey("Then the 3:1 threshold should apply", func() {
				So(err, ShouldBeNil)
				So(res.Compliance.PassesAA, ShouldBeTrue)
				So(res.Compliance.AAARequired, ShouldBeNil)
			})
		})

		Convey("When a color is malformed", func() {
			_, err := svc.Evaluate(ctx, types.ContrastRequest{Foreground: "#12", Background: "#fff"})

			Convey("Then an invalid color error should be returned", func() {
				So(errors.Is(err, color.ErrInvalidColorFormat), ShouldBeTrue)
			})
		})

		Convey("When the foreground is missing", func() {
			_, err := svc.Evaluate(ctx, types.ContrastRequest{Background: "#fff"})

			Convey("Then the request should be rejected", func() {
				So(errors.Is(err, service.ErrInvalidRequest), ShouldBeTrue)
			})
		})

		Convey("When the category is unknown", func() {
			_, err := svc.Evaluate(ctx, types.ContrastRequest{Foreground: "#000", Category: "huge"})

			Convey("Then the request should be rejected", func() {
				So(errors.Is(err, service.ErrInvalidRequest), ShouldBeTrue)
				So(errors.Is(err, contrast.ErrUnknownCategory), ShouldBeTrue)
			})
		})
	})
}

func TestService_Suggest(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service", t, func() {
		svc, err := service.New()
		So(err, ShouldBeNil)

		Convey("When suggesting for a failing gray with defaults", func() {
			res, err := svc.Suggest(ctx, types.SuggestRequest{Foreground: "#9CA3AF", Background: "#FFFFFF"})

			Convey("Then a darker passing color should be proposed", func() {
				So(err, ShouldBeNil)
				So(res.Reached, ShouldBeTrue)
				So(res.TargetRatio, ShouldEqual, 4.5)
				So(res.Ratio, ShouldBeGreaterThanOrEqualTo, 4.5)
				So(res.Strategy, ShouldEqual, "step")
				So(res.Direction, ShouldEqual, "darken")
				So(res.Before.Level, ShouldEqual, "Fail")
				So(res.After.Compliance.PassesAA, ShouldBeTrue)
				So(res.After.Foreground, ShouldEqual, res.Suggested)
			})
		})

		Convey("When using the bisect strategy", func() {
			res, err := svc.Suggest(ctx, types.SuggestRequest{Foreground: "#9CA3AF", Strategy: "bisect"})

			Convey("Then the target should still be met", func() {
				So(err, ShouldBeNil)
				So(res.Strategy, ShouldEqual, "bisect")
				So(res.Reached, ShouldBeTrue)
				So(res.Ratio, ShouldBeGreaterThanOrEqualTo, 4.5)
			})
		})

		Convey("When the target is out of range", func() {
			_, err := svc.Suggest(ctx, types.SuggestRequest{Foreground: "#000", TargetRatio: 22})

			Convey("Then the request should be rejected", func() {
				So(errors.Is(err, service.ErrInvalidRequest), ShouldBeTrue)
			})
		})

		Convey("When the direction is unknown", func() {
			_, err := svc.Suggest(ctx, types.SuggestRequest{Foreground: "#000", Direction: "sideways"})

			Convey("Then the request should be rejected", func() {
				So(errors.Is(err, service.ErrInvalidRequest), ShouldBeTrue)
			})
		})

		Convey("When the strategy is unknown", func() {
			_, err := svc.Suggest(ctx, types.SuggestRequest{Foreground: "#000", Strategy: "guess"})

			Convey("Then the request should be rejected", func() {
				So(errors.Is(err, service.ErrInvalidRequest), ShouldBeTrue)
			})
		})
	})
}

func TestService_ExtractAndSubstitute(t *testing.T) {
	ctx := context.Background()
	const css = `.muted { color: #9CA3AF; } .rule { border-color: #9ca3af; } .ok { color: #374151; }`

	Convey("Given a service", t, func() {
		svc, err := service.New()
		So(err, ShouldBeNil)

		Convey("When extracting colors from a stylesheet", func() {
			res, err := svc.Extract(ctx, types.ExtractRequest{Text: css})

			Convey("Then usages should be tallied and graded", func() {
				So(err, ShouldBeNil)
				So(res.Background, ShouldEqual, "#ffffff")
				So(res.Colors, ShouldHaveLength, 2)
				So(res.Colors[0].Color, ShouldEqual, "#9ca3af")
				So(res.Colors[0].Count, ShouldEqual, 2)
				So(res.Colors[0].Level, ShouldEqual, "Fail")
				So(res.Colors[1].Level, ShouldEqual, "AAA")
			})
		})

		Convey("When the extraction background is malformed", func() {
			_, err := svc.Extract(ctx, types.ExtractRequest{Text: css, Background: "white"})

			Convey("Then an invalid color error should be returned", func() {
				So(errors.Is(err, color.ErrInvalidColorFormat), ShouldBeTrue)
			})
		})

		Convey("When substituting known failing colors", func() {
			res, err := svc.Substitute(ctx, types.SubstituteRequest{Text: css})

			Convey("Then both spellings should be rewritten", func() {
				So(err, ShouldBeNil)
				So(res.Text, ShouldNotContainSubstring, "#9CA3AF")
				So(res.Text, ShouldNotContainSubstring, "#9ca3af")
				So(res.Text, ShouldContainSubstring, "#374151")
				So(res.Replacements, ShouldHaveLength, 1)
				So(res.Replacements[0].From, ShouldEqual, "#9ca3af")
				So(res.Replacements[0].To, ShouldEqual, "#6f7682")
				So(res.Replacements[0].Count, ShouldEqual, 2)
			})
		})
	})

	Convey("Given a service with an override replacement", t, func() {
		svc, err := service.New(service.WithReplacements(map[string]string{"#9CA3AF": "#374151"}))
		So(err, ShouldBeNil)

		Convey("Then the override should win over the built-in entry", func() {
			So(svc.Replacements()["#9ca3af"], ShouldEqual, "#374151")
			res, err := svc.Substitute(ctx, types.SubstituteRequest{Text: css})
			So(err, ShouldBeNil)
			So(res.Replacements[0].To, ShouldEqual, "#374151")
		})
	})
}
