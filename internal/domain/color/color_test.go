package color_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/okian/wcag/internal/domain/color"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseHex(t *testing.T) {
	Convey("Given hex color strings", t, func() {
		Convey("When parsing a six digit color with a hash", func() {
			c, err := color.ParseHex("#9CA3AF")

			Convey("Then each channel should be decoded", func() {
				So(err, ShouldBeNil)
				So(c, ShouldResemble, color.Color{R: 0x9c, G: 0xa3, B: 0xaf})
			})
		})

		Convey("When parsing without a hash and in lowercase", func() {
			c, err := color.ParseHex("6f7682")

			Convey("Then it should parse the same way", func() {
				So(err, ShouldBeNil)
				So(c, ShouldResemble, color.Color{R: 0x6f, G: 0x76, B: 0x82})
			})
		})

		Convey("When parsing three digit shorthand", func() {
			short, err1 := color.ParseHex("#abc")
			long, err2 := color.ParseHex("#aabbcc")

			Convey("Then it should equal the expanded form", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(short, ShouldResemble, long)
			})
		})

		Convey("When every shorthand is compared to its expansion", func() {
			digits := "0123456789abcdefABCDEF"

			Convey("Then the two should always match", func() {
				for i := 0; i < len(digits); i++ {
					for j := 0; j < len(digits); j += 3 {
						d1, d2, d3 := digits[i], digits[j], digits[(i+j)%len(digits)]
						short := string([]byte{'#', d1, d2, d3})
						expanded := string([]byte{'#', d1, d1, d2, d2, d3, d3})
						a, errA := color.ParseHex(short)
						b, errB := color.ParseHex(expanded)
						So(errA, ShouldBeNil)
						So(errB, ShouldBeNil)
						So(a, ShouldResemble, b)
					}
				}
			})
		})

		Convey("When parsing surrounding whitespace", func() {
			Convey("Then the input should be rejected, not trimmed", func() {
				for _, in := range []string{"  #FFF \n", " #FFFFFF", "FFF ", "\t000000"} {
					_, err := color.ParseHex(in)
					So(errors.Is(err, color.ErrInvalidColorFormat), ShouldBeTrue)
				}
			})
		})

		Convey("When parsing malformed input", func() {
			for _, in := range []string{"#12345", "", "#", "12", "#1234567", "#GGGGGG", "#12 45", "##123456", "#xyz"} {
				_, err := color.ParseHex(in)
				So(err, ShouldNotBeNil)
				So(errors.Is(err, color.ErrInvalidColorFormat), ShouldBeTrue)
			}
		})
	})
}

func TestHexRoundTrip(t *testing.T) {
	Convey("Given six digit hex strings", t, func() {
		inputs := []string{"#000000", "#FFFFFF", "#9CA3AF", "6f7682", "#DC7600", "#0a0B0c"}

		Convey("Then formatting the parsed color should equal the normalized input", func() {
			for _, in := range inputs {
				c, err := color.ParseHex(in)
				So(err, ShouldBeNil)
				norm, err := color.Normalize(in)
				So(err, ShouldBeNil)
				So(c.Hex(), ShouldEqual, norm)
				So(norm, ShouldEqual, "#"+strings.ToLower(strings.TrimPrefix(in, "#")))
			}
		})
	})

	Convey("Given a shorthand color", t, func() {
		norm, err := color.Normalize("#ABC")

		Convey("Then normalization should expand and lowercase it", func() {
			So(err, ShouldBeNil)
			So(norm, ShouldEqual, "#aabbcc")
		})
	})

	Convey("Given a malformed color", t, func() {
		_, err := color.Normalize("#12345")

		Convey("Then normalization should fail", func() {
			So(errors.Is(err, color.ErrInvalidColorFormat), ShouldBeTrue)
		})
	})
}

func TestColorText(t *testing.T) {
	Convey("Given a color used as text", t, func() {
		Convey("When marshaling", func() {
			b, err := color.MustParseHex("#FF9900").MarshalText()
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual, "#ff9900")
		})

		Convey("When unmarshaling valid text", func() {
			var c color.Color
			So(c.UnmarshalText([]byte("#232F3E")), ShouldBeNil)
			So(c.Hex(), ShouldEqual, "#232f3e")
		})

		Convey("When unmarshaling invalid text", func() {
			var c color.Color
			err := c.UnmarshalText([]byte("nope"))
			So(errors.Is(err, color.ErrInvalidColorFormat), ShouldBeTrue)
		})

		Convey("When MustParseHex gets garbage", func() {
			So(func() { color.MustParseHex("#12345") }, ShouldPanic)
		})
	})
}
