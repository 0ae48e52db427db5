package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/wcag/internal/adapters/http/api"
	service "github.com/okian/wcag/internal/app"
	"github.com/okian/wcag/internal/domain/types"
	"github.com/okian/wcag/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

// failingDeps returns err from every operation.
type failingDeps struct {
	err error
}

func (f *failingDeps) Evaluate(context.Context, types.ContrastRequest) (types.ContrastResponse, error) {
	return types.ContrastResponse{}, f.err
}

func (f *failingDeps) Suggest(context.Context, types.SuggestRequest) (types.SuggestResponse, error) {
	return types.SuggestResponse{}, f.err
}

func (f *failingDeps) Extract(context.Context, types.ExtractRequest) (types.ExtractResponse, error) {
	return types.ExtractResponse{}, f.err
}

func (f *failingDeps) Substitute(context.Context, types.SubstituteRequest) (types.SubstituteResponse, error) {
	return types.SubstituteResponse{}, f.err
}

func (f *failingDeps) Replacements() map[string]string { return nil }

func (f *failingDeps) SubmitAudit(context.Context, types.AuditRequest) (types.AuditResponse, error) {
	return types.AuditResponse{}, f.err
}

func (f *failingDeps) Report(context.Context, string) (types.ReportResponse, error) {
	return types.ReportResponse{}, f.err
}

func (f *failingDeps) RecentReports(context.Context, int) ([]types.ReportResponse, error) {
	return nil, f.err
}

func do(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decode[T any](w *httptest.ResponseRecorder) T {
	var v T
	So(json.Unmarshal(w.Body.Bytes(), &v), ShouldBeNil)
	return v
}

func TestServer_Routes(t *testing.T) {
	Convey("Given an API server backed by a started service", t, func() {
		svc, err := service.New(service.WithWorkerCount(2))
		So(err, ShouldBeNil)
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()

		mux := http.NewServeMux()
		api.NewServer(svc, svc).Register(context.Background(), mux)

		Convey("When checking health", func() {
			w := do(mux, http.MethodGet, "/healthz", "")

			Convey("Then metrics should be exposed", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "wcag_")
			})
		})

		Convey("When reading stats", func() {
			w := do(mux, http.MethodGet, "/stats", "")

			Convey("Then the service stats should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				stats := decode[map[string]interface{}](w)
				So(stats["started"], ShouldEqual, true)
			})
		})

		Convey("When evaluating a failing pair", func() {
			w := do(mux, http.MethodPost, "/contrast", `{"foreground":"#9CA3AF","background":"#FFFFFF"}`)

			Convey("Then the evaluation should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				res := decode[types.ContrastResponse](w)
				So(res.Ratio, ShouldAlmostEqual, 2.54, 0.005)
				So(res.Level, ShouldEqual, "Fail")
				So(res.Compliance.PassesAA, ShouldBeFalse)
			})
		})

		Convey("When evaluating through query parameters", func() {
			w := do(mux, http.MethodGet, "/contrast?fg=%23767676&bg=%23fff", "")

			Convey("Then the same evaluation should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				res := decode[types.ContrastResponse](w)
				So(res.Ratio, ShouldAlmostEqual, 4.54, 0.005)
				So(res.Level, ShouldEqual, "AA")
			})
		})

		Convey("When query parameters carry stray whitespace", func() {
			w := do(mux, http.MethodGet, "/contrast?fg=%20%23767676%20&bg=%23fff%0A", "")

			Convey("Then they should be trimmed before parsing", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decode[types.ContrastResponse](w).Ratio, ShouldAlmostEqual, 4.54, 0.005)
			})
		})

		Convey("When a JSON color carries whitespace", func() {
			w := do(mux, http.MethodPost, "/contrast", `{"foreground":" #767676","background":"#fff"}`)

			Convey("Then 400 invalid_color should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decode[types.ErrorResponse](w).Code, ShouldEqual, "invalid_color")
			})
		})

		Convey("When a color is malformed", func() {
			w := do(mux, http.MethodPost, "/contrast", `{"foreground":"#12345","background":"#fff"}`)

			Convey("Then 400 invalid_color should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decode[types.ErrorResponse](w).Code, ShouldEqual, "invalid_color")
			})
		})

		Convey("When the body is not JSON", func() {
			w := do(mux, http.MethodPost, "/contrast", `{`)

			Convey("Then 400 bad_request should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decode[types.ErrorResponse](w).Code, ShouldEqual, "bad_request")
			})
		})

		Convey("When the body has unknown fields", func() {
			w := do(mux, http.MethodPost, "/contrast", `{"foreground":"#000","colour":"#fff"}`)

			Convey("Then it should be rejected", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When using the wrong method", func() {
			w := do(mux, http.MethodDelete, "/suggest", "")

			Convey("Then 404 should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When asking for a suggestion", func() {
			w := do(mux, http.MethodPost, "/suggest", `{"foreground":"#9CA3AF","background":"#FFFFFF"}`)

			Convey("Then a passing color should be proposed", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				res := decode[types.SuggestResponse](w)
				So(res.Reached, ShouldBeTrue)
				So(res.After.Compliance.PassesAA, ShouldBeTrue)
			})
		})

		Convey("When the suggestion direction is unknown", func() {
			w := do(mux, http.MethodPost, "/suggest", `{"foreground":"#000","direction":"up"}`)

			Convey("Then 400 should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When extracting colors", func() {
			w := do(mux, http.MethodPost, "/extract", `{"text":"a{color:#9CA3AF} b{color:#fff} &#123;"}`)

			Convey("Then both literals should be reported", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				res := decode[types.ExtractResponse](w)
				So(res.Colors, ShouldHaveLength, 2)
			})
		})

		Convey("When substituting colors", func() {
			w := do(mux, http.MethodPost, "/substitute", `{"text":"color: #9CA3AF;"}`)

			Convey("Then the text should be rewritten", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				res := decode[types.SubstituteResponse](w)
				So(res.Text, ShouldEqual, "color: #6f7682;")
			})
		})

		Convey("When listing replacements", func() {
			w := do(mux, http.MethodGet, "/replacements", "")

			Convey("Then the table should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decode[map[string]string](w)["#9ca3af"], ShouldEqual, "#6f7682")
			})
		})

		Convey("When submitting an audit", func() {
			body := `{"audit_id":"page-1","pairs":[{"foreground":"#9CA3AF"},{"foreground":"#374151","background":"#F9FAFB"}]}`
			w := do(mux, http.MethodPost, "/audits", body)

			Convey("Then it should be accepted", func() {
				So(w.Code, ShouldEqual, http.StatusAccepted)
				So(w.Header().Get("Location"), ShouldEqual, "/audits/page-1")
				So(decode[types.AuditResponse](w).Status, ShouldEqual, "pending")
			})

			Convey("And the report should become available", func() {
				var report types.ReportResponse
				deadline := time.Now().Add(5 * time.Second)
				for time.Now().Before(deadline) {
					rw := do(mux, http.MethodGet, "/audits/page-1", "")
					So(rw.Code, ShouldEqual, http.StatusOK)
					report = decode[types.ReportResponse](rw)
					if report.Status != "pending" {
						break
					}
					time.Sleep(10 * time.Millisecond)
				}
				So(report.Status, ShouldEqual, "completed")
				So(report.Summary.Total, ShouldEqual, 2)
				So(report.Summary.FailedAA, ShouldEqual, 1)
			})

			Convey("And a resubmission should be acknowledged as duplicate", func() {
				again := do(mux, http.MethodPost, "/audits", body)
				So(again.Code, ShouldEqual, http.StatusOK)
				So(decode[types.AuditResponse](again).Duplicate, ShouldBeTrue)
			})

			Convey("And it should appear in the recent listing", func() {
				list := do(mux, http.MethodGet, "/audits?limit=5", "")
				So(list.Code, ShouldEqual, http.StatusOK)
				reports := decode[[]types.ReportResponse](list)
				So(reports, ShouldHaveLength, 1)
				So(reports[0].AuditID, ShouldEqual, "page-1")
			})
		})

		Convey("When listing with an invalid limit", func() {
			So(do(mux, http.MethodGet, "/audits?limit=abc", "").Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodGet, "/audits?limit=0", "").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When submitting an audit whose id is not one path segment", func() {
			for _, id := range []string{"team/a", "team%2Fa", "a b"} {
				w := do(mux, http.MethodPost, "/audits", `{"audit_id":"`+id+`","pairs":[{"foreground":"#000"}]}`)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decode[types.ErrorResponse](w).Code, ShouldEqual, "bad_request")
				So(w.Header().Get("Location"), ShouldBeEmpty)
			}

			Convey("Then nothing should be listed", func() {
				So(decode[[]types.ReportResponse](do(mux, http.MethodGet, "/audits", "")), ShouldBeEmpty)
			})
		})

		Convey("When submitting an empty audit", func() {
			w := do(mux, http.MethodPost, "/audits", `{"pairs":[]}`)

			Convey("Then 400 should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When fetching an unknown audit", func() {
			w := do(mux, http.MethodGet, "/audits/missing", "")

			Convey("Then 404 should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(decode[types.ErrorResponse](w).Code, ShouldEqual, "not_found")
			})
		})

		Convey("When the audit path is malformed", func() {
			So(do(mux, http.MethodGet, "/audits/a/b", "").Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestServer_ErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"backpressure", service.ErrBackpressure, http.StatusTooManyRequests, "backpressure"},
		{"not started", service.ErrNotStarted, http.StatusServiceUnavailable, "unavailable"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		Convey("Given dependencies failing with "+tc.name, t, func() {
			mux := http.NewServeMux()
			api.NewServer(&failingDeps{err: tc.err}, &mockStatsProvider{}).Register(context.Background(), mux)

			Convey("Then submitting an audit should map the error", func() {
				w := do(mux, http.MethodPost, "/audits", `{"pairs":[{"foreground":"#000"}]}`)
				So(w.Code, ShouldEqual, tc.status)
				res := decode[types.ErrorResponse](w)
				So(res.Code, ShouldEqual, tc.code)
				So(res.Message, ShouldContainSubstring, "api.post_audit")
			})
		})
	}
}

func TestServer_RegisterNilMux(t *testing.T) {
	Convey("Given a nil mux", t, func() {
		server := api.NewServer(&failingDeps{}, &mockStatsProvider{})

		Convey("Then registering should panic", func() {
			So(func() { server.Register(context.Background(), nil) }, ShouldPanic)
		})
	})
}

func TestKindErrors(t *testing.T) {
	Convey("Given a wrapped kind error", t, func() {
		cause := errors.New("cause")
		err := api.WrapKind("api.op", api.ErrBadRequest, cause)

		Convey("Then it should match both kind and cause", func() {
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.op: cause")
		})

		Convey("And a bare kind should print the kind", func() {
			bare := api.NewKind("api.op", api.ErrNotFound)
			So(errors.Is(bare, api.ErrNotFound), ShouldBeTrue)
			So(bare.Error(), ShouldEqual, "api.op: not found")
		})
	})
}
