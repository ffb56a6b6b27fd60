package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/benklinger/kamaole/internal/adapters/http/api"
	service "github.com/benklinger/kamaole/internal/app"
	"github.com/benklinger/kamaole/internal/domain/model"
	"github.com/benklinger/kamaole/internal/domain/types"
)

// stubDeps implements api.Dependencies with canned views and a
// switchable error, recording what the handlers passed down.
type stubDeps struct {
	err error

	gotDate  string
	gotKind  model.ItemKind
	gotID    int
	gotGuess int
}

func (s *stubDeps) Options(_ context.Context, dateKey string) (types.OptionsView, error) {
	s.gotDate = dateKey
	if s.err != nil {
		return types.OptionsView{}, s.err
	}
	return types.OptionsView{
		Date:    "15/03/2026",
		DayName: "ראשון",
		Options: []types.NavOption{
			{Title: "חלב 3%", Date: "15/03/2026", Type: "product", ID: 1},
		},
		Footer: types.FooterView{Text: "היום", Date: "15/03/2026", Location: "תל אביב"},
	}, nil
}

func (s *stubDeps) Game(_ context.Context, dateKey string, kind model.ItemKind, id int) (types.GameView, error) {
	s.gotDate, s.gotKind, s.gotID = dateKey, kind, id
	if s.err != nil {
		return types.GameView{}, s.err
	}
	return types.GameView{
		Date:  dateKey,
		Type:  string(kind),
		ID:    id,
		Title: "חלב 3%",
		Members: []types.MemberImage{
			{Name: "חלב 3%", ImageRef: "milk.png"},
		},
		Slider: types.SliderView{Step: 10, Lower: 590, Upper: 890, Initial: 740},
	}, nil
}

func (s *stubDeps) Result(_ context.Context, dateKey string, kind model.ItemKind, id, guessMinor int) (types.ResultView, error) {
	s.gotDate, s.gotKind, s.gotID, s.gotGuess = dateKey, kind, id, guessMinor
	if s.err != nil {
		return types.ResultView{}, s.err
	}
	return types.ResultView{
		Date:        dateKey,
		Type:        string(kind),
		ID:          id,
		ActualMinor: 590,
		GuessMinor:  guessMinor,
		Delta:       590 - guessMinor,
		Verdict:     "under",
	}, nil
}

type stubStats struct{}

func (stubStats) GetStats() map[string]interface{} {
	return map[string]interface{}{"catalogDays": 2}
}

func newTestMux(deps *stubDeps) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, stubStats{}).Register(context.Background(), mux)
	return mux
}

func get(mux *http.ServeMux, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestOptionsEndpoint(t *testing.T) {
	Convey("Given the options endpoint", t, func() {
		deps := &stubDeps{}
		mux := newTestMux(deps)

		Convey("When requested without a date", func() {
			w := get(mux, "/api/options")

			Convey("Then it should return today's options", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "application/json")
				So(deps.gotDate, ShouldBeEmpty)

				var view types.OptionsView
				So(json.Unmarshal(w.Body.Bytes(), &view), ShouldBeNil)
				So(view.Date, ShouldEqual, "15/03/2026")
				So(view.DayName, ShouldEqual, "ראשון")
				So(view.Options, ShouldHaveLength, 1)
			})
		})

		Convey("When requested with a date", func() {
			w := get(mux, "/api/options?date=14/03/2026")

			Convey("Then the date should reach the service", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.gotDate, ShouldEqual, "14/03/2026")
			})
		})

		Convey("When the service rejects the date", func() {
			deps.err = service.ErrBadDate
			w := get(mux, "/api/options?date=2026-03-15")

			Convey("Then it should map to 400 bad_date", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(w.Body.String(), ShouldContainSubstring, `"code":"bad_date"`)
			})
		})

		Convey("When the date has no game", func() {
			deps.err = service.ErrNoGameForDate
			w := get(mux, "/api/options?date=01/01/2020")

			Convey("Then it should map to 404 no_game with the date in the message", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(w.Body.String(), ShouldContainSubstring, `"code":"no_game"`)
				So(w.Body.String(), ShouldContainSubstring, "01/01/2020")
			})
		})

		Convey("When posted to", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/options", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should 404", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestGameEndpoint(t *testing.T) {
	Convey("Given the game endpoint", t, func() {
		deps := &stubDeps{}
		mux := newTestMux(deps)

		Convey("When requested with valid parameters", func() {
			w := get(mux, "/api/game?date=15/03/2026&type=product&id=1")

			Convey("Then it should return the game view", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.gotDate, ShouldEqual, "15/03/2026")
				So(deps.gotKind, ShouldEqual, model.KindProduct)
				So(deps.gotID, ShouldEqual, 1)

				var view types.GameView
				So(json.Unmarshal(w.Body.Bytes(), &view), ShouldBeNil)
				So(view.Slider.Initial, ShouldEqual, 740)
				So(view.Subtitle, ShouldBeNil)
			})
		})

		Convey("When requested with a legacy basket type", func() {
			w := get(mux, "/api/game?date=15/03/2026&type=basket&id=1")

			Convey("Then it should resolve as a bundle", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.gotKind, ShouldEqual, model.KindBundle)
			})
		})

		Convey("When the date is missing", func() {
			w := get(mux, "/api/game?type=product&id=1")

			Convey("Then it should map to 400 bad_request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(w.Body.String(), ShouldContainSubstring, `"code":"bad_request"`)
			})
		})

		Convey("When the type is unknown", func() {
			w := get(mux, "/api/game?date=15/03/2026&type=tray&id=1")

			Convey("Then it should map to 400 bad_type", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(w.Body.String(), ShouldContainSubstring, `"code":"bad_type"`)
			})
		})

		Convey("When the id is not a number", func() {
			w := get(mux, "/api/game?date=15/03/2026&type=product&id=abc")

			Convey("Then it should map to 400 bad_request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(w.Body.String(), ShouldContainSubstring, `"code":"bad_request"`)
			})
		})

		Convey("When the id is negative", func() {
			w := get(mux, "/api/game?date=15/03/2026&type=product&id=-1")

			Convey("Then it should map to 400 bad_request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the item does not exist", func() {
			deps.err = service.ErrItemNotFound
			w := get(mux, "/api/game?date=15/03/2026&type=product&id=99")

			Convey("Then it should map to 404 item_not_found", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(w.Body.String(), ShouldContainSubstring, `"code":"item_not_found"`)
			})
		})

		Convey("When the service fails unexpectedly", func() {
			deps.err = fmt.Errorf("snapshot unavailable")
			w := get(mux, "/api/game?date=15/03/2026&type=product&id=1")

			Convey("Then it should map to 500 internal_error", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(w.Body.String(), ShouldContainSubstring, `"code":"internal_error"`)
			})
		})
	})
}

func TestResultEndpoint(t *testing.T) {
	Convey("Given the result endpoint", t, func() {
		deps := &stubDeps{}
		mux := newTestMux(deps)

		Convey("When requested with a valid guess", func() {
			w := get(mux, "/api/result?date=15/03/2026&type=product&id=1&guessPrice=500")

			Convey("Then it should return the evaluated view", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.gotGuess, ShouldEqual, 500)

				var view types.ResultView
				So(json.Unmarshal(w.Body.Bytes(), &view), ShouldBeNil)
				So(view.Delta, ShouldEqual, 90)
				So(view.Verdict, ShouldEqual, "under")
			})
		})

		Convey("When the guess is missing", func() {
			w := get(mux, "/api/result?date=15/03/2026&type=product&id=1")

			Convey("Then it should map to 400 bad_request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(w.Body.String(), ShouldContainSubstring, `"code":"bad_request"`)
			})
		})

		Convey("When the guess is negative", func() {
			w := get(mux, "/api/result?date=15/03/2026&type=product&id=1&guessPrice=-5")

			Convey("Then it should map to 400 bad_request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When a zero guess is sent", func() {
			w := get(mux, "/api/result?date=15/03/2026&type=product&id=1&guessPrice=0")

			Convey("Then it should be accepted", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.gotGuess, ShouldEqual, 0)
			})
		})
	})
}

func TestStatsEndpoint(t *testing.T) {
	Convey("Given the stats endpoint", t, func() {
		mux := newTestMux(&stubDeps{})

		Convey("When requested", func() {
			w := get(mux, "/stats")

			Convey("Then it should return the provider's stats as JSON", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "application/json")

				var stats map[string]interface{}
				So(json.Unmarshal(w.Body.Bytes(), &stats), ShouldBeNil)
				So(stats["catalogDays"], ShouldEqual, 2.0)
			})
		})
	})
}

func TestHealthEndpoint(t *testing.T) {
	Convey("Given the health endpoint", t, func() {
		mux := newTestMux(&stubDeps{})

		Convey("When requested", func() {
			w := get(mux, "/healthz")

			Convey("Then it should serve the metrics registry", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.Len(), ShouldBeGreaterThan, 0)
			})
		})
	})
}
