package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/birdhunt/internal/adapters/http/api"
	"github.com/okian/birdhunt/internal/adapters/live"
	"github.com/okian/birdhunt/internal/adapters/repository"
	service "github.com/okian/birdhunt/internal/app"
	"github.com/okian/birdhunt/internal/domain/classifier"
	"github.com/okian/birdhunt/internal/domain/types"
	"github.com/okian/birdhunt/internal/domain/weekclock"
)

var fixedNow = time.Date(2026, 1, 14, 12, 0, 0, 0, time.UTC)

func newService(t *testing.T, opts ...service.Option) (*service.Service, *repository.FileStore) {
	t.Helper()
	store := repository.NewFileStore(filepath.Join(t.TempDir(), "submissions.json"))
	clock := weekclock.New(weekclock.WithLocation(time.UTC), weekclock.WithNow(func() time.Time { return fixedNow }))
	svc, err := service.New(store, append([]service.Option{service.WithClock(clock)}, opts...)...)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, store
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](rec *httptest.ResponseRecorder) T {
	var v T
	_ = json.Unmarshal(rec.Body.Bytes(), &v)
	return v
}

func TestSightings(t *testing.T) {
	Convey("Given the API over an empty log", t, func() {
		svc, _ := newService(t)
		h := api.NewServer(svc).Router()

		Convey("A new sighting is created", func() {
			rec := do(h, http.MethodPost, "/sightings", `{"user":"Alice","bird":"great horned owl"}`)
			So(rec.Code, ShouldEqual, http.StatusCreated)

			body := decode[map[string]any](rec)
			So(body["status"], ShouldEqual, "accepted")
			So(body["user"], ShouldEqual, "alice")
			So(body["bird"], ShouldEqual, "Great Horned Owl")
			So(body["points"], ShouldEqual, float64(25))
			So(body["message"], ShouldEqual, "Recorded! +25 points for Great Horned Owl")
			So(body["celebration"], ShouldEqual, "Wow! This is a rare sighting.")
		})

		Convey("A repeat is a duplicate, not an error", func() {
			So(do(h, http.MethodPost, "/sightings", `{"user":"alice","bird":"Blue Jay"}`).Code, ShouldEqual, http.StatusCreated)

			rec := do(h, http.MethodPost, "/sightings", `{"user":"ALICE","bird":"Blue Jay"}`)
			So(rec.Code, ShouldEqual, http.StatusOK)
			body := decode[map[string]any](rec)
			So(body["status"], ShouldEqual, "duplicate")
			So(body["message"], ShouldEqual, "Great job! You've already found **Blue Jay** this week.")
		})

		Convey("Bad payloads are rejected", func() {
			for _, payload := range []string{
				`{"user":"","bird":"Blue Jay"}`,
				`{"user":"bob"}`,
				`{"user":"bob","bird":"Blue Jay","extra":1}`,
				`not json`,
				`{"user":"` + strings.Repeat("x", 101) + `","bird":"Blue Jay"}`,
			} {
				rec := do(h, http.MethodPost, "/sightings", payload)
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				So(decode[map[string]string](rec)["code"], ShouldEqual, "bad_request")
			}
		})

		Convey("GET is not allowed", func() {
			So(do(h, http.MethodGet, "/sightings", "").Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})

	Convey("Given a corrupt record log", t, func() {
		svc, store := newService(t)
		So(os.WriteFile(store.Path(), []byte("{}"), 0o600), ShouldBeNil)
		h := api.NewServer(svc).Router()

		Convey("Writes and reads fail with 500 and no detail", func() {
			rec := do(h, http.MethodPost, "/sightings", `{"user":"alice","bird":"Blue Jay"}`)
			So(rec.Code, ShouldEqual, http.StatusInternalServerError)
			body := decode[map[string]string](rec)
			So(body["code"], ShouldEqual, "internal_error")
			So(body["message"], ShouldEqual, "Internal Server Error")

			So(do(h, http.MethodGet, "/leaderboard/weekly", "").Code, ShouldEqual, http.StatusInternalServerError)
		})
	})
}

func TestLeaderboards(t *testing.T) {
	Convey("Given a few sightings", t, func() {
		svc, _ := newService(t)
		h := api.NewServer(svc, api.WithMaxLimit(10)).Router()
		for _, body := range []string{
			`{"user":"alice","bird":"Blue Jay"}`,
			`{"user":"bob","bird":"Great Horned Owl"}`,
			`{"user":"carol","bird":"Mallard"}`,
		} {
			So(do(h, http.MethodPost, "/sightings", body).Code, ShouldEqual, http.StatusCreated)
		}

		Convey("Weekly standings are ranked with medals", func() {
			rec := do(h, http.MethodGet, "/leaderboard/weekly", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			entries := decode[[]types.Entry](rec)
			So(entries, ShouldResemble, []types.Entry{
				{Rank: 1, User: "bob", Points: 25, Medal: types.GoldMedal},
				{Rank: 2, User: "alice", Points: 10, Medal: types.SilverMedal},
				{Rank: 3, User: "carol", Points: 5, Medal: types.BronzeMedal},
			})
		})

		Convey("Limit truncates the lifetime board", func() {
			rec := do(h, http.MethodGet, "/leaderboard/lifetime?limit=2", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(decode[[]types.Entry](rec), ShouldHaveLength, 2)
		})

		Convey("Invalid limits are rejected", func() {
			for _, q := range []string{"0", "-1", "abc", "11"} {
				So(do(h, http.MethodGet, "/leaderboard/weekly?limit="+q, "").Code, ShouldEqual, http.StatusBadRequest)
			}
		})

		Convey("Medal history is empty while only the current week exists", func() {
			rec := do(h, http.MethodGet, "/medals/history", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(strings.TrimSpace(rec.Body.String()), ShouldEqual, "[]")
		})

		Convey("User views are case-insensitive", func() {
			rec := do(h, http.MethodGet, "/users/BOB/stats", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			stats := decode[types.UserStats](rec)
			So(stats.User, ShouldEqual, "bob")
			So(stats.WeeklyPoints, ShouldEqual, 25)
			So(stats.WeeklyRank, ShouldEqual, 1)
			So(stats.SpeciesTotal, ShouldEqual, 1)

			rec = do(h, http.MethodGet, "/users/Bob/medals", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(decode[map[string]any](rec)["total"], ShouldEqual, float64(0))

			rec = do(h, http.MethodGet, "/users/bob/species", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			tiers := decode[[]types.TierCollection](rec)
			So(tiers, ShouldHaveLength, 5)
			So(tiers[4].Species, ShouldResemble, []string{"Great Horned Owl"})
		})

		Convey("Stats report the log", func() {
			rec := do(h, http.MethodGet, "/stats", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			stats := decode[map[string]any](rec)
			So(stats["records"], ShouldEqual, float64(3))
			So(stats["current_week"], ShouldEqual, "2026-W03")
		})
	})
}

func TestCatalogAndIdentify(t *testing.T) {
	Convey("Given the API with the keyword classifier", t, func() {
		base, _ := newService(t)
		sg, err := classifier.NewSuggester(classifier.NewKeyword(base.Catalog()), base.Catalog())
		So(err, ShouldBeNil)
		svc, _ := newService(t, service.WithSuggester(sg))
		h := api.NewServer(svc, api.WithIdentifyRateLimit(60, 2)).Router()

		Convey("The catalog lists every species", func() {
			rec := do(h, http.MethodGet, "/catalog", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			species := decode[[]map[string]any](rec)
			So(len(species), ShouldEqual, svc.Catalog().Len())
			So(species[0]["image_url"], ShouldStartWith, "https://commons.wikimedia.org/wiki/Special:FilePath/")
		})

		Convey("The catalog can be searched", func() {
			rec := do(h, http.MethodGet, "/catalog?q=owl", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			species := decode[[]map[string]any](rec)
			So(species, ShouldNotBeEmpty)
			So(species[0]["name"], ShouldEqual, "Great Horned Owl")
		})

		Convey("Identify returns suggestions", func() {
			rec := do(h, http.MethodPost, "/identify", `{"description":"large owl with ear tufts"}`)
			So(rec.Code, ShouldEqual, http.StatusOK)
			body := decode[struct {
				Suggestions []types.Suggestion `json:"suggestions"`
			}](rec)
			So(body.Suggestions, ShouldNotBeEmpty)
			So(body.Suggestions[0].Bird, ShouldEqual, "Great Horned Owl")
		})

		Convey("Identify requires a description", func() {
			So(do(h, http.MethodPost, "/identify", `{"description":"  "}`).Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Identify is rate limited per client", func() {
			So(do(h, http.MethodPost, "/identify", `{"description":"owl"}`).Code, ShouldEqual, http.StatusOK)
			So(do(h, http.MethodPost, "/identify", `{"description":"owl"}`).Code, ShouldEqual, http.StatusOK)
			rec := do(h, http.MethodPost, "/identify", `{"description":"owl"}`)
			So(rec.Code, ShouldEqual, http.StatusTooManyRequests)
			So(rec.Header().Get("Retry-After"), ShouldEqual, "60")
		})
	})

	Convey("Without a classifier identify answers with no suggestions", t, func() {
		svc, _ := newService(t)
		h := api.NewServer(svc).Router()
		rec := do(h, http.MethodPost, "/identify", `{"description":"small brown bird"}`)
		So(rec.Code, ShouldEqual, http.StatusOK)
		So(strings.TrimSpace(rec.Body.String()), ShouldEqual, `{"suggestions":[]}`)
	})
}

func TestHealth(t *testing.T) {
	Convey("Health serves Prometheus metrics", t, func() {
		svc, _ := newService(t)
		h := api.NewServer(svc).Router()
		So(do(h, http.MethodPost, "/sightings", `{"user":"alice","bird":"Blue Jay"}`).Code, ShouldEqual, http.StatusCreated)

		rec := do(h, http.MethodGet, "/healthz", "")
		So(rec.Code, ShouldEqual, http.StatusOK)
		So(rec.Body.String(), ShouldContainSubstring, "birdhunt_game_sightings_accepted_total")
	})
}

func TestRateLimiter(t *testing.T) {
	Convey("Clients get independent buckets", t, func() {
		l := api.NewRateLimiter(60, 1)
		So(l.Allow("a"), ShouldBeTrue)
		So(l.Allow("a"), ShouldBeFalse)
		So(l.Allow("b"), ShouldBeTrue)
	})
}

func TestLiveRoute(t *testing.T) {
	Convey("Given the API with a live hub", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		svc, _ := newService(t)
		hub := live.NewHub()
		hub.SetSource(func(ctx context.Context) ([]types.Entry, error) { return svc.WeeklyLeaderboard(ctx, 0) })
		go hub.Run(ctx)
		srv := httptest.NewServer(api.NewServer(svc, api.WithLive(hub)).Router())

		Reset(func() {
			srv.Close()
			cancel()
		})

		conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
		So(err, ShouldBeNil)
		defer conn.Close()

		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var msg live.Message
		So(conn.ReadJSON(&msg), ShouldBeNil)
		So(msg.Type, ShouldEqual, live.MessageTypeSnapshot)
	})
}
