package metrics

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When applied to a manager", func() {
			registry := prometheus.NewRegistry()
			m := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the settings are kept", func() {
				So(m.namespace, ShouldEqual, "test_namespace")
				So(m.subsystem, ShouldEqual, "test_subsystem")
				So(m.histogramBuckets, ShouldResemble, []float64{0.1, 0.5, 1.0})
				So(m.constLabels["env"], ShouldEqual, "test")
			})

			Convey("Then collectors carry the namespace", func() {
				m.sightingsAccepted.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() == "test_namespace_test_subsystem_sightings_accepted_total" {
						found = true
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When given empty values", func() {
			m := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then defaults survive", func() {
				So(m.namespace, ShouldEqual, "birdhunt")
				So(m.subsystem, ShouldEqual, "game")
				So(len(m.histogramBuckets), ShouldBeGreaterThan, 0)
			})
		})
	})
}

func TestGameMetrics(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When a sighting is accepted", func() {
			before := testutil.ToFloat64(globalManager.pointsAwarded)
			RecordSightingAccepted(20)

			Convey("Then its points are added", func() {
				So(testutil.ToFloat64(globalManager.pointsAwarded)-before, ShouldEqual, 20)
			})
		})

		Convey("When unknown species are looked up", func() {
			before := testutil.ToFloat64(globalManager.unknownSpecies)
			RecordUnknownSpecies()
			RecordUnknownSpecies()

			Convey("Then one unlabelled series counts them", func() {
				So(testutil.ToFloat64(globalManager.unknownSpecies)-before, ShouldEqual, 2)
				So(testutil.CollectAndCount(globalManager.unknownSpecies), ShouldEqual, 1)
			})
		})

		Convey("When cache lookups are recorded", func() {
			hits := testutil.ToFloat64(globalManager.viewCache.WithLabelValues("hit"))
			RecordViewCache(true)
			RecordViewCache(false)

			Convey("Then hits and misses are split", func() {
				So(testutil.ToFloat64(globalManager.viewCache.WithLabelValues("hit"))-hits, ShouldEqual, 1)
			})
		})

		Convey("When the remaining recorders are called", func() {
			So(func() {
				RecordSightingDuplicate()
				UpdateRecordsTotal(12)
				RecordClassifierLatency(120)
				RecordClassifierError("timeout")
				RecordClassifierEmpty()
				RecordClassifierCache(true)
				RecordStoreLatency("load", 1.5)
				RecordStoreError("append")
				UpdateQueueSize(3)
				UpdateQueueCapacity(100)
				RecordQueueDropped()
				RecordNotifierError("kafka")
				UpdateLiveClients(2)
				RecordHTTPRequest("/sightings", "POST", "201")
				RecordHTTPRequestDuration("/sightings", "POST", "201", 4.2)
				RecordRateLimited("/identify")
			}, ShouldNotPanic)
		})
	})
}

func TestCollectSystem(t *testing.T) {
	Convey("Given a short-lived context", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
		defer cancel()

		Convey("When collecting system metrics", func() {
			CollectSystem(ctx, 5*time.Millisecond)

			Convey("Then the goroutine gauge is set", func() {
				So(testutil.ToFloat64(globalManager.systemGoroutineCount), ShouldBeGreaterThan, 0)
			})
		})
	})
}

func TestGetRegistry(t *testing.T) {
	Convey("Given the package registry", t, func() {
		families, err := GetRegistry().Gather()

		Convey("Then it gathers birdhunt metrics only", func() {
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
			for _, f := range families {
				So(strings.HasPrefix(f.GetName(), "birdhunt_"), ShouldBeTrue)
			}
		})
	})
}
