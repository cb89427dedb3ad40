package config_test

import (
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/okian/birdhunt/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.StoreDriver, convey.ShouldEqual, config.StoreFile)
			convey.So(cfg.StorePath, convey.ShouldEqual, "submissions.json")
			convey.So(cfg.ViewCache, convey.ShouldEqual, config.CacheMemory)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.KafkaTopic, convey.ShouldEqual, "birdhunt.sightings")
			convey.So(cfg.ClassifierTimeout(), convey.ShouldEqual, 8*time.Second)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Brokers(t *testing.T) {
	convey.Convey("Given a comma separated broker list", t, func() {
		cfg := config.New()
		cfg.KafkaBrokers = " kafka-1:9092, ,kafka-2:9092 "

		convey.Convey("Then blanks are dropped and entries trimmed", func() {
			convey.So(cfg.Brokers(), convey.ShouldResemble, []string{"kafka-1:9092", "kafka-2:9092"})
		})

		convey.Convey("Then an empty list yields no brokers", func() {
			cfg.KafkaBrokers = ""
			convey.So(cfg.Brokers(), convey.ShouldBeEmpty)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given invalid configurations", t, func() {
		cases := []struct {
			name   string
			mutate func(*config.Config)
		}{
			{"empty addr", func(c *config.Config) { c.Addr = "" }},
			{"unknown driver", func(c *config.Config) { c.StoreDriver = "mongo" }},
			{"postgres without dsn", func(c *config.Config) { c.StoreDriver = config.StorePostgres }},
			{"unknown cache", func(c *config.Config) { c.ViewCache = "memcached" }},
			{"bad timezone", func(c *config.Config) { c.Timezone = "Mars/Olympus_Mons" }},
			{"negative retries", func(c *config.Config) { c.ClassifierRetries = -1 }},
			{"zero queue", func(c *config.Config) { c.EventQueueSize = 0 }},
		}

		for _, tc := range cases {
			convey.Convey("When "+tc.name, func() {
				cfg := config.New()
				tc.mutate(cfg)
				err := cfg.Validate()

				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}
	})

	convey.Convey("Given a named timezone", t, func() {
		cfg := config.New()
		cfg.Timezone = "America/New_York"

		convey.Convey("Then it resolves to that location", func() {
			loc, err := cfg.Location()
			convey.So(err, convey.ShouldBeNil)
			convey.So(loc.String(), convey.ShouldEqual, "America/New_York")
		})
	})
}
