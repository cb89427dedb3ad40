package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/birdhunt/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

// knownVars are cleared before every case so the host environment cannot leak in.
var knownVars = []string{
	"BIRDHUNT_CONFIG", "BIRDHUNT_ADDR", "BIRDHUNT_QUEUE_SIZE", "BIRDHUNT_WORKER_COUNT",
	"BIRDHUNT_STORE_DRIVER", "BIRDHUNT_STORE_PATH", "BIRDHUNT_VIEW_CACHE",
	"BIRDHUNT_KAFKA_BROKERS", "BIRDHUNT_LIVE_UPDATES", "BIRDHUNT_TIMEZONE",
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "birdhunt.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cases := []struct {
		name  string
		file  string
		env   map[string]string
		check func(cfg *config.Config)
	}{
		{
			name: "defaults only",
			check: func(cfg *config.Config) {
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.StoreDriver, convey.ShouldEqual, config.StoreFile)
				convey.So(cfg.StorePath, convey.ShouldEqual, "submissions.json")
				convey.So(cfg.ViewCache, convey.ShouldEqual, config.CacheMemory)
				convey.So(cfg.EventQueueSize, convey.ShouldEqual, 1024)
				convey.So(cfg.LiveUpdates, convey.ShouldBeTrue)
				convey.So(cfg.Brokers(), convey.ShouldBeEmpty)
			},
		},
		{
			name: "environment overrides defaults",
			env: map[string]string{
				"BIRDHUNT_ADDR":          ":8080",
				"BIRDHUNT_QUEUE_SIZE":    "64",
				"BIRDHUNT_WORKER_COUNT":  "3",
				"BIRDHUNT_STORE_DRIVER":  " SQLite ",
				"BIRDHUNT_KAFKA_BROKERS": "k1:9092, k2:9092",
				"BIRDHUNT_LIVE_UPDATES":  "false",
			},
			check: func(cfg *config.Config) {
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.EventQueueSize, convey.ShouldEqual, 64)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 3)
				convey.So(cfg.StoreDriver, convey.ShouldEqual, config.StoreSQLite)
				convey.So(cfg.Brokers(), convey.ShouldResemble, []string{"k1:9092", "k2:9092"})
				convey.So(cfg.LiveUpdates, convey.ShouldBeFalse)
			},
		},
		{
			name: "yaml file with species overrides",
			file: `
# deployment overrides
addr: ":9090"
timezone: "UTC"
store_path: "/var/lib/birdhunt/submissions.json"
view_cache: none
species_points:
  Snowy Owl: 25
  Blue Jay: 10
`,
			check: func(cfg *config.Config) {
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.Timezone, convey.ShouldEqual, "UTC")
				convey.So(cfg.StorePath, convey.ShouldEqual, "/var/lib/birdhunt/submissions.json")
				convey.So(cfg.ViewCache, convey.ShouldEqual, config.CacheNone)
				convey.So(cfg.SpeciesPoints, convey.ShouldResemble, map[string]int{"Snowy Owl": 25, "Blue Jay": 10})
			},
		},
		{
			name: "environment beats file",
			file: "addr: \":9090\"\nworker_count: 24\nqueue_size: 300\n",
			env:  map[string]string{"BIRDHUNT_ADDR": ":8080", "BIRDHUNT_WORKER_COUNT": "32"},
			check: func(cfg *config.Config) {
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 32)
				convey.So(cfg.EventQueueSize, convey.ShouldEqual, 300)
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for _, k := range knownVars {
				t.Setenv(k, "")
				_ = os.Unsetenv(k)
			}
			if tc.file != "" {
				t.Setenv("BIRDHUNT_CONFIG", writeConfig(t, tc.file))
			}
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			convey.Convey("Given "+tc.name, t, func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				tc.check(cfg)
			})
		})
	}
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name string
		file string
		env  map[string]string
		want error
	}{
		{name: "malformed yaml", file: "invalid: yaml: content: [", want: config.ErrLoadConfig},
		{name: "missing file", env: map[string]string{"BIRDHUNT_CONFIG": "/non/existent/file.yaml"}, want: config.ErrLoadConfig},
		{name: "empty addr", env: map[string]string{"BIRDHUNT_ADDR": ""}, want: config.ErrInvalidConfig},
		{name: "non-numeric queue size", env: map[string]string{"BIRDHUNT_QUEUE_SIZE": "lots"}},
		{name: "postgres without dsn", env: map[string]string{"BIRDHUNT_STORE_DRIVER": "postgres"}, want: config.ErrInvalidConfig},
		{name: "unknown view cache", env: map[string]string{"BIRDHUNT_VIEW_CACHE": "memcached"}, want: config.ErrInvalidConfig},
		{name: "unknown timezone", env: map[string]string{"BIRDHUNT_TIMEZONE": "Mars/Olympus_Mons"}, want: config.ErrInvalidConfig},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for _, k := range knownVars {
				t.Setenv(k, "")
				_ = os.Unsetenv(k)
			}
			if tc.file != "" {
				t.Setenv("BIRDHUNT_CONFIG", writeConfig(t, tc.file))
			}
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			convey.Convey("Given "+tc.name, t, func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
				if tc.want != nil {
					convey.So(errors.Is(err, tc.want), convey.ShouldBeTrue)
				}
			})
		})
	}
}
