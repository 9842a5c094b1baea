package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/trialworks/lemonaid/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	Convey("Given no file and no env overrides", t, func() {
		os.Unsetenv("LEMONAID_CONFIG")

		Convey("When loading", func() {
			cfg, err := config.Load(context.Background())

			Convey("Then defaults apply", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":9080")
				So(cfg.DBPath, ShouldEqual, "lemonaid.db")
				So(cfg.QueueSize, ShouldEqual, 1024)
				So(cfg.MaxListLimit, ShouldEqual, 100)
				So(cfg.DefaultYearsExperience, ShouldEqual, 5)
				So(cfg.GeminiAPIKey, ShouldBeEmpty)
			})
		})
	})
}

func TestLoadEnvOverrides(t *testing.T) {
	Convey("Given env overrides", t, func() {
		t.Setenv("LEMONAID_ADDR", ":7070")
		t.Setenv("LEMONAID_QUEUE_SIZE", "64")
		t.Setenv("LEMONAID_DEFAULT_YEARS_EXPERIENCE", "8")
		t.Setenv("LEMONAID_GEMINI_API_KEY", "test-key")

		Convey("When loading", func() {
			cfg, err := config.Load(context.Background())

			Convey("Then env wins over defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":7070")
				So(cfg.QueueSize, ShouldEqual, 64)
				So(cfg.DefaultYearsExperience, ShouldEqual, 8)
				So(cfg.GeminiAPIKey, ShouldEqual, "test-key")
			})
		})
	})
}

func TestLoadFile(t *testing.T) {
	Convey("Given a YAML config file", t, func() {
		path := filepath.Join(t.TempDir(), "config.yaml")
		So(os.WriteFile(path, []byte("addr: \":6060\"\nworker_count: 2\ndb_path: \":memory:\"\n"), 0o600), ShouldBeNil)
		t.Setenv("LEMONAID_CONFIG", path)

		Convey("When loading", func() {
			cfg, err := config.Load(context.Background())

			Convey("Then file values apply", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":6060")
				So(cfg.WorkerCount, ShouldEqual, 2)
				So(cfg.DBPath, ShouldEqual, ":memory:")
			})
		})

		Convey("When env overrides the file", func() {
			t.Setenv("LEMONAID_ADDR", ":5050")
			cfg, err := config.Load(context.Background())

			Convey("Then env wins", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":5050")
			})
		})
	})
}

func TestLoadValidation(t *testing.T) {
	Convey("Given invalid settings", t, func() {
		Convey("When queue_size is zero", func() {
			t.Setenv("LEMONAID_QUEUE_SIZE", "0")
			_, err := config.Load(context.Background())

			Convey("Then loading fails with ErrInvalidConfig", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
			})
		})

		Convey("When the config file is missing", func() {
			t.Setenv("LEMONAID_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
			_, err := config.Load(context.Background())

			Convey("Then loading fails with ErrLoadConfig", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, config.ErrLoadConfig), ShouldBeTrue)
			})
		})
	})
}
