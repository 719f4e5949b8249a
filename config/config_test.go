package config

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"

	"github.com/songbot-cli/songbot/filesystem"
	"github.com/songbot-cli/songbot/key"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		Convey("Should initialize without error", func() {
			err := Setup()
			So(err, ShouldBeNil)
		})

		Convey("Should have default values populated", func() {
			_ = Setup()
			for name := range Default {
				val := viper.Get(name)
				So(val, ShouldNotBeNil)
			}
		})

		Convey("Should expose the monitoring heuristics as tunables", func() {
			_ = Setup()
			So(viper.GetInt(key.PlayerEndWindowSec), ShouldBeGreaterThan, 0)
			So(viper.GetInt(key.PlayerPollIntervalMs), ShouldBeGreaterThan, 0)
			So(viper.GetInt(key.PlayerReadyAttempts), ShouldBeGreaterThan, 0)
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			result := EnvKeyReplacer.Replace("player.poll_interval_ms")
			So(result, ShouldEqual, "player_poll_interval_ms")
		})
	})
}

func TestField(t *testing.T) {
	Convey("Field", t, func() {
		f := Default[key.PlayerSpotify]

		Convey("Env should carry the application prefix", func() {
			So(f.Env(), ShouldEqual, "SONGBOT_PLAYER_SPOTIFY")
		})

		Convey("typeName should resolve primitive types", func() {
			So(f.typeName(), ShouldEqual, "string")
		})
	})
}
