package bridge

import (
	"context"
	"errors"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

// fakeRunner replays canned control-channel replies keyed by the request method suffix.
type fakeRunner struct {
	replies map[string]string
	errs    map[string]error
	calls   []string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (string, error) {
	request := name + " " + strings.Join(args, " ")
	f.calls = append(f.calls, request)

	for suffix, err := range f.errs {
		if strings.Contains(request, suffix) {
			return "", err
		}
	}
	for suffix, out := range f.replies {
		if strings.Contains(request, suffix) {
			return out, nil
		}
	}
	return "", errors.New("unexpected request: " + request)
}

func TestStatus(t *testing.T) {
	Convey("Status", t, func() {
		Convey("Classifies the three playback states", func() {
			for _, state := range []struct {
				reply string
				want  State
			}{
				{"Playing", Playing},
				{"Paused", Paused},
				{"Stopped", Stopped},
			} {
				runner := &fakeRunner{
					replies: map[string]string{"PlaybackStatus": state.reply},
					errs:    map[string]error{"Metadata": errors.New("no metadata")},
				}
				st := New(runner).Status(context.Background(), "spotify")
				So(st.State, ShouldEqual, state.want)
			}
		})

		Convey("Missing players classify as NoPlayer, not an error", func() {
			runner := &fakeRunner{errs: map[string]error{
				"PlaybackStatus": errors.New("Error: org.freedesktop.DBus.Error.ServiceUnknown: The name org.mpris.MediaPlayer2.spotify was not provided by any .service files"),
			}}
			st := New(runner).Status(context.Background(), "spotify")
			So(st.State, ShouldEqual, NoPlayer)
			So(st.Message, ShouldBeEmpty)
		})

		Convey("Other failures surface the message", func() {
			runner := &fakeRunner{errs: map[string]error{
				"PlaybackStatus": errors.New("Error: org.freedesktop.DBus.Error.AccessDenied"),
			}}
			st := New(runner).Status(context.Background(), "spotify")
			So(st.State, ShouldEqual, Errored)
			So(st.Message, ShouldContainSubstring, "AccessDenied")
		})

		Convey("Attaches the reported media identity when metadata is readable", func() {
			runner := &fakeRunner{replies: map[string]string{
				"PlaybackStatus": "Playing",
				"Metadata": `method return time=1690000000.123 sender=:1.52 -> destination=:1.64 serial=270 reply_serial=2
   variant       array [
         dict entry(
            string "xesam:url"
            variant                string "https://open.spotify.com/track/abc"
         )
      ]`,
			}}
			st := New(runner).Status(context.Background(), "spotify")
			So(st.State, ShouldEqual, Playing)
			So(st.URL, ShouldEqual, "https://open.spotify.com/track/abc")
		})
	})
}

func TestPositionSeconds(t *testing.T) {
	Convey("PositionSeconds", t, func() {
		Convey("Converts microseconds to whole seconds", func() {
			runner := &fakeRunner{replies: map[string]string{"Position": "135500000"}}
			secs, err := New(runner).PositionSeconds(context.Background(), "spotify")
			So(err, ShouldBeNil)
			So(secs, ShouldEqual, 135)
		})

		Convey("Propagates unreadable replies as errors", func() {
			runner := &fakeRunner{replies: map[string]string{"Position": "not-a-number"}}
			_, err := New(runner).PositionSeconds(context.Background(), "spotify")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestSeek(t *testing.T) {
	Convey("Seek", t, func() {
		runner := &fakeRunner{replies: map[string]string{"SetPosition": ""}}
		err := New(runner).Seek(context.Background(), "spotify", "/com/spotify/track/abc", 42)
		So(err, ShouldBeNil)
		So(runner.calls[len(runner.calls)-1], ShouldContainSubstring, "/com/spotify/track/abc")
		So(runner.calls[len(runner.calls)-1], ShouldContainSubstring, "42000000")
	})
}

func TestDirectives(t *testing.T) {
	Convey("Control directives address the player by bus name", t, func() {
		runner := &fakeRunner{replies: map[string]string{"org.mpris.MediaPlayer2.Player": ""}}
		b := New(runner)

		So(b.OpenURI(context.Background(), "vlc", "https://youtu.be/x"), ShouldBeNil)
		So(b.Play(context.Background(), "vlc"), ShouldBeNil)
		So(b.Pause(context.Background(), "vlc"), ShouldBeNil)
		So(b.Stop(context.Background(), "vlc"), ShouldBeNil)

		for _, call := range runner.calls {
			So(call, ShouldContainSubstring, "org.mpris.MediaPlayer2.vlc")
		}
	})
}
