package queue

import (
	"context"
	"testing"

	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"

	"github.com/songbot-cli/songbot/key"
	"github.com/songbot-cli/songbot/playback"
	"github.com/songbot-cli/songbot/track"
)

type fakeMachine struct {
	started  []track.Track
	startAts []int64
	active   bool
	skips    int
	stops    int
	pauses   int
	resumes  int
}

func (f *fakeMachine) Start(_ context.Context, t track.Track, startAt int64) {
	f.started = append(f.started, t)
	f.startAts = append(f.startAts, startAt)
	f.active = true
}

func (f *fakeMachine) Pause(context.Context) error  { f.pauses++; return nil }
func (f *fakeMachine) Resume(context.Context) error { f.resumes++; return nil }
func (f *fakeMachine) Stop(context.Context)         { f.stops++; f.active = false }
func (f *fakeMachine) Skip(context.Context)         { f.skips++; f.active = false }
func (f *fakeMachine) Active() bool                 { return f.active }

func (f *fakeMachine) Now() mo.Option[playback.Now] { return mo.None[playback.Now]() }

type recordingListener struct {
	events []string
}

func (r *recordingListener) OnTrackStarted(_ string, t track.Track) {
	r.events = append(r.events, "started "+t.Title)
}

func (r *recordingListener) OnTrackPaused(_ string, t track.Track) {
	r.events = append(r.events, "paused "+t.Title)
}

func (r *recordingListener) OnTrackResumed(_ string, t track.Track) {
	r.events = append(r.events, "resumed "+t.Title)
}

func (r *recordingListener) OnTrackEnded(_ string, t track.Track) {
	r.events = append(r.events, "ended "+t.Title)
}

func (r *recordingListener) OnTrackStopped(_ string, t track.Track) {
	r.events = append(r.events, "stopped "+t.Title)
}

func (r *recordingListener) OnAdPlaying() {
	r.events = append(r.events, "ad")
}

func spotifyTrack(title string) track.Track {
	return track.Track{
		Service: track.Spotify,
		Link:    "https://open.spotify.com/track/" + title,
		ID:      title,
		Title:   title,
		Artists: []string{"Artist"},
	}
}

func youtubeTrack(title string) track.Track {
	return track.Track{
		Service: track.YouTube,
		Link:    "https://youtu.be/" + title,
		ID:      title,
		Title:   title,
	}
}

func titles(ts []track.Track) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Title
	}
	return out
}

func TestQueueMutations(t *testing.T) {
	Convey("given a queue with tracks", t, func() {
		mgr := NewManager(&fakeMachine{}, &recordingListener{}, nil)

		Convey("adding appends by default", func() {
			So(mgr.Add(spotifyTrack("a")), ShouldBeTrue)
			So(mgr.Add(spotifyTrack("b")), ShouldBeTrue)
			So(titles(mgr.Snapshot()), ShouldResemble, []string{"a", "b"})
		})

		Convey("adding at a position splices the track in", func() {
			mgr.Add(spotifyTrack("a"))
			mgr.Add(spotifyTrack("b"))
			mgr.Add(spotifyTrack("x"), 1)
			So(titles(mgr.Snapshot()), ShouldResemble, []string{"a", "x", "b"})
		})

		Convey("positions beyond the end clamp to append", func() {
			mgr.Add(spotifyTrack("a"))
			mgr.Add(spotifyTrack("b"), 99)
			mgr.Add(spotifyTrack("c"), -5)
			So(titles(mgr.Snapshot()), ShouldResemble, []string{"c", "a", "b"})
		})

		Convey("deleting removes by index with stable survivors", func() {
			for _, n := range []string{"a", "b", "c", "d"} {
				mgr.Add(spotifyTrack(n))
			}
			removed := mgr.Delete(0, 2)
			So(titles(removed), ShouldResemble, []string{"a", "c"})
			So(titles(mgr.Snapshot()), ShouldResemble, []string{"b", "d"})
		})

		Convey("out-of-range and duplicate indices are ignored", func() {
			mgr.Add(spotifyTrack("a"))
			removed := mgr.Delete(5, -1, 0, 0)
			So(titles(removed), ShouldResemble, []string{"a"})
			So(mgr.Size(), ShouldEqual, 0)
		})

		Convey("deleting by track removes every equal entry", func() {
			mgr.Add(spotifyTrack("a"))
			mgr.Add(spotifyTrack("b"))
			mgr.Add(spotifyTrack("a"))
			So(mgr.DeleteMatching(spotifyTrack("a")), ShouldEqual, 2)
			So(titles(mgr.Snapshot()), ShouldResemble, []string{"b"})
		})

		Convey("clear empties the pending queue", func() {
			mgr.Add(spotifyTrack("a"))
			mgr.Clear()
			So(mgr.Size(), ShouldEqual, 0)
		})
	})
}

func TestQueueMove(t *testing.T) {
	Convey("given tracks a, b, c", t, func() {
		mgr := NewManager(&fakeMachine{}, &recordingListener{}, nil)
		for _, n := range []string{"a", "b", "c"} {
			mgr.Add(spotifyTrack(n))
		}

		Convey("moving the tail to the front", func() {
			So(mgr.Move([]int{2}, 0), ShouldBeFalse)
			So(titles(mgr.Snapshot()), ShouldResemble, []string{"c", "a", "b"})
		})

		Convey("moving back reconstructs the original order", func() {
			mgr.Move([]int{2}, 0)
			mgr.Move([]int{0}, 2)
			So(titles(mgr.Snapshot()), ShouldResemble, []string{"a", "b", "c"})
		})

		Convey("a run keeps the order the indices were given in", func() {
			So(mgr.Move([]int{2, 0}, 0), ShouldBeFalse)
			So(titles(mgr.Snapshot()), ShouldResemble, []string{"c", "a", "b"})
		})

		Convey("a target past the survivors is treated as an offset", func() {
			So(mgr.Move([]int{0, 1}, 5), ShouldBeTrue)
			So(titles(mgr.Snapshot()), ShouldResemble, []string{"c", "a", "b"})
		})

		Convey("out-of-range indices are ignored", func() {
			So(mgr.Move([]int{7}, 0), ShouldBeFalse)
			So(titles(mgr.Snapshot()), ShouldResemble, []string{"a", "b", "c"})
		})
	})
}

func TestQueueLifecycle(t *testing.T) {
	Convey("given a started queue", t, func() {
		machine := &fakeMachine{}
		listener := &recordingListener{}
		mgr := NewManager(machine, listener, nil)
		ctx := context.Background()

		mgr.Add(spotifyTrack("a"))
		mgr.Add(spotifyTrack("b"))

		So(mgr.Start(ctx), ShouldBeNil)
		So(titles(machine.started), ShouldResemble, []string{"a"})

		Convey("starting again is rejected", func() {
			So(mgr.Start(ctx), ShouldEqual, ErrAlreadyStarted)
			So(mgr.StartAt(ctx, 30), ShouldEqual, ErrAlreadyStarted)
		})

		Convey("the started track leaves the queue exactly once", func() {
			mgr.OnTrackStarted("spotify", spotifyTrack("a"))
			So(titles(mgr.Snapshot()), ShouldResemble, []string{"b"})
			So(mgr.State(), ShouldEqual, Playing)

			mgr.OnTrackStarted("spotify", spotifyTrack("a"))
			So(titles(mgr.Snapshot()), ShouldResemble, []string{"b"})
		})

		Convey("a natural end advances to the next track", func() {
			mgr.OnTrackStarted("spotify", spotifyTrack("a"))
			mgr.OnTrackEnded("spotify", spotifyTrack("a"))
			So(titles(machine.started), ShouldResemble, []string{"a", "b"})
			So(listener.events, ShouldContain, "ended a")
		})

		Convey("an end with nothing pending settles into stopped", func() {
			mgr.OnTrackStarted("spotify", spotifyTrack("a"))
			mgr.OnTrackStarted("spotify", spotifyTrack("b"))
			mgr.OnTrackEnded("spotify", spotifyTrack("b"))
			So(mgr.State(), ShouldEqual, Stopped)
			So(titles(machine.started), ShouldResemble, []string{"a"})
			// The drained queue is announced with a zero track.
			So(listener.events[len(listener.events)-1], ShouldEqual, "stopped ")
		})

		Convey("pause and resume update the state", func() {
			mgr.OnTrackStarted("spotify", spotifyTrack("a"))
			mgr.OnTrackPaused("spotify", spotifyTrack("a"))
			So(mgr.State(), ShouldEqual, Paused)
			mgr.OnTrackResumed("spotify", spotifyTrack("a"))
			So(mgr.State(), ShouldEqual, Playing)
		})

		Convey("a stop does not advance", func() {
			mgr.OnTrackStarted("spotify", spotifyTrack("a"))
			mgr.OnTrackStopped("spotify", spotifyTrack("a"))
			So(mgr.State(), ShouldEqual, Stopped)
			So(titles(machine.started), ShouldResemble, []string{"a"})
			So(titles(mgr.Snapshot()), ShouldResemble, []string{"b"})
		})
	})

	Convey("skipping", t, func() {
		machine := &fakeMachine{}
		mgr := NewManager(machine, &recordingListener{}, nil)
		ctx := context.Background()

		Convey("on an idle empty queue is a no-op", func() {
			mgr.Skip(ctx)
			So(machine.skips, ShouldEqual, 0)
			So(machine.started, ShouldBeEmpty)
		})

		Convey("with a live session delegates to the machine", func() {
			machine.active = true
			mgr.Skip(ctx)
			So(machine.skips, ShouldEqual, 1)
		})

		Convey("while idle with pending tracks starts the queue", func() {
			mgr.Add(spotifyTrack("a"))
			mgr.Skip(ctx)
			So(titles(machine.started), ShouldResemble, []string{"a"})
		})
	})

	Convey("starting at an offset hands it to the first track only", t, func() {
		machine := &fakeMachine{}
		mgr := NewManager(machine, &recordingListener{}, nil)
		ctx := context.Background()

		mgr.Add(spotifyTrack("a"))
		mgr.Add(spotifyTrack("b"))

		So(mgr.StartAt(ctx, 90), ShouldBeNil)
		mgr.OnTrackStarted("spotify", spotifyTrack("a"))
		mgr.OnTrackEnded("spotify", spotifyTrack("a"))

		So(machine.startAts, ShouldResemble, []int64{90, 0})
	})

	Convey("pause and resume with nothing playing are rejected", t, func() {
		mgr := NewManager(&fakeMachine{}, &recordingListener{}, nil)
		So(mgr.Pause(context.Background()), ShouldEqual, ErrNotPlaying)
		So(mgr.Resume(context.Background()), ShouldEqual, ErrNotPlaying)
	})
}

func TestQueueProbing(t *testing.T) {
	Convey("given a head that needs probing", t, func() {
		viper.Set(key.QueueProbeAttempts, 2)
		viper.Set(key.QueueProbeDelayMs, 0)
		defer viper.Reset()

		machine := &fakeMachine{}
		probed := map[string]int{}
		probe := func(_ context.Context, t track.Track) error {
			probed[t.Title]++
			if t.Title == "dead" {
				return context.DeadlineExceeded
			}
			return nil
		}
		mgr := NewManager(machine, &recordingListener{}, probe)

		Convey("a failing head is dropped and the next one starts", func() {
			mgr.Add(youtubeTrack("dead"))
			mgr.Add(youtubeTrack("alive"))

			So(mgr.Start(context.Background()), ShouldBeNil)
			So(probed["dead"], ShouldEqual, 2)
			So(probed["alive"], ShouldEqual, 1)
			So(titles(machine.started), ShouldResemble, []string{"alive"})
			So(titles(mgr.Snapshot()), ShouldResemble, []string{"alive"})
		})

		Convey("tracks that play through a running player are not probed", func() {
			mgr.Add(spotifyTrack("a"))
			So(mgr.Start(context.Background()), ShouldBeNil)
			So(probed, ShouldBeEmpty)
		})
	})
}
