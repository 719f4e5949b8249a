package bridge

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

const sampleReply = `method return time=1690000000.123 sender=:1.52 -> destination=:1.64 serial=270 reply_serial=2
   variant       array [
         dict entry(
            string "mpris:trackid"
            variant                object path "/com/spotify/track/4uLU6hMCjMI75M1A2tKUQC"
         )
         dict entry(
            string "mpris:length"
            variant                uint64 215000000
         )
         dict entry(
            string "mpris:artUrl"
            variant                string "https://i.scdn.co/image/ab67616d"
         )
         dict entry(
            string "xesam:album"
            variant                string "A Night at the Opera"
         )
         dict entry(
            string "xesam:albumArtist"
            variant                array [
                  string "Queen"
               ]
         )
         dict entry(
            string "xesam:artist"
            variant                array [
                  string "Queen"
                  string "David Bowie"
               ]
         )
         dict entry(
            string "xesam:autoRating"
            variant                double 0.55
         )
         dict entry(
            string "xesam:discNumber"
            variant                int32 1
         )
         dict entry(
            string "xesam:title"
            variant                string "Bohemian Rhapsody"
         )
         dict entry(
            string "xesam:trackNumber"
            variant                int32 11
         )
         dict entry(
            string "xesam:url"
            variant                string "https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC"
         )
      ]`

func TestParseMetadata(t *testing.T) {
	Convey("parseMetadata", t, func() {
		Convey("Extracts every well-known field with its type", func() {
			meta := parseMetadata(sampleReply)

			So(meta.TrackID, ShouldEqual, "/com/spotify/track/4uLU6hMCjMI75M1A2tKUQC")
			So(meta.LengthMicros, ShouldEqual, 215000000)
			So(meta.LengthSeconds(), ShouldEqual, 215)
			So(meta.ArtURL, ShouldEqual, "https://i.scdn.co/image/ab67616d")
			So(meta.Album, ShouldEqual, "A Night at the Opera")
			So(meta.AlbumArtists, ShouldResemble, []string{"Queen"})
			So(meta.Artists, ShouldResemble, []string{"Queen", "David Bowie"})
			So(meta.Rating, ShouldAlmostEqual, 0.55)
			So(meta.DiscNumber, ShouldEqual, 1)
			So(meta.Title, ShouldEqual, "Bohemian Rhapsody")
			So(meta.TrackNumber, ShouldEqual, 11)
			So(meta.URL, ShouldEqual, "https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC")
		})

		Convey("Tolerates unknown variant kinds without failing the parse", func() {
			reply := `   variant array [
         dict entry(
            string "mpris:weird"
            variant                tuple (1, 2)
         )
         dict entry(
            string "xesam:title"
            variant                string "Still Parsed"
         )
      ]`
			meta := parseMetadata(reply)
			So(meta.Title, ShouldEqual, "Still Parsed")
		})

		Convey("Tolerates malformed numeric payloads", func() {
			reply := `dict entry(
   string "mpris:length"
   variant uint64 garbage
)
dict entry(
   string "xesam:title"
   variant string "Ok"
)`
			meta := parseMetadata(reply)
			So(meta.LengthMicros, ShouldEqual, 0)
			So(meta.Title, ShouldEqual, "Ok")
		})

		Convey("Unknown keys are skipped silently", func() {
			reply := `dict entry(
   string "xesam:comment"
   variant string "whatever"
)`
			meta := parseMetadata(reply)
			So(meta, ShouldResemble, Metadata{})
		})

		Convey("Empty input yields a zero value", func() {
			So(parseMetadata(""), ShouldResemble, Metadata{})
		})
	})
}
