package bridge

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/songbot-cli/songbot/log"
)

// Metadata holds the typed fields of a player's metadata reply.
type Metadata struct {
	// TrackID is the opaque per-player track handle required by Seek.
	TrackID string
	// LengthMicros is the reported track length in microseconds.
	LengthMicros int64
	ArtURL       string
	Album        string
	AlbumArtists []string
	Artists      []string
	Rating       float64
	DiscNumber   int
	Title        string
	TrackNumber  int
	URL          string
}

// LengthSeconds returns the reported track length in whole seconds.
func (m Metadata) LengthSeconds() int64 {
	return m.LengthMicros / 1_000_000
}

// Metadata queries and parses the player's metadata property.
//
// The reply is a loosely formatted nested dump; parsing is line-oriented and
// additive. Unknown field variants are logged and skipped so a single odd line
// never fails the whole query.
func (b *Bridge) Metadata(ctx context.Context, playerID string) (Metadata, error) {
	out, err := b.runner.Run(ctx, "dbus-send", "--print-reply", "--dest="+dest(playerID),
		objectPath, propsIface+".Get", "string:"+playerIface, "string:Metadata")
	if err != nil {
		return Metadata{}, fmt.Errorf("query metadata: %w", err)
	}

	return parseMetadata(out), nil
}

// parseMetadata walks the nested reply text. Each field arrives as a dict entry:
//
//	dict entry(
//	   string "mpris:length"
//	   variant uint64 215000000
//	)
//
// Array-valued fields nest one further level of string lines between brackets.
func parseMetadata(out string) Metadata {
	var meta Metadata

	lines := strings.Split(out, "\n")
	for i := 0; i < len(lines); i++ {
		if !strings.HasPrefix(strings.TrimSpace(lines[i]), "dict entry(") {
			continue
		}

		i++
		if i >= len(lines) {
			break
		}
		key, ok := parseQuoted(strings.TrimSpace(lines[i]), "string")
		if !ok {
			continue
		}

		i++
		if i >= len(lines) {
			break
		}
		value := strings.TrimSpace(lines[i])
		value = strings.TrimSpace(strings.TrimPrefix(value, "variant"))

		if strings.HasPrefix(value, "array") {
			var items []string
			for i++; i < len(lines); i++ {
				inner := strings.TrimSpace(lines[i])
				if strings.HasPrefix(inner, "]") {
					break
				}
				if s, ok := parseQuoted(inner, "string"); ok {
					items = append(items, s)
				} else if inner != "" {
					log.Debugf("metadata: skipping unrecognized array element %q for %q", inner, key)
				}
			}
			meta.assignList(key, items)
			continue
		}

		meta.assignScalar(key, value)
	}

	return meta
}

// parseQuoted extracts the quoted payload of a `<kind> "..."` line.
func parseQuoted(line, kind string) (string, bool) {
	rest, found := strings.CutPrefix(line, kind)
	if !found {
		return "", false
	}
	rest = strings.TrimSpace(rest)
	if len(rest) < 2 || !strings.HasPrefix(rest, `"`) || !strings.HasSuffix(rest, `"`) {
		return "", false
	}
	return rest[1 : len(rest)-1], true
}

// assignScalar routes one typed scalar line to its Metadata field.
func (m *Metadata) assignScalar(key, value string) {
	kind, payload, _ := strings.Cut(value, " ")
	payload = strings.TrimSpace(payload)

	switch kind {
	case "object":
		// "object path "/com/spotify/track/xyz""
		if s, ok := parseQuoted(value, "object path"); ok {
			m.assignString(key, s)
		}
	case "string":
		if s, ok := parseQuoted(value, "string"); ok {
			m.assignString(key, s)
		}
	case "int32", "uint32":
		n, err := strconv.Atoi(payload)
		if err != nil {
			log.Warnf("metadata: bad %s value %q for %q", kind, payload, key)
			return
		}
		m.assignInt(key, n)
	case "int64", "uint64":
		n, err := strconv.ParseInt(payload, 10, 64)
		if err != nil {
			log.Warnf("metadata: bad %s value %q for %q", kind, payload, key)
			return
		}
		m.assignInt64(key, n)
	case "double":
		f, err := strconv.ParseFloat(payload, 64)
		if err != nil {
			log.Warnf("metadata: bad double value %q for %q", payload, key)
			return
		}
		m.assignFloat(key, f)
	default:
		log.Warnf("metadata: unknown variant kind %q for %q", kind, key)
	}
}

func (m *Metadata) assignString(key, value string) {
	switch key {
	case "mpris:trackid":
		m.TrackID = value
	case "mpris:artUrl":
		m.ArtURL = value
	case "xesam:album":
		m.Album = value
	case "xesam:title":
		m.Title = value
	case "xesam:url":
		m.URL = value
	}
}

func (m *Metadata) assignInt(key string, value int) {
	switch key {
	case "xesam:discNumber":
		m.DiscNumber = value
	case "xesam:trackNumber":
		m.TrackNumber = value
	}
}

func (m *Metadata) assignInt64(key string, value int64) {
	if key == "mpris:length" {
		m.LengthMicros = value
	}
}

func (m *Metadata) assignFloat(key string, value float64) {
	if key == "xesam:autoRating" {
		m.Rating = value
	}
}

func (m *Metadata) assignList(key string, values []string) {
	switch key {
	case "xesam:artist":
		m.Artists = values
	case "xesam:albumArtist":
		m.AlbumArtists = values
	}
}
