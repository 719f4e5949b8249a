// Package history provides the implementation for tracking and persisting played-track records.
package history

import (
	"github.com/metafates/gache"

	"github.com/songbot-cli/songbot/filesystem"
	"github.com/songbot-cli/songbot/track"
	"github.com/songbot-cli/songbot/where"
)

// cacher provides an abstracted, disk-backed registry for play records.
var cacher = gache.New[map[string]*SavedTrack](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// Get returns the complete collection of play records from the persistent store.
func Get() (map[string]*SavedTrack, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*SavedTrack), nil
	}
	return cached, nil
}

// Save records a play of the given track, incrementing its play count.
func Save(t track.Track) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	record := newSavedTrack(t)
	if existing, exists := saved[record.encode()]; exists {
		record.Plays = existing.Plays + 1
	}
	saved[record.encode()] = record

	return cacher.Set(saved)
}

// Remove permanently deletes a specific play record from the registry.
func Remove(record *SavedTrack) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	delete(saved, record.encode())
	return cacher.Set(saved)
}
