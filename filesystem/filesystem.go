// Package filesystem is the single switchable disk backend for the bot's
// config and on-disk caches. Everything that touches the disk goes through
// API(), so tests can swap the whole tree for an in-memory one.
package filesystem

import "github.com/spf13/afero"

var backend = afero.Afero{Fs: afero.NewOsFs()}

// API returns the backend every disk access must go through.
func API() afero.Afero {
	return backend
}

// SetOsFs points the backend at the real disk.
func SetOsFs() {
	backend = afero.Afero{Fs: afero.NewOsFs()}
}

// SetMemMapFs replaces the backend with a throwaway in-memory tree, so tests
// never touch the user's config or caches.
func SetMemMapFs() {
	backend = afero.Afero{Fs: afero.NewMemMapFs()}
}
