// Package request manages the persistence and retrieval of listener request popularity.
package request

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"

	"github.com/songbot-cli/songbot/filesystem"
	"github.com/songbot-cli/songbot/key"
	"github.com/songbot-cli/songbot/where"
)

// Record is one remembered request with its accumulated popularity rank.
type Record struct {
	Rank  int    `json:"rank"`
	Query string `json:"query"`
	Link  string `json:"link,omitempty"`
}

var cacher = gache.New[map[string]*Record](
	&gache.Options{
		Path:       where.Requests(),
		FileSystem: &filesystem.GacheFs{},
	},
)

var suggestionCache = make(map[string][]*Record)

// Remember records a listener request in the persistent registry or increments
// its popularity rank. The resolved link, when known, is kept so a suggestion
// can be queued without re-resolving.
func Remember(q, link string, weight int) error {
	q = sanitize(q)
	cached, expired, err := cacher.Get()
	if expired || err != nil || cached == nil {
		cached = make(map[string]*Record)
	}

	if record, ok := cached[q]; ok {
		record.Rank += weight
		if link != "" {
			record.Link = link
		}
	} else {
		cached[q] = &Record{Rank: weight, Query: q, Link: link}
	}

	return cacher.Set(cached)
}

// Suggest returns the most popular historical request matching a partial input.
func Suggest(q string) mo.Option[*Record] {
	suggestions := SuggestMany(q)
	if len(suggestions) == 0 {
		return mo.None[*Record]()
	}
	return mo.Some(suggestions[0])
}

// SuggestMany returns the historical requests matching the partial input,
// sorted by popularity rank.
func SuggestMany(q string) []*Record {
	if !viper.GetBool(key.RequestsSuggest) {
		return nil
	}

	q = sanitize(q)

	if prev, ok := suggestionCache[q]; ok {
		return prev
	}

	cached, expired, err := cacher.Get()
	if err != nil || expired || cached == nil {
		return nil
	}

	var records []*Record
	for _, record := range cached {
		if fuzzy.Match(q, record.Query) {
			records = append(records, record)
		}
	}

	slices.SortFunc(records, func(a, b *Record) int {
		return b.Rank - a.Rank // Descending rank
	})

	suggestionCache[q] = records
	return records
}

// Top returns the n most requested entries of all time.
func Top(n int) []*Record {
	cached, expired, err := cacher.Get()
	if err != nil || expired || cached == nil {
		return nil
	}

	records := lo.Values(cached)
	slices.SortFunc(records, func(a, b *Record) int {
		return b.Rank - a.Rank
	})

	if n > 0 && len(records) > n {
		records = records[:n]
	}
	return records
}

func sanitize(q string) string {
	return strings.TrimSpace(strings.ToLower(q))
}
