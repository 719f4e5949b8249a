package chat

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/songbot-cli/songbot/catalog"
	"github.com/songbot-cli/songbot/icon"
	"github.com/songbot-cli/songbot/log"
	"github.com/songbot-cli/songbot/queue"
	"github.com/songbot-cli/songbot/request"
	"github.com/songbot-cli/songbot/track"
	"github.com/songbot-cli/songbot/util"
)

// listLimit caps how many pending entries a queue listing spells out.
const listLimit = 10

// Router maps parsed chat commands onto queue operations.
type Router struct {
	queue    *queue.Manager
	resolver catalog.Resolver
	gateway  Gateway
}

// NewRouter returns a router dispatching to the given queue.
func NewRouter(q *queue.Manager, resolver catalog.Resolver, gateway Gateway) *Router {
	return &Router{
		queue:    q,
		resolver: resolver,
		gateway:  gateway,
	}
}

func (r *Router) reply(format string, args ...any) {
	if err := r.gateway.SendMessage(fmt.Sprintf(format, args...)); err != nil {
		log.Warnf("chat delivery: %v", err)
	}
}

func (r *Router) fail(format string, args ...any) {
	r.reply(icon.Get(icon.Fail)+" "+format, args...)
}

// Handle dispatches one parsed chat line. Unknown commands get a usage hint;
// nothing here ever panics on malformed input.
func (r *Router) Handle(ctx context.Context, line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}

	command, args := strings.ToLower(fields[0]), fields[1:]

	switch command {
	case "play", "start":
		r.play(ctx, args)
	case "add":
		r.add(ctx, strings.Join(args, " "))
	case "skip", "next":
		r.queue.Skip(ctx)
	case "pause":
		if err := r.queue.Pause(ctx); err != nil {
			r.fail("%v", err)
		}
	case "resume", "unpause":
		if err := r.queue.Resume(ctx); err != nil {
			r.fail("%v", err)
		}
	case "stop":
		r.queue.Stop(ctx)
	case "queue", "list":
		r.list()
	case "delete", "remove":
		r.delete(args)
	case "move":
		r.move(args)
	case "shuffle":
		r.queue.Shuffle()
		r.reply("%s Queue shuffled", icon.Get(icon.Queue))
	case "np", "now":
		r.nowPlaying()
	case "suggest":
		r.suggest(strings.Join(args, " "))
	case "top":
		r.top()
	case "help":
		r.reply("commands: play [offset], add <link or search>, skip, pause, resume, stop, queue, delete <positions>, move <positions> <to>, shuffle, np, suggest <text>, top")
	default:
		r.fail("unknown command %q, try help", command)
	}
}

// play starts the queue, seeking the first track to an optional offset given
// as seconds or m:ss.
func (r *Router) play(ctx context.Context, args []string) {
	var offset int64
	if len(args) > 0 {
		parsed, err := util.ParseDuration(args[0])
		if err != nil {
			r.fail("that offset makes no sense, try play 1:30")
			return
		}
		offset = parsed
	}

	if err := r.queue.StartAt(ctx, offset); err != nil {
		r.fail("%v", err)
	}
}

// add resolves a link or free-text request into tracks and appends them.
func (r *Router) add(ctx context.Context, query string) {
	if query == "" {
		r.fail("add what? give me a link or something to search for")
		return
	}

	var (
		tracks []track.Track
		link   string
	)

	if catalog.Detect(query).IsPresent() {
		link = query
		if cached, ok := catalog.Cached(link).Get(); ok {
			tracks = cached
		}
	}

	if tracks == nil {
		resolved, err := r.resolver.Resolve(ctx, query)
		if err != nil {
			r.fail("could not resolve %q: %v", query, err)
			return
		}
		tracks = resolved

		if link != "" && len(tracks) > 0 {
			if err := catalog.Remember(link, tracks); err != nil {
				log.Warnf("catalog cache: %v", err)
			}
		}
	}

	tracks = playableOnly(tracks)
	if len(tracks) == 0 {
		r.fail("nothing playable found for %q", query)
		return
	}

	if err := request.Remember(query, link, 1); err != nil {
		log.Warnf("request registry: %v", err)
	}

	r.queue.AddAll(tracks)
	if len(tracks) == 1 {
		r.reply("%s Added %s", icon.Get(icon.Note), tracks[0])
	} else {
		r.reply("%s Added %s", icon.Get(icon.Note), util.Quantify(len(tracks), "track", "tracks"))
	}
}

func (r *Router) list() {
	pending := r.queue.Snapshot()
	if len(pending) == 0 {
		r.reply("%s The queue is empty", icon.Get(icon.Queue))
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s queued", icon.Get(icon.Queue), util.Quantify(len(pending), "track", "tracks"))
	for i, t := range pending {
		if i == listLimit {
			fmt.Fprintf(&sb, "\n… and %s more", strconv.Itoa(len(pending)-listLimit))
			break
		}
		fmt.Fprintf(&sb, "\n%d. %s", i+1, t)
	}
	r.reply("%s", sb.String())
}

func (r *Router) delete(args []string) {
	indices, ok := parsePositions(args)
	if !ok || len(indices) == 0 {
		r.fail("delete which positions? e.g. delete 1 3")
		return
	}

	removed := r.queue.Delete(indices...)
	if len(removed) == 0 {
		r.fail("no such positions")
		return
	}
	r.reply("%s Removed %s", icon.Get(icon.Success), util.Quantify(len(removed), "track", "tracks"))
}

func (r *Router) move(args []string) {
	if len(args) < 2 {
		r.fail("move which positions where? e.g. move 3 1")
		return
	}

	indices, ok := parsePositions(args[:len(args)-1])
	if !ok || len(indices) == 0 {
		r.fail("move which positions where? e.g. move 3 1")
		return
	}
	dest, err := strconv.Atoi(args[len(args)-1])
	if err != nil || dest < 1 {
		r.fail("the destination must be a position, e.g. move 3 1")
		return
	}

	if r.queue.Move(indices, dest-1) {
		r.reply("%s Moved to the end of the queue", icon.Get(icon.Success))
	} else {
		r.reply("%s Moved", icon.Get(icon.Success))
	}
}

func (r *Router) nowPlaying() {
	now, ok := r.queue.NowPlaying().Get()
	if !ok {
		r.reply("%s Nothing is playing", icon.Get(icon.Stop))
		return
	}

	msg := fmt.Sprintf("%s %s", icon.Get(icon.Note), now.Track)
	if now.Length > 0 {
		msg += fmt.Sprintf(" [%s/%s]", util.FormatDuration(now.Elapsed), util.FormatDuration(now.Length))
	}
	r.reply("%s", msg)
}

func (r *Router) suggest(q string) {
	if q == "" {
		r.fail("suggest from what? give me a few letters")
		return
	}

	record, ok := request.Suggest(q).Get()
	if !ok {
		r.reply("no past requests match %q", q)
		return
	}
	r.reply("%s How about %q? (requested %s)", icon.Get(icon.Note), record.Query,
		util.Quantify(record.Rank, "time", "times"))
}

func (r *Router) top() {
	records := request.Top(5)
	if len(records) == 0 {
		r.reply("nobody has requested anything yet")
		return
	}

	var sb strings.Builder
	sb.WriteString(icon.Get(icon.Queue) + " Most requested")
	for i, record := range records {
		fmt.Fprintf(&sb, "\n%d. %s (%s)", i+1, record.Query, util.Quantify(record.Rank, "request", "requests"))
	}
	r.reply("%s", sb.String())
}

// parsePositions converts 1-based chat positions into queue indices.
func parsePositions(args []string) ([]int, bool) {
	indices := make([]int, 0, len(args))
	for _, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 {
			return nil, false
		}
		indices = append(indices, n-1)
	}
	return indices, true
}

func playableOnly(tracks []track.Track) []track.Track {
	kept := make([]track.Track, 0, len(tracks))
	for _, t := range tracks {
		if t.Playable {
			kept = append(kept, t)
		}
	}
	return kept
}
