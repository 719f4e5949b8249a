// Package cmd implements the command-line interface for songbot.
package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/songbot-cli/songbot/bridge"
	"github.com/songbot-cli/songbot/catalog"
	"github.com/songbot-cli/songbot/chat"
	"github.com/songbot-cli/songbot/color"
	"github.com/songbot-cli/songbot/icon"
	"github.com/songbot-cli/songbot/playback"
	"github.com/songbot-cli/songbot/proc"
	"github.com/songbot-cli/songbot/queue"
	"github.com/songbot-cli/songbot/style"
)

func init() {
	rootCmd.AddCommand(runCmd)
}

// runCmd starts the jukebox daemon: chat commands in on stdin, announcements out
// on stdout, external players driven underneath.
var runCmd = &cobra.Command{
	Use:     "run",
	Short:   "Run the jukebox daemon, reading chat commands line by line",
	Example: "  echo 'add https://youtu.be/dQw4w9WgXcQ' | songbot run",
	Run: func(cmd *cobra.Command, args []string) {
		CheckDependencies()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		gateway := &chat.WriterGateway{W: os.Stdout}
		notifier := chat.NewNotifier(gateway)

		// The queue consumes the machine's events and also drives it, so the
		// machine gets a relay that is bound once the queue exists.
		relay := &playback.Relay{}
		machine := playback.NewMachine(bridge.New(bridge.NewExecRunner()), proc.NewManager(), relay, catalog.Probe)
		manager := queue.NewManager(machine, notifier, catalog.Probe)
		relay.Bind(manager)

		router := chat.NewRouter(manager, catalog.LinkResolver{}, gateway)

		fmt.Printf("%s %s\n",
			icon.Get(icon.Note),
			style.Fg(color.HiPurple)("songbot is listening, type help for commands"))

		lines := make(chan string)
		go func() {
			defer close(lines)
			scanner := bufio.NewScanner(os.Stdin)
			for scanner.Scan() {
				lines <- scanner.Text()
			}
		}()

		for {
			select {
			case <-ctx.Done():
				// Teardown still needs a live context for the stop directives.
				manager.Stop(context.Background())
				return
			case line, ok := <-lines:
				if !ok {
					manager.Stop(context.Background())
					return
				}
				router.Handle(ctx, line)
			}
		}
	},
}
