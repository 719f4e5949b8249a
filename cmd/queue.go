// Package cmd implements the command-line interface for songbot.
package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/songbot-cli/songbot/history"
	"github.com/songbot-cli/songbot/icon"
	"github.com/songbot-cli/songbot/request"
	"github.com/songbot-cli/songbot/track"
	"github.com/songbot-cli/songbot/util"
)

func init() {
	rootCmd.AddCommand(queueCmd)
}

// queueCmd groups offline inspection of the jukebox's persisted state.
// The live queue is owned by a running daemon; these subcommands read only
// what survives on disk.
var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Inspect persisted jukebox state",
}

func init() {
	queueCmd.AddCommand(queueHistoryCmd)
	queueHistoryCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON string")
	queueHistoryCmd.SetOut(os.Stdout)
}

// queueHistoryCmd lists previously played tracks.
var queueHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List previously played tracks",
	Run: func(cmd *cobra.Command, args []string) {
		saved, err := history.Get()
		handleErr(err)

		records := lo.Values(saved)
		sort.Slice(records, func(i, j int) bool {
			return records[i].PlayedAt.After(records[j].PlayedAt)
		})

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(records))
			return
		}

		if len(records) == 0 {
			cmd.Println("no tracks played yet")
			return
		}

		for _, record := range records {
			cmd.Printf("%s %s (%s, %s)\n",
				icon.Get(icon.Note),
				record.Track(),
				record.PlayedAt.Format("2006-01-02 15:04"),
				util.Quantify(record.Plays, "play", "plays"),
			)
		}
	},
}

func init() {
	queueCmd.AddCommand(queueTopCmd)
	queueTopCmd.Flags().IntP("count", "n", 10, "Number of entries to list")
	queueTopCmd.SetOut(os.Stdout)
}

// queueTopCmd lists the most requested entries of all time.
var queueTopCmd = &cobra.Command{
	Use:   "top",
	Short: "List the most requested tracks",
	Run: func(cmd *cobra.Command, args []string) {
		records := request.Top(lo.Must(cmd.Flags().GetInt("count")))
		if len(records) == 0 {
			cmd.Println("nobody has requested anything yet")
			return
		}

		for i, record := range records {
			cmd.Printf("%d. %s (%s)\n", i+1, record.Query,
				util.Quantify(record.Rank, "request", "requests"))
		}
	},
}

func init() {
	queueCmd.AddCommand(queueSchemaCmd)
	queueSchemaCmd.Flags().BoolP("history", "s", false, "Generate the JSON Schema for play-history records")
}

// queueSchemaCmd generates JSON schemas for the structured outputs.
var queueSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Generate JSON schemas for structured outputs",
	Run: func(cmd *cobra.Command, args []string) {
		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true
		reflector.Namer = func(t reflect.Type) string {
			name := t.Name()
			switch strings.ToLower(name) {
			case "track", "savedtrack":
				return filepath.Base(t.PkgPath()) + "." + name
			}

			return name
		}

		var schema *jsonschema.Schema

		switch {
		case lo.Must(cmd.Flags().GetBool("history")):
			schema = reflector.Reflect([]*history.SavedTrack{})
		default:
			schema = reflector.Reflect(&track.Track{})
		}

		handleErr(json.NewEncoder(os.Stdout).Encode(schema))
	},
}
