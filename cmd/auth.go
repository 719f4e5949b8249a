// Package cmd implements the command-line interface for songbot.
package cmd

import (
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/songbot-cli/songbot/auth"
	"github.com/songbot-cli/songbot/color"
	"github.com/songbot-cli/songbot/icon"
	"github.com/songbot-cli/songbot/style"
)

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authSetCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authDeleteCmd)
}

// authCmd manages the chat-backend credential stored in the system keyring.
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the chat-backend token in the system keyring",
}

// authSetCmd stores the chat-backend token.
var authSetCmd = &cobra.Command{
	Use:   "set [token]",
	Short: "Store the chat-backend token",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var token string
		if len(args) == 1 {
			token = args[0]
		} else {
			prompt := &survey.Password{Message: "Chat backend token:"}
			handleErr(survey.AskOne(prompt, &token))
		}

		if token == "" {
			handleErr(errors.New("no token given"))
		}

		handleErr(auth.SetToken(token))
		fmt.Printf("%s token stored\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}

// authStatusCmd reports whether a token is stored without printing it.
var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether a chat-backend token is stored",
	Run: func(cmd *cobra.Command, args []string) {
		if _, err := auth.GetToken(); err != nil {
			fmt.Printf("%s no token stored\n", icon.Get(icon.Fail))
			return
		}
		fmt.Printf("%s a token is stored\n", icon.Get(icon.Success))
	},
}

// authDeleteCmd removes the stored token.
var authDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove the stored chat-backend token",
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(auth.DeleteToken())
		fmt.Printf("%s token removed\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}
