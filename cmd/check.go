// Package cmd implements the command-line interface for songbot.
package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/songbot-cli/songbot/color"
	"github.com/songbot-cli/songbot/icon"
	"github.com/songbot-cli/songbot/key"
	"github.com/songbot-cli/songbot/style"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

// checkCmd verifies the presence of the external binaries the daemon depends on.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the external binaries required for playback",
	Run: func(cmd *cobra.Command, args []string) {
		ok := true
		for _, dep := range requiredBinaries() {
			if _, err := exec.LookPath(dep); err != nil {
				ok = false
				fmt.Printf("%s %s missing\n", icon.Get(icon.Fail), dep)
			} else {
				fmt.Printf("%s %s\n", icon.Get(icon.Success), dep)
			}
		}
		if !ok {
			os.Exit(1)
		}
	},
}

// requiredBinaries lists the control channel tools and the configured players.
func requiredBinaries() []string {
	return []string{
		"qdbus",
		"dbus-send",
		"pactl",
		"spotify",
		viper.GetString(key.PlayerLocal),
	}
}

// CheckDependencies aborts with a highlighted report when a control channel tool
// is absent. Missing players surface later, at launch time, with a softer error.
func CheckDependencies() {
	for _, dep := range []string{"qdbus", "dbus-send"} {
		if _, err := exec.LookPath(dep); err != nil {
			printMissingDependencyError(dep)
			os.Exit(1)
		}
	}
}

func printMissingDependencyError(dep string) {
	var installCmd string
	switch runtime.GOOS {
	case "darwin":
		installCmd = "brew install qt"
	case "linux":
		installCmd = "sudo apt install qttools5-dev-tools dbus" // Generic, maybe check distro
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color.HiRed).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(color.HiRed).
		Render(fmt.Sprintf("%s Error: Missing Dependency", icon.Get(icon.Fail)))
	body := fmt.Sprintf("The required dependency '%s' was not found in your PATH.", dep)

	suggestion := ""
	if installCmd != "" {
		suggestion = fmt.Sprintf("\n\nTo install it, try running:\n  %s",
			style.New().Foreground(color.Orange).Bold(true).Render(installCmd))
	}

	fmt.Println(box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	))
}
