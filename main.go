// Package main is the entry point for the songbot application.
package main

import (
	"github.com/samber/lo"

	"github.com/songbot-cli/songbot/cmd"
	"github.com/songbot-cli/songbot/config"
	"github.com/songbot-cli/songbot/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
