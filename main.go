// Package main is the entry point of snapkit.
package main

import (
	"github.com/samber/lo"
	"github.com/snapkit-cli/snapkit/cmd"
	"github.com/snapkit-cli/snapkit/config"
	"github.com/snapkit-cli/snapkit/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())
	cmd.Execute()
}
