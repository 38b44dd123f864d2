// Package main is the entry point for eyedrop.
package main

import (
	"time"

	"github.com/eyedrop-cli/eyedrop/cmd"
	"github.com/eyedrop-cli/eyedrop/config"
	"github.com/eyedrop-cli/eyedrop/internal/cache"
	"github.com/eyedrop-cli/eyedrop/log"
	"github.com/eyedrop-cli/eyedrop/where"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	go cache.CollectGarbage(time.Now(), cache.TTL, where.Logs(), where.Cache())

	cmd.Execute()
}
