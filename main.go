// main is the entry point for the marquee CLI.
package main

import (
	"github.com/huangsam/marquee/cmd"
	"github.com/huangsam/marquee/internal/contract"
	"github.com/huangsam/marquee/internal/iocache"
)

func main() {
	cmd.SetHistoryManager(iocache.Manager)
	err := cmd.Execute()
	iocache.CloseHistory()
	if err != nil {
		contract.LogFatal("marquee failed", err)
	}
}
